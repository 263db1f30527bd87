package canvaslayer

import "fmt"

// ErrInvalidIcon indicates a marker whose icon cannot be drawn: missing URL
// or a non-positive pixel size. The marker is rejected; supply a corrected
// icon and add it again.
type ErrInvalidIcon struct {
	Reason string
}

func (e *ErrInvalidIcon) Error() string {
	return fmt.Sprintf("invalid marker icon: %s", e.Reason)
}

// ErrInvalidHost indicates the layer cannot attach to the given host:
// nil host or an empty drawable container.
type ErrInvalidHost struct {
	Reason string
}

func (e *ErrInvalidHost) Error() string {
	return fmt.Sprintf("invalid host: %s", e.Reason)
}
