package icons

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"strings"
	"time"

	// Decoders for the common marker icon formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// HTTPLoader fetches icons over HTTP(S), or from the local filesystem when
// the URL has no scheme, and decodes them with the registered image formats.
//
// Every load runs on its own goroutine, satisfying the Loader contract.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader with a 30 second request timeout.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{Client: &http.Client{Timeout: 30 * time.Second}}
}

// Load implements Loader.
func (l *HTTPLoader) Load(url string, done func(image.Image, error)) {
	go func() {
		done(l.fetch(url))
	}()
}

func (l *HTTPLoader) fetch(url string) (image.Image, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		resp, err := l.Client.Get(url)
		if err != nil {
			return nil, fmt.Errorf("fetch icon: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch icon %s: %s", url, resp.Status)
		}
		img, _, err := image.Decode(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("decode icon %s: %w", url, err)
		}
		return img, nil
	}

	f, err := os.Open(url)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode icon %s: %w", url, err)
	}
	return img, nil
}
