// Package icons deduplicates marker icon loading by URL and defers draw
// requests until image data is available.
//
// Every URL is fetched at most once. A cache entry moves from pending to
// exactly one of loaded or failed and never reverts: a failed URL stays
// failed for the process lifetime, so a flaky asset is reported once and
// never hammered with retries.
package icons

import (
	"image"
	"sync"

	"github.com/rs/zerolog"
)

// Status is the load state of a cache entry.
type Status int

const (
	// StatusPending means the image load is in flight.
	StatusPending Status = iota
	// StatusLoaded means the image is available for immediate drawing.
	StatusLoaded
	// StatusFailed means the load failed; all draws for the URL are
	// suppressed from now on.
	StatusFailed
)

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusLoaded:
		return "loaded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Loader fetches and decodes an image by URL.
//
// done must be invoked asynchronously, never from inside Load: the cache may
// be holding locks when it starts a load, and the flush callback re-enters
// the engine.
type Loader interface {
	Load(url string, done func(image.Image, error))
}

// FlushFunc receives the decoded image and the queued marker IDs, in enqueue
// order, once a pending load completes.
//
// Implementations must resolve the IDs against the live marker set (dropping
// markers removed during the load) and recompute each screen position from
// the current viewport. The viewport may have changed while the load was in
// flight, so positions captured at request time are stale by construction.
type FlushFunc func(url string, img image.Image, markerIDs []string)

// cacheEntry tracks one icon URL and the draws waiting on it.
type cacheEntry struct {
	status Status
	img    image.Image
	queue  []string // marker IDs, enqueue order
}

// Cache is the icon cache. Safe for concurrent use; load completions arrive
// on loader goroutines.
type Cache struct {
	mu     sync.Mutex
	loader Loader
	flush  FlushFunc
	log    zerolog.Logger
	urls   map[string]*cacheEntry
}

// New creates a cache that loads through loader and hands completed queues
// to flush.
func New(loader Loader, flush FlushFunc, log zerolog.Logger) *Cache {
	return &Cache{
		loader: loader,
		flush:  flush,
		log:    log,
		urls:   make(map[string]*cacheEntry),
	}
}

// Request records a draw request for markerID against url.
//
//   - Unseen URL: an asynchronous load is started, the request is queued,
//     and (nil, StatusPending) is returned.
//   - Pending URL: the request is queued behind the in-flight load.
//   - Loaded URL: the shared image handle is returned; the caller draws
//     immediately.
//   - Failed URL: the request is dropped silently. The failure was reported
//     when the load first failed.
func (c *Cache) Request(url, markerID string) (image.Image, Status) {
	c.mu.Lock()
	e, ok := c.urls[url]
	if !ok {
		c.urls[url] = &cacheEntry{status: StatusPending, queue: []string{markerID}}
		c.mu.Unlock()
		c.loader.Load(url, c.completion(url))
		return nil, StatusPending
	}
	switch e.status {
	case StatusLoaded:
		img := e.img
		c.mu.Unlock()
		return img, StatusLoaded
	case StatusFailed:
		c.mu.Unlock()
		return nil, StatusFailed
	default:
		e.queue = append(e.queue, markerID)
		c.mu.Unlock()
		return nil, StatusPending
	}
}

// completion returns the done callback for url. The entry transitions
// exactly once; late or duplicate completions are ignored.
func (c *Cache) completion(url string) func(image.Image, error) {
	return func(img image.Image, err error) {
		c.mu.Lock()
		e := c.urls[url]
		if e == nil || e.status != StatusPending {
			c.mu.Unlock()
			return
		}
		if err != nil {
			e.status = StatusFailed
			e.queue = nil
			c.mu.Unlock()
			c.log.Error().Err(err).Str("url", url).Msg("icon load failed")
			return
		}
		e.status = StatusLoaded
		e.img = img
		queued := e.queue
		e.queue = nil
		c.mu.Unlock()

		if c.flush != nil && len(queued) > 0 {
			c.flush(url, img, queued)
		}
	}
}

// Image returns the shared image handle for url if it has loaded.
func (c *Cache) Image(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.urls[url]
	if !ok || e.status != StatusLoaded {
		return nil, false
	}
	return e.img, true
}

// Status returns the load state of url. ok is false for unseen URLs.
func (c *Cache) Status(url string) (Status, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.urls[url]
	if !ok {
		return 0, false
	}
	return e.status, true
}

// Stats holds cache counters.
type Stats struct {
	Pending     int // URLs with loads in flight
	Loaded      int // URLs with images available
	Failed      int // URLs with sticky failures
	QueuedDraws int // draw requests waiting on pending loads
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var st Stats
	for _, e := range c.urls {
		switch e.status {
		case StatusPending:
			st.Pending++
			st.QueuedDraws += len(e.queue)
		case StatusLoaded:
			st.Loaded++
		case StatusFailed:
			st.Failed++
		}
	}
	return st
}
