// Package asset opens cover images and keeps them alive while they are
// referenced.
//
// Every open image is reference counted. A Handle is one reference: the
// decoded pixels are dropped when the last handle is released. The export
// pipeline holds extra handles for the duration of a render so that a
// concurrent state change cannot pull an image out from under it.
package asset

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/redcanvas/cache"
)

var (
	// ErrUnsupportedRef is returned for refs with an unknown scheme.
	ErrUnsupportedRef = errors.New("unsupported image reference")
	// ErrNotOpen is returned by Image and Retain for refs without a live handle.
	ErrNotOpen = errors.New("image is not open")
	// ErrMalformed is returned when the bytes are not a decodable image.
	ErrMalformed = errors.New("malformed image")
)

// Options configures a Registry.
type Options struct {
	Cache      cache.Cache   // remote downloads; nil disables caching
	CacheTTL   time.Duration // <=0 keeps entries forever
	Timeout    time.Duration // per download, default 15s
	RetryDelay time.Duration // first backoff for 5xx responses, default 500ms
	MaxBytes   int64         // download limit, default 32 MiB
	BaseDir    string        // relative paths are resolved against it
	Client     *http.Client
	Logger     *log.Logger
}

const (
	defaultTimeout    = 15 * time.Second
	defaultRetryDelay = 500 * time.Millisecond
	defaultMaxBytes   = 32 << 20
)

// Registry owns the decoded images.
type Registry struct {
	opts   Options
	client *http.Client
	logger *log.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	img  image.Image
	refs int
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaultMaxBytes
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Registry{opts: opts, client: client, logger: logger, entries: map[string]*entry{}}
}

// Handle is one reference to an open image.
type Handle struct {
	reg  *Registry
	ref  string
	img  image.Image
	once sync.Once
}

// Ref returns the reference the handle was opened with.
func (h *Handle) Ref() string { return h.ref }

func (h *Handle) Image() image.Image { return h.img }

// AspectRatio returns width / height, or 0 for an empty image.
func (h *Handle) AspectRatio() float64 {
	b := h.img.Bounds()
	if b.Dy() == 0 {
		return 0
	}
	return float64(b.Dx()) / float64(b.Dy())
}

// Release drops this reference. Calling it more than once is a no-op.
func (h *Handle) Release() {
	h.once.Do(func() { h.reg.release(h.ref) })
}

// Acquire opens ref (or reuses the already decoded image) and returns a new handle.
func (r *Registry) Acquire(ctx context.Context, ref string) (*Handle, error) {
	if h, ok := r.retain(ref); ok {
		return h, nil
	}
	img, err := r.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ref]
	if !ok {
		// 并发打开同一 ref 时以先完成者为准
		e = &entry{img: img}
		r.entries[ref] = e
		r.logger.Debug("image opened", "ref", shortRef(ref), "size", img.Bounds().Size())
	}
	e.refs++
	return &Handle{reg: r, ref: ref, img: e.img}, nil
}

// Retain adds a reference to an image that is already open.
func (r *Registry) Retain(ref string) (*Handle, error) {
	if h, ok := r.retain(ref); ok {
		return h, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotOpen, shortRef(ref))
}

func (r *Registry) retain(ref string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ref]
	if !ok {
		return nil, false
	}
	e.refs++
	return &Handle{reg: r, ref: ref, img: e.img}, true
}

func (r *Registry) release(ref string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[ref]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(r.entries, ref)
		r.logger.Debug("image released", "ref", shortRef(ref))
	}
}

// Hold acquires every ref and returns a function that releases them all.
// On error nothing stays acquired.
func (r *Registry) Hold(ctx context.Context, refs []string) (func(), error) {
	handles := make([]*Handle, 0, len(refs))
	releaseAll := func() {
		for _, h := range handles {
			h.Release()
		}
	}
	for _, ref := range refs {
		h, err := r.Acquire(ctx, ref)
		if err != nil {
			releaseAll()
			return nil, err
		}
		handles = append(handles, h)
	}
	return releaseAll, nil
}

// Image serves the renderer. The ref must be open.
func (r *Registry) Image(ref string) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[ref]; ok {
		return e.img, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotOpen, shortRef(ref))
}

// Open reports the number of live references for ref.
func (r *Registry) Open(ref string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[ref]; ok {
		return e.refs
	}
	return 0
}

// shortRef keeps data: URIs out of log lines.
func shortRef(ref string) string {
	if len(ref) > 64 {
		return ref[:61] + "..."
	}
	return ref
}
