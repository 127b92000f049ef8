package asset

import (
	"context"
	"fmt"
	"math"

	"github.com/ByLCY/redcanvas/editor"
)

// Ingest opens ref and turns it into the state change that installs it.
// The returned handle keeps the image alive; the caller owns it.
func Ingest(ctx context.Context, reg *Registry, ref string) (editor.SetImage, *Handle, error) {
	h, err := reg.Acquire(ctx, ref)
	if err != nil {
		return editor.SetImage{}, nil, err
	}
	ratio := h.AspectRatio()
	if ratio <= 0 || math.IsInf(ratio, 0) || math.IsNaN(ratio) {
		h.Release()
		return editor.SetImage{}, nil, fmt.Errorf("%w: %s: aspect ratio %g", ErrMalformed, shortRef(ref), ratio)
	}
	return editor.SetImage{URL: ref, AspectRatio: ratio}, h, nil
}

// Holder keeps exactly one handle: the one for the image the state currently shows.
type Holder struct {
	reg *Registry
	cur *Handle
}

func NewHolder(reg *Registry) *Holder { return &Holder{reg: reg} }

// Sync makes the holder track ref. Switching images releases the previous
// handle only after the new one is open; an empty ref releases everything.
func (h *Holder) Sync(ctx context.Context, ref string) error {
	if h.cur != nil && h.cur.Ref() == ref {
		return nil
	}
	if ref == "" {
		h.Release()
		return nil
	}
	next, err := h.reg.Acquire(ctx, ref)
	if err != nil {
		return err
	}
	h.Release()
	h.cur = next
	return nil
}

// Current returns the held handle, or nil.
func (h *Holder) Current() *Handle { return h.cur }

func (h *Holder) Release() {
	if h.cur != nil {
		h.cur.Release()
		h.cur = nil
	}
}
