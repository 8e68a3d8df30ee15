// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package present

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Common errors returned by Presenter operations.
var (
	// ErrClosed is returned when operations are attempted on a closed presenter.
	ErrClosed = errors.New("present: presenter is closed")

	// ErrNilSource is returned when a nil Source is passed.
	ErrNilSource = errors.New("present: nil source")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("present: nil DeviceProvider")

	// ErrNoTextureCreator is returned when the draw context has no texture
	// creator.
	ErrNoTextureCreator = errors.New("present: draw context has no TextureCreator")
)

// Source provides the rendered frame. *ink.Engine implements Source.
type Source interface {
	Image() *image.RGBA
}

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Presenter keeps a GPU texture in sync with a Source.
type Presenter struct {
	src     Source
	swizzle bool // upload in BGRA byte order

	texture    gpucontext.Texture
	oldTexture gpucontext.Texture // awaiting deferred destruction

	dirty  image.Rectangle
	closed bool

	// staging holds packed upload rows, reused between frames.
	staging []byte

	uploads Stats
}

// Stats counts uploads.
type Stats struct {
	Full    int
	Regions int
	Bytes   int
}

// New creates a presenter for src. format is the byte order the GPU side
// expects for uploads: BGRA formats get their red and blue bytes swapped.
func New(src Source, format gputypes.TextureFormat) (*Presenter, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	return &Presenter{src: src, swizzle: isBGRA(format)}, nil
}

// NewForProvider creates a presenter uploading in the surface format of
// provider.
func NewForProvider(src Source, provider gpucontext.DeviceProvider) (*Presenter, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return New(src, provider.SurfaceFormat())
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}

// Invalidate marks an area of the source image for upload.
func (p *Presenter) Invalidate(r image.Rectangle) {
	p.dirty = p.dirty.Union(r)
}

// Stats returns the upload counters.
func (p *Presenter) Stats() Stats {
	return p.uploads
}

// Texture returns the current texture without uploading.
// Returns nil if the texture hasn't been created yet.
func (p *Presenter) Texture() gpucontext.Texture {
	return p.texture
}

// Flush uploads the invalidated area and returns the texture. The texture
// is created with creator on the first call and whenever the source size
// has changed.
func (p *Presenter) Flush(creator gpucontext.TextureCreator) (gpucontext.Texture, error) {
	if p.closed {
		return nil, ErrClosed
	}
	img := p.src.Image()
	w, h := img.Rect.Dx(), img.Rect.Dy()

	// The old texture may still be referenced by in-flight GPU command
	// buffers; it is destroyed once the replacement has been written.
	if p.texture != nil && (p.texture.Width() != w || p.texture.Height() != h) {
		p.destroy(p.oldTexture)
		p.oldTexture = p.texture
		p.texture = nil
	}

	if p.texture == nil {
		if creator == nil {
			return nil, ErrNoTextureCreator
		}
		data := p.pack(img, img.Rect)
		tex, err := creator.NewTextureFromRGBA(w, h, data)
		if err != nil {
			return nil, fmt.Errorf("present: NewTextureFromRGBA failed: %w", err)
		}
		// ink frames are premultiplied.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}
		p.texture = tex
		p.destroy(p.oldTexture)
		p.oldTexture = nil
		p.dirty = image.Rectangle{}
		p.uploads.Full++
		p.uploads.Bytes += len(data)
		return p.texture, nil
	}

	r := p.dirty.Intersect(img.Rect)
	p.dirty = image.Rectangle{}
	if r.Empty() {
		return p.texture, nil
	}

	if ru, ok := p.texture.(gpucontext.TextureRegionUpdater); ok {
		data := p.pack(img, r)
		o := r.Min.Sub(img.Rect.Min)
		if err := ru.UpdateRegion(o.X, o.Y, r.Dx(), r.Dy(), data); err != nil {
			return nil, fmt.Errorf("present: region update failed: %w", err)
		}
		p.uploads.Regions++
		p.uploads.Bytes += len(data)
		return p.texture, nil
	}
	if u, ok := p.texture.(gpucontext.TextureUpdater); ok {
		data := p.pack(img, img.Rect)
		if err := u.UpdateData(data); err != nil {
			return nil, fmt.Errorf("present: texture update failed: %w", err)
		}
		p.uploads.Full++
		p.uploads.Bytes += len(data)
	}
	return p.texture, nil
}

// pack copies r of img into densely packed rows in upload byte order.
// Without swizzling, a full-width area is passed through without copying.
func (p *Presenter) pack(img *image.RGBA, r image.Rectangle) []byte {
	rowBytes := r.Dx() * 4
	if !p.swizzle && r.Min.X == img.Rect.Min.X && r.Max.X == img.Rect.Max.X && img.Stride == rowBytes {
		start := img.PixOffset(r.Min.X, r.Min.Y)
		return img.Pix[start : start+rowBytes*r.Dy()]
	}

	n := rowBytes * r.Dy()
	if cap(p.staging) < n {
		p.staging = make([]byte, n)
	}
	out := p.staging[:n]
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := img.Pix[img.PixOffset(r.Min.X, y):][:rowBytes]
		dst := out[(y-r.Min.Y)*rowBytes:][:rowBytes]
		copy(dst, src)
		if p.swizzle {
			for i := 0; i < rowBytes; i += 4 {
				dst[i], dst[i+2] = dst[i+2], dst[i]
			}
		}
	}
	return out
}

// RenderTo uploads pending changes and draws the texture at (x, y).
//
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer().
func (p *Presenter) RenderTo(dc gpucontext.TextureDrawer, x, y float32) error {
	if p.closed {
		return ErrClosed
	}
	tex, err := p.Flush(dc.TextureCreator())
	if err != nil {
		return err
	}
	return dc.DrawTexture(tex, x, y)
}

func (p *Presenter) destroy(tex gpucontext.Texture) {
	if d, ok := tex.(textureDestroyer); ok {
		d.Destroy()
	}
}

// Close releases the textures. Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.destroy(p.oldTexture)
	p.destroy(p.texture)
	p.oldTexture, p.texture = nil, nil
	p.src = nil
	p.staging = nil
	return nil
}
