// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package present uploads frames rendered by an ink.Engine to a GPU texture
// and draws it into a gogpu window.
//
// The data flow is:
//
//	ink.Engine (render) -> image.RGBA (CPU) -> GPU texture -> window
//
// # Usage
//
//	p, err := present.NewForProvider(engine, app.GPUContextProvider())
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    stats := engine.Render(dirty, 0)
//	    p.Invalidate(stats.Dirty)
//	    p.RenderTo(dc.AsTextureDrawer(), 0, 0)
//	})
//
// # Uploads
//
// The first frame, and every frame after a size change, uploads the whole
// image when the texture is created. After that only the invalidated
// rectangle is uploaded, when the texture supports region updates.
//
// # Thread Safety
//
// Presenter is NOT safe for concurrent use.
package present
