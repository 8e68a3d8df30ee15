// Package ink renders freehand ink strokes into a raster image.
//
// # Overview
//
// A Canvas holds layers of strokes. Each stroke is a polyline in integer
// canvas coordinates with one pressure value per point, painted with a
// round brush. The canvas is practically unbounded: coordinates are int64
// and a View maps an arbitrary pan and zoom of it onto the screen.
//
// An Engine turns the canvas into pixels. It redraws only the dirty part of
// the screen, cut into square tiles that a fixed pool of workers clips and
// rasterizes in parallel, and it refines progressively: a frame starts with
// coarse pixel blocks and halves their size while the frame budget allows,
// with a full quality redraw once input goes idle.
//
// # Quick Start
//
//	e, err := ink.NewEngine(1280, 720)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Close()
//
//	e.BeginStroke(4, ink.RGBA(0, 0, 0, 1))
//	for _, s := range samples {
//	    e.AddSample(s.Pos, s.Pressure)
//	}
//	e.EndStroke()
//
//	stats := e.Render(e.View().Screen(), ink.FullRedraw)
//	e.Present(dst, stats.Dirty)
//
// # Coordinate System
//
//   - Canvas space: int64, origin at the canvas center
//   - Raster space: screen pixels, origin at top-left, Y down
//   - View.Scale is canvas units per pixel; larger is further zoomed out
//
// # Colors
//
// Colors are linear and premultiplied. Output is gamma encoded, with the
// sRGB curve or a faster square root approximation.
//
// # Logging
//
// ink is silent by default. See SetLogger.
package ink
