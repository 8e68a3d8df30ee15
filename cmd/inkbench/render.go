package main

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/ink"
)

type renderOptions struct {
	configPath string
	width      int
	height     int
	strokes    int
	seed       int64
	workers    int
	rasterizer string
	samples    int
	zoom       float64
	output     string
}

func newRenderCmd() *cobra.Command {
	var o renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw random strokes sample by sample and render every frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.OutOrStdout(), o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", "", "TOML config file")
	f.IntVar(&o.width, "width", 1280, "screen width")
	f.IntVar(&o.height, "height", 720, "screen height")
	f.IntVarP(&o.strokes, "strokes", "n", 200, "number of strokes")
	f.Int64Var(&o.seed, "seed", 1, "random seed")
	f.IntVarP(&o.workers, "workers", "w", -1, "worker count, 0 for GOMAXPROCS (default from config)")
	f.StringVar(&o.rasterizer, "rasterizer", "", "auto, scalar or simd (default from config)")
	f.IntVar(&o.samples, "samples", 0, "samples per pixel, 4 or 16 (default from config)")
	f.Float64Var(&o.zoom, "zoom", 1, "zoom factor applied around the screen center before the final frame")
	f.StringVarP(&o.output, "output", "o", "", "write the final frame as PNG")
	return cmd
}

func runRender(w io.Writer, o renderOptions) error {
	cfg := ink.DefaultConfig()
	if o.configPath != "" {
		var err error
		if cfg, err = ink.LoadConfig(o.configPath); err != nil {
			return err
		}
	}
	opts := []ink.Option{ink.WithConfig(cfg)}
	if o.workers >= 0 {
		opts = append(opts, ink.WithWorkers(o.workers))
	}
	if o.rasterizer != "" {
		opts = append(opts, ink.WithRasterizer(o.rasterizer))
	}
	if o.samples != 0 {
		opts = append(opts, ink.WithSamples(o.samples))
	}

	e, err := ink.NewEngine(o.width, o.height, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	var b bench
	b.add(e.Render(image.Rectangle{}, ink.QualityRedraw))

	gen := newGenerator(o.seed, o.width, o.height)
	start := time.Now()
	for i := 0; i < o.strokes; i++ {
		s := gen.stroke()
		if err := e.BeginStroke(s.radius, s.color); err != nil {
			return err
		}
		for _, smp := range s.samples {
			dirty, err := e.AddSample(smp.pos, smp.pressure)
			if err != nil {
				return err
			}
			b.add(e.Render(dirty, 0))
		}
		e.EndStroke()
	}
	drawing := time.Since(start)

	if o.zoom != 1 {
		center := image.Pt(o.width/2, o.height/2)
		e.ZoomAt(center, o.zoom)
	}
	final := e.Render(image.Rectangle{}, ink.FullRedraw|ink.QualityRedraw)
	b.add(final)
	if final.Err != nil {
		return final.Err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "rasterizer\t%s\n", e.Rasterizer())
	fmt.Fprintf(tw, "strokes\t%d\n", e.Canvas().Len())
	fmt.Fprintf(tw, "frames\t%d\n", b.frames)
	fmt.Fprintf(tw, "drawing time\t%v\n", drawing.Round(time.Millisecond))
	fmt.Fprintf(tw, "mean frame\t%v\n", b.mean().Round(time.Microsecond))
	fmt.Fprintf(tw, "worst frame\t%v\n", b.worst.Round(time.Microsecond))
	fmt.Fprintf(tw, "reduced quality frames\t%d\n", b.reduced)
	fmt.Fprintf(tw, "tiles\t%d\n", b.tiles)
	fmt.Fprintf(tw, "pixels\t%d\n", b.pixels)
	fmt.Fprintf(tw, "abandoned tiles\t%d\n", b.abandoned)
	fmt.Fprintf(tw, "final frame\t%v (%d tiles)\n", final.Elapsed.Round(time.Microsecond), final.Tiles)
	if err := tw.Flush(); err != nil {
		return err
	}

	if o.output != "" {
		return writePNG(o.output, e.Image())
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("inkbench: encode %s: %w", path, err)
	}
	return f.Close()
}

// bench accumulates frame statistics.
type bench struct {
	frames    int
	total     time.Duration
	worst     time.Duration
	reduced   int
	tiles     int
	pixels    int
	abandoned int
}

func (b *bench) add(st ink.FrameStats) {
	if st.Passes == 0 {
		return
	}
	b.frames++
	b.total += st.Elapsed
	b.worst = max(b.worst, st.Elapsed)
	if !st.Complete {
		b.reduced++
	}
	b.tiles += st.Tiles
	b.pixels += st.Pixels
	b.abandoned += st.Abandoned
}

func (b *bench) mean() time.Duration {
	if b.frames == 0 {
		return 0
	}
	return b.total / time.Duration(b.frames)
}
