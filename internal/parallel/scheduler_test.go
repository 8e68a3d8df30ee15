package parallel

import (
	"errors"
	"image"
	"sync/atomic"
	"testing"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/clip"
)

func testConfig(workers int) Config {
	return Config{Workers: workers, TileSize: 64, GroupSide: 4, PointsPerWorker: 256, StrokesPerWorker: 16}
}

func TestScheduler_Create(t *testing.T) {
	s, err := NewScheduler(1920, 1080, testConfig(4))
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	defer s.Close()

	if s.Pool().Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", s.Pool().Workers())
	}
	if s.Pool().Capacity() < s.Grid().MaxGroups() {
		t.Errorf("Capacity() = %d, want at least %d", s.Pool().Capacity(), s.Grid().MaxGroups())
	}
	for i := 0; i < 4; i++ {
		w := s.Pool().Worker(i)
		if w.Scratch.Points.Cap() != 256 || w.Scratch.Strokes.Cap() != 16 {
			t.Errorf("worker %d scratch = %d/%d, want 256/16", i, w.Scratch.Points.Cap(), w.Scratch.Strokes.Cap())
		}
		if got, want := w.Scratch.Wide.Cap(), clip.WideSize(256); got != want {
			t.Errorf("worker %d wide scratch = %d, want %d", i, got, want)
		}
	}
}

func TestScheduler_CreateInvalid(t *testing.T) {
	cfg := testConfig(2)
	cfg.PointsPerWorker = 0
	if _, err := NewScheduler(100, 100, cfg); err == nil {
		t.Error("NewScheduler with zero scratch should fail")
	}
}

func TestScheduler_RenderCountsTiles(t *testing.T) {
	s, err := NewScheduler(1920, 1080, testConfig(3))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var tiles atomic.Int64
	r := rendererFunc(func(w *Worker, g *Group) error {
		for range g.Tiles {
			tiles.Add(1)
			w.Rendered()
		}
		return nil
	})

	res := s.Render(image.Rect(10, 10, 300, 130), r)
	if res.Rect != image.Rect(0, 0, 320, 192) {
		t.Errorf("Rect = %v, want (0,0)-(320,192)", res.Rect)
	}
	if res.Tiles != 15 || tiles.Load() != 15 {
		t.Errorf("Tiles = %d, rendered %d, want 15", res.Tiles, tiles.Load())
	}
	if res.Pixels != 320*192 {
		t.Errorf("Pixels = %d, want %d", res.Pixels, 320*192)
	}
	if res.Groups != 2 {
		t.Errorf("Groups = %d, want 2", res.Groups)
	}
	if res.Err != nil || res.Abandoned != 0 {
		t.Errorf("Err = %v, Abandoned = %d", res.Err, res.Abandoned)
	}

	if res := s.Render(image.Rectangle{}, r); res.Groups != 0 {
		t.Errorf("empty render dispatched %d groups", res.Groups)
	}
}

func TestScheduler_AbandonedTilesRetry(t *testing.T) {
	s, err := NewScheduler(512, 512, testConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	starve := true
	r := rendererFunc(func(w *Worker, g *Group) error {
		for _, tile := range g.Tiles {
			if starve && tile.Min == image.Pt(64, 128) {
				w.Abandon(tile, arena.ErrOutOfMemory)
			}
		}
		return nil
	})

	res := s.Render(s.Grid().Bounds(), r)
	if res.Abandoned != 1 {
		t.Fatalf("Abandoned = %d, want 1", res.Abandoned)
	}

	retry, grown := s.Setup()
	if retry != image.Rect(64, 128, 128, 192) {
		t.Errorf("retry = %v, want the abandoned tile", retry)
	}
	if grown != 1 {
		t.Errorf("grown = %d, want 1", grown)
	}

	starve = false
	res = s.Render(retry, r)
	if res.Tiles != 1 || res.Abandoned != 0 {
		t.Errorf("retry frame: Tiles = %d, Abandoned = %d", res.Tiles, res.Abandoned)
	}
	if retry, grown := s.Setup(); !retry.Empty() || grown != 0 {
		t.Errorf("second Setup = %v, %d, want empty, 0", retry, grown)
	}
}

func TestScheduler_RenderErrors(t *testing.T) {
	s, err := NewScheduler(256, 256, testConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	errBad := errors.New("bad group")
	res := s.Render(s.Grid().Bounds(), rendererFunc(func(*Worker, *Group) error { return errBad }))
	if !errors.Is(res.Err, errBad) {
		t.Errorf("Err = %v, want %v", res.Err, errBad)
	}
}

func TestScheduler_ResizeGrowsCapacity(t *testing.T) {
	s, err := NewScheduler(256, 256, testConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Pool().Capacity() != 1 {
		t.Fatalf("Capacity() = %d, want 1", s.Pool().Capacity())
	}
	scratch := s.Pool().Worker(0).Scratch

	s.Resize(1920, 1080)
	if s.Pool().Capacity() < s.Grid().MaxGroups() {
		t.Errorf("after resize Capacity() = %d, want at least %d", s.Pool().Capacity(), s.Grid().MaxGroups())
	}
	if s.Pool().Worker(0).Scratch != scratch {
		t.Error("resize should keep worker scratch memory")
	}

	var n atomic.Int64
	res := s.Render(s.Grid().Bounds(), rendererFunc(func(_ *Worker, g *Group) error {
		n.Add(int64(len(g.Tiles)))
		return nil
	}))
	if res.Err != nil || n.Load() != 30*17 {
		t.Errorf("full render after resize: err %v, %d tiles, want %d", res.Err, n.Load(), 30*17)
	}
}

func TestScheduler_RenderAfterClose(t *testing.T) {
	s, err := NewScheduler(256, 256, testConfig(2))
	if err != nil {
		t.Fatal(err)
	}
	r := rendererFunc(func(w *Worker, g *Group) error {
		for range g.Tiles {
			w.Rendered()
		}
		return nil
	})
	s.Render(s.Grid().Bounds(), r)

	if got := s.Close(); got != 16 {
		t.Errorf("Close() = %d tiles, want 16", got)
	}
	if got := s.Close(); got != 0 {
		t.Errorf("second Close() = %d, want 0", got)
	}
	res := s.Render(s.Grid().Bounds(), r)
	if !errors.Is(res.Err, ErrClosed) || res.Tiles != 0 {
		t.Errorf("Render after Close = %+v, want ErrClosed", res)
	}
}
