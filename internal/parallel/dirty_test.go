package parallel

import (
	"image"
	"sync"
	"testing"
)

// =============================================================================
// DirtyRegion Creation Tests
// =============================================================================

func TestDirtyRegion_Create(t *testing.T) {
	tests := []struct {
		name           string
		tilesX, tilesY int
		tileSize       int
		wantNil        bool
	}{
		{"normal", 30, 17, 64, false},
		{"single", 1, 1, 64, false},
		{"zero width", 0, 10, 64, true},
		{"zero height", 10, 0, 64, true},
		{"zero tile", 10, 10, 0, true},
		{"negative", -1, 10, 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirtyRegion(tt.tilesX, tt.tilesY, tt.tileSize)
			if (d == nil) != tt.wantNil {
				t.Fatalf("NewDirtyRegion(%d, %d, %d) nil = %v, want %v",
					tt.tilesX, tt.tilesY, tt.tileSize, d == nil, tt.wantNil)
			}
			if d == nil {
				return
			}
			if !d.IsEmpty() {
				t.Error("new region should be empty")
			}
			if d.TilesX() != tt.tilesX || d.TilesY() != tt.tilesY {
				t.Errorf("dims = %dx%d, want %dx%d", d.TilesX(), d.TilesY(), tt.tilesX, tt.tilesY)
			}
		})
	}
}

// =============================================================================
// Mark Tests
// =============================================================================

func TestDirtyRegion_Mark(t *testing.T) {
	d := NewDirtyRegion(10, 10, 64)

	d.Mark(3, 4)
	if d.Count() != 1 {
		t.Errorf("Count() = %d, want 1", d.Count())
	}

	// Marking twice is idempotent.
	d.Mark(3, 4)
	if d.Count() != 1 {
		t.Errorf("Count() after re-mark = %d, want 1", d.Count())
	}
	if got, want := d.TakeBounds(), image.Rect(192, 256, 256, 320); got != want {
		t.Errorf("TakeBounds() = %v, want %v", got, want)
	}
}

func TestDirtyRegion_MarkOutOfBounds(t *testing.T) {
	d := NewDirtyRegion(4, 4, 64)

	d.Mark(-1, 0)
	d.Mark(0, -1)
	d.Mark(4, 0)
	d.Mark(0, 4)

	if !d.IsEmpty() {
		t.Errorf("out of bounds marks should be ignored, Count() = %d", d.Count())
	}
}

func TestDirtyRegion_MarkRect(t *testing.T) {
	tests := []struct {
		name  string
		rect  image.Rectangle
		count int
	}{
		{"inside one tile", image.Rect(10, 10, 20, 20), 1},
		{"exact tile", image.Rect(64, 64, 128, 128), 1},
		{"straddles four", image.Rect(60, 60, 70, 70), 4},
		{"row", image.Rect(0, 0, 640, 1), 10},
		{"clipped", image.Rect(-100, -100, 10, 10), 1},
		{"empty", image.Rectangle{}, 0},
		{"outside", image.Rect(1000, 1000, 2000, 2000), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDirtyRegion(10, 10, 64)
			d.MarkRect(tt.rect)
			if got := d.Count(); got != tt.count {
				t.Errorf("MarkRect(%v) marked %d tiles, want %d", tt.rect, got, tt.count)
			}
		})
	}
}

// =============================================================================
// TakeBounds Tests
// =============================================================================

func TestDirtyRegion_TakeBounds(t *testing.T) {
	d := NewDirtyRegion(10, 10, 64)

	if got := d.TakeBounds(); !got.Empty() {
		t.Errorf("TakeBounds() on clean region = %v, want empty", got)
	}

	d.Mark(1, 2)
	d.Mark(5, 3)
	want := image.Rect(64, 128, 384, 256)
	if got := d.TakeBounds(); got != want {
		t.Errorf("TakeBounds() = %v, want %v", got, want)
	}
	if !d.IsEmpty() {
		t.Error("TakeBounds should clear the region")
	}
}

func TestDirtyRegion_TakeBoundsAcrossWords(t *testing.T) {
	// 100 tiles span two 64-bit words.
	d := NewDirtyRegion(10, 10, 8)
	d.Mark(0, 0)
	d.Mark(9, 9)

	want := image.Rect(0, 0, 80, 80)
	if got := d.TakeBounds(); got != want {
		t.Errorf("TakeBounds() = %v, want %v", got, want)
	}
}

func TestDirtyRegion_TakeBoundsEmpties(t *testing.T) {
	d := NewDirtyRegion(8, 8, 64)
	d.MarkRect(image.Rect(0, 0, 512, 512))
	if d.Count() != 64 {
		t.Fatalf("Count() = %d, want 64", d.Count())
	}
	if got := d.TakeBounds(); got != image.Rect(0, 0, 512, 512) {
		t.Errorf("TakeBounds() = %v", got)
	}
	if !d.IsEmpty() {
		t.Error("TakeBounds should empty the region")
	}
}

// =============================================================================
// Concurrency Tests
// =============================================================================

func TestDirtyRegion_ConcurrentMark(t *testing.T) {
	d := NewDirtyRegion(32, 32, 16)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for ty := row; ty < 32; ty += 8 {
				for tx := 0; tx < 32; tx++ {
					d.Mark(tx, ty)
				}
			}
		}(g)
	}
	wg.Wait()

	if got := d.Count(); got != 32*32 {
		t.Errorf("Count() = %d, want %d", got, 32*32)
	}
}

// =============================================================================
// Benchmarks
// =============================================================================

func BenchmarkDirtyRegion_Mark(b *testing.B) {
	d := NewDirtyRegion(30, 17, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Mark(i%30, i%17)
	}
}

func BenchmarkDirtyRegion_TakeBounds(b *testing.B) {
	d := NewDirtyRegion(30, 17, 64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.Mark(i%30, i%17)
		d.Mark(29-i%30, 16-i%17)
		_ = d.TakeBounds()
	}
}
