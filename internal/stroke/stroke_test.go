package stroke

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
)

func TestNewValidates(t *testing.T) {
	brush := Brush{Radius: 4}
	tests := []struct {
		name      string
		brush     Brush
		points    []geom.V2
		pressures []float32
		want      error
	}{
		{"empty", brush, nil, nil, ErrEmptyStroke},
		{"mismatch", brush, []geom.V2{{}, {}}, []float32{1}, ErrPressureMismatch},
		{"zero pressure", brush, []geom.V2{{}}, []float32{0}, ErrPressureRange},
		{"pressure above one", brush, []geom.V2{{}}, []float32{1.5}, ErrPressureRange},
		{"zero radius", Brush{}, []geom.V2{{}}, []float32{1}, ErrNonPositiveRadius},
		{"too many", brush, make([]geom.V2, MaxPoints+1), make([]float32, MaxPoints+1), ErrTooManyPoints},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.brush, tt.points, tt.pressures, uuid.Nil)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBoundsEnlargedByRadius(t *testing.T) {
	s, err := New(Brush{Radius: 5}, []geom.V2{geom.Pt(0, 0), geom.Pt(10, -20)}, []float32{1, 0.5}, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, geom.RectFromPoints(geom.Pt(-5, -25), geom.Pt(15, 5)), s.Bounds)
}

func TestAddPointTracksBounds(t *testing.T) {
	s := Stroke{Brush: Brush{Radius: 2}}
	require.NoError(t, s.AddPoint(geom.Pt(0, 0), 1))
	require.NoError(t, s.AddPoint(geom.Pt(10, 0), 1))
	assert.Equal(t, geom.RectFromPoints(geom.Pt(-2, -2), geom.Pt(12, 2)), s.Bounds)
	assert.ErrorIs(t, s.AddPoint(geom.Pt(1, 1), 0), ErrPressureRange)

	full := Stroke{Brush: Brush{Radius: 1}}
	for i := 0; i < MaxPoints; i++ {
		require.NoError(t, full.AddPoint(geom.Pt(int64(i), 0), 1))
	}
	assert.ErrorIs(t, full.AddPoint(geom.Pt(0, 0), 1), ErrTooManyPoints)
}

func TestEraserBrush(t *testing.T) {
	bg := color.ColorF32{R: 1, G: 1, B: 1, A: 1}
	eraser := Brush{Radius: 1, Color: EraserColor}
	paint := Brush{Radius: 1, Color: color.ColorF32{R: 1, A: 1}}

	assert.True(t, eraser.IsEraser())
	assert.False(t, paint.IsEraser())
	assert.Equal(t, bg, eraser.PaintColor(bg))
	assert.Equal(t, paint.Color, paint.PaintColor(bg))
}

func TestCloneIsDeep(t *testing.T) {
	s, err := New(Brush{Radius: 1}, []geom.V2{geom.Pt(1, 2)}, []float32{1}, uuid.New())
	require.NoError(t, err)
	c := s.Clone()
	c.Points[0] = geom.Pt(9, 9)
	assert.Equal(t, geom.Pt(1, 2), s.Points[0])
	assert.Equal(t, s.LayerID, c.LayerID)
}
