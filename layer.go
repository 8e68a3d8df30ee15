package ink

import (
	"github.com/google/uuid"

	"github.com/gogpu/ink/internal/stroke"
)

// Layer is an ordered stack of strokes. Layers are composited bottom to
// top; within a layer, newer strokes are on top.
type Layer struct {
	ID      uuid.UUID
	Name    string
	Visible bool

	store *stroke.Store

	// graveyard holds undone strokes, newest last, until Redo brings them
	// back or a new stroke is committed.
	graveyard *stroke.Store
}

func newLayer(name string, bucketSize int) *Layer {
	return &Layer{
		ID:        uuid.New(),
		Name:      name,
		Visible:   true,
		store:     stroke.NewStore(bucketSize),
		graveyard: stroke.NewStore(bucketSize),
	}
}

// Len returns the number of strokes in the layer.
func (l *Layer) Len() int {
	return l.store.Len()
}

// Stroke returns stroke i, oldest first. It panics if i is out of range.
// The stroke must not be modified.
func (l *Layer) Stroke(i int) *stroke.Stroke {
	return l.store.At(i)
}

// CanUndo reports whether the layer has a stroke to undo.
func (l *Layer) CanUndo() bool {
	return l.store.Len() > 0
}

// CanRedo reports whether the layer has an undone stroke to restore.
func (l *Layer) CanRedo() bool {
	return l.graveyard.Len() > 0
}

// commit appends s and forgets every undone stroke.
func (l *Layer) commit(s stroke.Stroke) *stroke.Stroke {
	l.graveyard.Reset()
	s.LayerID = l.ID
	return l.store.Append(s)
}

func (l *Layer) undo() (stroke.Stroke, bool) {
	if l.store.Len() == 0 {
		return stroke.Stroke{}, false
	}
	s := l.store.Pop()
	l.graveyard.Append(s)
	return s, true
}

func (l *Layer) redo() (*stroke.Stroke, bool) {
	if l.graveyard.Len() == 0 {
		return nil, false
	}
	return l.store.Append(l.graveyard.Pop()), true
}

// clear removes every stroke, keeping the store's memory.
func (l *Layer) clear() {
	l.store.Reset()
	l.graveyard.Reset()
}
