// Package stroke holds the persistent ink data: brushes, strokes and the
// bucketed Store that owns them.
//
// # Store layout
//
// A Store keeps strokes in fixed-size buckets linked in a singly linked
// list. Each bucket's backing array is allocated once at full capacity, so
// a stroke never moves after it is appended: pointers returned by Append and
// At stay valid until the stroke is popped or the store is reset. Other
// layers (clipping caches, GPU mirrors) may therefore hold *Stroke values
// across frames.
//
// Each bucket tracks the union of its strokes' bounds so culling can reject
// a whole bucket before looking at individual strokes.
//
// # Concurrency
//
// A Store is mutated only by the main goroutine between frames and is read
// concurrently by render workers during a frame. It has no internal locking.
package stroke
