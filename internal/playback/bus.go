package playback

import (
	"image"
	"sync/atomic"
	"time"
)

// Frame is one published canvas with its sequence number and timestamp.
// Frames are immutable once published.
type Frame struct {
	Image *image.NRGBA
	Seq   uint64
	Stamp time.Time
}

// Bus is the thread-safe single-slot holder of the latest frame.
type Bus struct {
	current atomic.Pointer[Frame]
	seq     atomic.Uint64
}

// NewBus returns an empty bus; Latest returns nil until the first publish.
func NewBus() *Bus {
	return &Bus{}
}

// Publish swaps in img as the latest frame. The caller must not write to
// img afterwards.
func (b *Bus) Publish(img *image.NRGBA) {
	frame := &Frame{
		Image: img,
		Seq:   b.seq.Add(1),
		Stamp: time.Now(),
	}
	b.current.Store(frame)
}

// Latest returns the most recently published frame, or nil before the
// first publish. Non-blocking and O(1).
func (b *Bus) Latest() *Frame {
	return b.current.Load()
}
