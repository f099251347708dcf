package playback

import (
	"image"
	"sync"
	"testing"
)

func TestBusLatestNilBeforePublish(t *testing.T) {
	b := NewBus()
	if f := b.Latest(); f != nil {
		t.Fatalf("Latest() = %v before first publish, want nil", f)
	}
}

func TestBusPublishAndLatest(t *testing.T) {
	b := NewBus()

	first := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	second := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	b.Publish(first)
	f := b.Latest()
	if f == nil || f.Image != first {
		t.Fatal("Latest() did not return the published frame")
	}
	if f.Seq != 1 {
		t.Errorf("first frame Seq = %d, want 1", f.Seq)
	}

	b.Publish(second)
	f = b.Latest()
	if f.Image != second {
		t.Error("Latest() did not return the newest frame")
	}
	if f.Seq != 2 {
		t.Errorf("second frame Seq = %d, want 2", f.Seq)
	}
}

func TestBusConcurrentReaders(t *testing.T) {
	b := NewBus()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// One writer, many readers; every read must observe either nil or a
	// complete frame with a consistent sequence number.
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			b.Publish(img)
		}
		close(stop)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var lastSeq uint64
			for {
				select {
				case <-stop:
					return
				default:
				}
				f := b.Latest()
				if f == nil {
					continue
				}
				if f.Image == nil {
					t.Error("observed frame with nil image")
					return
				}
				if f.Seq < lastSeq {
					t.Errorf("sequence went backwards: %d after %d", f.Seq, lastSeq)
					return
				}
				lastSeq = f.Seq
			}
		}()
	}

	wg.Wait()
}
