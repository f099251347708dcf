package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"
)

// Sentinel errors for streaming writes.
var (
	// ErrWriteTimeout indicates a single write exceeded the configured
	// timeout; the client is receiving too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates the client disconnected, detected via the
	// request context.
	ErrClientGone = errors.New("client disconnected")

	// ErrStreamCanceled indicates the stream was shut down on our side.
	ErrStreamCanceled = errors.New("stream canceled")
)

// DefaultWriteTimeout bounds one frame write to a stream client.
const DefaultWriteTimeout = 30 * time.Second

// TimeoutWriter wraps an http.ResponseWriter so a stalled client fails the
// write instead of blocking the frame loop goroutine.
type TimeoutWriter struct {
	w       http.ResponseWriter
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	flusher http.Flusher

	mu           sync.Mutex
	closed       bool
	bytesWritten int64
	startTime    time.Time
}

// NewTimeoutWriter wraps w; ctx is normally the request context so client
// disconnects cancel pending writes.
func NewTimeoutWriter(ctx context.Context, w http.ResponseWriter, timeout time.Duration) *TimeoutWriter {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	writerCtx, cancel := context.WithCancel(ctx)

	tw := &TimeoutWriter{
		w:         w,
		ctx:       writerCtx,
		cancel:    cancel,
		timeout:   timeout,
		startTime: time.Now(),
	}
	if flusher, ok := w.(http.Flusher); ok {
		tw.flusher = flusher
	}
	return tw
}

// Write implements io.Writer with timeout protection.
func (tw *TimeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	if tw.closed {
		tw.mu.Unlock()
		return 0, ErrStreamCanceled
	}
	tw.mu.Unlock()

	select {
	case <-tw.ctx.Done():
		return 0, tw.contextError()
	default:
	}

	type writeResult struct {
		n   int
		err error
	}
	resultCh := make(chan writeResult, 1)

	go func() {
		n, err := tw.w.Write(p)
		resultCh <- writeResult{n, err}
	}()

	timer := time.NewTimer(tw.timeout)
	defer timer.Stop()

	select {
	case result := <-resultCh:
		if result.err == nil {
			tw.mu.Lock()
			tw.bytesWritten += int64(result.n)
			tw.mu.Unlock()
		}
		return result.n, result.err

	case <-timer.C:
		tw.cancel()
		return 0, ErrWriteTimeout

	case <-tw.ctx.Done():
		return 0, tw.contextError()
	}
}

// Flush pushes buffered bytes to the client, when supported.
func (tw *TimeoutWriter) Flush() {
	if tw.flusher != nil {
		tw.flusher.Flush()
	}
}

// Close marks the writer as closed; subsequent writes fail fast.
func (tw *TimeoutWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.closed {
		return nil
	}
	tw.closed = true
	tw.cancel()
	return nil
}

// Stats returns bytes written and elapsed duration.
func (tw *TimeoutWriter) Stats() (bytesWritten int64, duration time.Duration) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.bytesWritten, time.Since(tw.startTime)
}

func (tw *TimeoutWriter) contextError() error {
	if errors.Is(tw.ctx.Err(), context.Canceled) {
		return ErrClientGone
	}
	return ErrStreamCanceled
}
