package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/vedran77/pulse-channels/internal/domain"
)

// ErrWatchOverflow ends a watch whose consumer fell a full buffer behind.
// Changes are never skipped; the consumer is expected to resubscribe.
var ErrWatchOverflow = errors.New("change watch overflowed")

// Watch is one consumer's view of a change feed.
type Watch[T any] struct {
	changes chan domain.Change[T]
	ctx     context.Context
	cancel  context.CancelFunc

	once sync.Once
	mu   sync.Mutex
	err  error
}

// NewWatch creates a watch bound to ctx. Producers use the returned
// watch's Context to learn when the consumer has gone away.
func NewWatch[T any](ctx context.Context, buffer int) *Watch[T] {
	ctx, cancel := context.WithCancel(ctx)
	w := &Watch[T]{
		changes: make(chan domain.Change[T], buffer),
		ctx:     ctx,
		cancel:  cancel,
	}
	go func() {
		<-ctx.Done()
		w.Finish(nil)
	}()
	return w
}

// Changes is closed when the watch ends; check Err afterwards.
func (w *Watch[T]) Changes() <-chan domain.Change[T] { return w.changes }

func (w *Watch[T]) Context() context.Context { return w.ctx }

// Err reports why the watch ended: nil after Close or cancellation.
func (w *Watch[T]) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close ends the watch and releases the producer side.
func (w *Watch[T]) Close() { w.cancel() }

// Offer hands c to the consumer without blocking. A full buffer ends the
// watch with ErrWatchOverflow. It reports whether the watch is still open.
func (w *Watch[T]) Offer(c domain.Change[T]) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ctx.Err() != nil {
		return false
	}
	select {
	case w.changes <- c:
		return true
	default:
		w.finishLocked(ErrWatchOverflow)
		return false
	}
}

// Finish ends the watch with err. Only the first call has an effect.
func (w *Watch[T]) Finish(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finishLocked(err)
}

func (w *Watch[T]) finishLocked(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.changes)
		w.cancel()
	})
}
