package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// Topic fans committed changes of one record kind out to the watches of a
// workspace. Publish never blocks: a watch that cannot keep up is ended by
// its own Offer.
type Topic[T any] struct {
	mu      sync.Mutex
	buffer  int
	closed  error
	watches map[uuid.UUID]map[*Watch[T]]struct{}
}

func NewTopic[T any](buffer int) *Topic[T] {
	return &Topic[T]{
		buffer:  buffer,
		watches: make(map[uuid.UUID]map[*Watch[T]]struct{}),
	}
}

func (t *Topic[T]) Subscribe(ctx context.Context, workspaceID uuid.UUID) (*Watch[T], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed != nil {
		return nil, t.closed
	}

	w := NewWatch[T](ctx, t.buffer)
	set, ok := t.watches[workspaceID]
	if !ok {
		set = make(map[*Watch[T]]struct{})
		t.watches[workspaceID] = set
	}
	set[w] = struct{}{}

	go func() {
		<-w.Context().Done()
		t.remove(workspaceID, w)
	}()
	return w, nil
}

func (t *Topic[T]) remove(workspaceID uuid.UUID, w *Watch[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	set := t.watches[workspaceID]
	delete(set, w)
	if len(set) == 0 {
		delete(t.watches, workspaceID)
	}
}

func (t *Topic[T]) Publish(workspaceID uuid.UUID, change domain.Change[T]) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for w := range t.watches[workspaceID] {
		w.Offer(change)
	}
}

// Interrupt ends every open watch with err. New subscriptions are still
// accepted.
func (t *Topic[T]) Interrupt(err error) {
	t.mu.Lock()
	open := t.openLocked()
	t.mu.Unlock()

	for _, w := range open {
		w.Finish(err)
	}
}

// InterruptWorkspace ends the open watches of one workspace with err.
func (t *Topic[T]) InterruptWorkspace(workspaceID uuid.UUID, err error) {
	t.mu.Lock()
	open := make([]*Watch[T], 0, len(t.watches[workspaceID]))
	for w := range t.watches[workspaceID] {
		open = append(open, w)
	}
	t.mu.Unlock()

	for _, w := range open {
		w.Finish(err)
	}
}

// Close ends every open watch with err and rejects new subscriptions
// with the same error.
func (t *Topic[T]) Close(err error) {
	t.mu.Lock()
	t.closed = err
	open := t.openLocked()
	t.mu.Unlock()

	for _, w := range open {
		w.Finish(err)
	}
}

func (t *Topic[T]) openLocked() []*Watch[T] {
	var open []*Watch[T]
	for _, set := range t.watches {
		for w := range set {
			open = append(open, w)
		}
	}
	return open
}

// Len returns the number of open watches.
func (t *Topic[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, set := range t.watches {
		n += len(set)
	}
	return n
}
