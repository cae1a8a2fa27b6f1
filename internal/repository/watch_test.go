package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/pulse-channels/internal/domain"
)

func drain[T any](t *testing.T, w *Watch[T]) []domain.Change[T] {
	t.Helper()
	var out []domain.Change[T]
	timeout := time.After(time.Second)
	for {
		select {
		case c, ok := <-w.Changes():
			if !ok {
				return out
			}
			out = append(out, c)
		case <-timeout:
			t.Fatal("watch did not close in time")
		}
	}
}

func TestWatch_OfferAndClose(t *testing.T) {
	req := require.New(t)
	w := NewWatch[domain.GroupChannel](context.Background(), 4)

	req.True(w.Offer(domain.Added(domain.GroupChannel{ID: uuid.New()})))
	req.True(w.Offer(domain.Added(domain.GroupChannel{ID: uuid.New()})))
	w.Close()

	req.Len(drain(t, w), 2)
	req.NoError(w.Err())
	req.False(w.Offer(domain.Added(domain.GroupChannel{})))
}

func TestWatch_Overflow(t *testing.T) {
	req := require.New(t)
	w := NewWatch[domain.ChannelMember](context.Background(), 1)

	req.True(w.Offer(domain.Added(domain.ChannelMember{})))
	// Given the buffer is full, the next offer ends the watch
	req.False(w.Offer(domain.Added(domain.ChannelMember{})))

	req.Len(drain(t, w), 1)
	req.ErrorIs(w.Err(), ErrWatchOverflow)
	req.Error(w.Context().Err())
}

func TestWatch_ParentCancellation(t *testing.T) {
	req := require.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	w := NewWatch[domain.DMChannel](ctx, 1)

	cancel()

	req.Empty(drain(t, w))
	req.NoError(w.Err())
}

func TestWatch_FinishWithError(t *testing.T) {
	req := require.New(t)
	w := NewWatch[domain.DMChannel](context.Background(), 1)
	boom := context.DeadlineExceeded

	w.Finish(boom)
	w.Finish(nil)

	req.Empty(drain(t, w))
	req.ErrorIs(w.Err(), boom)
}
