package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/repository"
)

type channelRecord interface {
	ChannelID() uuid.UUID
	Deleted() bool
}

// RevealChange renders c for one subscriber: each snapshot the subscriber
// may not see is replaced by nil. The change itself is never dropped.
func RevealChange[T any](c domain.Change[T], visible func(T) bool) domain.Snapshot[T] {
	snapshot := c.Snapshot()
	if snapshot.Previous != nil && !visible(*snapshot.Previous) {
		snapshot.Previous = nil
	}
	if snapshot.Latest != nil && !visible(*snapshot.Latest) {
		snapshot.Latest = nil
	}
	return snapshot
}

// Subscription is one subscriber's filtered view of a change stream. It
// cannot be restarted once it ends.
type Subscription[T any] struct {
	events chan domain.Snapshot[T]
	cancel context.CancelCauseFunc
	done   chan struct{}
	err    error
}

// Events is closed when the subscription ends.
func (s *Subscription[T]) Events() <-chan domain.Snapshot[T] { return s.events }

// Err blocks until the subscription has ended and reports the upstream
// failure, or nil if the subscriber went away.
func (s *Subscription[T]) Err() error {
	<-s.done
	return s.err
}

// Close ends the subscription and waits for its goroutine to exit.
func (s *Subscription[T]) Close() {
	s.cancel(nil)
	<-s.done
}

// ChangeStreamFanout turns store change feeds into per-subscriber
// subscriptions. Group channel changes are filtered by membership; DM and
// membership changes reach only the users they concern, unfiltered.
type ChangeStreamFanout struct {
	feed       repository.ChangeFeed
	authorizer Authorizer
	log        *slog.Logger
	cacheTTL   time.Duration
}

// NewChangeStreamFanout builds a fanout. With cacheTTL > 0 every channel
// subscription caches authorization decisions for up to cacheTTL and
// drops them whenever the subscriber's own memberships change.
func NewChangeStreamFanout(feed repository.ChangeFeed, authorizer Authorizer, log *slog.Logger, cacheTTL time.Duration) *ChangeStreamFanout {
	return &ChangeStreamFanout{
		feed:       feed,
		authorizer: authorizer,
		log:        log,
		cacheTTL:   cacheTTL,
	}
}

func (f *ChangeStreamFanout) SubscribeChannels(ctx context.Context, userID, workspaceID uuid.UUID) (*Subscription[domain.GroupChannel], error) {
	ctx, cancel := context.WithCancelCause(ctx)

	watch, err := f.feed.WatchChannels(ctx, workspaceID)
	if err != nil {
		cancel(nil)
		return nil, fmt.Errorf("watching channels: %w", err)
	}

	authorizer := f.authorizer
	var flush *invalidation
	if f.cacheTTL > 0 {
		memberships, err := f.feed.WatchMembers(ctx, workspaceID)
		if err != nil {
			cancel(nil)
			return nil, fmt.Errorf("watching members: %w", err)
		}
		cache := newCachedAuthorizer(f.authorizer, f.cacheTTL)
		flush = &invalidation{
			watch: memberships,
			apply: func(c domain.Change[domain.ChannelMember]) {
				if concernsMember(userID)(c) {
					cache.Flush()
				}
			},
		}
		authorizer = cache
	}

	visible := visibleTo[domain.GroupChannel](ctx, f.log, authorizer, userID, workspaceID)
	sub := stream(ctx, cancel, watch, flush, func(c domain.Change[domain.GroupChannel]) (domain.Snapshot[domain.GroupChannel], bool) {
		return RevealChange(c, visible), true
	})

	f.log.Debug("Channel subscription opened", "user_id", userID, "workspace_id", workspaceID)
	return sub, nil
}

// SubscribeDMChannels streams changes to the DM channels userID takes part
// in.
func (f *ChangeStreamFanout) SubscribeDMChannels(ctx context.Context, userID, workspaceID uuid.UUID) (*Subscription[domain.DMChannel], error) {
	ctx, cancel := context.WithCancelCause(ctx)

	watch, err := f.feed.WatchDMChannels(ctx, workspaceID)
	if err != nil {
		cancel(nil)
		return nil, fmt.Errorf("watching dm channels: %w", err)
	}

	f.log.Debug("DM channel subscription opened", "user_id", userID, "workspace_id", workspaceID)
	return stream(ctx, cancel, watch, nil, forwardIf(concernsParticipant(userID))), nil
}

// SubscribeMembers streams changes to userID's own membership records.
func (f *ChangeStreamFanout) SubscribeMembers(ctx context.Context, userID, workspaceID uuid.UUID) (*Subscription[domain.ChannelMember], error) {
	ctx, cancel := context.WithCancelCause(ctx)

	watch, err := f.feed.WatchMembers(ctx, workspaceID)
	if err != nil {
		cancel(nil)
		return nil, fmt.Errorf("watching members: %w", err)
	}

	f.log.Debug("Member subscription opened", "user_id", userID, "workspace_id", workspaceID)
	return stream(ctx, cancel, watch, nil, forwardIf(concernsMember(userID))), nil
}

func concernsMember(userID uuid.UUID) func(domain.Change[domain.ChannelMember]) bool {
	return func(c domain.Change[domain.ChannelMember]) bool {
		snapshot := c.Snapshot()
		return (snapshot.Previous != nil && snapshot.Previous.MemberID == userID) ||
			(snapshot.Latest != nil && snapshot.Latest.MemberID == userID)
	}
}

func concernsParticipant(userID uuid.UUID) func(domain.Change[domain.DMChannel]) bool {
	return func(c domain.Change[domain.DMChannel]) bool {
		snapshot := c.Snapshot()
		return (snapshot.Previous != nil && snapshot.Previous.HasParticipant(userID)) ||
			(snapshot.Latest != nil && snapshot.Latest.HasParticipant(userID))
	}
}

// forwardIf passes the changes matching concerns through unchanged and
// leaves the rest out of the subscriber's sequence.
func forwardIf[T any](concerns func(domain.Change[T]) bool) func(domain.Change[T]) (domain.Snapshot[T], bool) {
	return func(c domain.Change[T]) (domain.Snapshot[T], bool) {
		if !concerns(c) {
			return domain.Snapshot[T]{}, false
		}
		return c.Snapshot(), true
	}
}

// visibleTo reports whether a channel snapshot may be shown to userID: the
// channel must be live and the user a member. Lookup failures hide the
// snapshot.
func visibleTo[T channelRecord](ctx context.Context, log *slog.Logger, authorizer Authorizer, userID, workspaceID uuid.UUID) func(T) bool {
	return func(record T) bool {
		if record.Deleted() {
			return false
		}
		ok, err := authorizer.IsAuthorized(ctx, userID, workspaceID, record.ChannelID())
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("Authorization lookup failed", "user_id", userID, "channel_id", record.ChannelID(), "error", err)
			}
			return false
		}
		return ok
	}
}

// invalidation is a membership watch read by the same loop as a channel
// watch. Stores publish in commit order, so every membership change
// committed before a channel change is already queued when that channel
// change arrives and is applied first.
type invalidation struct {
	watch *repository.Watch[domain.ChannelMember]
	apply func(domain.Change[domain.ChannelMember])
}

// drain applies every queued membership change. It returns the error that
// ends the subscription when the membership watch has closed.
func (inv *invalidation) drain(ctx context.Context) (bool, error) {
	for {
		select {
		case c, ok := <-inv.watch.Changes():
			if !ok {
				return false, inv.err(ctx)
			}
			inv.apply(c)
		default:
			return true, nil
		}
	}
}

func (inv *invalidation) err(ctx context.Context) error {
	if err := inv.watch.Err(); err != nil {
		return fmt.Errorf("membership watch: %w", err)
	}
	return cause(ctx)
}

// stream forwards watch through render until the watch ends or ctx is
// cancelled. Changes render rejects are skipped. Delivery to the
// subscriber blocks on at most one event.
func stream[T any](
	ctx context.Context,
	cancel context.CancelCauseFunc,
	watch *repository.Watch[T],
	inv *invalidation,
	render func(domain.Change[T]) (domain.Snapshot[T], bool),
) *Subscription[T] {
	sub := &Subscription[T]{
		events: make(chan domain.Snapshot[T]),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	var memberships <-chan domain.Change[domain.ChannelMember]
	if inv != nil {
		memberships = inv.watch.Changes()
	}

	go func() {
		defer close(sub.done)
		defer close(sub.events)
		defer cancel(nil)

		for {
			select {
			case <-ctx.Done():
				sub.err = cause(ctx)
				return

			case c, ok := <-memberships:
				if !ok {
					sub.err = inv.err(ctx)
					return
				}
				inv.apply(c)

			case change, ok := <-watch.Changes():
				if !ok {
					sub.err = watch.Err()
					if sub.err == nil {
						sub.err = cause(ctx)
					}
					return
				}
				if inv != nil {
					if open, err := inv.drain(ctx); !open {
						sub.err = err
						return
					}
				}
				snapshot, ok := render(change)
				if !ok {
					continue
				}
				select {
				case sub.events <- snapshot:
				case <-ctx.Done():
					sub.err = cause(ctx)
					return
				}
			}
		}
	}()
	return sub
}

// cause returns why ctx ended, or nil for a plain cancellation.
func cause(ctx context.Context) error {
	err := context.Cause(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
