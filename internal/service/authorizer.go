package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/repository"
)

// Authorizer decides whether a channel may be revealed to a user.
type Authorizer interface {
	IsAuthorized(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error)
}

// MembershipAuthorizer grants access iff a live membership exists. Every
// call goes to the store.
type MembershipAuthorizer struct {
	store repository.ChannelStore
}

func NewMembershipAuthorizer(store repository.ChannelStore) *MembershipAuthorizer {
	return &MembershipAuthorizer{store: store}
}

func (a *MembershipAuthorizer) IsAuthorized(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error) {
	return a.store.IsMember(ctx, userID, workspaceID, channelID)
}

// cachedAuthorizer remembers decisions for one subscriber for at most
// ttl. Flush drops everything; it is called on membership changes.
type cachedAuthorizer struct {
	inner Authorizer
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]cachedDecision
}

type cachedDecision struct {
	allowed bool
	expires time.Time
}

func newCachedAuthorizer(inner Authorizer, ttl time.Duration) *cachedAuthorizer {
	return &cachedAuthorizer{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]cachedDecision),
	}
}

// IsAuthorized serves a single subscriber, so userID and workspaceID are
// constant across calls and only channelID keys the cache.
func (c *cachedAuthorizer) IsAuthorized(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[channelID]
	c.mu.Unlock()
	if ok && c.now().Before(entry.expires) {
		return entry.allowed, nil
	}

	allowed, err := c.inner.IsAuthorized(ctx, userID, workspaceID, channelID)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	c.entries[channelID] = cachedDecision{allowed: allowed, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return allowed, nil
}

func (c *cachedAuthorizer) Flush() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}
