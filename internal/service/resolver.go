package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// Lookups are tried in order; the first live match wins. A strategy that
// does not apply to the reference (a name that is not a UUID) returns nil.
type (
	channelLookup func(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.GroupChannel, error)
	userLookup    func(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.User, error)
)

func (s *ChannelService) resolveChannel(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.GroupChannel, error) {
	for _, lookup := range []channelLookup{s.channelByID, s.channelByName} {
		ch, err := lookup(ctx, workspaceID, ref)
		if err != nil {
			return nil, err
		}
		if ch != nil && !ch.IsDeleted {
			return ch, nil
		}
	}
	return nil, ErrChannelNotFound
}

func (s *ChannelService) channelByID(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.GroupChannel, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, nil
	}
	return s.store.GetChannel(ctx, workspaceID, id)
}

func (s *ChannelService) channelByName(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.GroupChannel, error) {
	return s.store.GetChannelByName(ctx, workspaceID, ref)
}

func (s *ChannelService) resolveUser(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.User, error) {
	for _, lookup := range []userLookup{s.userByUsername, s.userByID} {
		u, err := lookup(ctx, workspaceID, ref)
		if err != nil {
			return nil, err
		}
		if u != nil {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (s *ChannelService) userByUsername(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.User, error) {
	return s.users.GetUserByUsername(ctx, workspaceID, ref)
}

func (s *ChannelService) userByID(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.User, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil, nil
	}
	return s.users.GetUser(ctx, workspaceID, id)
}
