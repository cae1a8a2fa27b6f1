//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_repository.go -package=mocks
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// ErrDuplicate is returned by stores when a uniqueness constraint rejects
// an insert: a second live group channel with the same name in a
// workspace, or a second DM channel for the same participant pair.
var ErrDuplicate = errors.New("duplicate record")

// Lookups return (nil, nil) when nothing matches.
type ChannelStore interface {
	GetChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error)
	GetChannelByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.GroupChannel, error)
	SaveChannel(ctx context.Context, ch *domain.GroupChannel) error
	ArchiveChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error)
	ListChannels(ctx context.Context, workspaceID, userID uuid.UUID) ([]domain.GroupChannel, error)

	GetDMChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.DMChannel, error)
	// GetDMChannelByParticipants ignores argument order.
	GetDMChannelByParticipants(ctx context.Context, workspaceID, userA, userB uuid.UUID) (*domain.DMChannel, error)
	SaveDMChannel(ctx context.Context, ch *domain.DMChannel) error
	ListDMChannels(ctx context.Context, workspaceID, userID uuid.UUID) ([]domain.DMChannel, error)

	// AddMember inserts member unless a live membership for (ChannelID,
	// MemberID) exists. It reports whether a row was inserted.
	AddMember(ctx context.Context, member *domain.ChannelMember) (bool, error)
	ListMembers(ctx context.Context, workspaceID, channelID uuid.UUID) ([]domain.ChannelMember, error)
	IsMember(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error)
}

// ChangeFeed exposes ordered change notifications per workspace. Each
// Watch call returns a subscription that ends when ctx is cancelled or
// the underlying feed fails.
type ChangeFeed interface {
	WatchChannels(ctx context.Context, workspaceID uuid.UUID) (*Watch[domain.GroupChannel], error)
	WatchDMChannels(ctx context.Context, workspaceID uuid.UUID) (*Watch[domain.DMChannel], error)
	WatchMembers(ctx context.Context, workspaceID uuid.UUID) (*Watch[domain.ChannelMember], error)
}

type UserDirectory interface {
	GetUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, workspaceID uuid.UUID, username string) (*domain.User, error)
}

// UserRegistry is a UserDirectory that can also be written. Usernames are
// unique per workspace; a clash returns ErrDuplicate.
type UserRegistry interface {
	UserDirectory
	PutUser(ctx context.Context, u *domain.User) error
}

type Store interface {
	ChannelStore
	ChangeFeed
	UserRegistry
	Close() error
}
