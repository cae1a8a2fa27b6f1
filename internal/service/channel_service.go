package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/keys"
	"github.com/vedran77/pulse-channels/internal/repository"
	"github.com/vedran77/pulse-channels/pkg/apperror"
	"golang.org/x/sync/errgroup"
)

var (
	ErrChannelNotFound   = apperror.NotFound("channel not found")
	ErrUserNotFound      = apperror.NotFound("user not found")
	ErrChannelNameTaken  = apperror.AlreadyExists("channel name already exists in this workspace")
	ErrNotChannelMember  = apperror.Forbidden("user is not a member of this channel")
	ErrMissingPublicKey  = apperror.InvalidArg("user has no public key on file")
	ErrInvalidName       = apperror.InvalidArg("channel name is required")
	ErrMissingWrappedKey = apperror.InvalidArg("wrapped channel key is required")
)

// KeyWrapper wraps a secret under a recipient's public key.
type KeyWrapper interface {
	Wrap(secret, recipientPublicKey []byte) (keys.WrappedKey, error)
}

// ChannelService creates channels, hands out their keys and composes the
// live change streams.
type ChannelService struct {
	store      repository.ChannelStore
	users      repository.UserDirectory
	keyManager *keys.KeyManager
	wrapper    KeyWrapper
	notifier   Notifier
	log        *slog.Logger

	wrapConcurrency int
	now             func() time.Time
}

func NewChannelService(
	store repository.ChannelStore,
	users repository.UserDirectory,
	keyManager *keys.KeyManager,
	wrapper KeyWrapper,
	log *slog.Logger,
	wrapConcurrency int,
) *ChannelService {
	return &ChannelService{
		store:           store,
		users:           users,
		keyManager:      keyManager,
		wrapper:         wrapper,
		log:             log,
		wrapConcurrency: max(wrapConcurrency, 1),
		now: func() time.Time {
			return time.Now().UTC().Truncate(time.Millisecond)
		},
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChannelService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CreateChannelInput struct {
	Name      string  `json:"name" validate:"notblank,min=2,max=80"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,url"`
}

type MemberKeyInput struct {
	// EncryptedPrivateKey is the channel private key already wrapped by
	// the caller under the new member's public key.
	EncryptedPrivateKey []byte `json:"channel_encrypted_private_key" validate:"required"`
}

type InviteInput struct {
	// User is a username or a user id.
	User string `json:"user" validate:"notblank"`
	MemberKeyInput
}

// CreateGroupChannel creates a channel named input.Name and makes userID
// its first member. The channel key pair only lives until the creator's
// copy is wrapped, and nothing is persisted if wrapping fails.
func (s *ChannelService) CreateGroupChannel(ctx context.Context, userID, workspaceID uuid.UUID, input CreateChannelInput) (*domain.GroupChannel, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	existing, err := s.store.GetChannelByName(ctx, workspaceID, name)
	if err != nil {
		return nil, fmt.Errorf("checking channel name: %w", err)
	}
	if existing != nil {
		return nil, ErrChannelNameTaken
	}

	creator, err := s.recipients(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}

	channelID := uuid.New()
	publicKey, members, err := s.sealChannelKey(channelID, workspaceID, creator)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ch := &domain.GroupChannel{
		ID:          channelID,
		WorkspaceID: workspaceID,
		Name:        name,
		AvatarURL:   input.AvatarURL,
		CreatedAt:   now,
		ModifiedAt:  now,
		PublicKey:   publicKey,
	}

	if err := s.store.SaveChannel(ctx, ch); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrChannelNameTaken
		}
		return nil, fmt.Errorf("creating channel: %w", err)
	}

	// The channel stays without members if this fails.
	if err := s.addMembers(ctx, userID, members); err != nil {
		return nil, fmt.Errorf("adding creator to channel %s: %w", ch.ID, err)
	}

	s.log.Info("Channel created", "channel_id", ch.ID, "workspace_id", workspaceID, "creator_id", userID)
	s.notify(ctx, ch, userID, domain.NotificationChannelCreated)
	return ch, nil
}

// Invite adds the user named by input.User to the channel referenced by
// channelRef (an id or a name). Re-inviting a member is a no-op. It
// returns the channel's current members.
func (s *ChannelService) Invite(ctx context.Context, userID, workspaceID uuid.UUID, channelRef string, input InviteInput) ([]domain.ChannelMember, error) {
	if len(input.EncryptedPrivateKey) == 0 {
		return nil, ErrMissingWrappedKey
	}

	invitee, err := s.resolveUser(ctx, workspaceID, input.User)
	if err != nil {
		return nil, err
	}
	ch, err := s.resolveChannel(ctx, workspaceID, channelRef)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, userID, workspaceID, ch.ID); err != nil {
		return nil, err
	}

	return s.addMember(ctx, userID, ch, invitee.ID, input.EncryptedPrivateKey)
}

// Join adds the caller to the channel with a key copy it wrapped itself.
func (s *ChannelService) Join(ctx context.Context, userID, workspaceID uuid.UUID, channelRef string, input MemberKeyInput) ([]domain.ChannelMember, error) {
	if len(input.EncryptedPrivateKey) == 0 {
		return nil, ErrMissingWrappedKey
	}

	ch, err := s.resolveChannel(ctx, workspaceID, channelRef)
	if err != nil {
		return nil, err
	}

	return s.addMember(ctx, userID, ch, userID, input.EncryptedPrivateKey)
}

func (s *ChannelService) addMember(ctx context.Context, actorID uuid.UUID, ch *domain.GroupChannel, memberID uuid.UUID, wrapped []byte) ([]domain.ChannelMember, error) {
	member := &domain.ChannelMember{
		ID:                  uuid.New(),
		WorkspaceID:         ch.WorkspaceID,
		ChannelID:           ch.ID,
		MemberID:            memberID,
		EncryptedPrivateKey: wrapped,
		JoinedAt:            s.now(),
	}

	inserted, err := s.store.AddMember(ctx, member)
	if err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}
	if inserted {
		s.log.Info("Member added", "channel_id", ch.ID, "member_id", memberID, "actor_id", actorID)
		s.notify(ctx, member, actorID, domain.NotificationMemberAdded)
	}

	members, err := s.store.ListMembers(ctx, ch.WorkspaceID, ch.ID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

// ListMembers returns the members of a group or DM channel. Only members
// may list them.
func (s *ChannelService) ListMembers(ctx context.Context, userID, workspaceID, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	exists, err := s.channelExists(ctx, workspaceID, channelID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrChannelNotFound
	}
	if err := s.requireMember(ctx, userID, workspaceID, channelID); err != nil {
		return nil, err
	}

	members, err := s.store.ListMembers(ctx, workspaceID, channelID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func (s *ChannelService) ListChannels(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.GroupChannel, error) {
	channels, err := s.store.ListChannels(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing channels: %w", err)
	}
	return channels, nil
}

func (s *ChannelService) GetChannel(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	ch, err := s.store.GetChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, fmt.Errorf("getting channel: %w", err)
	}
	if ch == nil || ch.IsDeleted {
		return nil, ErrChannelNotFound
	}
	if err := s.requireMember(ctx, userID, workspaceID, channelID); err != nil {
		return nil, err
	}
	return ch, nil
}

// Archive soft-deletes a group channel. Any member may archive it.
func (s *ChannelService) Archive(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	if _, err := s.GetChannel(ctx, userID, workspaceID, channelID); err != nil {
		return nil, err
	}

	ch, err := s.store.ArchiveChannel(ctx, workspaceID, channelID)
	if err != nil {
		return nil, fmt.Errorf("archiving channel: %w", err)
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}

	s.log.Info("Channel archived", "channel_id", channelID, "actor_id", userID)
	return ch, nil
}

// recipients loads the directory entries of the users a new channel key is
// wrapped for. Every one of them must have a public key on file.
func (s *ChannelService) recipients(ctx context.Context, workspaceID uuid.UUID, userIDs ...uuid.UUID) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.users.GetUser(ctx, workspaceID, id)
		if err != nil {
			return nil, fmt.Errorf("getting user %s: %w", id, err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if len(user.PublicKey) == 0 {
			return nil, ErrMissingPublicKey
		}
		users = append(users, user)
	}
	return users, nil
}

// sealChannelKey generates the key pair of channelID and wraps its private
// half for every recipient. The pair is discarded before it returns.
func (s *ChannelService) sealChannelKey(channelID, workspaceID uuid.UUID, recipients []*domain.User) ([]byte, []*domain.ChannelMember, error) {
	kp, err := s.keyManager.Generate(channelID)
	if err != nil {
		return nil, nil, fmt.Errorf("generating channel keys: %w", err)
	}
	defer s.discard(kp)

	members := make([]*domain.ChannelMember, len(recipients))
	var g errgroup.Group
	g.SetLimit(s.wrapConcurrency)
	for i, recipient := range recipients {
		g.Go(func() error {
			member, err := s.wrapFor(kp, workspaceID, recipient)
			if err != nil {
				return err
			}
			members[i] = member
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return kp.PublicKey(), members, nil
}

func (s *ChannelService) wrapFor(kp *keys.KeyPair, workspaceID uuid.UUID, recipient *domain.User) (*domain.ChannelMember, error) {
	var wrapped keys.WrappedKey
	err := kp.WithPrivateKey(func(privateKey []byte) error {
		var err error
		wrapped, err = s.wrapper.Wrap(privateKey, recipient.PublicKey)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("wrapping channel key for %s: %w", recipient.ID, err)
	}

	s.log.Debug("Channel key wrapped",
		"channel_id", kp.ChannelID(), "member_id", recipient.ID, "recipient", wrapped.RecipientFingerprint)

	return &domain.ChannelMember{
		ID:                  uuid.New(),
		WorkspaceID:         workspaceID,
		ChannelID:           kp.ChannelID(),
		MemberID:            recipient.ID,
		EncryptedPrivateKey: wrapped.Ciphertext,
		JoinedAt:            s.now(),
	}, nil
}

// addMembers stores pre-wrapped memberships and announces each new one.
func (s *ChannelService) addMembers(ctx context.Context, actorID uuid.UUID, members []*domain.ChannelMember) error {
	for _, member := range members {
		inserted, err := s.store.AddMember(ctx, member)
		if err != nil {
			return fmt.Errorf("adding member %s: %w", member.MemberID, err)
		}
		if inserted {
			s.notify(ctx, member, actorID, domain.NotificationMemberAdded)
		}
	}
	return nil
}

func (s *ChannelService) requireMember(ctx context.Context, userID, workspaceID, channelID uuid.UUID) error {
	ok, err := s.store.IsMember(ctx, userID, workspaceID, channelID)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if !ok {
		return ErrNotChannelMember
	}
	return nil
}

func (s *ChannelService) channelExists(ctx context.Context, workspaceID, channelID uuid.UUID) (bool, error) {
	group, err := s.store.GetChannel(ctx, workspaceID, channelID)
	if err != nil {
		return false, fmt.Errorf("getting channel: %w", err)
	}
	if group != nil {
		return !group.IsDeleted, nil
	}

	dm, err := s.store.GetDMChannel(ctx, workspaceID, channelID)
	if err != nil {
		return false, fmt.Errorf("getting dm channel: %w", err)
	}
	return dm != nil && !dm.IsDeleted, nil
}

func (s *ChannelService) discard(kp *keys.KeyPair) {
	if err := kp.Close(); err != nil {
		s.log.Warn("Discarding channel keys failed", "channel_id", kp.ChannelID(), "error", err)
	}
}

func (s *ChannelService) notify(ctx context.Context, event any, actorID uuid.UUID, kind domain.NotificationKind) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, event, actorID, kind)
}
