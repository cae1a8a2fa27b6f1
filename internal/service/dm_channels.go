package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/repository"
	"github.com/vedran77/pulse-channels/pkg/apperror"
)

var ErrCannotDMSelf = apperror.InvalidArg("cannot open a direct message with yourself")

type CreateDMInput struct {
	ReceiverID uuid.UUID `json:"receiver_id" validate:"required"`
}

// CreateDMChannel returns the DM channel between the caller and the
// receiver, creating it on first use. Argument order does not matter: the
// existing channel is returned unchanged and no key material is made. Both
// participants need a public key on file before anything is stored.
func (s *ChannelService) CreateDMChannel(ctx context.Context, userID, workspaceID uuid.UUID, input CreateDMInput) (*domain.DMChannel, error) {
	if input.ReceiverID == userID {
		return nil, ErrCannotDMSelf
	}

	existing, err := s.store.GetDMChannelByParticipants(ctx, workspaceID, userID, input.ReceiverID)
	if err != nil {
		return nil, fmt.Errorf("looking up dm channel: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	participants, err := s.recipients(ctx, workspaceID, input.ReceiverID, userID)
	if err != nil {
		return nil, err
	}

	channelID := uuid.New()
	publicKey, members, err := s.sealChannelKey(channelID, workspaceID, participants)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ch := &domain.DMChannel{
		ID:          channelID,
		WorkspaceID: workspaceID,
		SenderID:    userID,
		ReceiverID:  input.ReceiverID,
		CreatedAt:   now,
		ModifiedAt:  now,
		PublicKey:   publicKey,
	}

	if err := s.store.SaveDMChannel(ctx, ch); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("creating dm channel: %w", err)
		}
		// A concurrent request created the pair first.
		existing, err := s.store.GetDMChannelByParticipants(ctx, workspaceID, userID, input.ReceiverID)
		if err != nil {
			return nil, fmt.Errorf("looking up dm channel: %w", err)
		}
		if existing == nil {
			return nil, errors.New("dm channel vanished after duplicate insert")
		}
		return existing, nil
	}

	if err := s.addMembers(ctx, userID, members); err != nil {
		return nil, fmt.Errorf("adding participants to dm channel %s: %w", ch.ID, err)
	}

	s.log.Info("DM channel created", "channel_id", ch.ID, "workspace_id", workspaceID, "sender_id", userID)
	s.notify(ctx, ch, userID, domain.NotificationDMChannelCreated)
	return ch, nil
}

func (s *ChannelService) ListDMChannels(ctx context.Context, userID, workspaceID uuid.UUID) ([]domain.DMChannel, error) {
	channels, err := s.store.ListDMChannels(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("listing dm channels: %w", err)
	}
	return channels, nil
}
