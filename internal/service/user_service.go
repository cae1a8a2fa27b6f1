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
)

// channelKeySize is the length of an encoded age X25519 identity, the
// secret every member key must be able to carry.
const channelKeySize = len("AGE-SECRET-KEY-1") + 58

var (
	ErrUsernameTaken  = apperror.AlreadyExists("username already taken")
	ErrPublicKeySmall = apperror.InvalidArg("public key is too small to carry a channel key")
)

// UserService maintains the workspace directory of users and the RSA
// public keys channel keys are wrapped under.
type UserService struct {
	users repository.UserRegistry
	log   *slog.Logger
}

func NewUserService(users repository.UserRegistry, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

type RegisterInput struct {
	Username    string `json:"username" validate:"notblank,max=32"`
	DisplayName string `json:"display_name" validate:"max=64"`
	// PublicKey is a PKIX or PKCS#1 DER RSA public key.
	PublicKey []byte `json:"public_key" validate:"required"`
}

// Register creates or updates the caller's directory entry. Replacing the
// public key does not rewrap existing memberships.
func (s *UserService) Register(ctx context.Context, userID, workspaceID uuid.UUID, input RegisterInput) (*domain.User, error) {
	pub, err := keys.ParsePublicKey(input.PublicKey)
	if err != nil {
		return nil, err
	}
	if keys.MaxSecretSize(pub) < channelKeySize {
		return nil, ErrPublicKeySmall
	}

	existing, err := s.users.GetUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	user := &domain.User{
		ID:          userID,
		WorkspaceID: workspaceID,
		Username:    strings.TrimSpace(input.Username),
		DisplayName: strings.TrimSpace(input.DisplayName),
		PublicKey:   input.PublicKey,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if user.DisplayName == "" {
		user.DisplayName = user.Username
	}
	if existing != nil {
		user.CreatedAt = existing.CreatedAt
	}

	if err := s.users.PutUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("saving user: %w", err)
	}

	s.log.Info("User registered",
		"user_id", userID, "workspace_id", workspaceID, "key", keys.Fingerprint(input.PublicKey))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
