package domain

import (
	"time"

	"github.com/google/uuid"
)

type GroupChannel struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_date"`
	ModifiedAt  time.Time `json:"modified_date"`
	IsDeleted   bool      `json:"is_deleted"`
	// PublicKey is the channel's age recipient. Set once at creation.
	PublicKey []byte `json:"public_key"`
}

func (c GroupChannel) ChannelID() uuid.UUID { return c.ID }

func (c GroupChannel) Deleted() bool { return c.IsDeleted }

type ChannelMember struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	ChannelID   uuid.UUID `json:"channel_id"`
	MemberID    uuid.UUID `json:"member_id"`
	// EncryptedPrivateKey is the channel private key wrapped under this
	// member's public key. Only the member can unwrap it.
	EncryptedPrivateKey []byte    `json:"channel_encrypted_private_key"`
	JoinedAt            time.Time `json:"joined_at"`
	IsDeleted           bool      `json:"is_deleted"`
}
