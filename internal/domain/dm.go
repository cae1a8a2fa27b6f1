package domain

import (
	"time"

	"github.com/google/uuid"
)

type DMChannel struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	ReceiverID  uuid.UUID `json:"receiver_id"`
	CreatedAt   time.Time `json:"created_date"`
	ModifiedAt  time.Time `json:"modified_date"`
	IsDeleted   bool      `json:"is_deleted"`
	PublicKey   []byte    `json:"public_key"`
}

func (c DMChannel) ChannelID() uuid.UUID { return c.ID }

func (c DMChannel) Deleted() bool { return c.IsDeleted }

// HasParticipant reports whether userID is the sender or the receiver.
func (c DMChannel) HasParticipant(userID uuid.UUID) bool {
	return c.SenderID == userID || c.ReceiverID == userID
}

// CanonicalPair sorts two user IDs so that an unordered pair always maps
// to the same (low, high) tuple.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
