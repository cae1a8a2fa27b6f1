package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	// PublicKey is the user's RSA public key in PKIX DER form. Channel
	// private keys are wrapped under it.
	PublicKey []byte    `json:"public_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
