//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=../mocks/mock_notifier.go -package=mocks
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// Notifier delivers fire-and-forget notifications about completed
// operations. Implementations log their own failures.
type Notifier interface {
	Notify(ctx context.Context, event any, actorID uuid.UUID, kind domain.NotificationKind)
}
