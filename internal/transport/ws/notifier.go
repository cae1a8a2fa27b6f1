package ws

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// HubNotifier implements service.Notifier using the WebSocket Hub.
type HubNotifier struct {
	hub *Hub
	log *slog.Logger
}

func NewHubNotifier(hub *Hub, log *slog.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

// Notify pushes a notification to the users an event concerns: the
// creator of a group channel, both DM participants, or the new member
// and whoever added them.
func (n *HubNotifier) Notify(_ context.Context, event any, actorID uuid.UUID, kind domain.NotificationKind) {
	var (
		workspaceID uuid.UUID
		recipients  []uuid.UUID
	)
	switch e := event.(type) {
	case *domain.GroupChannel:
		workspaceID, recipients = e.WorkspaceID, []uuid.UUID{actorID}
	case *domain.DMChannel:
		workspaceID, recipients = e.WorkspaceID, []uuid.UUID{e.SenderID, e.ReceiverID}
	case *domain.ChannelMember:
		workspaceID, recipients = e.WorkspaceID, []uuid.UUID{e.MemberID, actorID}
	default:
		n.log.Warn("ws notifier: unsupported event", "kind", kind)
		return
	}

	evt, err := NewEvent(EventTypeNotification, NotificationPayload{Kind: kind, ActorID: actorID, Data: event})
	if err != nil {
		n.log.Error("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.SendToUsers(workspaceID, lo.Uniq(recipients), evt)
}
