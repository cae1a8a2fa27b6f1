package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeSubscribe   = "subscribe"
	EventTypeUnsubscribe = "unsubscribe"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeChannelChange     = "channel.change"
	EventTypeDMChannelChange   = "dm_channel.change"
	EventTypeMemberChange      = "member.change"
	EventTypeSubscribed        = "subscribed"
	EventTypeSubscriptionEnded = "subscription.ended"
	EventTypeNotification      = "notification"
	EventTypePong              = "pong"
	EventTypeError             = "error"
)

// Streams a client can subscribe to.
const (
	StreamChannels   = "channels"
	StreamDMChannels = "dm_channels"
	StreamMembers    = "members"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type StreamPayload struct {
	Stream string `json:"stream"`
}

// --- Server → Client payloads ---

// ChangePayload carries one filtered snapshot pair. Previous and Latest
// are both null when the subscriber may not see the record.
type ChangePayload[T any] struct {
	Stream string `json:"stream"`
	domain.Snapshot[T]
}

type SubscriptionEndedPayload struct {
	Stream string `json:"stream"`
	// Error is empty when the subscription was closed on request.
	Error string `json:"error,omitempty"`
}

type NotificationPayload struct {
	Kind    domain.NotificationKind `json:"kind"`
	ActorID uuid.UUID               `json:"actor_id"`
	Data    any                     `json:"data"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}
