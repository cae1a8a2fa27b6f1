package ws

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/service"
	"nhooyr.io/websocket"
)

// Streams opens per-user change subscriptions.
type Streams interface {
	SubscribeChannels(ctx context.Context, userID, workspaceID uuid.UUID) (*service.Subscription[domain.GroupChannel], error)
	SubscribeDMChannels(ctx context.Context, userID, workspaceID uuid.UUID) (*service.Subscription[domain.DMChannel], error)
	SubscribeMembers(ctx context.Context, userID, workspaceID uuid.UUID) (*service.Subscription[domain.ChannelMember], error)
}

// Hub tracks connected clients and delivers direct notifications to them.
// A user may hold several connections.
type Hub struct {
	streams Streams
	log     *slog.Logger

	// clients maps userID → that user's connections. Owned by Run.
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	direct     chan *directMsg
	done       chan struct{}
}

type directMsg struct {
	workspaceID uuid.UUID
	userIDs     []uuid.UUID
	data        []byte
}

func NewHub(streams Streams, log *slog.Logger) *Hub {
	return &Hub{
		streams:    streams,
		log:        log,
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		direct:     make(chan *directMsg, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the Hub's main event loop. Call this in a goroutine. When
// ctx ends every client is disconnected.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for client := range conns {
					go client.close(websocket.StatusGoingAway, "server shutting down")
				}
			}
			h.clients = nil
			return

		case client := <-h.register:
			conns, ok := h.clients[client.userID]
			if !ok {
				conns = make(map[*Client]struct{})
				h.clients[client.userID] = conns
			}
			conns[client] = struct{}{}
			h.log.Debug("ws client connected", "user_id", client.userID, "connections", len(conns))

		case client := <-h.unregister:
			conns := h.clients[client.userID]
			if _, ok := conns[client]; ok {
				delete(conns, client)
				if len(conns) == 0 {
					delete(h.clients, client.userID)
				}
				h.log.Debug("ws client disconnected", "user_id", client.userID)
			}

		case msg := <-h.direct:
			for _, userID := range msg.userIDs {
				for client := range h.clients[userID] {
					if client.workspaceID != msg.workspaceID {
						continue
					}
					// Notifications are best effort; a full buffer drops them.
					if !client.trySend(msg.data) {
						h.log.Warn("ws send buffer full, notification dropped", "user_id", userID)
					}
				}
			}
		}
	}
}

// Register hands a client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUsers delivers event to every connection the given users hold in
// workspaceID.
func (h *Hub) SendToUsers(workspaceID uuid.UUID, userIDs []uuid.UUID, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws hub: marshal error", "error", err)
		return
	}
	select {
	case h.direct <- &directMsg{workspaceID: workspaceID, userIDs: userIDs, data: data}:
	case <-h.done:
	}
}

// Done is closed when Run has returned.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
