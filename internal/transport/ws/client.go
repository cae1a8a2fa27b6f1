package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/pulse-channels/internal/service"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection. Its subscriptions end
// with the connection.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	log         *slog.Logger
	userID      uuid.UUID
	workspaceID uuid.UUID

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	subscriptions map[string]*streamSub

	send chan []byte
}

type streamSub struct {
	close func()
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, workspaceID uuid.UUID) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	conn.SetReadLimit(maxMessageSize)
	return &Client{
		hub:           hub,
		conn:          conn,
		log:           hub.log.With("user_id", userID, "workspace_id", workspaceID),
		userID:        userID,
		workspaceID:   workspaceID,
		ctx:           ctx,
		cancel:        cancel,
		subscriptions: make(map[string]*streamSub),
		send:          make(chan []byte, sendBufSize),
	}
}

// ReadPump reads messages from the WebSocket until it fails, then tears
// the client down.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.close(websocket.StatusNormalClosure, "")
	}()

	for {
		var event Event
		err := wsjson.Read(c.ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || c.ctx.Err() != nil {
				c.log.Debug("ws client disconnected")
			} else {
				c.log.Warn("ws read error", "error", err)
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.log.Debug("ws write error", "error", err)
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(c.ctx, writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.log.Debug("ws ping error", "error", err)
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeSubscribe:
		var p StreamPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid subscribe payload")
			return
		}
		c.subscribe(p.Stream)

	case EventTypeUnsubscribe:
		var p StreamPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid unsubscribe payload")
			return
		}
		c.unsubscribe(p.Stream)

	case EventTypePing:
		c.sendEvent(EventTypePong, nil)

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) subscribe(stream string) {
	code, err := c.openStream(stream)
	if err != nil {
		message := err.Error()
		if code == "SUBSCRIBE_FAILED" {
			c.log.Error("ws subscribe failed", "stream", stream, "error", err)
			message = "could not subscribe to " + stream
		}
		c.sendError(code, message)
		return
	}

	c.sendEvent(EventTypeSubscribed, StreamPayload{Stream: stream})
	c.log.Debug("ws subscribed", "stream", stream)
}

func (c *Client) openStream(stream string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.subscriptions[stream]; ok {
		return "ALREADY_SUBSCRIBED", fmt.Errorf("already subscribed to %s", stream)
	}

	var (
		s   *streamSub
		err error
	)
	switch stream {
	case StreamChannels:
		s, err = open(c, stream, EventTypeChannelChange, c.hub.streams.SubscribeChannels)
	case StreamDMChannels:
		s, err = open(c, stream, EventTypeDMChannelChange, c.hub.streams.SubscribeDMChannels)
	case StreamMembers:
		s, err = open(c, stream, EventTypeMemberChange, c.hub.streams.SubscribeMembers)
	default:
		return "UNKNOWN_STREAM", fmt.Errorf("unknown stream: %s", stream)
	}
	if err != nil {
		return "SUBSCRIBE_FAILED", fmt.Errorf("could not subscribe to %s: %w", stream, err)
	}

	c.subscriptions[stream] = s
	return "", nil
}

func (c *Client) unsubscribe(stream string) {
	c.mu.Lock()
	s, ok := c.subscriptions[stream]
	delete(c.subscriptions, stream)
	c.mu.Unlock()

	if ok {
		s.close()
	}
}

// open starts a subscription and forwards its snapshots until it ends.
// The client always learns why a stream ended.
func open[T any](
	c *Client,
	stream, eventType string,
	subscribe func(ctx context.Context, userID, workspaceID uuid.UUID) (*service.Subscription[T], error),
) (*streamSub, error) {
	sub, err := subscribe(c.ctx, c.userID, c.workspaceID)
	if err != nil {
		return nil, err
	}

	s := &streamSub{close: sub.Close}
	go func() {
		for snapshot := range sub.Events() {
			if !c.sendEvent(eventType, ChangePayload[T]{Stream: stream, Snapshot: snapshot}) {
				sub.Close()
			}
		}

		c.mu.Lock()
		if c.subscriptions[stream] == s {
			delete(c.subscriptions, stream)
		}
		c.mu.Unlock()

		ended := SubscriptionEndedPayload{Stream: stream}
		if err := sub.Err(); err != nil {
			ended.Error = err.Error()
			c.log.Warn("ws subscription ended", "stream", stream, "error", err)
		}
		c.sendEvent(EventTypeSubscriptionEnded, ended)
	}()
	return s, nil
}

// sendEvent queues an event, waiting for buffer space. It reports false
// once the client is closed.
func (c *Client) sendEvent(eventType string, payload any) bool {
	evt := &Event{Type: eventType, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		var err error
		if evt, err = NewEvent(eventType, payload); err != nil {
			c.log.Error("ws marshal error", "error", err)
			return true
		}
	}
	data, err := json.Marshal(evt)
	if err != nil {
		c.log.Error("ws marshal error", "error", err)
		return true
	}

	select {
	case c.send <- data:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Client) trySend(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) sendError(code, message string) {
	c.sendEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
}

// close is safe to call more than once and from any goroutine. The close
// frame goes out before the context is cancelled so the peer sees status.
func (c *Client) close(status websocket.StatusCode, reason string) {
	c.conn.Close(status, reason)
	c.cancel()
}
