package postgres

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/repository"
)

const changeChannel = "channel_changes"

var (
	// ErrFeedInterrupted ends open watches when the LISTEN connection is
	// lost. Notifications sent while reconnecting are not replayed.
	ErrFeedInterrupted = errors.New("change feed interrupted")
	ErrFeedStopped     = errors.New("change feed stopped")
	// ErrChangeUnreadable joins ErrFeedInterrupted when a notification
	// cannot be turned into a change for its workspace.
	ErrChangeUnreadable = errors.New("unreadable change notification")
)

// ChangeFeed turns the notifications raised by the table triggers into
// per-workspace watches.
type ChangeFeed struct {
	pool *pgxpool.Pool
	log  *slog.Logger

	channels *repository.Topic[domain.GroupChannel]
	dms      *repository.Topic[domain.DMChannel]
	members  *repository.Topic[domain.ChannelMember]
}

func NewChangeFeed(pool *pgxpool.Pool, log *slog.Logger, watchBuffer int) *ChangeFeed {
	return &ChangeFeed{
		pool:     pool,
		log:      log,
		channels: repository.NewTopic[domain.GroupChannel](watchBuffer),
		dms:      repository.NewTopic[domain.DMChannel](watchBuffer),
		members:  repository.NewTopic[domain.ChannelMember](watchBuffer),
	}
}

func (f *ChangeFeed) WatchChannels(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.GroupChannel], error) {
	return f.channels.Subscribe(ctx, workspaceID)
}

func (f *ChangeFeed) WatchDMChannels(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.DMChannel], error) {
	return f.dms.Subscribe(ctx, workspaceID)
}

func (f *ChangeFeed) WatchMembers(ctx context.Context, workspaceID uuid.UUID) (*repository.Watch[domain.ChannelMember], error) {
	return f.members.Subscribe(ctx, workspaceID)
}

// Run listens until ctx is cancelled, reconnecting after failures. Open
// watches are ended with ErrFeedInterrupted on every reconnect and with
// ErrFeedStopped when Run returns.
func (f *ChangeFeed) Run(ctx context.Context) error {
	defer f.stop(ErrFeedStopped)

	backoff := 500 * time.Millisecond
	for {
		err := f.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		f.log.Error("Change feed connection lost", "error", err, "retry_in", backoff)
		f.interrupt(fmt.Errorf("%w: %v", ErrFeedInterrupted, err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, 30*time.Second)
	}
}

func (f *ChangeFeed) listen(ctx context.Context) error {
	pooled, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring listen connection: %w", err)
	}
	// The connection keeps LISTEN state, so it never goes back to the pool.
	conn := pooled.Hijack()
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return fmt.Errorf("listening on %s: %w", changeChannel, err)
	}
	f.log.Info("Change feed listening", "channel", changeChannel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		f.dispatch([]byte(n.Payload))
	}
}

func (f *ChangeFeed) dispatch(payload []byte) {
	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		f.unreadable(payload, err)
		return
	}

	switch n.Kind {
	case "group_channels":
		publish(f, f.channels, n, groupRow.toDomain)
	case "dm_channels":
		publish(f, f.dms, n, dmRow.toDomain)
	case "channel_members":
		publish(f, f.members, n, memberRow.toDomain)
	default:
		f.log.Warn("Unknown change kind", "kind", n.Kind)
	}
}

// unreadable ends the watches a notification may have been meant for,
// so their consumers resubscribe instead of missing a change. Without a
// readable workspace id that is every watch.
func (f *ChangeFeed) unreadable(payload []byte, cause error) {
	err := fmt.Errorf("%w: %w", ErrFeedInterrupted, ErrChangeUnreadable)

	var scope struct {
		WorkspaceID uuid.UUID `json:"workspace_id"`
	}
	if json.Unmarshal(payload, &scope) != nil || scope.WorkspaceID == uuid.Nil {
		f.log.Error("Unreadable change notification, interrupting all watches", "error", cause)
		f.interrupt(err)
		return
	}

	f.log.Error("Unreadable change notification, interrupting workspace watches",
		"workspace_id", scope.WorkspaceID, "error", cause)
	f.channels.InterruptWorkspace(scope.WorkspaceID, err)
	f.dms.InterruptWorkspace(scope.WorkspaceID, err)
	f.members.InterruptWorkspace(scope.WorkspaceID, err)
}

// publish decodes both snapshots of n. A snapshot that fails to decode is
// published as nil. When neither side decodes the workspace's watches on
// topic are interrupted.
func publish[R any, T any](f *ChangeFeed, topic *repository.Topic[T], n notification, convert func(R) T) {
	previous, prevErr := decodeRow(n.Previous, convert)
	latest, latestErr := decodeRow(n.Latest, convert)
	if err := errors.Join(prevErr, latestErr); err != nil {
		f.log.Warn("Malformed change snapshot", "kind", n.Kind, "workspace_id", n.WorkspaceID, "error", err)
	}

	change, ok := domain.ChangeFrom(previous, latest)
	if !ok {
		if prevErr != nil || latestErr != nil {
			f.log.Error("Change has no readable snapshot, interrupting workspace watches",
				"kind", n.Kind, "workspace_id", n.WorkspaceID)
			topic.InterruptWorkspace(n.WorkspaceID, fmt.Errorf("%w: %w", ErrFeedInterrupted, ErrChangeUnreadable))
		}
		return
	}
	topic.Publish(n.WorkspaceID, change)
}

func decodeRow[R any, T any](raw json.RawMessage, convert func(R) T) (*T, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var row R
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	v := convert(row)
	return &v, nil
}

func (f *ChangeFeed) interrupt(err error) {
	f.channels.Interrupt(err)
	f.dms.Interrupt(err)
	f.members.Interrupt(err)
}

func (f *ChangeFeed) stop(err error) {
	f.channels.Close(err)
	f.dms.Close(err)
	f.members.Close(err)
}

type notification struct {
	Kind        string          `json:"kind"`
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	Previous    json.RawMessage `json:"previous"`
	Latest      json.RawMessage `json:"latest"`
}

// bytea is a BYTEA column as rendered by to_jsonb: "\x" followed by hex.
type bytea []byte

func (b *bytea) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*b = nil
		return nil
	}
	decoded, err := hex.DecodeString(strings.TrimPrefix(*s, `\x`))
	if err != nil {
		return fmt.Errorf("decoding bytea: %w", err)
	}
	*b = decoded
	return nil
}

type groupRow struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	AvatarURL   *string   `json:"avatar_url"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	IsDeleted   bool      `json:"is_deleted"`
	PublicKey   bytea     `json:"public_key"`
}

func (r groupRow) toDomain() domain.GroupChannel {
	return domain.GroupChannel{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		Name:        r.Name,
		AvatarURL:   r.AvatarURL,
		CreatedAt:   r.CreatedAt,
		ModifiedAt:  r.ModifiedAt,
		IsDeleted:   r.IsDeleted,
		PublicKey:   r.PublicKey,
	}
}

type dmRow struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	SenderID    uuid.UUID `json:"sender_id"`
	ReceiverID  uuid.UUID `json:"receiver_id"`
	CreatedAt   time.Time `json:"created_at"`
	ModifiedAt  time.Time `json:"modified_at"`
	IsDeleted   bool      `json:"is_deleted"`
	PublicKey   bytea     `json:"public_key"`
}

func (r dmRow) toDomain() domain.DMChannel {
	return domain.DMChannel{
		ID:          r.ID,
		WorkspaceID: r.WorkspaceID,
		SenderID:    r.SenderID,
		ReceiverID:  r.ReceiverID,
		CreatedAt:   r.CreatedAt,
		ModifiedAt:  r.ModifiedAt,
		IsDeleted:   r.IsDeleted,
		PublicKey:   r.PublicKey,
	}
}

type memberRow struct {
	ID                  uuid.UUID `json:"id"`
	WorkspaceID         uuid.UUID `json:"workspace_id"`
	ChannelID           uuid.UUID `json:"channel_id"`
	MemberID            uuid.UUID `json:"member_id"`
	EncryptedPrivateKey bytea     `json:"encrypted_private_key"`
	JoinedAt            time.Time `json:"joined_at"`
	IsDeleted           bool      `json:"is_deleted"`
}

func (r memberRow) toDomain() domain.ChannelMember {
	return domain.ChannelMember{
		ID:                  r.ID,
		WorkspaceID:         r.WorkspaceID,
		ChannelID:           r.ChannelID,
		MemberID:            r.MemberID,
		EncryptedPrivateKey: r.EncryptedPrivateKey,
		JoinedAt:            r.JoinedAt,
		IsDeleted:           r.IsDeleted,
	}
}
