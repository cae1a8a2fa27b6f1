package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/pulse-channels/internal/domain"
	"github.com/vedran77/pulse-channels/internal/repository"
)

const uniqueViolation = "23505"

const groupColumns = `id, workspace_id, name, avatar_url, created_at, modified_at, is_deleted, public_key`

const memberColumns = `id, workspace_id, channel_id, member_id, encrypted_private_key, joined_at, is_deleted`

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

func (r *ChannelRepo) GetChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	query := `SELECT ` + groupColumns + ` FROM group_channels WHERE workspace_id = $1 AND id = $2`
	return scanGroup(r.pool.QueryRow(ctx, query, workspaceID, channelID))
}

func (r *ChannelRepo) GetChannelByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.GroupChannel, error) {
	query := `SELECT ` + groupColumns + ` FROM group_channels
		WHERE workspace_id = $1 AND lower(name) = lower($2) AND NOT is_deleted`
	return scanGroup(r.pool.QueryRow(ctx, query, workspaceID, name))
}

func (r *ChannelRepo) SaveChannel(ctx context.Context, ch *domain.GroupChannel) error {
	query := `
		INSERT INTO group_channels (` + groupColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		ch.ID, ch.WorkspaceID, ch.Name, ch.AvatarURL, ch.CreatedAt, ch.ModifiedAt, ch.IsDeleted, ch.PublicKey,
	)
	return duplicate(err)
}

func (r *ChannelRepo) ArchiveChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.GroupChannel, error) {
	query := `
		UPDATE group_channels
		SET is_deleted = TRUE, modified_at = GREATEST(NOW(), modified_at + INTERVAL '1 millisecond')
		WHERE workspace_id = $1 AND id = $2 AND NOT is_deleted
		RETURNING ` + groupColumns
	ch, err := scanGroup(r.pool.QueryRow(ctx, query, workspaceID, channelID))
	if err != nil || ch != nil {
		return ch, err
	}
	// Unknown or already archived.
	return r.GetChannel(ctx, workspaceID, channelID)
}

func (r *ChannelRepo) ListChannels(ctx context.Context, workspaceID, userID uuid.UUID) ([]domain.GroupChannel, error) {
	query := `
		SELECT c.id, c.workspace_id, c.name, c.avatar_url, c.created_at, c.modified_at, c.is_deleted, c.public_key
		FROM group_channels c
		JOIN channel_members m ON m.channel_id = c.id AND NOT m.is_deleted
		WHERE c.workspace_id = $1 AND m.member_id = $2 AND NOT c.is_deleted
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.GroupChannel
	for rows.Next() {
		ch, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}

func (r *ChannelRepo) AddMember(ctx context.Context, m *domain.ChannelMember) (bool, error) {
	query := `
		INSERT INTO channel_members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (channel_id, member_id) WHERE NOT is_deleted DO NOTHING`
	tag, err := r.pool.Exec(ctx, query,
		m.ID, m.WorkspaceID, m.ChannelID, m.MemberID, m.EncryptedPrivateKey, m.JoinedAt, m.IsDeleted,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ChannelRepo) ListMembers(ctx context.Context, workspaceID, channelID uuid.UUID) ([]domain.ChannelMember, error) {
	query := `SELECT ` + memberColumns + ` FROM channel_members
		WHERE workspace_id = $1 AND channel_id = $2 AND NOT is_deleted
		ORDER BY joined_at, id`

	rows, err := r.pool.Query(ctx, query, workspaceID, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ChannelMember
	for rows.Next() {
		var m domain.ChannelMember
		if err := rows.Scan(
			&m.ID, &m.WorkspaceID, &m.ChannelID, &m.MemberID, &m.EncryptedPrivateKey, &m.JoinedAt, &m.IsDeleted,
		); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *ChannelRepo) IsMember(ctx context.Context, userID, workspaceID, channelID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM channel_members
		WHERE workspace_id = $1 AND channel_id = $2 AND member_id = $3 AND NOT is_deleted)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, workspaceID, channelID, userID).Scan(&exists)
	return exists, err
}

func scanGroup(row pgx.Row) (*domain.GroupChannel, error) {
	var ch domain.GroupChannel
	err := row.Scan(
		&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.AvatarURL, &ch.CreatedAt, &ch.ModifiedAt, &ch.IsDeleted, &ch.PublicKey,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// duplicate maps unique index violations to repository.ErrDuplicate.
func duplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
