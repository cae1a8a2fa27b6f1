package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/pulse-channels/internal/domain"
)

const dmColumns = `id, workspace_id, sender_id, receiver_id, created_at, modified_at, is_deleted, public_key`

type DMRepo struct {
	pool *pgxpool.Pool
}

func NewDMRepo(pool *pgxpool.Pool) *DMRepo {
	return &DMRepo{pool: pool}
}

func (r *DMRepo) GetDMChannel(ctx context.Context, workspaceID, channelID uuid.UUID) (*domain.DMChannel, error) {
	query := `SELECT ` + dmColumns + ` FROM dm_channels WHERE workspace_id = $1 AND id = $2`
	return scanDM(r.pool.QueryRow(ctx, query, workspaceID, channelID))
}

func (r *DMRepo) GetDMChannelByParticipants(ctx context.Context, workspaceID, userA, userB uuid.UUID) (*domain.DMChannel, error) {
	query := `
		SELECT ` + dmColumns + `
		FROM dm_channels
		WHERE workspace_id = $1
			AND LEAST(sender_id, receiver_id) = LEAST($2::uuid, $3::uuid)
			AND GREATEST(sender_id, receiver_id) = GREATEST($2::uuid, $3::uuid)`
	return scanDM(r.pool.QueryRow(ctx, query, workspaceID, userA, userB))
}

func (r *DMRepo) SaveDMChannel(ctx context.Context, ch *domain.DMChannel) error {
	query := `
		INSERT INTO dm_channels (` + dmColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.pool.Exec(ctx, query,
		ch.ID, ch.WorkspaceID, ch.SenderID, ch.ReceiverID, ch.CreatedAt, ch.ModifiedAt, ch.IsDeleted, ch.PublicKey,
	)
	return duplicate(err)
}

func (r *DMRepo) ListDMChannels(ctx context.Context, workspaceID, userID uuid.UUID) ([]domain.DMChannel, error) {
	query := `
		SELECT ` + dmColumns + `
		FROM dm_channels
		WHERE workspace_id = $1 AND (sender_id = $2 OR receiver_id = $2) AND NOT is_deleted
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.DMChannel
	for rows.Next() {
		ch, err := scanDM(rows)
		if err != nil {
			return nil, err
		}
		channels = append(channels, *ch)
	}
	return channels, rows.Err()
}

func scanDM(row pgx.Row) (*domain.DMChannel, error) {
	var ch domain.DMChannel
	err := row.Scan(
		&ch.ID, &ch.WorkspaceID, &ch.SenderID, &ch.ReceiverID, &ch.CreatedAt, &ch.ModifiedAt, &ch.IsDeleted, &ch.PublicKey,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}
