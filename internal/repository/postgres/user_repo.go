package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/pulse-channels/internal/domain"
)

const userColumns = `id, workspace_id, username, display_name, public_key, created_at`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// PutUser creates or replaces a directory entry.
func (r *UserRepo) PutUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace_id, id) DO UPDATE
		SET username = EXCLUDED.username,
			display_name = EXCLUDED.display_name,
			public_key = EXCLUDED.public_key`
	_, err := r.pool.Exec(ctx, query,
		u.ID, u.WorkspaceID, u.Username, u.DisplayName, u.PublicKey, u.CreatedAt,
	)
	return duplicate(err)
}

func (r *UserRepo) GetUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE workspace_id = $1 AND id = $2`
	return scanUser(r.pool.QueryRow(ctx, query, workspaceID, userID))
}

func (r *UserRepo) GetUserByUsername(ctx context.Context, workspaceID uuid.UUID, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE workspace_id = $1 AND lower(username) = lower($2)`
	return scanUser(r.pool.QueryRow(ctx, query, workspaceID, username))
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.WorkspaceID, &u.Username, &u.DisplayName, &u.PublicKey, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
