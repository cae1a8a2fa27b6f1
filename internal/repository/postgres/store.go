package postgres

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vedran77/pulse-channels/internal/repository"
)

// Store bundles the Postgres repositories and change feed behind
// repository.Store. The feed only delivers while its Run loop is running.
type Store struct {
	*ChannelRepo
	*DMRepo
	*UserRepo
	*ChangeFeed

	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

func NewStore(pool *pgxpool.Pool, log *slog.Logger, watchBuffer int) *Store {
	return &Store{
		ChannelRepo: NewChannelRepo(pool),
		DMRepo:      NewDMRepo(pool),
		UserRepo:    NewUserRepo(pool),
		ChangeFeed:  NewChangeFeed(pool, log, watchBuffer),
		pool:        pool,
	}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
