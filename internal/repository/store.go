package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/george-michael9/Abrar-system/internal/db"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Pool() *pgxpool.Pool { return s.pool }

func (s *Store) withTx(ctx context.Context, fn func(q db.Querier) error) error {
	return db.WithTx(ctx, s.pool, fn)
}
