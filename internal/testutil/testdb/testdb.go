//go:build testutil
// +build testutil

// Package testdb boots a throwaway Postgres container with the real schema
// applied. Gated behind the testutil tag so plain `go test ./...` stays
// docker-free.
package testdb

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/george-michael9/Abrar-system/internal/db"
)

type Handle struct {
	Pool   *pgxpool.Pool
	URI    string
	cancel func()
	stop   func(context.Context) error
}

func (h *Handle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

func Start(ctx context.Context) (*Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("abrar"),
		postgres.WithUsername("abrar"),
		postgres.WithPassword("abrar"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	if err := db.Migrate(uri); err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	pool, err := db.NewPool(ctx, uri)
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	return &Handle{
		Pool:   pool,
		URI:    uri,
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}
