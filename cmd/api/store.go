package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/guest-list/internal/api/http/handlers"
	"github.com/spec-kit/guest-list/internal/config"
	"github.com/spec-kit/guest-list/internal/persistence"
	"github.com/spec-kit/guest-list/internal/repository"
)

// guestStore is the process-wide store handle picked by STORE_BACKEND.
type guestStore struct {
	repo  repository.GuestRepository
	probe handlers.Pinger
	close func()
}

func openGuestStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*guestStore, error) {
	switch cfg.Store.Backend {
	case config.BackendREST:
		client, err := persistence.NewREST(cfg.Store)
		if err != nil {
			return nil, err
		}
		return &guestStore{
			repo:  repository.NewRESTGuestRepository(client),
			probe: client,
			close: func() {},
		}, nil

	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}
		return &guestStore{
			repo:  repository.NewGuestRepository(pg.PoolHandle()),
			probe: pg,
			close: pg.Close,
		}, nil

	case config.BackendSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &guestStore{
			repo:  repository.NewSQLiteGuestRepository(db.DB),
			probe: db,
			close: func() { _ = db.Close() },
		}, nil

	case config.BackendBolt:
		db, err := persistence.OpenBolt(cfg.Store.BoltPath)
		if err != nil {
			return nil, fmt.Errorf("open bolt: %w", err)
		}
		repo, err := repository.NewBoltGuestRepository(db.DB)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return &guestStore{
			repo:  repo,
			probe: db,
			close: func() { _ = db.Close() },
		}, nil

	case config.BackendMemory:
		repo := repository.NewMemoryGuestRepository()
		logger.Warn("using in-memory guest store; guests are lost on restart")
		return &guestStore{repo: repo, probe: repo, close: func() {}}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
