package main

import (
	"context"
	"fmt"

	"penpals/internal/config"
	"penpals/internal/store"
	"penpals/internal/store/postgres"
	"penpals/internal/store/sqlite"
)

func openDB(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database.dsn is not configured")
	}
	scheme, err := store.Scheme(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	switch scheme {
	case store.SchemePostgres:
		return postgres.New(ctx, cfg.Database.DSN)
	default:
		return sqlite.New(ctx, cfg.Database.DSN)
	}
}
