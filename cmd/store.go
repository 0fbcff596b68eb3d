package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/skillshock/skillshock-cli/internal/config"
	"github.com/skillshock/skillshock-cli/internal/store"
)

// openStore creates the configured store backend.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite", "":
		return store.NewSQLite(cfg.Store.Path)
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: database_url is required for the postgres driver (SKILLSHOCK_STORE_DATABASE_URL)")
		}
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("store: unknown driver %q (valid: sqlite, postgres)", cfg.Store.Driver)
	}
}
