package bootstrap

import (
	"context"
	"log/slog"

	"librarium/internal/infra/db"
	"librarium/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewDB,
	),
)

// NewDB opens the pgx pool and ties its shutdown to the fx lifecycle.
// Connect pings before returning, so a bad DSN fails app start instead
// of the first reservation.
func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			slog.Info("closing database pool")
			cleanup()
			return nil
		},
	})

	return pool, nil
}
