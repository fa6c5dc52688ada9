package storage

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/aiblend-payments/internal/config"
	"github.com/polkiloo/aiblend-payments/internal/domain/repository"
	"github.com/polkiloo/aiblend-payments/internal/storage/memory"
	"github.com/polkiloo/aiblend-payments/internal/storage/postgres"
)

// Module wires the configured document storage and repository adapters.
var Module = fx.Options(
	fx.Provide(newFactory),
	fx.Provide(
		func(f repository.Factory) repository.PaymentRepository { return f.Payments() },
		func(f repository.Factory) repository.UserRepository { return f.Users() },
	),
)

type closer interface {
	Close()
}

type factoryParams struct {
	fx.In

	Ctx       context.Context
	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

var newPostgres = func(ctx context.Context, dsn string, logger *slog.Logger) (repository.Factory, error) {
	return postgres.New(ctx, dsn, logger)
}

func newFactory(p factoryParams) (repository.Factory, error) {
	var (
		factory repository.Factory
		err     error
	)

	switch p.Config.StorageDriver {
	case config.StorageDriverMemory:
		p.Logger.Warn("using in-memory storage, documents are lost on restart")
		factory = memory.New()
	default:
		factory, err = newPostgres(p.Ctx, p.Config.DatabaseURI, p.Logger)
		if err != nil {
			return nil, err
		}
	}

	if c, ok := factory.(closer); ok {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				c.Close()
				return nil
			},
		})
	}

	return factory, nil
}
