package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/aiblend-payments/internal/adapter/events"
	"github.com/polkiloo/aiblend-payments/internal/adapter/razorpay"
	"github.com/polkiloo/aiblend-payments/internal/app"
	"github.com/polkiloo/aiblend-payments/internal/config"
	"github.com/polkiloo/aiblend-payments/internal/logger"
	"github.com/polkiloo/aiblend-payments/internal/metrics"
	"github.com/polkiloo/aiblend-payments/internal/pkg/signature"
	"github.com/polkiloo/aiblend-payments/internal/server/http/handlers"
	"github.com/polkiloo/aiblend-payments/internal/server/http/router"
	"github.com/polkiloo/aiblend-payments/internal/storage"
	"github.com/polkiloo/aiblend-payments/internal/usecase"
)

// Module composes the application graph. Extra options are appended last
// so callers can replace any provided value.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		metrics.Module,
		storage.Module,
		signature.Module,
		razorpay.Module,
		events.Module,
		usecase.Module,
		fx.Provide(
			func(client razorpay.Client) usecase.OrderGateway { return client },
			func(publisher events.Publisher) usecase.EventPublisher { return publisher },
			func(facade *app.PaymentFacade) handlers.PaymentFacade { return facade },
		),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
