package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/aiblend-payments/internal/config"
	"github.com/polkiloo/aiblend-payments/internal/metrics"
	"github.com/polkiloo/aiblend-payments/internal/server/http/handlers"
	"github.com/polkiloo/aiblend-payments/internal/server/http/middleware"
)

type Params struct {
	fx.In

	Facade  handlers.PaymentFacade
	Config  *config.Config
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Setup configures gin router with handlers and middleware.
func Setup(p Params) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(p.Logger))
	engine.Use(p.Metrics.Middleware())
	if corsHandler := newCORS(p.Config); corsHandler != nil {
		engine.Use(corsHandler)
	}
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	paymentHandler := handlers.NewPaymentHandler(p.Facade, p.Facade)
	healthHandler := handlers.NewHealthHandler(p.Facade)

	engine.GET("/", healthHandler.Live)
	engine.GET("/ready", healthHandler.Ready)
	engine.GET("/metrics", p.Metrics.Handler())

	payment := engine.Group("/payment")
	payment.POST("/create-order", paymentHandler.CreateOrder)
	switch p.Config.VerifyMode {
	case config.VerifyModeWebhook:
		payment.POST("/verify", paymentHandler.Webhook)
	default:
		payment.POST("/verify", paymentHandler.Verify)
	}
	if p.Config.WebhookEnabled() {
		payment.POST("/webhook", paymentHandler.Webhook)
	}

	return engine
}

func newCORS(cfg *config.Config) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Encoding", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	switch {
	case cfg.CORSAllowAll():
		corsCfg.AllowAllOrigins = true
	case len(cfg.CORSAllowedOrigins) > 0:
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	default:
		return nil
	}
	return cors.New(corsCfg)
}
