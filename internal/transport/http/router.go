package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/okurimukae/dispatch/internal/config"
	"github.com/okurimukae/dispatch/internal/transport/http/handler"
	appmiddleware "github.com/okurimukae/dispatch/internal/transport/http/middleware"
)

// NewRouter builds the application router.
func NewRouter(cfg *config.Config, deps *Deps, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// The database trigger fires at most once per row write; anything
	// beyond this is a misbehaving or spoofed caller.
	webhookRL := appmiddleware.NewRateLimiter(rate.Limit(20), 40)

	webhookH := handler.NewWebhookHandler(deps.Dispatcher, logger)
	healthH := handler.NewHealthHandler()

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(webhookRL.Limit).Post("/webhooks/db-events", webhookH.HandleEvent)

		if deps.DeliveryLog != nil {
			deliveryH := handler.NewDeliveryHandler(deps.DeliveryLog)
			r.Get("/deliveries", deliveryH.ListByUser)
		}
	})

	if deps.Hub != nil {
		wsH := handler.NewWSHandler(deps.Hub, logger)
		r.Get("/ws", wsH.Serve)
	}

	r.Handle("/metrics", promhttp.Handler())

	return r
}
