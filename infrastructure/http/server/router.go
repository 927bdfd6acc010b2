package server

import (
	"chat-notify/infrastructure/http/middleware"
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterConfig struct {
	WebhookSecret   []byte
	SignatureHeader string
	MaxBodySize     int64
}

// NewRouter creates and configures the HTTP router.
func NewRouter(log *slog.Logger, h *Handler, config RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	if config.MaxBodySize > 0 {
		r.Use(chimw.RequestSize(config.MaxBodySize))
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", h.Health)
	r.Get("/deliveries", h.Deliveries)

	r.Post("/auth", h.Auth)
	r.Post("/user", h.FindUser)
	r.Post("/user/join", h.JoinRoom)
	r.Post("/rooms", h.ListRooms)
	r.Get("/create-room/{name}/{private}", h.CreateRoom)
	r.Get("/create-and-assign-user/{username}/{room_id}", h.CreateAndAssignUser)

	r.Group(func(r chi.Router) {
		r.Use(middleware.VerifyWebhook(config.WebhookSecret, config.SignatureHeader, log))
		r.Post("/notify", h.Notify)
	})

	return r
}
