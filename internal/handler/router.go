package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusmind/backend/internal/handler/chat"
	"github.com/campusmind/backend/internal/handler/ws"
	middlewarePkg "github.com/campusmind/backend/internal/middleware"
	"github.com/campusmind/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(assistant chat.Assistant) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	chatHandler := chat.New(assistant)
	wsHandler := ws.New(assistant)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		wsHandler.RegisterRoutes(api)
	})

	return r
}
