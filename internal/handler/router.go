package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	characterHandler "github.com/rehearsehq/rehearse/internal/handler/character"
	moduleHandler "github.com/rehearsehq/rehearse/internal/handler/module"
	tokenHandler "github.com/rehearsehq/rehearse/internal/handler/token"
	middlewarePkg "github.com/rehearsehq/rehearse/internal/middleware"
	characterModel "github.com/rehearsehq/rehearse/internal/model/character"
	moduleModel "github.com/rehearsehq/rehearse/internal/model/module"
	notesService "github.com/rehearsehq/rehearse/internal/service/notes"
	"github.com/rehearsehq/rehearse/pkg/utils"
)

// NewRouter wires HTTP routes to core services. issuer may be nil when no
// realtime credentials are configured; the token route then reports the
// feature unavailable instead of failing downstream.
func NewRouter(characters characterModel.Store, modules moduleModel.Store, notesSvc *notesService.Service, issuer tokenHandler.Issuer, defaultVoice string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Route("/api", func(api chi.Router) {
		characterHandler.New(characters).RegisterRoutes(api)
		moduleHandler.New(modules, notesSvc).RegisterRoutes(api)

		if issuer != nil {
			tokenHandler.New(issuer, characters, defaultVoice).RegisterRoutes(api)
		} else {
			api.Post("/realtime/token", func(w http.ResponseWriter, r *http.Request) {
				utils.RespondError(w, http.StatusServiceUnavailable, "realtime credentials not configured")
			})
		}

		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
