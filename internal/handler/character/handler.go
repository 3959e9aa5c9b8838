package character

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rehearsehq/rehearse/internal/model/character"
	"github.com/rehearsehq/rehearse/pkg/utils"
)

// Handler serves the character catalog.
type Handler struct {
	characters character.Store
}

func New(characters character.Store) *Handler {
	return &Handler{characters: characters}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/characters", h.handleListCharacters)
	r.Get("/characters/{characterID}", h.handleGetCharacter)
}

func (h *Handler) handleListCharacters(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.characters.List())
}

func (h *Handler) handleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "characterID")
	found, ok := h.characters.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "character not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, found)
}
