package token

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rehearsehq/rehearse/internal/model/character"
	"github.com/rehearsehq/rehearse/internal/service/realtime"
	"github.com/rehearsehq/rehearse/pkg/utils"
)

// Issuer mints ephemeral realtime credentials for a voice.
type Issuer interface {
	Issue(ctx context.Context, voice string) (realtime.Credential, error)
}

// Handler exchanges a character selection for an ephemeral realtime
// credential. Browsers call this before opening their own peer connection.
type Handler struct {
	issuer       Issuer
	characters   character.Store
	defaultVoice string
}

func New(issuer Issuer, characters character.Store, defaultVoice string) *Handler {
	return &Handler{issuer: issuer, characters: characters, defaultVoice: defaultVoice}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/realtime/token", h.handleIssueToken)
}

func (h *Handler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CharacterID string `json:"characterId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	voice := h.defaultVoice
	if body.CharacterID != "" {
		found, ok := h.characters.FindByID(body.CharacterID)
		if !ok {
			utils.RespondError(w, http.StatusBadRequest, "unknown character")
			return
		}
		if found.VoiceID != "" {
			voice = found.VoiceID
		}
	}

	credential, err := h.issuer.Issue(r.Context(), voice)
	if err != nil {
		log.Printf("[token] issue credential: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "failed to issue realtime credential")
		return
	}
	utils.RespondJSON(w, http.StatusOK, credential)
}
