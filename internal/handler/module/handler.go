package module

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	moduleModel "github.com/rehearsehq/rehearse/internal/model/module"
	"github.com/rehearsehq/rehearse/internal/service/notes"
	"github.com/rehearsehq/rehearse/pkg/utils"
)

// Handler serves the training module catalog and per-module note drafts.
type Handler struct {
	modules moduleModel.Store
	notes   *notes.Service
}

func New(modules moduleModel.Store, notesSvc *notes.Service) *Handler {
	return &Handler{modules: modules, notes: notesSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/modules", h.handleListModules)
	r.Get("/modules/{moduleID}", h.handleGetModule)
	r.Get("/modules/{moduleID}/notes/draft", h.handleGetDraft)
	r.Post("/modules/{moduleID}/notes/draft", h.handleAppendDraft)
	r.Get("/modules/{moduleID}/notes/stream", h.handleStreamDraft)
}

func (h *Handler) handleListModules(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.modules.List())
}

func (h *Handler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	id, ok := moduleID(w, r)
	if !ok {
		return
	}
	found, ok := h.modules.FindByID(id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "module not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, found)
}

func (h *Handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := moduleID(w, r)
	if !ok {
		return
	}
	draft, err := h.notes.Draft(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "module not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleAppendDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := moduleID(w, r)
	if !ok {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Notes) == "" {
		utils.RespondError(w, http.StatusBadRequest, "notes must not be empty")
		return
	}

	if err := h.notes.AppendDraft(r.Context(), id, body.Notes); err != nil {
		utils.RespondError(w, http.StatusNotFound, "module not found")
		return
	}
	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleStreamDraft pushes draft updates for one module over SSE until the
// client disconnects.
func (h *Handler) handleStreamDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := moduleID(w, r)
	if !ok {
		return
	}
	if _, found := h.modules.FindByID(id); !found {
		utils.RespondError(w, http.StatusNotFound, "module not found")
		return
	}

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	updates := make(chan notes.Draft, 8)
	unsubscribe := h.notes.Subscribe(func(d notes.Draft) {
		if d.ModuleID != id {
			return
		}
		select {
		case updates <- d:
		default:
		}
	})
	defer unsubscribe()

	// Send the current draft so clients start from known state.
	if draft, err := h.notes.Draft(r.Context(), id); err == nil {
		utils.SendSSEEvent(w, flusher, "draft", draft)
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case draft := <-updates:
			utils.SendSSEEvent(w, flusher, "draft", draft)
		}
	}
}

func moduleID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "moduleID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "module id must be numeric")
		return 0, false
	}
	return id, true
}
