package module

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	moduleModel "github.com/rehearsehq/rehearse/internal/model/module"
	"github.com/rehearsehq/rehearse/internal/service/notes"
)

func setupRouter() (*chi.Mux, *notes.Service) {
	store := moduleModel.NewMemoryStore(moduleModel.Seed())
	notesSvc := notes.NewService(store)
	handler := New(store, notesSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, notesSvc
}

func TestListModules(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/modules", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var listed []moduleModel.Module
	if err := json.NewDecoder(resp.Body).Decode(&listed); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(listed) != len(moduleModel.Seed()) {
		t.Fatalf("expected %d modules, got %d", len(moduleModel.Seed()), len(listed))
	}
}

func TestGetModuleInvalidID(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/modules/not-a-number", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetModuleNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/modules/999", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestAppendAndGetDraft(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"notes": "asked open questions early"})
	req := httptest.NewRequest(http.MethodPost, "/modules/101/notes/draft", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/modules/101/notes/draft", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var draft notes.Draft
	if err := json.NewDecoder(resp.Body).Decode(&draft); err != nil {
		t.Fatalf("decode draft: %v", err)
	}
	if draft.Text != "asked open questions early" {
		t.Fatalf("unexpected draft text: %q", draft.Text)
	}
}

func TestAppendDraftEmptyNotes(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"notes": "   "})
	req := httptest.NewRequest(http.MethodPost, "/modules/101/notes/draft", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestAppendDraftUnknownModule(t *testing.T) {
	r, _ := setupRouter()

	payload, _ := json.Marshal(map[string]string{"notes": "anything"})
	req := httptest.NewRequest(http.MethodPost, "/modules/999/notes/draft", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestStreamDraftUnknownModule(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/modules/999/notes/stream", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
