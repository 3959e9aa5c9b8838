package token

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rehearsehq/rehearse/internal/model/character"
	"github.com/rehearsehq/rehearse/internal/service/realtime"
)

type fakeIssuer struct {
	voice string
	err   error
}

func (f *fakeIssuer) Issue(ctx context.Context, voice string) (realtime.Credential, error) {
	f.voice = voice
	if f.err != nil {
		return realtime.Credential{}, f.err
	}
	return realtime.Credential{
		Token:     "ek_test",
		Model:     "gpt-4o-realtime-preview-2024-12-17",
		Voice:     voice,
		ExpiresAt: time.Now().Add(time.Minute),
	}, nil
}

func setupRouter(issuer Issuer) *chi.Mux {
	handler := New(issuer, character.NewMemoryStore(character.Seed()), "verse")
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func postToken(r *chi.Mux, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/realtime/token", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestIssueTokenUsesCharacterVoice(t *testing.T) {
	issuer := &fakeIssuer{}
	r := setupRouter(issuer)

	resp := postToken(r, map[string]string{"characterId": "hostile-stakeholder"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if issuer.voice != "ash" {
		t.Fatalf("expected character voice ash, got %s", issuer.voice)
	}

	var cred realtime.Credential
	if err := json.NewDecoder(resp.Body).Decode(&cred); err != nil {
		t.Fatalf("decode credential: %v", err)
	}
	if cred.Token != "ek_test" {
		t.Fatalf("unexpected token: %s", cred.Token)
	}
}

func TestIssueTokenDefaultVoice(t *testing.T) {
	issuer := &fakeIssuer{}
	r := setupRouter(issuer)

	resp := postToken(r, map[string]string{})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if issuer.voice != "verse" {
		t.Fatalf("expected default voice verse, got %s", issuer.voice)
	}
}

func TestIssueTokenUnknownCharacter(t *testing.T) {
	r := setupRouter(&fakeIssuer{})

	resp := postToken(r, map[string]string{"characterId": "nobody"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestIssueTokenIssuerFailure(t *testing.T) {
	r := setupRouter(&fakeIssuer{err: errors.New("provider unavailable")})

	resp := postToken(r, map[string]string{})
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
}
