package realtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Credential is a short-lived client token for connecting to the realtime
// endpoint directly from a trainee's browser or a command-line client.
type Credential struct {
	Token     string    `json:"token"`
	Model     string    `json:"model"`
	Voice     string    `json:"voice"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// TokenIssuer mints ephemeral credentials by calling the provider's session
// endpoint with the server-side API key. The key never leaves the backend.
type TokenIssuer struct {
	httpClient *http.Client
	sessionURL string
	apiKey     string
	model      string
}

// NewTokenIssuer builds an issuer. A nil httpClient falls back to a client
// with a 15 second timeout.
func NewTokenIssuer(sessionURL, apiKey, model string, httpClient *http.Client) *TokenIssuer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &TokenIssuer{
		httpClient: httpClient,
		sessionURL: strings.TrimRight(sessionURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}
}

// Issue requests one ephemeral credential for the given voice.
func (i *TokenIssuer) Issue(ctx context.Context, voice string) (Credential, error) {
	payload, err := json.Marshal(map[string]string{
		"model": i.model,
		"voice": voice,
	})
	if err != nil {
		return Credential{}, fmt.Errorf("encode session request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.sessionURL, bytes.NewReader(payload))
	if err != nil {
		return Credential{}, fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+i.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return Credential{}, fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Credential{}, fmt.Errorf("read session response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credential{}, fmt.Errorf("session endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		ClientSecret struct {
			Value     string `json:"value"`
			ExpiresAt int64  `json:"expires_at"`
		} `json:"client_secret"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Credential{}, fmt.Errorf("decode session response: %w", err)
	}
	if parsed.ClientSecret.Value == "" {
		return Credential{}, fmt.Errorf("session response missing client secret")
	}

	return Credential{
		Token:     parsed.ClientSecret.Value,
		Model:     i.model,
		Voice:     voice,
		ExpiresAt: time.Unix(parsed.ClientSecret.ExpiresAt, 0).UTC(),
	}, nil
}
