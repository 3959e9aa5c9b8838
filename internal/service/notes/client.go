package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client appends notes to a remote draft endpoint. It satisfies the same
// appender contract as Service, so tooling can run against a live backend
// instead of in-process state.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds a client for the backend at baseURL. A nil httpClient
// falls back to a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// AppendDraft posts notes to the module's draft endpoint.
func (c *Client) AppendDraft(ctx context.Context, moduleID int64, notes string) error {
	payload, err := json.Marshal(map[string]string{"notes": notes})
	if err != nil {
		return fmt.Errorf("encode notes payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/modules/%d/notes/draft", c.baseURL, moduleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notes request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append draft request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		return nil
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("append draft rejected: %s", body.Error)
	}
	return fmt.Errorf("append draft returned status %d", resp.StatusCode)
}
