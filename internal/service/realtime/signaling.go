package realtime

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// SignalingClient exchanges SDP session descriptions with the realtime
// endpoint over HTTP. It performs no retries and applies no timeout of its
// own; cancellation is the caller's context.
type SignalingClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
}

// NewSignalingClient builds a client for the given endpoint and model. A nil
// httpClient falls back to a default client.
func NewSignalingClient(baseURL, model string, httpClient *http.Client) *SignalingClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &SignalingClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
	}
}

// ExchangeOffer POSTs the local SDP offer and returns the remote SDP answer.
// The request is authenticated with the short-lived bearer token and carries
// the target model as a query parameter; the response body is the answer as
// plain text, with no JSON envelope.
func (c *SignalingClient) ExchangeOffer(ctx context.Context, token, offerSDP string) (string, error) {
	endpoint := fmt.Sprintf("%s?model=%s", c.baseURL, url.QueryEscape(c.model))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(offerSDP))
	if err != nil {
		return "", fmt.Errorf("build signaling request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/sdp")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("signaling request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read signaling response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("signaling endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	answer := string(body)
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("signaling endpoint returned empty answer")
	}

	return answer, nil
}
