package collective

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrSharingDisabled is returned when no sharing gateway is configured.
var ErrSharingDisabled = errors.New("sharing disabled")

// Sharer accepts anonymized payloads for decentralized storage. Failures
// are always reported back, never allowed to abort local persistence.
type Sharer interface {
	Upload(ctx context.Context, payload any) (contentID string, err error)
	LogEvent(ctx context.Context, stateKey string, value float64, contentID string) error
}

// Gateway is an HTTP sharing collaborator.
type Gateway struct {
	BaseURL string
	Client  *http.Client
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (g *Gateway) Upload(ctx context.Context, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal share payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/upload", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload payload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload payload: status %d", resp.StatusCode)
	}

	var out struct {
		ContentID string `json:"content_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.ContentID == "" {
		return "", errors.New("upload response missing content id")
	}
	return out.ContentID, nil
}

func (g *Gateway) LogEvent(ctx context.Context, stateKey string, value float64, contentID string) error {
	body, _ := json.Marshal(map[string]any{
		"state_key":  stateKey,
		"value":      value,
		"content_id": contentID,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build event request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	defer resp.Body.Close()

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("decode event response: %w", err)
	}
	if !out.Success {
		return fmt.Errorf("log event rejected: %s", out.Error)
	}
	return nil
}

// NoSharing rejects every share; used when sharing is not configured.
type NoSharing struct{}

func (NoSharing) Upload(context.Context, any) (string, error) { return "", ErrSharingDisabled }

func (NoSharing) LogEvent(context.Context, string, float64, string) error {
	return ErrSharingDisabled
}
