package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"medicall/config"

	"github.com/google/uuid"
)

// TokenProvider issues and revokes the opaque session tokens of the external
// video-call provider. The token is never interpreted by this service.
type TokenProvider interface {
	Issue(ctx context.Context, appointmentID string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// NewFromConfig returns the HTTP-backed provider when a video API is
// configured, otherwise the local fallback.
func NewFromConfig() TokenProvider {
	if config.AppConfig.VideoAPIURL != "" {
		return &HTTPTokenProvider{
			BaseURL: config.AppConfig.VideoAPIURL,
			APIKey:  config.AppConfig.VideoAPIKey,
			Client:  &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &LocalTokenProvider{}
}

// HTTPTokenProvider talks to the external video-session API.
type HTTPTokenProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func (p *HTTPTokenProvider) Issue(ctx context.Context, appointmentID string) (string, error) {
	body, err := json.Marshal(map[string]string{"appointmentId": appointmentID})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/sessions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("video provider request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("video provider returned status %d", resp.StatusCode)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode video provider response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("video provider returned empty token")
	}
	return out.Token, nil
}

func (p *HTTPTokenProvider) Revoke(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, p.BaseURL+"/sessions/"+token, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("video provider revoke failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("video provider returned status %d", resp.StatusCode)
	}
	return nil
}

// LocalTokenProvider mints opaque tokens locally. Used in development when
// no external video API is configured.
type LocalTokenProvider struct{}

func (p *LocalTokenProvider) Issue(ctx context.Context, appointmentID string) (string, error) {
	return "local-" + uuid.New().String(), nil
}

func (p *LocalTokenProvider) Revoke(ctx context.Context, token string) error {
	return nil
}
