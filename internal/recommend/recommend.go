// Package recommend produces short item recommendations for a user by
// calling an external text-generation endpoint. The feature is optional; a
// nil generator disables it and callers surface that as unavailable.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/pkg/config"
)

var (
	ErrDisabled    = errors.New("recommendations are not enabled")
	ErrUpstream    = errors.New("recommendation service failed")
	ErrEmptyResult = errors.New("recommendation service returned nothing")
)

// TextGenerator turns a prompt into generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// HTTPGenerator posts the prompt as JSON to a configured endpoint.
type HTTPGenerator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

var _ TextGenerator = (*HTTPGenerator)(nil)

// NewHTTPGenerator returns nil when no endpoint is configured, which
// callers treat as the feature being off.
func NewHTTPGenerator(cfg config.AIConfig) *HTTPGenerator {
	if cfg.Endpoint == "" {
		return nil
	}
	return &HTTPGenerator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Text string `json:"text"`
}

func (g *HTTPGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", ErrEmptyResult
	}
	return out.Text, nil
}

// BuildPrompt summarizes the live catalog and the user's own listings into
// a prompt asking for a short, friendly recommendation.
func BuildPrompt(userName string, available, owned []models.Item) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for a community item-sharing site.\n")
	fmt.Fprintf(&b, "User: %s\n", userName)

	b.WriteString("Items currently available:\n")
	if len(available) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, item := range available {
		fmt.Fprintf(&b, "  - %s (%s, %s): %s\n", item.Name, item.Category, item.Location, item.Description)
	}

	if len(owned) > 0 {
		b.WriteString("Items the user has shared before:\n")
		for _, item := range owned {
			fmt.Fprintf(&b, "  - %s (%s)\n", item.Name, item.Category)
		}
	}

	b.WriteString("Suggest up to three available items this user might like, in two or three friendly sentences.")
	return b.String()
}

// StaticGenerator returns a fixed response; used in tests.
type StaticGenerator struct {
	Text string
	Err  error
}

var _ TextGenerator = (*StaticGenerator)(nil)

func (g *StaticGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.Err != nil {
		return "", g.Err
	}
	return g.Text, nil
}
