package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpclient "admissions-tracker/internal/common/http"
)

var ErrGatewayFailed = errors.New("GENAI_GATEWAY_FAILED")

// Gateway calls the internal GenAI service at {BaseURL}/api/ai/generate.
type Gateway struct {
	baseURL    string
	apiKey     string
	maxRetries int
	client     *httpclient.Client
}

func NewGateway(baseURL, apiKey string, maxRetries int, client *httpclient.Client) *Gateway {
	if client == nil {
		client = httpclient.NewClient(0)
	}
	return &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		maxRetries: maxRetries,
		client:     client,
	}
}

type gatewayRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Format      string  `json:"format"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

func (g *Gateway) GenerateText(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(gatewayRequest{Prompt: prompt, MaxTokens: 2048, Temperature: 0.2, Format: "json"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGatewayFailed, err)
	}

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := g.do(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	return "", fmt.Errorf("%w: %v", ErrGatewayFailed, lastErr)
}

func (g *Gateway) do(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/ai/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	var out gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode error: %w", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", errors.New("empty text")
	}
	return out.Text, nil
}
