package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/randomtoy/vibecheck/internal/domain"
	"github.com/randomtoy/vibecheck/internal/ports"
)

// Client implements ports.Generator via the Mistral chat completions API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// chatRequest / chatResponse mirror the OpenAI-compatible API shapes.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends one chat completion and returns the first choice's content
// unmodified. It makes exactly one attempt.
func (c *Client) Generate(ctx context.Context, in ports.GenerateInput) (ports.GenerateOutput, error) {
	if c.apiKey == "" {
		return ports.GenerateOutput{}, domain.ErrMissingCredential
	}

	start := time.Now()
	resp, err := c.callLLM(ctx, in)
	if err != nil {
		return ports.GenerateOutput{}, fmt.Errorf("%w: %w", domain.ErrUpstreamLLM, err)
	}

	model := resp.Model
	if model == "" {
		model = in.Model
	}
	c.logger.DebugContext(ctx, "generation complete",
		"model", model,
		"max_tokens", in.MaxTokens,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return ports.GenerateOutput{
		Text:  resp.Choices[0].Message.Content,
		Model: model,
	}, nil
}

func (c *Client) callLLM(ctx context.Context, in ports.GenerateInput) (chatResponse, error) {
	reqBody := chatRequest{
		Model: in.Model,
		Messages: []chatMessage{
			{Role: "system", Content: in.System},
			{Role: "user", Content: in.User},
		},
		MaxTokens: in.MaxTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return chatResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return chatResponse{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return chatResponse{}, fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatResponse{}, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return chatResponse{}, fmt.Errorf("%w: upstream status %d", domain.ErrInvalidCredential, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return chatResponse{}, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return chatResponse{}, fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return chatResponse{}, fmt.Errorf("no choices in response")
	}

	return chatResp, nil
}
