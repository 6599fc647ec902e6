package llmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// Client is the real ModelClient, speaking the OpenAI-compatible chat
// completion format over net/http, grounded on the teacher's
// llmproxy.Client.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient builds a Client against an OpenAI-compatible endpoint.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, req.Messages...)
	return c.complete(ctx, req, messages)
}

func (c *Client) ContinueWithToolResults(ctx context.Context, req GenerateRequest, priorAssistant ChatMessage, results []ChatMessage) (*GenerateResult, error) {
	messages := make([]ChatMessage, 0, len(req.Messages)+len(results)+2)
	if req.SystemPrompt != "" {
		messages = append(messages, ChatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, req.Messages...)
	messages = append(messages, priorAssistant)
	messages = append(messages, results...)
	return c.complete(ctx, req, messages)
}

func (c *Client) complete(ctx context.Context, req GenerateRequest, messages []ChatMessage) (*GenerateResult, error) {
	body := ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Tools:       req.Tools,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, domain.NewCoreError(domain.ErrUpstreamUnavailable, "model endpoint unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat completion response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		_ = json.Unmarshal(respBody, &errResp)
		msg := errResp.Error.Message
		if msg == "" {
			msg = string(respBody)
		}
		return nil, domain.NewCoreError(domain.ErrUpstreamUnavailable, fmt.Sprintf("model endpoint returned %d: %s", resp.StatusCode, msg), nil)
	}

	var completion ChatCompletionResponse
	if err := json.Unmarshal(respBody, &completion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal chat completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, domain.NewCoreError(domain.ErrUpstreamUnavailable, "model endpoint returned no choices", nil)
	}

	choice := completion.Choices[0]
	// Citations are left empty here: extracting them requires a
	// provider-specific grounding-metadata format the generic
	// OpenAI-compatible wire format does not carry.
	return &GenerateResult{
		Text:      choice.Message.Content,
		ToolCalls: choice.Message.ToolCalls,
		Usage:     completion.Usage,
	}, nil
}

var _ ModelClient = (*Client)(nil)
