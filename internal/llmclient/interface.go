// Package llmclient is the ModelClient adapter (C3): the one seam between
// the orchestrator and whatever LLM backend answers agent turns. It speaks
// the OpenAI-compatible chat-completion wire format directly over
// net/http, the way the teacher's llmproxy client does, rather than
// depending on a vendor SDK.
package llmclient

import (
	"context"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// GenerateRequest is one agent-turn completion request.
type GenerateRequest struct {
	SystemPrompt   string
	Messages       []ChatMessage
	Tools          []Tool
	Temperature    float64
	MaxTokens      int
	GroundedSearch bool
}

// GenerateResult is the outcome of a completion call: either the model
// produced a final text answer, or it asked for one or more tool calls.
// Citations is populated only when the request set GroundedSearch.
type GenerateResult struct {
	Text      string
	ToolCalls []ToolCall
	Citations []domain.Citation
	Usage     Usage
}

// ModelClient is the abstract LLM backend. Implementations must never
// panic; failures come back as errors the caller wraps into a CoreError.
type ModelClient interface {
	// Generate runs one completion call given a system prompt, message
	// history, and the tool menu available to the current agent.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error)

	// ContinueWithToolResults appends tool results to the conversation and
	// asks the model to continue — either with more tool calls or a final
	// answer.
	ContinueWithToolResults(ctx context.Context, req GenerateRequest, priorAssistant ChatMessage, results []ChatMessage) (*GenerateResult, error)
}
