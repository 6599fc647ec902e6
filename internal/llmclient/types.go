package llmclient

import (
	"encoding/json"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// ChatMessage is one message in the OpenAI-compatible wire format. The
// teacher's llmproxy speaks this format directly over net/http rather than
// through an SDK, and so does this package.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolFunction is an OpenAI-style tool declaration.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Tool wraps a ToolFunction the way chat-completion payloads require.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolCallFunction is the model's requested function name and arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is one function call the model asked the caller to make.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ChatCompletionRequest is the request body for POST /v1/chat/completions.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Tools       []Tool        `json:"tools,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// Usage is token accounting for a single completion call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice is one candidate completion.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the response body from a chat-completion call.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// APIError is the error object an OpenAI-compatible endpoint returns.
type APIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// ErrorResponse wraps APIError the way upstream error bodies do.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// jsonSchemaParameter is one property entry inside jsonSchemaParameters,
// the OpenAI function-calling parameters object:
// {"type":"object","properties":{...},"required":[...]}.
type jsonSchemaParameter struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
}

type jsonSchemaParameters struct {
	Type       string                         `json:"type"`
	Properties map[string]jsonSchemaParameter `json:"properties"`
	Required   []string                       `json:"required,omitempty"`
}

// ToolsFromDeclarations converts the ToolRegistry's declaration menu into
// the OpenAI-style Tool list a ModelClient sends over the wire.
func ToolsFromDeclarations(decls []domain.ToolDeclaration) []Tool {
	tools := make([]Tool, 0, len(decls))
	for _, d := range decls {
		params := jsonSchemaParameters{
			Type:       "object",
			Properties: make(map[string]jsonSchemaParameter, len(d.ParameterSchema)),
		}
		for name, field := range d.ParameterSchema {
			params.Properties[name] = jsonSchemaParameter{
				Type:        string(field.Type),
				Description: field.Description,
			}
			if field.Required {
				params.Required = append(params.Required, name)
			}
		}
		raw, _ := json.Marshal(params)
		tools = append(tools, Tool{
			Type: "function",
			Function: ToolFunction{
				Name:        d.Name,
				Description: d.Description,
				Parameters:  raw,
			},
		})
	}
	return tools
}
