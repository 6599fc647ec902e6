// Package agentrun is the AgentRunner (C7): executes one agent turn, the
// bounded tool-calling loop between the ModelClient and the ToolRegistry.
// Grounded on the teacher's processAgentStream loop shape, adapted from an
// async SSE push model to a synchronous bounded loop.
package agentrun

import (
	"context"
	"encoding/json"
	"time"

	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/contextbuild"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/llmclient"
	"github.com/legaldesk/orchestrator/internal/thinking"
	"github.com/legaldesk/orchestrator/internal/tools"
)

// Request is one agent-turn execution request.
type Request struct {
	SessionID          string
	TurnID             string
	Agent              catalog.AgentDefinition
	CurrentUserMessage string
	ActiveContractID   *string
	HistoryWindowPairs int
	TokenBudgetFraction float64
	AgentTurnTimeout   time.Duration
}

// Outcome is what one agent turn produced: a final answer, or a partial
// answer plus the reason it stopped short.
type Outcome struct {
	Content   string
	Citations []domain.Citation
	ToolsUsed []string
	Err       *domain.CoreError
}

// Runner is the AgentRunner.
type Runner struct {
	contextBuilder *contextbuild.Builder
	modelClient    llmclient.ModelClient
	registry       *tools.Registry
}

// New builds a Runner wiring ContextBuilder + ModelClient + ToolRegistry.
func New(contextBuilder *contextbuild.Builder, modelClient llmclient.ModelClient, registry *tools.Registry) *Runner {
	return &Runner{contextBuilder: contextBuilder, modelClient: modelClient, registry: registry}
}

// Run drives one agent through init → awaiting_model → dispatching →
// awaiting_model → … → complete|failed (spec.md §4.7).
func (r *Runner) Run(ctx context.Context, req Request, logger *thinking.Logger) Outcome {
	turnTimeout := req.AgentTurnTimeout
	if turnTimeout <= 0 {
		turnTimeout = 30 * time.Second
	}
	agentCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	start := time.Now()
	_ = logger.Record(agentCtx, req.Agent.Name, domain.StageAgentStart, map[string]string{"query": req.CurrentUserMessage}, time.Since(start))

	system, messages, err := r.contextBuilder.Build(agentCtx, contextbuild.Request{
		SessionID:           req.SessionID,
		Agent:                req.Agent,
		CurrentUserMessage:  req.CurrentUserMessage,
		ActiveContractID:    req.ActiveContractID,
		HistoryWindowPairs:  req.HistoryWindowPairs,
		TokenBudgetFraction: req.TokenBudgetFraction,
		ModelMaxTokens:      req.Agent.DefaultOptions.MaxTokens,
	})
	if err != nil {
		coreErr := domain.NewCoreError(domain.ErrInternal, "failed to build agent context", err)
		_ = logger.Record(agentCtx, req.Agent.Name, domain.StageError, map[string]string{"error": coreErr.Error()}, time.Since(start))
		return Outcome{Err: coreErr}
	}

	genReq := llmclient.GenerateRequest{
		SystemPrompt:   system,
		Messages:       messages,
		Tools:          llmclient.ToolsFromDeclarations(r.registry.Declarations(req.Agent.ToolNames)),
		Temperature:    req.Agent.DefaultOptions.Temperature,
		MaxTokens:      req.Agent.DefaultOptions.MaxTokens,
		GroundedSearch: req.Agent.GroundedSearch,
	}

	maxIterations := req.Agent.MaxToolIterations
	if maxIterations <= 0 {
		maxIterations = 6
	}

	turnCtx := tools.TurnContext{
		SessionID:        req.SessionID,
		TurnID:           req.TurnID,
		AgentName:        req.Agent.Name,
		ActiveContractID: req.ActiveContractID,
		Logger:           logger,
	}

	var toolsUsed []string
	var lastResult *llmclient.GenerateResult
	var lastAssistantMsg llmclient.ChatMessage
	var pendingResults []llmclient.ChatMessage

	for iteration := 0; ; iteration++ {
		if agentCtx.Err() != nil {
			coreErr := domain.NewCoreError(domain.ErrAgentTimeout, "agent turn exceeded its time budget", agentCtx.Err())
			_ = logger.Record(ctx, req.Agent.Name, domain.StageError, map[string]string{"error": coreErr.Error()}, time.Since(start))
			partial := ""
			if lastResult != nil {
				partial = lastResult.Text
			}
			return Outcome{Content: partial, ToolsUsed: toolsUsed, Err: coreErr}
		}

		if iteration > maxIterations {
			coreErr := domain.NewCoreError(domain.ErrToolLoopExceeded, "agent exceeded max tool iterations", nil)
			_ = logger.Record(ctx, req.Agent.Name, domain.StageError, map[string]string{"error": coreErr.Error()}, time.Since(start))
			partial := ""
			if lastResult != nil {
				partial = lastResult.Text
			}
			return Outcome{Content: partial, ToolsUsed: toolsUsed, Err: coreErr}
		}

		var result *llmclient.GenerateResult
		var genErr error
		if iteration == 0 {
			result, genErr = r.modelClient.Generate(agentCtx, genReq)
		} else {
			result, genErr = r.modelClient.ContinueWithToolResults(agentCtx, genReq, lastAssistantMsg, pendingResults)
		}
		if genErr != nil {
			coreErr := toCoreError(genErr)
			_ = logger.Record(ctx, req.Agent.Name, domain.StageError, map[string]string{"error": coreErr.Error()}, time.Since(start))
			return Outcome{ToolsUsed: toolsUsed, Err: coreErr}
		}
		lastResult = result

		if len(result.ToolCalls) == 0 {
			_ = logger.Record(ctx, req.Agent.Name, domain.StageAgentOutput, map[string]interface{}{"content": result.Text}, time.Since(start))
			return Outcome{Content: result.Text, Citations: result.Citations, ToolsUsed: toolsUsed}
		}

		lastAssistantMsg = llmclient.ChatMessage{Role: "assistant", Content: result.Text, ToolCalls: result.ToolCalls}

		pendingResults = make([]llmclient.ChatMessage, 0, len(result.ToolCalls))
		for _, call := range result.ToolCalls {
			_ = logger.Record(ctx, req.Agent.Name, domain.StageToolCall, map[string]interface{}{"name": call.Function.Name, "arguments": call.Function.Arguments}, time.Since(start))

			outcome := r.registry.Dispatch(agentCtx, call.Function.Name, []byte(call.Function.Arguments), turnCtx)
			toolsUsed = append(toolsUsed, call.Function.Name)

			var payload interface{}
			if outcome.OK {
				payload = outcome.Value
			} else {
				payload = outcome.ErrorPayload()
			}
			_ = logger.Record(ctx, req.Agent.Name, domain.StageToolResult, map[string]interface{}{"name": call.Function.Name, "ok": outcome.OK, "result": payload}, time.Since(start))

			resultJSON, _ := json.Marshal(payload)
			pendingResults = append(pendingResults, llmclient.ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    string(resultJSON),
			})
		}
	}
}

func toCoreError(err error) *domain.CoreError {
	if coreErr, ok := err.(*domain.CoreError); ok {
		return coreErr
	}
	return domain.NewCoreError(domain.ErrUpstreamUnavailable, "model call failed", err)
}
