package agentrun

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/contextbuild"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/llmclient"
	"github.com/legaldesk/orchestrator/internal/thinking"
	"github.com/legaldesk/orchestrator/internal/tools"
	"github.com/legaldesk/orchestrator/tests/helpers"
)

// noToolCallsClient answers immediately with final text and no tool calls.
type noToolCallsClient struct {
	calls int32
}

func (c *noToolCallsClient) Generate(ctx context.Context, req llmclient.GenerateRequest) (*llmclient.GenerateResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return &llmclient.GenerateResult{Text: "final answer"}, nil
}

func (c *noToolCallsClient) ContinueWithToolResults(ctx context.Context, req llmclient.GenerateRequest, priorAssistant llmclient.ChatMessage, results []llmclient.ChatMessage) (*llmclient.GenerateResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return &llmclient.GenerateResult{Text: "final answer"}, nil
}

// alwaysToolCallClient never produces a final answer, forcing the loop to
// exhaust max_tool_iterations.
type alwaysToolCallClient struct {
	calls int32
}

func (c *alwaysToolCallClient) Generate(ctx context.Context, req llmclient.GenerateRequest) (*llmclient.GenerateResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.toolCallResult(), nil
}

func (c *alwaysToolCallClient) ContinueWithToolResults(ctx context.Context, req llmclient.GenerateRequest, priorAssistant llmclient.ChatMessage, results []llmclient.ChatMessage) (*llmclient.GenerateResult, error) {
	atomic.AddInt32(&c.calls, 1)
	return c.toolCallResult(), nil
}

func (c *alwaysToolCallClient) toolCallResult() *llmclient.GenerateResult {
	return &llmclient.GenerateResult{
		Text: "",
		ToolCalls: []llmclient.ToolCall{
			{ID: "call_1", Type: "function", Function: llmclient.ToolCallFunction{Name: "log_thought", Arguments: `{"agent_name":"ASSISTANT","stage":"agent_output","payload":"looping"}`}},
		},
	}
}

func testRunner(t *testing.T, model llmclient.ModelClient) (*Runner, *thinking.Logger) {
	t.Helper()
	st := helpers.NewTestStore(t)
	ctx := context.Background()
	if _, err := st.GetOrCreateSession(ctx, "sess_1"); err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	registry := tools.NewRegistry(nil, 5*time.Second)
	tools.RegisterBuiltins(registry, st, nil, nil)

	contextBuilder := contextbuild.New(st)
	runner := New(contextBuilder, model, registry)
	logger := thinking.New(st, "sess_1", "turn_1")
	return runner, logger
}

func testAgent() catalog.AgentDefinition {
	return catalog.AgentDefinition{
		Name:               domain.AgentAssistant,
		SystemInstructions: "Be helpful.",
		ToolNames:          []string{"log_thought"},
		DefaultOptions:     catalog.Options{Temperature: 0.5, MaxTokens: 256},
		MaxToolIterations:  3,
	}
}

func TestRunTerminatesInOneCallWithNoToolCalls(t *testing.T) {
	model := &noToolCallsClient{}
	runner, logger := testRunner(t, model)

	outcome := runner.Run(context.Background(), Request{
		SessionID:          "sess_1",
		TurnID:             "turn_1",
		Agent:              testAgent(),
		CurrentUserMessage: "hi",
	}, logger)

	if outcome.Err != nil {
		t.Fatalf("expected success, got error: %v", outcome.Err)
	}
	if outcome.Content != "final answer" {
		t.Fatalf("unexpected content: %q", outcome.Content)
	}
	if atomic.LoadInt32(&model.calls) != 1 {
		t.Fatalf("expected exactly 1 model call, got %d", model.calls)
	}
}

func TestRunExceedsMaxToolIterations(t *testing.T) {
	model := &alwaysToolCallClient{}
	runner, logger := testRunner(t, model)

	agent := testAgent()
	agent.MaxToolIterations = 3

	outcome := runner.Run(context.Background(), Request{
		SessionID:          "sess_1",
		TurnID:             "turn_1",
		Agent:              agent,
		CurrentUserMessage: "keep going",
	}, logger)

	if outcome.Err == nil {
		t.Fatalf("expected tool_loop_exceeded error")
	}
	if outcome.Err.Kind != domain.ErrToolLoopExceeded {
		t.Fatalf("expected tool_loop_exceeded, got %s", outcome.Err.Kind)
	}
	// iterations 0..max_tool_iterations inclusive all call the model before
	// the loop detects iteration > max and stops, i.e. max_tool_iterations+1
	// model calls total.
	if got := atomic.LoadInt32(&model.calls); got != int32(agent.MaxToolIterations+1) {
		t.Fatalf("expected %d model calls, got %d", agent.MaxToolIterations+1, got)
	}
}

func TestRunGroundedQueryAlwaysCarriesCitations(t *testing.T) {
	// Regression test: LEGAL_RESEARCH's tool list starts with log_thought
	// (required fields agent_name/stage/payload), and the mock's keyword
	// heuristic used to fire on "clause" in this exact spec example query.
	// That combination used to dispatch log_thought with "{}" arguments,
	// fail bad_arguments, and never reach the citation-attaching branch.
	runner, logger := testRunner(t, llmclient.NewMockClient())

	agent := catalog.AgentDefinition{
		Name:               domain.AgentLegalResearch,
		SystemInstructions: "Answer legal questions with web citations.",
		ToolNames:          []string{"log_thought"},
		GroundedSearch:     true,
		DefaultOptions:     catalog.Options{Temperature: 0.3, MaxTokens: 1536},
		MaxToolIterations:  6,
	}

	outcome := runner.Run(context.Background(), Request{
		SessionID:          "sess_1",
		TurnID:             "turn_1",
		Agent:              agent,
		CurrentUserMessage: "What is a force majeure clause?",
	}, logger)

	if outcome.Err != nil {
		t.Fatalf("expected success, got error: %v", outcome.Err)
	}
	if len(outcome.Citations) == 0 {
		t.Fatalf("expected a grounded query to carry at least one citation")
	}
}

func TestRunRespectsAgentTurnTimeout(t *testing.T) {
	model := &alwaysToolCallClient{}
	runner, logger := testRunner(t, model)

	agent := testAgent()
	agent.MaxToolIterations = 1000

	outcome := runner.Run(context.Background(), Request{
		SessionID:          "sess_1",
		TurnID:             "turn_1",
		Agent:              agent,
		CurrentUserMessage: "keep going",
		AgentTurnTimeout:   1 * time.Nanosecond,
	}, logger)

	if outcome.Err == nil {
		t.Fatalf("expected an error from the expired turn timeout")
	}
}
