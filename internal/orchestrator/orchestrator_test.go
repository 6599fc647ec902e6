package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/legaldesk/orchestrator/internal/agentrun"
	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/classify"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/llmclient"
	"github.com/legaldesk/orchestrator/internal/tools"
	"github.com/legaldesk/orchestrator/tests/helpers"
)

// agentAwareClient answers differently depending on which agent's system
// prompt it was invoked with, letting a test drive a whole pipeline's worth
// of distinct agent outcomes through a single ModelClient.
type agentAwareClient struct {
	failFor map[domain.AgentName]bool
	textFor map[domain.AgentName]string
}

func (c *agentAwareClient) respond(req llmclient.GenerateRequest) (*llmclient.GenerateResult, error) {
	for name, shouldFail := range c.failFor {
		if shouldFail && strings.Contains(req.SystemPrompt, "You are "+string(name)) {
			return nil, domain.NewCoreError(domain.ErrUpstreamUnavailable, "simulated upstream failure", nil)
		}
	}
	for name, text := range c.textFor {
		if strings.Contains(req.SystemPrompt, "You are "+string(name)) {
			return &llmclient.GenerateResult{Text: text}, nil
		}
	}
	return &llmclient.GenerateResult{Text: "default response"}, nil
}

func (c *agentAwareClient) Generate(ctx context.Context, req llmclient.GenerateRequest) (*llmclient.GenerateResult, error) {
	return c.respond(req)
}

func (c *agentAwareClient) ContinueWithToolResults(ctx context.Context, req llmclient.GenerateRequest, priorAssistant llmclient.ChatMessage, results []llmclient.ChatMessage) (*llmclient.GenerateResult, error) {
	return c.respond(req)
}

func testOrchestrator(t *testing.T, model llmclient.ModelClient) *Orchestrator {
	t.Helper()
	st := helpers.NewTestStore(t)

	registry := tools.NewRegistry(nil, 5*time.Second)
	tools.RegisterBuiltins(registry, st, nil, nil)

	cat := catalog.New()
	classifier := classify.New(model)
	contextBuilder := ContextBuilderFor(st)
	runner := agentrun.New(contextBuilder, model, registry)

	return New(st, cat, classifier, runner, Config{
		RequestTimeout:     5 * time.Second,
		AgentTurnTimeout:   2 * time.Second,
		HistoryWindowPairs: 6,
	})
}

func TestHandleChatGreetingProducesAssistantResponse(t *testing.T) {
	orch := testOrchestrator(t, llmclient.NewMockClient())

	resp, err := orch.HandleChat(context.Background(), domain.ChatRequest{Message: "Hello there"})
	if err != nil {
		t.Fatalf("HandleChat failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.Agent != domain.AgentAssistant {
		t.Fatalf("expected ASSISTANT to handle a greeting, got %s", resp.Agent)
	}
	if resp.SessionID == "" {
		t.Fatalf("expected a generated session id")
	}
}

func TestHandleChatEmptyMessageIsInvalidRequest(t *testing.T) {
	orch := testOrchestrator(t, llmclient.NewMockClient())

	_, err := orch.HandleChat(context.Background(), domain.ChatRequest{Message: ""})
	if err == nil {
		t.Fatalf("expected an error for an empty message")
	}
	var coreErr *domain.CoreError
	if !errors.As(err, &coreErr) {
		t.Fatalf("expected a *domain.CoreError, got %T", err)
	}
	if coreErr.Kind != domain.ErrInvalidRequest {
		t.Fatalf("expected invalid_request, got %s", coreErr.Kind)
	}
}

func TestHandleChatNonPrerequisiteFailureContinuesPipeline(t *testing.T) {
	model := &agentAwareClient{
		failFor: map[domain.AgentName]bool{domain.AgentComplianceChecker: true},
		textFor: map[domain.AgentName]string{
			domain.AgentRiskAssessor: "risk assessment complete",
		},
	}
	orch := testOrchestrator(t, model)

	resp, err := orch.HandleChat(context.Background(), domain.ChatRequest{Message: "Give me a full analysis memo please"})
	if err != nil {
		t.Fatalf("HandleChat failed: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected overall success despite one agent failing, got %+v", resp)
	}
	if resp.Error == "" {
		t.Fatalf("expected the partial failure to be surfaced in Error")
	}
}

func TestHandleChatLegalMemoOverridesFinalContent(t *testing.T) {
	model := &agentAwareClient{
		textFor: map[domain.AgentName]string{
			domain.AgentComplianceChecker: "compliance findings",
			domain.AgentRiskAssessor:      "risk findings",
			domain.AgentLegalMemo:         "synthesized memo",
		},
	}
	orch := testOrchestrator(t, model)

	resp, err := orch.HandleChat(context.Background(), domain.ChatRequest{Message: "Give me a full analysis memo"})
	if err != nil {
		t.Fatalf("HandleChat failed: %v", err)
	}
	if resp.Agent != domain.AgentLegalMemo {
		t.Fatalf("expected LEGAL_MEMO to be the final agent, got %s", resp.Agent)
	}
	if resp.Message != "synthesized memo" {
		t.Fatalf("expected the memo's content to win, got %q", resp.Message)
	}
}
