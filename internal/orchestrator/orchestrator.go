// Package orchestrator is the SessionOrchestrator (C8): the per-turn
// coordinator tying together QueryClassifier, the AgentRunner pipeline,
// and the Store. Grounded on the teacher's service.InvokeAgent turn
// lifecycle, adapted from an async SSE-pushing flow to a synchronous
// request/response flow.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legaldesk/orchestrator/internal/agentrun"
	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/classify"
	"github.com/legaldesk/orchestrator/internal/contextbuild"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
	"github.com/legaldesk/orchestrator/internal/thinking"
)

// Config bounds one orchestrated request, sourced from internal/config.
type Config struct {
	RequestTimeout      time.Duration
	AgentTurnTimeout    time.Duration
	HistoryWindowPairs  int
	TokenBudgetFraction float64
}

// Orchestrator is the SessionOrchestrator.
type Orchestrator struct {
	st         store.Store
	catalog    *catalog.Catalog
	classifier *classify.Classifier
	runner     *agentrun.Runner
	cfg        Config

	sessionLocksMu sync.Mutex
	sessionLocks   map[string]*sync.Mutex
}

// New wires a SessionOrchestrator.
func New(st store.Store, cat *catalog.Catalog, classifier *classify.Classifier, runner *agentrun.Runner, cfg Config) *Orchestrator {
	return &Orchestrator{
		st:           st,
		catalog:      cat,
		classifier:   classifier,
		runner:       runner,
		cfg:          cfg,
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

func (o *Orchestrator) lockFor(sessionID string) *sync.Mutex {
	o.sessionLocksMu.Lock()
	defer o.sessionLocksMu.Unlock()
	l, ok := o.sessionLocks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		o.sessionLocks[sessionID] = l
	}
	return l
}

// HandleChat runs one full turn: resolve session, persist the user
// message, classify, drive the agent pipeline sequentially, persist the
// assistant message, and return the structured response (spec.md §4.8).
func (o *Orchestrator) HandleChat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if req.Message == "" {
		return nil, domain.NewCoreError(domain.ErrInvalidRequest, "message must not be empty", nil)
	}

	sessionID := ""
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	if sessionID == "" {
		sessionID = "sess_" + uuid.NewString()
	}

	lock := o.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	requestTimeout := o.cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 90 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	session, err := o.st.GetOrCreateSession(reqCtx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	activeContractID := session.ActiveContractID
	if req.ContractID != nil {
		activeContractID = req.ContractID
	}

	userMsg := &domain.Message{
		MessageID: "msg_" + uuid.NewString(),
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}
	if err := o.st.CreateMessage(reqCtx, userMsg); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}
	if err := o.st.TouchSession(reqCtx, sessionID, activeContractID); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	turnID := "turn_" + uuid.NewString()
	logger := thinking.New(o.st, sessionID, turnID)

	snap := o.buildSnapshot(reqCtx, session, activeContractID)
	classifyResult, err := o.classifier.Classify(reqCtx, req.Message, snap)
	if err != nil {
		coreErr := domain.NewCoreError(domain.ErrInternal, "classification failed", err)
		_ = logger.Record(reqCtx, domain.AgentAssistant, domain.StageError, map[string]string{"error": coreErr.Error()}, 0)
		return errorResponse(sessionID, coreErr), nil
	}
	_ = logger.Record(reqCtx, domain.AgentAssistant, domain.StageClassify, map[string]interface{}{"pipeline": classifyResult.Pipeline, "query_type": classifyResult.QueryType}, 0)

	var (
		finalContent   string
		finalAgent     domain.AgentName
		finalCitations []domain.Citation
		allToolsUsed   []string
		pipelineErr    *domain.CoreError
		succeeded      = map[domain.AgentName]string{}
	)

	pipeline := classifyResult.Pipeline
	for i, agentName := range pipeline {
		def, ok := o.catalog.Get(agentName)
		if !ok {
			continue
		}

		outcome := o.runner.Run(reqCtx, agentrun.Request{
			SessionID:           sessionID,
			TurnID:               turnID,
			Agent:                def,
			CurrentUserMessage:  req.Message,
			ActiveContractID:    activeContractID,
			HistoryWindowPairs:  o.cfg.HistoryWindowPairs,
			TokenBudgetFraction: o.cfg.TokenBudgetFraction,
			AgentTurnTimeout:    o.cfg.AgentTurnTimeout,
		}, logger)

		allToolsUsed = append(allToolsUsed, outcome.ToolsUsed...)
		if len(outcome.Citations) > 0 {
			finalCitations = mergeCitations(finalCitations, outcome.Citations)
		}

		if outcome.Err != nil {
			isOnlyAgent := len(pipeline) == 1
			isPrerequisite := agentName == domain.AgentContractParser && i < len(pipeline)-1
			if isOnlyAgent || isPrerequisite {
				pipelineErr = domain.NewCoreError(domain.ErrPipelineAborted, outcome.Err.UserMessage(), outcome.Err)
				if outcome.Content != "" {
					finalContent = outcome.Content
					finalAgent = agentName
				}
				break
			}
			// Not a prerequisite and not the only agent: record the
			// failure and continue with the next agent in the pipeline.
			pipelineErr = outcome.Err
			continue
		}

		succeeded[agentName] = outcome.Content
		finalContent = outcome.Content
		finalAgent = agentName
	}

	// LEGAL_MEMO is the designated synthesizer when present;
	// its content wins over a later-but-lesser agent's output even though
	// in every default pipeline it already runs last.
	if memoContent, ok := succeeded[domain.AgentLegalMemo]; ok {
		finalContent = memoContent
		finalAgent = domain.AgentLegalMemo
	}

	if finalContent == "" && pipelineErr != nil {
		return errorResponse(sessionID, pipelineErr), nil
	}

	responseText := finalContent
	if pipelineErr != nil {
		responseText = finalContent + "\n\n" + pipelineErr.UserMessage()
	}

	assistantMsg := &domain.Message{
		MessageID:        "msg_" + uuid.NewString(),
		SessionID:        sessionID,
		Role:             domain.RoleAssistant,
		Content:          responseText,
		AgentName:        &finalAgent,
		Citations:        finalCitations,
		ToolCallsSummary: allToolsUsed,
		CreatedAt:        time.Now(),
	}
	if err := o.st.CreateMessage(reqCtx, assistantMsg); err != nil {
		return nil, fmt.Errorf("failed to persist assistant message: %w", err)
	}
	if err := o.st.TouchSession(reqCtx, sessionID, activeContractID); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	resp := &domain.ChatResponse{
		Success:   true,
		Message:   responseText,
		Agent:     finalAgent,
		AgentID:   string(finalAgent),
		Citations: finalCitations,
		ToolsUsed: dedupStrings(allToolsUsed),
		SessionID: sessionID,
	}
	if pipelineErr != nil {
		resp.Error = pipelineErr.UserMessage()
	}
	return resp, nil
}

func (o *Orchestrator) buildSnapshot(ctx context.Context, session *domain.Session, activeContractID *string) classify.Snapshot {
	snap := classify.Snapshot{
		HasActiveContract:  activeContractID != nil,
		ConversationLength: session.MessageCount,
	}
	if activeContractID != nil {
		clauses, err := o.st.ListClauses(ctx, *activeContractID)
		snap.ClausesExtracted = err == nil && len(clauses) > 0
	}
	return snap
}

func errorResponse(sessionID string, err *domain.CoreError) *domain.ChatResponse {
	return &domain.ChatResponse{
		Success:   false,
		Message:   err.UserMessage(),
		SessionID: sessionID,
		Error:     err.UserMessage(),
	}
}

// mergeCitations dedups citations by URI, preserving first-seen order —
// the contract-digest-and-citations merge rule for multi-agent turns.
func mergeCitations(existing, incoming []domain.Citation) []domain.Citation {
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.URI] = true
	}
	merged := existing
	for _, c := range incoming {
		if seen[c.URI] {
			continue
		}
		seen[c.URI] = true
		merged = append(merged, c)
	}
	return merged
}

func dedupStrings(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// ContextBuilderFor exposes the package so callers (e.g. tests) can build
// a standalone ContextBuilder with the same Store an Orchestrator uses.
func ContextBuilderFor(st store.Store) *contextbuild.Builder {
	return contextbuild.New(st)
}
