// Package classify is the QueryClassifier (C6): a deterministic
// rule-based layer over intent phrases, falling back to a one-shot LLM
// classification call only when the rule layer is ambiguous.
package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/llmclient"
)

// Snapshot is the light context the classifier sees besides the message
// text, per spec.md §4.6.
type Snapshot struct {
	HasActiveContract  bool
	ConversationLength int
	MostRecentAgent    *domain.AgentName
	ClausesExtracted   bool
}

// Result is the classifier's output: an ordered, non-empty pipeline of
// agent names plus a label describing why.
type Result struct {
	Pipeline  []domain.AgentName
	QueryType string
}

var (
	greetingRe   = regexp.MustCompile(`(?i)^\s*(hi|hello|hey|good morning|good afternoon|good evening)\b`)
	parseRe      = regexp.MustCompile(`(?i)\b(parse|extract|analyze|analyse)\b`)
	complianceRe = regexp.MustCompile(`(?i)\bcompliance|comply|regulat`)
	riskRe       = regexp.MustCompile(`(?i)\brisk\b`)
	memoRe       = regexp.MustCompile(`(?i)\bmemo|full analysis|summarize everything\b`)
	legalQRe     = regexp.MustCompile(`(?i)\bwhat is|what's|define|explain\b`)
)

// Classifier is the QueryClassifier. llm is consulted only when the
// rule-based layer can't decide.
type Classifier struct {
	llm llmclient.ModelClient
}

// New builds a Classifier backed by the given ModelClient for the
// ambiguous-case fallback.
func New(llm llmclient.ModelClient) *Classifier {
	return &Classifier{llm: llm}
}

// Classify returns the ordered agent pipeline for one user turn.
func (c *Classifier) Classify(ctx context.Context, message string, snap Snapshot) (Result, error) {
	if result, ok := ruleBasedClassify(message, snap); ok {
		return result, nil
	}
	return c.llmClassify(ctx, message, snap)
}

func ruleBasedClassify(message string, snap Snapshot) (Result, bool) {
	trimmed := strings.TrimSpace(message)

	switch {
	case greetingRe.MatchString(trimmed):
		return Result{Pipeline: []domain.AgentName{domain.AgentAssistant}, QueryType: "greeting"}, true

	case memoRe.MatchString(trimmed):
		pipeline := prependParserIfNeeded([]domain.AgentName{
			domain.AgentComplianceChecker, domain.AgentRiskAssessor, domain.AgentLegalMemo,
		}, snap)
		return Result{Pipeline: pipeline, QueryType: "full_analysis"}, true

	case complianceRe.MatchString(trimmed):
		pipeline := prependParserIfNeeded([]domain.AgentName{domain.AgentComplianceChecker}, snap)
		return Result{Pipeline: pipeline, QueryType: "compliance"}, true

	case riskRe.MatchString(trimmed):
		pipeline := prependParserIfNeeded([]domain.AgentName{domain.AgentRiskAssessor}, snap)
		return Result{Pipeline: pipeline, QueryType: "risk"}, true

	case parseRe.MatchString(trimmed) && snap.HasActiveContract:
		return Result{Pipeline: []domain.AgentName{domain.AgentContractParser}, QueryType: "contract_parse"}, true

	case legalQRe.MatchString(trimmed) && !snap.HasActiveContract:
		return Result{Pipeline: []domain.AgentName{domain.AgentLegalResearch}, QueryType: "legal_question"}, true
	}

	return Result{}, false
}

// prependParserIfNeeded honors the tie-break rule: when a contract is
// attached and a pipeline depends on clauses, prepend CONTRACT_PARSER
// unless clauses already exist for that contract.
func prependParserIfNeeded(pipeline []domain.AgentName, snap Snapshot) []domain.AgentName {
	if !snap.HasActiveContract || snap.ClausesExtracted {
		return pipeline
	}
	return append([]domain.AgentName{domain.AgentContractParser}, pipeline...)
}

// llmClassify is the one-shot fallback for ambiguous input, using a
// tightly constrained output schema (here: a single-token pipeline label
// the model must choose from).
func (c *Classifier) llmClassify(ctx context.Context, message string, snap Snapshot) (Result, error) {
	if c.llm == nil {
		return Result{Pipeline: []domain.AgentName{domain.AgentAssistant}, QueryType: "fallback_no_llm"}, nil
	}

	labels := "greeting, contract_parse, legal_question, compliance, risk, full_analysis"
	systemPrompt := fmt.Sprintf(
		"Classify the user's message into exactly one of these labels: %s. Respond with only the label, nothing else.",
		labels,
	)

	result, err := c.llm.Generate(ctx, llmclient.GenerateRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llmclient.ChatMessage{{Role: "user", Content: message}},
		Temperature:  0,
		MaxTokens:    16,
	})
	if err != nil {
		return Result{}, fmt.Errorf("classifier LLM fallback failed: %w", err)
	}

	label := strings.ToLower(strings.TrimSpace(result.Text))
	switch label {
	case "greeting":
		return Result{Pipeline: []domain.AgentName{domain.AgentAssistant}, QueryType: label}, nil
	case "contract_parse":
		return Result{Pipeline: []domain.AgentName{domain.AgentContractParser}, QueryType: label}, nil
	case "legal_question":
		return Result{Pipeline: []domain.AgentName{domain.AgentLegalResearch}, QueryType: label}, nil
	case "compliance":
		return Result{Pipeline: prependParserIfNeeded([]domain.AgentName{domain.AgentComplianceChecker}, snap), QueryType: label}, nil
	case "risk":
		return Result{Pipeline: prependParserIfNeeded([]domain.AgentName{domain.AgentRiskAssessor}, snap), QueryType: label}, nil
	case "full_analysis":
		pipeline := prependParserIfNeeded([]domain.AgentName{
			domain.AgentComplianceChecker, domain.AgentRiskAssessor, domain.AgentLegalMemo,
		}, snap)
		return Result{Pipeline: pipeline, QueryType: label}, nil
	default:
		return Result{Pipeline: []domain.AgentName{domain.AgentAssistant}, QueryType: "unclassified"}, nil
	}
}
