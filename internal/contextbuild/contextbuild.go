// Package contextbuild is the ContextBuilder (C4): assembles the
// (system, messages) pair fed to ModelClient for one agent turn.
// Renamed from "internal/context" to avoid shadowing the stdlib context
// package.
package contextbuild

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/llmclient"
	"github.com/legaldesk/orchestrator/internal/store"
)

const (
	defaultHistoryWindowPairs = 6
	contractDigestCap         = 2000
	topRiskClauseCount        = 5
	// averageCharsPerToken is the crude token estimate used for the hard
	// cap in rule 5; no tokenizer dependency is wired for this, see
	// DESIGN.md.
	averageCharsPerToken = 4
)

// Request is what SessionOrchestrator/AgentRunner pass to Build.
type Request struct {
	SessionID           string
	Agent               catalog.AgentDefinition
	CurrentUserMessage  string
	ActiveContractID    *string
	HistoryWindowPairs  int
	TokenBudgetFraction float64
	ModelMaxTokens      int
}

// Builder is the ContextBuilder.
type Builder struct {
	st store.Store
}

// New builds a Builder reading history and contract digests from st.
func New(st store.Store) *Builder {
	return &Builder{st: st}
}

// Build returns the system prompt and message list for one ModelClient
// call, per spec.md §4.4's five rules.
func (b *Builder) Build(ctx context.Context, req Request) (string, []llmclient.ChatMessage, error) {
	windowPairs := req.HistoryWindowPairs
	if windowPairs <= 0 {
		windowPairs = defaultHistoryWindowPairs
	}

	system := b.buildSystemBlock(req.Agent)

	history, err := b.st.ListMessages(ctx, req.SessionID, windowPairs*2+1, "")
	if err != nil {
		return "", nil, fmt.Errorf("failed to load session history: %w", err)
	}

	messages, truncatedNote := windowHistory(history, windowPairs)

	var digest string
	if req.ActiveContractID != nil {
		digest, err = b.buildContractDigest(ctx, *req.ActiveContractID)
		if err != nil {
			return "", nil, fmt.Errorf("failed to build contract digest: %w", err)
		}
	}

	chatMessages := make([]llmclient.ChatMessage, 0, len(messages)+2)
	if truncatedNote != "" {
		chatMessages = append(chatMessages, llmclient.ChatMessage{Role: "system", Content: truncatedNote})
	}
	if digest != "" {
		chatMessages = append(chatMessages, llmclient.ChatMessage{Role: "system", Content: digest})
	}
	for _, m := range messages {
		chatMessages = append(chatMessages, llmclient.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	chatMessages = append(chatMessages, llmclient.ChatMessage{Role: "user", Content: req.CurrentUserMessage})

	budgetFraction := req.TokenBudgetFraction
	if budgetFraction <= 0 {
		budgetFraction = 0.75
	}
	maxTokens := req.ModelMaxTokens
	if maxTokens <= 0 {
		maxTokens = req.Agent.DefaultOptions.MaxTokens * 4
	}
	cap := int(float64(maxTokens) * budgetFraction)

	chatMessages = enforceTokenCap(chatMessages, cap)

	return system, chatMessages, nil
}

func (b *Builder) buildSystemBlock(agent catalog.AgentDefinition) string {
	preamble := fmt.Sprintf(
		"You are %s in a legal document analysis platform. The current UTC date is %s.",
		agent.Name, time.Now().UTC().Format("2006-01-02"),
	)
	return preamble + "\n\n" + agent.SystemInstructions
}

// windowHistory keeps the last windowPairs (user, assistant) pairs and
// returns a one-sentence summary note if anything was dropped.
func windowHistory(history []domain.Message, windowPairs int) ([]domain.Message, string) {
	maxMessages := windowPairs * 2
	if len(history) <= maxMessages {
		return history, ""
	}
	dropped := len(history) - maxMessages
	kept := history[len(history)-maxMessages:]
	note := fmt.Sprintf("Earlier conversation context (%d messages) has been summarized and omitted for brevity.", dropped)
	return kept, note
}

func (b *Builder) buildContractDigest(ctx context.Context, contractID string) (string, error) {
	contract, err := b.st.GetContract(ctx, contractID)
	if err != nil {
		return "", err
	}
	if contract == nil {
		return "", nil
	}

	clauses, err := b.st.ListClauses(ctx, contractID)
	if err != nil {
		return "", err
	}
	topRisk := topRiskClauses(clauses, topRiskClauseCount)

	var b2 strings.Builder
	fmt.Fprintf(&b2, "Active contract: %q", contract.Title)
	if contract.ContractType != nil {
		fmt.Fprintf(&b2, " (%s)", *contract.ContractType)
	}
	if len(contract.Parties) > 0 {
		names := make([]string, 0, len(contract.Parties))
		for _, p := range contract.Parties {
			// Party serialization for LLM context must always extract
			// Name; never stringify the whole record.
			names = append(names, p.Name)
		}
		fmt.Fprintf(&b2, ". Parties: %s", strings.Join(names, ", "))
	}
	if len(topRisk) > 0 {
		b2.WriteString(". Highest-risk clauses: ")
		parts := make([]string, 0, len(topRisk))
		for _, c := range topRisk {
			score := 0.0
			if c.RiskScore != nil {
				score = *c.RiskScore
			}
			excerpt := c.Text
			if len(excerpt) > 120 {
				excerpt = excerpt[:120] + "..."
			}
			parts = append(parts, fmt.Sprintf("{%s, risk=%.2f, %q}", c.Type, score, excerpt))
		}
		b2.WriteString(strings.Join(parts, "; "))
	}
	b2.WriteString(".")

	digest := b2.String()
	if len(digest) > contractDigestCap {
		digest = digest[:contractDigestCap-3] + "..."
	}
	return digest, nil
}

func topRiskClauses(clauses []domain.Clause, n int) []domain.Clause {
	scored := make([]domain.Clause, 0, len(clauses))
	for _, c := range clauses {
		if c.RiskScore != nil {
			scored = append(scored, c)
		}
	}
	for i := 0; i < len(scored); i++ {
		for j := i + 1; j < len(scored); j++ {
			if *scored[j].RiskScore > *scored[i].RiskScore {
				scored[i], scored[j] = scored[j], scored[i]
			}
		}
	}
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored
}

// enforceTokenCap trims history pairs oldest-first until the estimated
// token count is under cap; if still over, truncates the contract digest
// (identified as a system-role message) before the user message.
func enforceTokenCap(messages []llmclient.ChatMessage, cap int) []llmclient.ChatMessage {
	if cap <= 0 {
		return messages
	}
	for estimateTokens(messages) > cap && len(messages) > 1 {
		// Drop the oldest non-system, non-final message first.
		idx := -1
		for i, m := range messages {
			if m.Role != "system" && i != len(messages)-1 {
				idx = i
				break
			}
		}
		if idx == -1 {
			break
		}
		messages = append(messages[:idx], messages[idx+1:]...)
	}

	for estimateTokens(messages) > cap {
		truncated := false
		for i, m := range messages {
			if m.Role == "system" && len(m.Content) > 200 {
				messages[i].Content = m.Content[:200] + "..."
				truncated = true
				break
			}
		}
		if !truncated {
			break
		}
	}
	return messages
}

func estimateTokens(messages []llmclient.ChatMessage) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / averageCharsPerToken
	}
	return total
}
