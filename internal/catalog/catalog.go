// Package catalog is the AgentCatalog (C5): the fixed table of the six
// agents' identities, instructions, tool subsets, and default model
// parameters. Immutable after startup, mirroring the teacher's
// seedTools-style literal table.
package catalog

import (
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/tools"
)

// Options mirrors the per-agent default_options spec.md §4.5 names.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// AgentDefinition is one catalog entry.
type AgentDefinition struct {
	Name               domain.AgentName
	Purpose            string
	SystemInstructions string
	ToolNames          []string
	GroundedSearch     bool
	DefaultOptions     Options
	MaxToolIterations  int
}

// Catalog is the read-only lookup table of agent definitions.
type Catalog struct {
	agents map[domain.AgentName]AgentDefinition
}

// New builds the fixed six-agent Catalog.
func New() *Catalog {
	def := func(name domain.AgentName, purpose, instructions string, groups []string, grounded bool, temp float64, maxTokens, maxIter int) AgentDefinition {
		var toolNames []string
		toolNames = append(toolNames, tools.ToolNamesByGroup["logging"]...)
		for _, g := range groups {
			toolNames = append(toolNames, tools.ToolNamesByGroup[g]...)
		}
		return AgentDefinition{
			Name:                name,
			Purpose:             purpose,
			SystemInstructions:  instructions,
			ToolNames:           toolNames,
			GroundedSearch:      grounded,
			DefaultOptions:      Options{Temperature: temp, MaxTokens: maxTokens},
			MaxToolIterations:   maxIter,
		}
	}

	agents := map[domain.AgentName]AgentDefinition{
		domain.AgentAssistant: def(
			domain.AgentAssistant,
			"General chat, clarifications, routing help",
			"You are the general-purpose assistant for a legal document analysis platform. Answer plainly, and hand off to a specialist implicitly by describing what you'd need to help further. You do not have contract-specific tools; if the user needs contract work, say so.",
			nil, false, 0.7, 1024, 6,
		),
		domain.AgentContractParser: def(
			domain.AgentContractParser,
			"Extract structure from a contract",
			"You are the contract-parsing specialist. Given an uploaded contract's raw text, extract and save its clauses, labeling each with a clause type. Be conservative: when unsure of a clause's type, label it general rather than guessing.",
			[]string{"contract", "clause"}, false, 0.2, 2048, 6,
		),
		domain.AgentLegalResearch: def(
			domain.AgentLegalResearch,
			"Answer legal questions with web citations",
			"You are a legal research assistant. Answer the user's legal question using grounded web search, and always cite your sources. Do not give legal advice; state general information and recommend consulting counsel for anything case-specific.",
			nil, true, 0.3, 1536, 6,
		),
		domain.AgentComplianceChecker: def(
			domain.AgentComplianceChecker,
			"Map contract/clauses against a regulation",
			"You are a compliance specialist. Given a contract and a named regulation, check its clauses for gaps against that regulation's rules and report findings clearly, citing the rule IDs involved.",
			[]string{"compliance", "clause"}, false, 0.2, 2048, 6,
		),
		domain.AgentRiskAssessor: def(
			domain.AgentRiskAssessor,
			"Score clauses and aggregate risk",
			"You are a risk-assessment specialist. Score each relevant clause's risk against industry benchmarks and compute an overall contract risk score, explaining what drives the highest-risk clauses.",
			[]string{"risk", "clause"}, false, 0.2, 2048, 6,
		),
		domain.AgentLegalMemo: def(
			domain.AgentLegalMemo,
			"Synthesize a memo from prior agent outputs",
			"You are a legal memo writer. Synthesize the prior specialists' findings in this turn into one coherent memo, generate it as a document, and summarize its key points in your reply.",
			[]string{"document"}, false, 0.4, 3072, 6,
		),
	}

	return &Catalog{agents: agents}
}

// Get returns the definition for a named agent. The bool is false for an
// unknown agent name, which should never happen given the fixed pipeline
// vocabulary QueryClassifier produces.
func (c *Catalog) Get(name domain.AgentName) (AgentDefinition, bool) {
	def, ok := c.agents[name]
	return def, ok
}

// All returns every agent definition, stable ordering not guaranteed.
func (c *Catalog) All() []AgentDefinition {
	defs := make([]AgentDefinition, 0, len(c.agents))
	for _, d := range c.agents {
		defs = append(defs, d)
	}
	return defs
}
