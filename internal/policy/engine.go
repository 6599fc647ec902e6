// Package policy wraps OPA (github.com/open-policy-agent/opa/rego) as the
// authorization gate the ToolRegistry consults before dispatching a
// side-effecting tool, grounded on the teacher's policy.Engine.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Decision is the fixed taxonomy of a policy evaluation outcome.
type Decision string

const (
	DecisionAllow           Decision = "allow"
	DecisionRequireApproval Decision = "require_approval"
	DecisionBlock           Decision = "block"
)

// Engine evaluates side-effecting tool calls against a compiled rego
// policy module.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine compiles policyContent and prepares it for evaluation. A bad
// policy module fails construction rather than failing silently on first
// use.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.tool_policy.decision"),
		rego.Module("tool_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare tool policy: %w", err)
	}

	return &Engine{query: query}, nil
}

// Input is what a ToolRegistry dispatch passes to Evaluate.
type Input struct {
	ToolName      string                 `json:"tool_name"`
	Arguments     map[string]interface{} `json:"args"`
	SessionID     string                 `json:"session_id"`
	AgentName     string                 `json:"agent_name"`
	SideEffecting bool                   `json:"side_effecting"`
}

// Evaluate returns the policy decision for one tool call. An empty result
// set means the policy defines no matching rule and no default — Evaluate
// treats that as allow, since the policy module is expected to declare its
// own `default decision = "allow"` or `"block"`.
func (e *Engine) Evaluate(ctx context.Context, input Input) (Decision, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate tool policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, "no matching policy rule", nil
	}

	val := results[0].Expressions[0].Value
	if s, ok := val.(string); ok {
		return Decision(s), "", nil
	}

	if obj, ok := val.(map[string]interface{}); ok {
		decision, _ := obj["decision"].(string)
		reason, _ := obj["reason"].(string)
		if decision == "" {
			decision = string(DecisionAllow)
		}
		return Decision(decision), reason, nil
	}

	return DecisionAllow, "unrecognized policy result shape", nil
}

// DefaultPolicy gates the side-effecting tool group SPEC_FULL.md's catalog
// actually exercises through ToolRegistry: document generation. The raw
// upload size cap (spec.md §6, 50 MB) is enforced earlier, at the HTTP
// upload boundary in internal/transport/http/contracts.go, since
// save_contract never receives raw file bytes as a tool argument — it
// persists contract metadata plus the optional text argument, so there is
// no file payload in its args for a rego rule here to bound.
const DefaultPolicy = `
package tool_policy

default decision = "allow"

decision = "require_approval" {
	input.tool_name == "generate_document"
	input.args.kind == "compliance_report"
}
`
