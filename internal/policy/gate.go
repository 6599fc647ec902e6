package policy

import (
	"context"

	"github.com/legaldesk/orchestrator/internal/tools"
)

// Gate adapts Engine to tools.PolicyGate, the narrow shape the
// ToolRegistry consults before dispatching a side-effecting tool.
type Gate struct {
	engine *Engine
}

// NewGate wraps an Engine as a tools.PolicyGate.
func NewGate(engine *Engine) *Gate {
	return &Gate{engine: engine}
}

func (g *Gate) Evaluate(ctx context.Context, toolName string, args map[string]interface{}, tc tools.TurnContext, sideEffecting bool) (allow bool, requireApproval bool, reason string, err error) {
	decision, reason, err := g.engine.Evaluate(ctx, Input{
		ToolName:      toolName,
		Arguments:     args,
		SessionID:     tc.SessionID,
		AgentName:     string(tc.AgentName),
		SideEffecting: sideEffecting,
	})
	if err != nil {
		return false, false, "", err
	}

	switch decision {
	case DecisionBlock:
		return false, false, reason, nil
	case DecisionRequireApproval:
		return true, true, reason, nil
	default:
		return true, false, reason, nil
	}
}

var _ tools.PolicyGate = (*Gate)(nil)
