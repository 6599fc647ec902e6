package tools

import (
	"context"
	"fmt"

	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// registerLoggingTools adds the Logging tool group: log_thought and
// log_error (both a direct path to ThinkingLogger, C9, for an agent's own
// reasoning and error notes) plus get_agent_statistics, a read-side
// aggregation over the thinking log. Every agent sees this tool group
// regardless of its curated subset. Grounded on original_source's
// LOGGING_TOOLS (log_thinking/log_error/get_agent_statistics);
// get_session_trace and get_thinking_logs are served instead by the
// ListMessages/ListThinkingLogs HTTP routes, which already expose the same
// data to a caller outside the tool-calling loop.
func registerLoggingTools(r *Registry, st store.Store) {
	r.Register(Tool{
		Name:        "log_thought",
		Description: "Record an internal reasoning note in the turn's thinking log.",
		ParameterSchema: domain.ParameterSchema{
			"agent_name": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"stage":      domain.FieldSchema{Type: domain.FieldString, Required: true},
			"payload":    domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			agentName, err := argString(args, "agent_name")
			if err != nil {
				return nil, err
			}
			stage, err := argString(args, "stage")
			if err != nil {
				return nil, err
			}
			payload := argStringOptional(args, "payload")

			if tc.Logger == nil {
				return nil, fmt.Errorf("no thinking logger attached to this turn")
			}
			if err := tc.Logger.LogThought(ctx, domain.AgentName(agentName), domain.ThinkingStage(stage), payload); err != nil {
				return nil, fmt.Errorf("failed to log thought: %w", err)
			}
			return map[string]interface{}{"logged": true}, nil
		},
	})

	r.Register(Tool{
		Name:        "log_error",
		Description: "Log an error the agent itself detected while processing, distinct from the orchestrator's own failure logging.",
		ParameterSchema: domain.ParameterSchema{
			"agent_name":    domain.FieldSchema{Type: domain.FieldString, Required: true},
			"error_message": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"context":       domain.FieldSchema{Type: domain.FieldObject, Required: false, Description: "Additional context about the error."},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			agentName, err := argString(args, "agent_name")
			if err != nil {
				return nil, err
			}
			errMessage, err := argString(args, "error_message")
			if err != nil {
				return nil, err
			}
			payload := map[string]interface{}{"error_message": errMessage}
			if errCtx, ok := args["context"].(map[string]interface{}); ok {
				payload["context"] = errCtx
			}

			if tc.Logger == nil {
				return nil, fmt.Errorf("no thinking logger attached to this turn")
			}
			if err := tc.Logger.LogThought(ctx, domain.AgentName(agentName), domain.StageError, payload); err != nil {
				return nil, fmt.Errorf("failed to log error: %w", err)
			}
			return map[string]interface{}{"logged": true}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_agent_statistics",
		Description: "Get per-agent call counts and durations for a session's thinking log.",
		ParameterSchema: domain.ParameterSchema{
			"session_id": domain.FieldSchema{Type: domain.FieldString, Required: false, Description: "Defaults to the current turn's session."},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			sessionID := argStringOptional(args, "session_id")
			if sessionID == "" {
				sessionID = tc.SessionID
			}
			logs, err := st.ListThinkingLogs(ctx, sessionID, "")
			if err != nil {
				return nil, fmt.Errorf("failed to load thinking logs: %w", err)
			}
			return aggregateAgentStatistics(logs), nil
		},
	})
}

type agentStatistics struct {
	CallCount      int   `json:"call_count"`
	ToolCalls      int   `json:"tool_calls"`
	TotalDurationMs int64 `json:"total_duration_ms"`
	AvgDurationMs   int64 `json:"avg_duration_ms"`
}

// aggregateAgentStatistics mirrors original_source's get_agent_statistics:
// per-agent call counts/durations plus an overall rollup.
func aggregateAgentStatistics(logs []domain.ThinkingLog) map[string]interface{} {
	perAgent := map[string]*agentStatistics{}
	var totalCalls, totalToolCalls int
	var totalDuration int64

	for _, l := range logs {
		name := string(l.AgentName)
		stats, ok := perAgent[name]
		if !ok {
			stats = &agentStatistics{}
			perAgent[name] = stats
		}
		stats.CallCount++
		stats.TotalDurationMs += l.DurationMs
		if l.Stage == domain.StageToolCall {
			stats.ToolCalls++
			totalToolCalls++
		}
		totalCalls++
		totalDuration += l.DurationMs
	}

	for _, stats := range perAgent {
		if stats.CallCount > 0 {
			stats.AvgDurationMs = stats.TotalDurationMs / int64(stats.CallCount)
		}
	}

	var avgOverall int64
	if totalCalls > 0 {
		avgOverall = totalDuration / int64(totalCalls)
	}

	return map[string]interface{}{
		"agent_statistics": perAgent,
		"overall": map[string]interface{}{
			"total_agent_calls":       totalCalls,
			"total_duration_ms":       totalDuration,
			"total_tool_calls":        totalToolCalls,
			"avg_duration_per_call_ms": avgOverall,
		},
	}
}
