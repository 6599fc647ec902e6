// Package thinking is the ThinkingLogger (C9): the append-only trace of
// every stage within a turn, with strictly increasing sequence numbers.
// Grounded on the teacher's recordEvent helper and tool_timeout.go's
// flush-on-accumulate pattern.
package thinking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// Logger accumulates ThinkingLogs for one turn and flushes them to Store
// as they accumulate. A new Logger is created per turn; its sequence
// counter is never shared across turns.
type Logger struct {
	mu        sync.Mutex
	st        store.Store
	sessionID string
	turnID    string
	sequence  int
}

// New builds a Logger for one turn.
func New(st store.Store, sessionID, turnID string) *Logger {
	return &Logger{st: st, sessionID: sessionID, turnID: turnID}
}

// Record appends one ThinkingLog entry and flushes it to Store
// immediately — partial flush on crash is acceptable since these logs are
// advisory, not part of the turn's correctness.
func (l *Logger) Record(ctx context.Context, agentName domain.AgentName, stage domain.ThinkingStage, payload interface{}, duration time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal thinking log payload: %w", err)
	}

	l.mu.Lock()
	l.sequence++
	seq := l.sequence
	l.mu.Unlock()

	log := &domain.ThinkingLog{
		LogID:      "log_" + uuid.NewString(),
		SessionID:  l.sessionID,
		TurnID:     l.turnID,
		Sequence:   seq,
		AgentName:  agentName,
		Stage:      stage,
		Payload:    raw,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  time.Now(),
	}
	if err := l.st.CreateThinkingLog(ctx, log); err != nil {
		return fmt.Errorf("failed to flush thinking log: %w", err)
	}
	return nil
}

// LogThought implements tools.ThoughtLogger, the direct path the
// log_thought tool uses to record an agent's own reasoning notes.
func (l *Logger) LogThought(ctx context.Context, agentName domain.AgentName, stage domain.ThinkingStage, payload interface{}) error {
	return l.Record(ctx, agentName, stage, payload, 0)
}

// TurnID returns the turn this Logger is scoped to.
func (l *Logger) TurnID() string {
	return l.turnID
}
