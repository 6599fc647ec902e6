// Package tools is the ToolRegistry (C1): the single source of truth for
// every callable tool the LLM may invoke. Grounded on the teacher's
// internal/tools registry + internal/service/tool.go dispatch shape.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// TurnContext is the per-turn context object passed to every handler.
type TurnContext struct {
	SessionID        string
	TurnID           string
	AgentName        domain.AgentName
	ActiveContractID *string
	Logger            ThoughtLogger
}

// ThoughtLogger is the narrow slice of ThinkingLogger a tool handler needs
// to record log_thought calls — the direct path to C9 for an agent's own
// reasoning notes.
type ThoughtLogger interface {
	LogThought(ctx context.Context, agentName domain.AgentName, stage domain.ThinkingStage, payload interface{}) error
}

// Handler is a typed server-side tool implementation. It receives
// validated arguments and must never panic; any failure should be
// returned as an error, which Dispatch folds into a handler_error outcome.
type Handler func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error)

// Tool is one registered entry: declaration plus handler plus whether it
// has side effects a policy gate should see.
type Tool struct {
	Name            string
	Description     string
	ParameterSchema domain.ParameterSchema
	Handler         Handler
	SideEffecting   bool
}

// PolicyGate is consulted before dispatching a side-effecting tool.
// internal/policy.Gate implements it (adapting policy.Engine), so the
// registry does not need to import the policy package directly.
type PolicyGate interface {
	Evaluate(ctx context.Context, toolName string, args map[string]interface{}, tc TurnContext, sideEffecting bool) (allow bool, requireApproval bool, reason string, err error)
}

// Registry holds every tool the orchestrator knows about. Immutable after
// startup registration, the one piece of shared state every AgentRunner
// reads concurrently.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	gate    PolicyGate
	timeout time.Duration
}

// NewRegistry builds an empty Registry. handlerTimeout bounds every
// Dispatch call (spec.md §4.1, default 20s).
func NewRegistry(gate PolicyGate, handlerTimeout time.Duration) *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		gate:    gate,
		timeout: handlerTimeout,
	}
}

// Register adds a tool to the registry. Call during startup wiring only;
// Register after AgentRunners are live is not goroutine-safe against
// Declarations snapshots taken mid-registration.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name] = t
}

// Declarations returns the {name, description, parameter_schema} menu for
// the given subset of tool names, in the order requested.
func (r *Registry) Declarations(names []string) []domain.ToolDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	decls := make([]domain.ToolDeclaration, 0, len(names))
	for _, name := range names {
		t, ok := r.tools[name]
		if !ok {
			continue
		}
		decls = append(decls, domain.ToolDeclaration{
			Name:            t.Name,
			Description:     t.Description,
			ParameterSchema: t.ParameterSchema,
		})
	}
	return decls
}

// Dispatch validates rawArgs against the tool's schema and, on success,
// invokes its handler with an overall timeout. It never returns a Go
// error for a handler-level failure — those come back as a ToolOutcome
// the caller feeds to the LLM.
func (r *Registry) Dispatch(ctx context.Context, name string, rawArgs []byte, tc TurnContext) domain.ToolOutcome {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return domain.ToolOutcome{
			OK:      false,
			Kind:    domain.ToolFailureUnknown,
			Message: fmt.Sprintf("unknown tool %q", name),
		}
	}

	args, fieldErrors, err := validateArgs(t.ParameterSchema, rawArgs)
	if err != nil {
		return domain.ToolOutcome{
			OK:      false,
			Kind:    domain.ToolFailureBadArguments,
			Message: "tool arguments failed schema validation",
			Fields:  fieldErrors,
		}
	}

	if t.SideEffecting && r.gate != nil {
		allow, requireApproval, reason, err := r.gate.Evaluate(ctx, name, args, tc, t.SideEffecting)
		if err != nil {
			return domain.ToolOutcome{
				OK:      false,
				Kind:    domain.ToolFailureHandlerError,
				Message: fmt.Sprintf("policy evaluation failed: %v", err),
			}
		}
		if !allow || requireApproval {
			msg := reason
			if msg == "" {
				msg = "blocked by policy"
			}
			return domain.ToolOutcome{
				OK:      false,
				Kind:    domain.ToolFailureBlocked,
				Message: msg,
			}
		}
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	type result struct {
		value interface{}
		err   error
	}
	done := make(chan result, 1)
	go func() {
		value, err := t.Handler(dispatchCtx, tc, args)
		done <- result{value: value, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if res.err == context.DeadlineExceeded {
				return domain.ToolOutcome{OK: false, Kind: domain.ToolFailureHandlerTimeout, Message: "tool handler timed out"}
			}
			return domain.ToolOutcome{OK: false, Kind: domain.ToolFailureHandlerError, Message: res.err.Error()}
		}
		return domain.ToolOutcome{OK: true, Value: res.value}
	case <-dispatchCtx.Done():
		return domain.ToolOutcome{OK: false, Kind: domain.ToolFailureHandlerTimeout, Message: "tool handler timed out"}
	}
}

func validateArgs(schema domain.ParameterSchema, rawArgs []byte) (map[string]interface{}, map[string]string, error) {
	args := map[string]interface{}{}
	if len(rawArgs) > 0 {
		if err := json.Unmarshal(rawArgs, &args); err != nil {
			return nil, map[string]string{"_root": "arguments must be a JSON object"}, err
		}
	}

	fieldErrors := map[string]string{}
	for name, field := range schema {
		val, present := args[name]
		if !present {
			if field.Required {
				fieldErrors[name] = "required field missing"
			}
			continue
		}
		if !typeMatches(field.Type, val) {
			fieldErrors[name] = fmt.Sprintf("expected %s", field.Type)
		}
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors, fmt.Errorf("schema validation failed")
	}
	return args, nil, nil
}

func typeMatches(t domain.FieldType, val interface{}) bool {
	switch t {
	case domain.FieldString:
		_, ok := val.(string)
		return ok
	case domain.FieldNumber:
		_, ok := val.(float64)
		return ok
	case domain.FieldBoolean:
		_, ok := val.(bool)
		return ok
	case domain.FieldObject:
		_, ok := val.(map[string]interface{})
		return ok
	case domain.FieldArray:
		_, ok := val.([]interface{})
		return ok
	default:
		return true
	}
}
