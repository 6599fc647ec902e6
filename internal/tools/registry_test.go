package tools

import (
	"context"
	"testing"
	"time"

	"github.com/legaldesk/orchestrator/internal/domain"
)

type stubGate struct {
	allow           bool
	requireApproval bool
	reason          string
}

func (g stubGate) Evaluate(ctx context.Context, toolName string, args map[string]interface{}, tc TurnContext, sideEffecting bool) (bool, bool, string, error) {
	return g.allow, g.requireApproval, g.reason, nil
}

func TestDispatchUnknownTool(t *testing.T) {
	r := NewRegistry(nil, time.Second)
	outcome := r.Dispatch(context.Background(), "does.not.exist", []byte(`{}`), TurnContext{})
	if outcome.OK {
		t.Fatalf("expected failure for unknown tool")
	}
	if outcome.Kind != domain.ToolFailureUnknown {
		t.Fatalf("expected unknown_tool kind, got %s", outcome.Kind)
	}
}

func TestDispatchBadArguments(t *testing.T) {
	r := NewRegistry(nil, time.Second)
	r.Register(Tool{
		Name: "echo",
		ParameterSchema: domain.ParameterSchema{
			"message": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			return args["message"], nil
		},
	})

	outcome := r.Dispatch(context.Background(), "echo", []byte(`{}`), TurnContext{})
	if outcome.OK {
		t.Fatalf("expected bad_arguments failure")
	}
	if outcome.Kind != domain.ToolFailureBadArguments {
		t.Fatalf("expected bad_arguments kind, got %s", outcome.Kind)
	}
	if _, ok := outcome.Fields["message"]; !ok {
		t.Fatalf("expected field-level error for missing message field")
	}
}

func TestDispatchSuccess(t *testing.T) {
	r := NewRegistry(nil, time.Second)
	r.Register(Tool{
		Name: "echo",
		ParameterSchema: domain.ParameterSchema{
			"message": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			return args["message"], nil
		},
	})

	outcome := r.Dispatch(context.Background(), "echo", []byte(`{"message":"hi"}`), TurnContext{})
	if !outcome.OK {
		t.Fatalf("expected success, got %+v", outcome)
	}
	if outcome.Value != "hi" {
		t.Fatalf("expected echoed value, got %v", outcome.Value)
	}
}

func TestDispatchBlockedBySideEffectingPolicy(t *testing.T) {
	r := NewRegistry(stubGate{allow: false, reason: "blocked for test"}, time.Second)
	r.Register(Tool{
		Name:          "dangerous",
		SideEffecting: true,
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			return "should not run", nil
		},
	})

	outcome := r.Dispatch(context.Background(), "dangerous", []byte(`{}`), TurnContext{})
	if outcome.OK {
		t.Fatalf("expected the policy gate to block this dispatch")
	}
	if outcome.Kind != domain.ToolFailureBlocked {
		t.Fatalf("expected blocked kind, got %s", outcome.Kind)
	}
}

func TestDispatchHandlerTimeout(t *testing.T) {
	r := NewRegistry(nil, 20*time.Millisecond)
	r.Register(Tool{
		Name: "slow",
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			select {
			case <-time.After(200 * time.Millisecond):
				return "done", nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	})

	outcome := r.Dispatch(context.Background(), "slow", []byte(`{}`), TurnContext{})
	if outcome.OK {
		t.Fatalf("expected handler_timeout failure")
	}
	if outcome.Kind != domain.ToolFailureHandlerTimeout {
		t.Fatalf("expected handler_timeout kind, got %s", outcome.Kind)
	}
}

func TestDeclarationsFiltersBySubset(t *testing.T) {
	r := NewRegistry(nil, time.Second)
	r.Register(Tool{Name: "a", Description: "tool a"})
	r.Register(Tool{Name: "b", Description: "tool b"})
	r.Register(Tool{Name: "c", Description: "tool c"})

	decls := r.Declarations([]string{"a", "c", "missing"})
	if len(decls) != 2 {
		t.Fatalf("expected 2 declarations, got %d", len(decls))
	}
	if decls[0].Name != "a" || decls[1].Name != "c" {
		t.Fatalf("expected declarations in requested order, got %+v", decls)
	}
}
