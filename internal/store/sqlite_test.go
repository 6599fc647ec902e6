package store

import (
	"context"
	"testing"
	"time"

	"github.com/legaldesk/orchestrator/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSessionCreateAndGetOrCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sess, err := s.GetOrCreateSession(ctx, "sess_1")
	if err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}
	if sess.SessionID != "sess_1" {
		t.Fatalf("unexpected session id: %s", sess.SessionID)
	}

	again, err := s.GetOrCreateSession(ctx, "sess_1")
	if err != nil {
		t.Fatalf("GetOrCreateSession (second call) failed: %v", err)
	}
	if !again.CreatedAt.Equal(sess.CreatedAt) {
		t.Fatalf("expected second call to return the existing session, got a new one")
	}
}

func TestMessagesOrderedChronologically(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetOrCreateSession(ctx, "sess_1"); err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	base := time.Now()
	for i, content := range []string{"first", "second", "third"} {
		msg := &domain.Message{
			MessageID: "msg_" + content,
			SessionID: "sess_1",
			Role:      domain.RoleUser,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := s.CreateMessage(ctx, msg); err != nil {
			t.Fatalf("CreateMessage failed: %v", err)
		}
	}

	messages, err := s.ListMessages(ctx, "sess_1", 10, "")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	if messages[0].Content != "first" || messages[2].Content != "third" {
		t.Fatalf("expected chronological order, got %v", messages)
	}
}

func TestContractRoundTripWithParties(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	contract := &domain.Contract{
		ContractID: "c1",
		Title:      "Master Services Agreement",
		UploadedAt: time.Now(),
		FileURI:    "file:///tmp/c1.txt",
		Status:     domain.ContractStatusUploaded,
		ComplianceStatus: domain.ComplianceUnknown,
		Parties: []domain.Party{
			{Name: "Acme Corp", Role: "client"},
			{Name: "Globex Inc", Role: "vendor"},
		},
	}
	if err := s.CreateContract(ctx, contract); err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}

	got, err := s.GetContract(ctx, "c1")
	if err != nil {
		t.Fatalf("GetContract failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected contract, got nil")
	}
	if len(got.Parties) != 2 || got.Parties[0].Name != "Acme Corp" {
		t.Fatalf("unexpected parties: %+v", got.Parties)
	}
}

func TestClauseRiskUpdate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	contract := &domain.Contract{
		ContractID: "c1",
		Title:      "NDA",
		UploadedAt: time.Now(),
		FileURI:    "file:///tmp/c1.txt",
		Status:     domain.ContractStatusUploaded,
		ComplianceStatus: domain.ComplianceUnknown,
	}
	if err := s.CreateContract(ctx, contract); err != nil {
		t.Fatalf("CreateContract failed: %v", err)
	}

	clauses := []domain.Clause{
		{ClauseID: "cl1", ContractID: "c1", Index: 0, Type: "confidentiality", Text: "text one"},
		{ClauseID: "cl2", ContractID: "c1", Index: 1, Type: "term", Text: "text two"},
	}
	if err := s.CreateClauses(ctx, clauses); err != nil {
		t.Fatalf("CreateClauses failed: %v", err)
	}

	if err := s.UpdateClauseRisk(ctx, "cl1", 0.8, "high risk"); err != nil {
		t.Fatalf("UpdateClauseRisk failed: %v", err)
	}

	got, err := s.ListClauses(ctx, "c1")
	if err != nil {
		t.Fatalf("ListClauses failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(got))
	}
	for _, c := range got {
		if c.ClauseID == "cl1" && (c.RiskScore == nil || *c.RiskScore != 0.8) {
			t.Fatalf("expected cl1 risk score 0.8, got %+v", c.RiskScore)
		}
	}
}

func TestThinkingLogsOrderedBySequence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetOrCreateSession(ctx, "sess_1"); err != nil {
		t.Fatalf("GetOrCreateSession failed: %v", err)
	}

	for i := 1; i <= 3; i++ {
		log := &domain.ThinkingLog{
			LogID:     "log_" + string(rune('0'+i)),
			SessionID: "sess_1",
			TurnID:    "turn_1",
			Sequence:  i,
			AgentName: domain.AgentAssistant,
			Stage:     domain.StageAgentOutput,
			CreatedAt: time.Now(),
		}
		if err := s.CreateThinkingLog(ctx, log); err != nil {
			t.Fatalf("CreateThinkingLog failed: %v", err)
		}
	}

	logs, err := s.ListThinkingLogs(ctx, "sess_1", "turn_1")
	if err != nil {
		t.Fatalf("ListThinkingLogs failed: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	for i, l := range logs {
		if l.Sequence != i+1 {
			t.Fatalf("expected contiguous sequence, got %d at position %d", l.Sequence, i)
		}
	}
}

func TestComplianceRulesAndRiskBenchmarksSeeded(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	rules, err := s.ListComplianceRules(ctx, "GDPR")
	if err != nil {
		t.Fatalf("ListComplianceRules failed: %v", err)
	}
	if len(rules) == 0 {
		t.Fatalf("expected seeded GDPR rules, got none")
	}

	benchmarks, err := s.ListRiskBenchmarks(ctx, "msa")
	if err != nil {
		t.Fatalf("ListRiskBenchmarks failed: %v", err)
	}
	if len(benchmarks) == 0 {
		t.Fatalf("expected seeded msa risk benchmarks, got none")
	}
}
