package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/doccodec"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
	"github.com/legaldesk/orchestrator/tests/helpers"
)

type recordingLogger struct {
	entries []string
}

func (r *recordingLogger) LogThought(ctx context.Context, agentName domain.AgentName, stage domain.ThinkingStage, payload interface{}) error {
	r.entries = append(r.entries, string(stage))
	return nil
}

func newBuiltinRegistry(t *testing.T) (*Registry, store.Store, blobstore.BlobStore) {
	t.Helper()
	st := helpers.NewTestStore(t)
	blobs, err := blobstore.NewLocalFS(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}
	codec := doccodec.NewPlainTextCodec()

	r := NewRegistry(nil, 5*time.Second)
	RegisterBuiltins(r, st, blobs, codec)
	return r, st, blobs
}

func TestSaveContractAndGetByID(t *testing.T) {
	r, _, _ := newBuiltinRegistry(t)
	ctx := context.Background()

	outcome := r.Dispatch(ctx, "save_contract", []byte(`{"title":"NDA with Acme","contract_type":"nda","parties":[{"name":"Acme","role":"client"}]}`), TurnContext{})
	if !outcome.OK {
		t.Fatalf("save_contract failed: %+v", outcome)
	}
	contract, ok := outcome.Value.(*domain.Contract)
	if !ok {
		t.Fatalf("expected *domain.Contract, got %T", outcome.Value)
	}

	got := r.Dispatch(ctx, "get_contract_by_id", []byte(`{"contract_id":"`+contract.ContractID+`"}`), TurnContext{})
	if !got.OK {
		t.Fatalf("get_contract_by_id failed: %+v", got)
	}
}

func TestExtractClausesSplitsParagraphs(t *testing.T) {
	r, st, blobs := newBuiltinRegistry(t)
	ctx := context.Background()

	text := "This Agreement contains a confidentiality clause about secrets.\n\nThis Agreement may be terminated by either party."
	textURI, err := blobs.Put(ctx, "c1.txt", []byte(text))
	if err != nil {
		t.Fatalf("failed to store contract text: %v", err)
	}
	contract := &domain.Contract{
		ContractID: "c1",
		Title:      "Test Contract",
		UploadedAt: time.Now(),
		FileURI:    textURI,
		TextURI:    textURI,
		Status:     domain.ContractStatusUploaded,
	}
	if err := st.CreateContract(ctx, contract); err != nil {
		t.Fatalf("failed to create contract: %v", err)
	}

	rawArgs, err := json.Marshal(map[string]string{"contract_id": "c1"})
	if err != nil {
		t.Fatalf("failed to marshal args: %v", err)
	}
	outcome := r.Dispatch(ctx, "extract_clauses", rawArgs, TurnContext{})
	if !outcome.OK {
		t.Fatalf("extract_clauses failed: %+v", outcome)
	}
	clauses, ok := outcome.Value.([]domain.Clause)
	if !ok {
		t.Fatalf("expected []domain.Clause, got %T", outcome.Value)
	}
	if len(clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(clauses))
	}
	if clauses[0].Type != "confidentiality" {
		t.Fatalf("expected first clause classified confidentiality, got %s", clauses[0].Type)
	}
}

func TestLogThoughtRequiresLogger(t *testing.T) {
	r, _, _ := newBuiltinRegistry(t)
	ctx := context.Background()

	outcome := r.Dispatch(ctx, "log_thought", []byte(`{"agent_name":"ASSISTANT","stage":"agent_output","payload":"hello"}`), TurnContext{})
	if outcome.OK {
		t.Fatalf("expected failure without an attached logger")
	}

	logger := &recordingLogger{}
	outcome = r.Dispatch(ctx, "log_thought", []byte(`{"agent_name":"ASSISTANT","stage":"agent_output","payload":"hello"}`), TurnContext{Logger: logger})
	if !outcome.OK {
		t.Fatalf("expected success with attached logger: %+v", outcome)
	}
	if len(logger.entries) != 1 {
		t.Fatalf("expected one recorded thought, got %d", len(logger.entries))
	}
}

func TestLogErrorRecordsErrorStage(t *testing.T) {
	r, _, _ := newBuiltinRegistry(t)
	ctx := context.Background()

	logger := &recordingLogger{}
	outcome := r.Dispatch(ctx, "log_error", []byte(`{"agent_name":"RISK_ASSESSOR","error_message":"benchmark lookup failed"}`), TurnContext{Logger: logger})
	if !outcome.OK {
		t.Fatalf("log_error failed: %+v", outcome)
	}
	if len(logger.entries) != 1 || logger.entries[0] != string(domain.StageError) {
		t.Fatalf("expected one recorded error stage, got %v", logger.entries)
	}
}

func TestGetAgentStatisticsAggregatesByAgent(t *testing.T) {
	r, st, _ := newBuiltinRegistry(t)
	ctx := context.Background()

	if _, err := st.GetOrCreateSession(ctx, "sess_stats"); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	logs := []domain.ThinkingLog{
		{LogID: "l1", SessionID: "sess_stats", TurnID: "t1", Sequence: 0, AgentName: domain.AgentRiskAssessor, Stage: domain.StageAgentStart, DurationMs: 10, CreatedAt: time.Now()},
		{LogID: "l2", SessionID: "sess_stats", TurnID: "t1", Sequence: 1, AgentName: domain.AgentRiskAssessor, Stage: domain.StageToolCall, DurationMs: 20, CreatedAt: time.Now()},
	}
	for _, l := range logs {
		if err := st.CreateThinkingLog(ctx, &l); err != nil {
			t.Fatalf("failed to seed thinking log: %v", err)
		}
	}

	outcome := r.Dispatch(ctx, "get_agent_statistics", []byte(`{"session_id":"sess_stats"}`), TurnContext{})
	if !outcome.OK {
		t.Fatalf("get_agent_statistics failed: %+v", outcome)
	}
	stats, ok := outcome.Value.(map[string]interface{})
	if !ok {
		t.Fatalf("expected map[string]interface{}, got %T", outcome.Value)
	}
	perAgent, ok := stats["agent_statistics"].(map[string]*agentStatistics)
	if !ok {
		t.Fatalf("expected per-agent breakdown, got %T", stats["agent_statistics"])
	}
	riskStats, ok := perAgent[string(domain.AgentRiskAssessor)]
	if !ok {
		t.Fatalf("expected RISK_ASSESSOR in statistics")
	}
	if riskStats.CallCount != 2 || riskStats.ToolCalls != 1 || riskStats.TotalDurationMs != 30 {
		t.Fatalf("unexpected stats: %+v", riskStats)
	}
}
