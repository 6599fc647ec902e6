package tools

import (
	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/doccodec"
	"github.com/legaldesk/orchestrator/internal/store"
)

// RegisterBuiltins registers every tool group in SPEC_FULL.md §5.1 against
// the given Registry. Grounded on the teacher's internal/tools/builtin.go
// init() pattern, adapted into an explicit call so wiring stays in
// internal/app rather than behind a package-level side effect.
func RegisterBuiltins(r *Registry, st store.Store, blobs blobstore.BlobStore, codec doccodec.DocumentCodec) {
	registerContractTools(r, st, blobs)
	registerClauseTools(r, st, blobs)
	registerComplianceTools(r, st)
	registerRiskTools(r, st)
	registerDocumentTools(r, st, blobs, codec)
	registerLoggingTools(r, st)
}

// ToolNamesByGroup is the tool-subset vocabulary AgentCatalog entries
// reference when declaring which tools an agent may see.
var ToolNamesByGroup = map[string][]string{
	"contract":   {"get_contract_by_id", "search_contracts", "save_contract"},
	"clause":     {"extract_clauses", "get_clauses_by_type", "save_clauses"},
	"compliance": {"check_compliance", "get_compliance_rules", "get_applicable_regulations"},
	"risk":       {"calculate_clause_risk", "calculate_overall_risk", "get_risk_benchmarks"},
	"document":   {"generate_document", "list_documents"},
	"logging":    {"log_thought", "log_error", "get_agent_statistics"},
}
