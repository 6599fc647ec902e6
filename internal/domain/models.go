package domain

import "time"

// Session is a single conversation thread with the orchestrator.
type Session struct {
	SessionID        string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	Title            *string   `json:"title,omitempty"`
	ActiveContractID *string   `json:"active_contract_id,omitempty"`
	MessageCount     int       `json:"message_count"`
}

// Message is one turn-half (user or assistant) within a Session.
// Immutable once written.
type Message struct {
	MessageID         string          `json:"id"`
	SessionID         string          `json:"session_id"`
	Role              MessageRole     `json:"role"`
	Content           string          `json:"content"`
	AgentName         *AgentName      `json:"agent_name,omitempty"`
	Citations         []Citation      `json:"citations"`
	ToolCallsSummary  []string        `json:"tool_calls_summary"`
	CreatedAt         time.Time       `json:"created_at"`
}

// Citation is a grounded-search source attached to an assistant Message.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
	Start *int   `json:"start,omitempty"`
	End   *int   `json:"end,omitempty"`
}

// Party is a normalized contracting party. Party serialization for LLM
// context must always extract Name; never stringify the whole record.
type Party struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Contract is an uploaded contract and its processing state.
type Contract struct {
	ContractID        string           `json:"id"`
	Title             string           `json:"title"`
	ContractType      *string          `json:"contract_type,omitempty"`
	Parties           []Party          `json:"parties"`
	UploadedAt        time.Time        `json:"uploaded_at"`
	FileURI           string           `json:"file_uri"`
	// TextURI points at the blob holding the contract's extracted plain
	// text, populated at upload time so extract_clauses can fetch it
	// server-side instead of requiring a caller to resupply it. Empty
	// for contracts created without source text (e.g. via save_contract
	// with no text argument).
	TextURI           string           `json:"text_uri,omitempty"`
	Status            ContractStatus   `json:"status"`
	OverallRiskScore  *float64         `json:"overall_risk_score,omitempty"`
	ComplianceStatus  ComplianceStatus `json:"compliance_status"`
}

// Clause is one extracted clause belonging to a Contract.
type Clause struct {
	ClauseID   string   `json:"id"`
	ContractID string   `json:"contract_id"`
	Index      int      `json:"index"`
	Type       string   `json:"type"`
	Text       string   `json:"text"`
	RiskScore  *float64 `json:"risk_score,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
}

// ThinkingLog is one append-only audit record inside a turn.
type ThinkingLog struct {
	LogID      string        `json:"id"`
	SessionID  string        `json:"session_id"`
	TurnID     string        `json:"turn_id"`
	Sequence   int           `json:"sequence"`
	AgentName  AgentName     `json:"agent_name"`
	Stage      ThinkingStage `json:"stage"`
	Payload    []byte        `json:"payload"`
	DurationMs int64         `json:"duration_ms"`
	CreatedAt  time.Time     `json:"created_at"`
}

// GeneratedDocument is a file produced by an agent (e.g. LEGAL_MEMO).
type GeneratedDocument struct {
	DocumentID string                `json:"id"`
	SessionID  string                `json:"session_id"`
	Kind       GeneratedDocumentKind `json:"kind"`
	FileURI    string                `json:"file_uri"`
	CreatedAt  time.Time             `json:"created_at"`
}

// ComplianceRule is read-mostly reference data for a regulation.
type ComplianceRule struct {
	Regulation string `json:"regulation"`
	RuleID     string `json:"rule_id"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	Severity   string `json:"severity"`
}

// RiskBenchmark is the industry-baseline risk band consulted by the
// risk tool group's get_risk_benchmarks tool. Supplemented from
// original_source/'s managers layer; spec.md names the tool but not its
// backing data.
type RiskBenchmark struct {
	ContractType string  `json:"contract_type"`
	ClauseType   string  `json:"clause_type"`
	P50Risk      float64 `json:"p50_risk"`
	P90Risk      float64 `json:"p90_risk"`
}
