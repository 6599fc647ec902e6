package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// SQLiteStore implements Store using SQLite, following the teacher's
// migration-list + ensureColumn pattern.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed Store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection so every caller reads and writes the same
	// in-memory database.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := s.seedComplianceRules(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed compliance rules: %w", err)
	}
	if err := s.seedRiskBenchmarks(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed risk benchmarks: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			title TEXT,
			active_contract_id TEXT,
			message_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			agent_name TEXT,
			citations TEXT,
			tool_calls_summary TEXT,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS contracts (
			contract_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			contract_type TEXT,
			uploaded_at DATETIME NOT NULL,
			file_uri TEXT NOT NULL,
			text_uri TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			overall_risk_score REAL,
			compliance_status TEXT NOT NULL DEFAULT 'unknown'
		)`,
		`CREATE TABLE IF NOT EXISTS parties (
			contract_id TEXT NOT NULL,
			ord INTEGER NOT NULL,
			name TEXT NOT NULL,
			role TEXT,
			FOREIGN KEY (contract_id) REFERENCES contracts(contract_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parties_contract ON parties(contract_id, ord)`,
		`CREATE TABLE IF NOT EXISTS clauses (
			clause_id TEXT PRIMARY KEY,
			contract_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			risk_score REAL,
			notes TEXT,
			FOREIGN KEY (contract_id) REFERENCES contracts(contract_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_clauses_contract ON clauses(contract_id, idx)`,
		`CREATE TABLE IF NOT EXISTS thinking_logs (
			log_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			turn_id TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			agent_name TEXT NOT NULL,
			stage TEXT NOT NULL,
			payload TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_thinking_logs_turn ON thinking_logs(turn_id, sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_thinking_logs_session ON thinking_logs(session_id, turn_id)`,
		`CREATE TABLE IF NOT EXISTS generated_documents (
			document_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			file_uri TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_generated_documents_session ON generated_documents(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS compliance_rules (
			regulation TEXT NOT NULL,
			rule_id TEXT NOT NULL,
			text TEXT NOT NULL,
			category TEXT NOT NULL,
			severity TEXT NOT NULL,
			PRIMARY KEY (regulation, rule_id)
		)`,
		`CREATE TABLE IF NOT EXISTS risk_benchmarks (
			contract_type TEXT NOT NULL,
			clause_type TEXT NOT NULL,
			p50_risk REAL NOT NULL,
			p90_risk REAL NOT NULL,
			PRIMARY KEY (contract_type, clause_type)
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	if err := s.ensureColumn("contracts", "compliance_status", "ALTER TABLE contracts ADD COLUMN compliance_status TEXT NOT NULL DEFAULT 'unknown'"); err != nil {
		return err
	}
	if err := s.ensureColumn("contracts", "text_uri", "ALTER TABLE contracts ADD COLUMN text_uri TEXT NOT NULL DEFAULT ''"); err != nil {
		return err
	}

	return nil
}

// ensureColumn adds a column to an existing table if it is missing, the
// additive-migration pattern the teacher uses for SQLite's limited
// ALTER TABLE support.
func (s *SQLiteStore) ensureColumn(tableName, columnName, ddl string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dfltValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			return err
		}
		if name == columnName {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(ddl)
	return err
}

func (s *SQLiteStore) seedComplianceRules() error {
	rules := []domain.ComplianceRule{
		{Regulation: "GDPR", RuleID: "gdpr-art-6", Text: "Processing must have a lawful basis.", Category: "lawful_basis", Severity: "high"},
		{Regulation: "GDPR", RuleID: "gdpr-art-28", Text: "Processor obligations must be set out in a written contract.", Category: "processor_terms", Severity: "high"},
		{Regulation: "GDPR", RuleID: "gdpr-art-32", Text: "Appropriate technical and organizational security measures are required.", Category: "security", Severity: "medium"},
		{Regulation: "GDPR", RuleID: "gdpr-art-44", Text: "Cross-border transfers require an adequate safeguard.", Category: "transfers", Severity: "high"},
		{Regulation: "HIPAA", RuleID: "hipaa-164.502", Text: "Uses and disclosures of PHI require a permitted purpose.", Category: "use_disclosure", Severity: "high"},
		{Regulation: "HIPAA", RuleID: "hipaa-164.504", Text: "Business associate agreements must contain satisfactory assurances.", Category: "baa", Severity: "high"},
		{Regulation: "CCPA", RuleID: "ccpa-1798.100", Text: "Consumers have a right to know what personal information is collected.", Category: "disclosure", Severity: "medium"},
		{Regulation: "CCPA", RuleID: "ccpa-1798.105", Text: "Consumers have a right to deletion of personal information.", Category: "deletion", Severity: "medium"},
		{Regulation: "SOX", RuleID: "sox-302", Text: "Corporate officers must certify the accuracy of financial statements.", Category: "certification", Severity: "high"},
		{Regulation: "SOX", RuleID: "sox-404", Text: "Management must assess internal control over financial reporting.", Category: "internal_controls", Severity: "high"},
	}
	for _, r := range rules {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO compliance_rules (regulation, rule_id, text, category, severity) VALUES (?, ?, ?, ?, ?)`,
			r.Regulation, r.RuleID, r.Text, r.Category, r.Severity,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) seedRiskBenchmarks() error {
	benchmarks := []domain.RiskBenchmark{
		{ContractType: "nda", ClauseType: "confidentiality", P50Risk: 0.2, P90Risk: 0.5},
		{ContractType: "nda", ClauseType: "term", P50Risk: 0.15, P90Risk: 0.4},
		{ContractType: "msa", ClauseType: "indemnification", P50Risk: 0.45, P90Risk: 0.8},
		{ContractType: "msa", ClauseType: "limitation_of_liability", P50Risk: 0.5, P90Risk: 0.85},
		{ContractType: "msa", ClauseType: "termination", P50Risk: 0.3, P90Risk: 0.6},
		{ContractType: "employment", ClauseType: "non_compete", P50Risk: 0.4, P90Risk: 0.75},
		{ContractType: "employment", ClauseType: "compensation", P50Risk: 0.2, P90Risk: 0.45},
	}
	for _, b := range benchmarks {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO risk_benchmarks (contract_type, clause_type, p50_risk, p90_risk) VALUES (?, ?, ?, ?)`,
			b.ContractType, b.ClauseType, b.P50Risk, b.P90Risk,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Sessions ---

func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, created_at, updated_at, title, active_contract_id, message_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		session.SessionID, session.CreatedAt, session.UpdatedAt, session.Title, session.ActiveContractID, session.MessageCount)
	return err
}

func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var sess domain.Session
	var title, activeContractID sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, created_at, updated_at, title, active_contract_id, message_count FROM sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&sess.SessionID, &sess.CreatedAt, &sess.UpdatedAt, &title, &activeContractID, &sess.MessageCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if title.Valid {
		sess.Title = &title.String
	}
	if activeContractID.Valid {
		sess.ActiveContractID = &activeContractID.String
	}
	return &sess, nil
}

func (s *SQLiteStore) GetOrCreateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	existing, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := time.Now()
	sess := &domain.Session{
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *SQLiteStore) TouchSession(ctx context.Context, sessionID string, activeContractID *string) error {
	if activeContractID != nil {
		_, err := s.db.ExecContext(ctx,
			`UPDATE sessions SET updated_at = ?, message_count = message_count + 1, active_contract_id = ? WHERE session_id = ?`,
			time.Now(), *activeContractID, sessionID)
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET updated_at = ?, message_count = message_count + 1 WHERE session_id = ?`,
		time.Now(), sessionID)
	return err
}

// --- Messages ---

func (s *SQLiteStore) CreateMessage(ctx context.Context, m *domain.Message) error {
	citations, _ := json.Marshal(m.Citations)
	toolCalls, _ := json.Marshal(m.ToolCallsSummary)
	var agentName interface{}
	if m.AgentName != nil {
		agentName = string(*m.AgentName)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, session_id, role, content, agent_name, citations, tool_calls_summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MessageID, m.SessionID, string(m.Role), m.Content, agentName, string(citations), string(toolCalls), m.CreatedAt)
	return err
}

func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error) {
	query := `SELECT message_id, session_id, role, content, agent_name, citations, tool_calls_summary, created_at
			  FROM messages WHERE session_id = ?`
	args := []interface{}{sessionID}
	if before != "" {
		query += ` AND message_id < ?`
		args = append(args, before)
	}
	query += ` ORDER BY created_at DESC, message_id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var role, citations, toolCalls string
		var agentName sql.NullString
		if err := rows.Scan(&m.MessageID, &m.SessionID, &role, &m.Content, &agentName, &citations, &toolCalls, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.MessageRole(role)
		if agentName.Valid {
			name := domain.AgentName(agentName.String)
			m.AgentName = &name
		}
		_ = json.Unmarshal([]byte(citations), &m.Citations)
		_ = json.Unmarshal([]byte(toolCalls), &m.ToolCallsSummary)
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Results come back newest-first for the LIMIT/before pagination
	// window; restore chronological order for callers.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// --- Contracts ---

func (s *SQLiteStore) CreateContract(ctx context.Context, c *domain.Contract) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO contracts (contract_id, title, contract_type, uploaded_at, file_uri, text_uri, status, overall_risk_score, compliance_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ContractID, c.Title, c.ContractType, c.UploadedAt, c.FileURI, c.TextURI, string(c.Status), c.OverallRiskScore, string(c.ComplianceStatus))
	if err != nil {
		return err
	}
	if err := insertParties(ctx, tx, c.ContractID, c.Parties); err != nil {
		return err
	}
	return tx.Commit()
}

func insertParties(ctx context.Context, tx *sql.Tx, contractID string, parties []domain.Party) error {
	for i, p := range parties {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO parties (contract_id, ord, name, role) VALUES (?, ?, ?, ?)`,
			contractID, i, p.Name, p.Role); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) GetContract(ctx context.Context, contractID string) (*domain.Contract, error) {
	var c domain.Contract
	var contractType sql.NullString
	var overallRisk sql.NullFloat64
	var status, compliance string
	err := s.db.QueryRowContext(ctx,
		`SELECT contract_id, title, contract_type, uploaded_at, file_uri, text_uri, status, overall_risk_score, compliance_status
		 FROM contracts WHERE contract_id = ?`, contractID,
	).Scan(&c.ContractID, &c.Title, &contractType, &c.UploadedAt, &c.FileURI, &c.TextURI, &status, &overallRisk, &compliance)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if contractType.Valid {
		c.ContractType = &contractType.String
	}
	if overallRisk.Valid {
		c.OverallRiskScore = &overallRisk.Float64
	}
	c.Status = domain.ContractStatus(status)
	c.ComplianceStatus = domain.ComplianceStatus(compliance)

	parties, err := loadParties(ctx, s.db, contractID)
	if err != nil {
		return nil, err
	}
	c.Parties = parties
	return &c, nil
}

func loadParties(ctx context.Context, db *sql.DB, contractID string) ([]domain.Party, error) {
	rows, err := db.QueryContext(ctx, `SELECT name, role FROM parties WHERE contract_id = ? ORDER BY ord`, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []domain.Party
	for rows.Next() {
		var p domain.Party
		var role sql.NullString
		if err := rows.Scan(&p.Name, &role); err != nil {
			return nil, err
		}
		p.Role = role.String
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *SQLiteStore) SearchContracts(ctx context.Context, query string, limit int) ([]domain.Contract, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT contract_id FROM contracts WHERE title LIKE ? ORDER BY uploaded_at DESC LIMIT ?`,
		"%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var contracts []domain.Contract
	for _, id := range ids {
		c, err := s.GetContract(ctx, id)
		if err != nil {
			return nil, err
		}
		if c != nil {
			contracts = append(contracts, *c)
		}
	}
	return contracts, nil
}

func (s *SQLiteStore) UpdateContract(ctx context.Context, c *domain.Contract) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE contracts SET title = ?, contract_type = ?, status = ?, overall_risk_score = ?, compliance_status = ? WHERE contract_id = ?`,
		c.Title, c.ContractType, string(c.Status), c.OverallRiskScore, string(c.ComplianceStatus), c.ContractID)
	return err
}

// --- Clauses ---

func (s *SQLiteStore) CreateClauses(ctx context.Context, clauses []domain.Clause) error {
	if len(clauses) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, cl := range clauses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clauses (clause_id, contract_id, idx, type, text, risk_score, notes) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			cl.ClauseID, cl.ContractID, cl.Index, cl.Type, cl.Text, cl.RiskScore, cl.Notes); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListClauses(ctx context.Context, contractID string) ([]domain.Clause, error) {
	return s.queryClauses(ctx, `SELECT clause_id, contract_id, idx, type, text, risk_score, notes FROM clauses WHERE contract_id = ? ORDER BY idx`, contractID)
}

func (s *SQLiteStore) ListClausesByType(ctx context.Context, contractID, clauseType string) ([]domain.Clause, error) {
	return s.queryClauses(ctx,
		`SELECT clause_id, contract_id, idx, type, text, risk_score, notes FROM clauses WHERE contract_id = ? AND type = ? ORDER BY idx`,
		contractID, clauseType)
}

func (s *SQLiteStore) queryClauses(ctx context.Context, query string, args ...interface{}) ([]domain.Clause, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clauses []domain.Clause
	for rows.Next() {
		var cl domain.Clause
		var riskScore sql.NullFloat64
		var notes sql.NullString
		if err := rows.Scan(&cl.ClauseID, &cl.ContractID, &cl.Index, &cl.Type, &cl.Text, &riskScore, &notes); err != nil {
			return nil, err
		}
		if riskScore.Valid {
			cl.RiskScore = &riskScore.Float64
		}
		if notes.Valid {
			cl.Notes = &notes.String
		}
		clauses = append(clauses, cl)
	}
	return clauses, rows.Err()
}

func (s *SQLiteStore) UpdateClauseRisk(ctx context.Context, clauseID string, riskScore float64, notes string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE clauses SET risk_score = ?, notes = ? WHERE clause_id = ?`, riskScore, notes, clauseID)
	return err
}

// --- ThinkingLogs ---

func (s *SQLiteStore) CreateThinkingLog(ctx context.Context, log *domain.ThinkingLog) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO thinking_logs (log_id, session_id, turn_id, sequence, agent_name, stage, payload, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		log.LogID, log.SessionID, log.TurnID, log.Sequence, string(log.AgentName), string(log.Stage), string(log.Payload), log.DurationMs, log.CreatedAt)
	return err
}

func (s *SQLiteStore) ListThinkingLogs(ctx context.Context, sessionID string, turnID string) ([]domain.ThinkingLog, error) {
	query := `SELECT log_id, session_id, turn_id, sequence, agent_name, stage, payload, duration_ms, created_at FROM thinking_logs WHERE session_id = ?`
	args := []interface{}{sessionID}
	if turnID != "" {
		query += ` AND turn_id = ?`
		args = append(args, turnID)
	}
	query += ` ORDER BY turn_id, sequence`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []domain.ThinkingLog
	for rows.Next() {
		var l domain.ThinkingLog
		var agentName, stage, payload string
		if err := rows.Scan(&l.LogID, &l.SessionID, &l.TurnID, &l.Sequence, &agentName, &stage, &payload, &l.DurationMs, &l.CreatedAt); err != nil {
			return nil, err
		}
		l.AgentName = domain.AgentName(agentName)
		l.Stage = domain.ThinkingStage(stage)
		l.Payload = []byte(payload)
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- GeneratedDocuments ---

func (s *SQLiteStore) CreateGeneratedDocument(ctx context.Context, doc *domain.GeneratedDocument) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generated_documents (document_id, session_id, kind, file_uri, created_at) VALUES (?, ?, ?, ?, ?)`,
		doc.DocumentID, doc.SessionID, string(doc.Kind), doc.FileURI, doc.CreatedAt)
	return err
}

func (s *SQLiteStore) ListGeneratedDocuments(ctx context.Context, sessionID string) ([]domain.GeneratedDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document_id, session_id, kind, file_uri, created_at FROM generated_documents WHERE session_id = ? ORDER BY created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []domain.GeneratedDocument
	for rows.Next() {
		var d domain.GeneratedDocument
		var kind string
		if err := rows.Scan(&d.DocumentID, &d.SessionID, &kind, &d.FileURI, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Kind = domain.GeneratedDocumentKind(kind)
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// --- ComplianceRules ---

func (s *SQLiteStore) ListComplianceRules(ctx context.Context, regulation string) ([]domain.ComplianceRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT regulation, rule_id, text, category, severity FROM compliance_rules WHERE regulation = ? ORDER BY rule_id`, regulation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.ComplianceRule
	for rows.Next() {
		var r domain.ComplianceRule
		if err := rows.Scan(&r.Regulation, &r.RuleID, &r.Text, &r.Category, &r.Severity); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// --- RiskBenchmarks ---

func (s *SQLiteStore) ListRiskBenchmarks(ctx context.Context, contractType string) ([]domain.RiskBenchmark, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT contract_type, clause_type, p50_risk, p90_risk FROM risk_benchmarks WHERE contract_type = ? ORDER BY clause_type`, contractType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var benchmarks []domain.RiskBenchmark
	for rows.Next() {
		var b domain.RiskBenchmark
		if err := rows.Scan(&b.ContractType, &b.ClauseType, &b.P50Risk, &b.P90Risk); err != nil {
			return nil, err
		}
		benchmarks = append(benchmarks, b)
	}
	return benchmarks, rows.Err()
}

var _ Store = (*SQLiteStore)(nil)
