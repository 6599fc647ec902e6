// Package store defines the Store adapter (C2): typed, consistent-within-a-turn
// accessors over the document database. No business logic lives here.
package store

import (
	"context"

	"github.com/legaldesk/orchestrator/internal/domain"
)

// Store is the abstract document database holding all persisted entities
// (spec.md §3, §4.2).
type Store interface {
	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	GetOrCreateSession(ctx context.Context, sessionID string) (*domain.Session, error)
	TouchSession(ctx context.Context, sessionID string, activeContractID *string) error

	// Messages
	CreateMessage(ctx context.Context, message *domain.Message) error
	ListMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error)

	// Contracts
	CreateContract(ctx context.Context, contract *domain.Contract) error
	GetContract(ctx context.Context, contractID string) (*domain.Contract, error)
	SearchContracts(ctx context.Context, query string, limit int) ([]domain.Contract, error)
	UpdateContract(ctx context.Context, contract *domain.Contract) error

	// Clauses
	CreateClauses(ctx context.Context, clauses []domain.Clause) error
	ListClauses(ctx context.Context, contractID string) ([]domain.Clause, error)
	ListClausesByType(ctx context.Context, contractID, clauseType string) ([]domain.Clause, error)
	UpdateClauseRisk(ctx context.Context, clauseID string, riskScore float64, notes string) error

	// ThinkingLogs
	CreateThinkingLog(ctx context.Context, log *domain.ThinkingLog) error
	ListThinkingLogs(ctx context.Context, sessionID string, turnID string) ([]domain.ThinkingLog, error)

	// GeneratedDocuments
	CreateGeneratedDocument(ctx context.Context, doc *domain.GeneratedDocument) error
	ListGeneratedDocuments(ctx context.Context, sessionID string) ([]domain.GeneratedDocument, error)

	// ComplianceRules (read-mostly reference data)
	ListComplianceRules(ctx context.Context, regulation string) ([]domain.ComplianceRule, error)

	// RiskBenchmarks (read-mostly reference data)
	ListRiskBenchmarks(ctx context.Context, contractType string) ([]domain.RiskBenchmark, error)

	Close() error
}
