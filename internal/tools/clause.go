package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

var clauseSplitRe = regexp.MustCompile(`\n\s*\n+`)

// registerClauseTools adds the Clause tool group: extract_clauses,
// get_clauses_by_type, save_clauses.
func registerClauseTools(r *Registry, st store.Store, blobs blobstore.BlobStore) {
	r.Register(Tool{
		Name:        "extract_clauses",
		Description: "Split a contract's stored text into candidate clauses by paragraph, with a heuristic type label.",
		ParameterSchema: domain.ParameterSchema{
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			contractID, err := argString(args, "contract_id")
			if err != nil {
				return nil, err
			}
			contract, err := st.GetContract(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("failed to load contract: %w", err)
			}
			if contract == nil {
				return nil, fmt.Errorf("contract %q not found", contractID)
			}
			if contract.TextURI == "" {
				return nil, fmt.Errorf("contract %q has no extracted text", contractID)
			}
			raw, err := blobs.Get(ctx, contract.TextURI)
			if err != nil {
				return nil, fmt.Errorf("failed to load contract text: %w", err)
			}
			text := string(raw)

			paragraphs := clauseSplitRe.Split(strings.TrimSpace(text), -1)
			clauses := make([]domain.Clause, 0, len(paragraphs))
			for i, p := range paragraphs {
				p = strings.TrimSpace(p)
				if p == "" {
					continue
				}
				clauses = append(clauses, domain.Clause{
					ClauseID:   uuid.NewString(),
					ContractID: contractID,
					Index:      i,
					Type:       classifyClauseType(p),
					Text:       p,
				})
			}
			return clauses, nil
		},
	})

	r.Register(Tool{
		Name:        "get_clauses_by_type",
		Description: "List a contract's clauses matching a given type.",
		ParameterSchema: domain.ParameterSchema{
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"type":        domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			contractID, err := argString(args, "contract_id")
			if err != nil {
				return nil, err
			}
			clauseType, err := argString(args, "type")
			if err != nil {
				return nil, err
			}
			clauses, err := st.ListClausesByType(ctx, contractID, clauseType)
			if err != nil {
				return nil, fmt.Errorf("failed to list clauses: %w", err)
			}
			return clauses, nil
		},
	})

	r.Register(Tool{
		Name:          "save_clauses",
		Description:   "Persist extracted clauses for a contract.",
		SideEffecting: true,
		ParameterSchema: domain.ParameterSchema{
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"clauses":     domain.FieldSchema{Type: domain.FieldArray, Required: true, Description: "Array of {type, text, index}."},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			contractID, err := argString(args, "contract_id")
			if err != nil {
				return nil, err
			}
			raw, ok := args["clauses"].([]interface{})
			if !ok {
				return nil, fmt.Errorf("argument %q must be an array", "clauses")
			}

			clauses := make([]domain.Clause, 0, len(raw))
			for i, item := range raw {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				text, _ := obj["text"].(string)
				clauseType, _ := obj["type"].(string)
				if text == "" {
					continue
				}
				idx := i
				if f, ok := obj["index"].(float64); ok {
					idx = int(f)
				}
				if clauseType == "" {
					clauseType = "general"
				}
				clauses = append(clauses, domain.Clause{
					ClauseID:   uuid.NewString(),
					ContractID: contractID,
					Index:      idx,
					Type:       clauseType,
					Text:       text,
				})
			}

			if err := st.CreateClauses(ctx, clauses); err != nil {
				return nil, fmt.Errorf("failed to save clauses: %w", err)
			}
			return map[string]interface{}{"saved": len(clauses)}, nil
		},
	})
}

// classifyClauseType is a crude keyword heuristic, standing in for the
// contract-parsing model call a CONTRACT_PARSER agent would otherwise make
// per clause; good enough to seed a type label the agent can correct.
func classifyClauseType(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "confidential"):
		return "confidentiality"
	case strings.Contains(lower, "indemnif"):
		return "indemnification"
	case strings.Contains(lower, "terminat"):
		return "termination"
	case strings.Contains(lower, "limitation of liability") || strings.Contains(lower, "liability"):
		return "limitation_of_liability"
	case strings.Contains(lower, "non-compete") || strings.Contains(lower, "noncompete"):
		return "non_compete"
	case strings.Contains(lower, "compensation") || strings.Contains(lower, "salary"):
		return "compensation"
	case strings.Contains(lower, "term ") || strings.HasPrefix(lower, "term"):
		return "term"
	default:
		return "general"
	}
}
