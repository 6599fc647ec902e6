package tools

import (
	"context"
	"fmt"

	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// registerRiskTools adds the Risk tool group: calculate_clause_risk,
// calculate_overall_risk, get_risk_benchmarks.
func registerRiskTools(r *Registry, st store.Store) {
	r.Register(Tool{
		Name:        "calculate_clause_risk",
		Description: "Score one clause's risk (0..1) as the p50 of the first benchmark stored for contract_type (0.3 when none matches) and persist the score; the clause's own type is not matched.",
		ParameterSchema: domain.ParameterSchema{
			"clause_id":     domain.FieldSchema{Type: domain.FieldString, Required: true},
			"contract_type": domain.FieldSchema{Type: domain.FieldString, Required: false},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			clauseID, err := argString(args, "clause_id")
			if err != nil {
				return nil, err
			}
			contractType := argStringOptional(args, "contract_type")

			score := 0.3
			notes := "default risk estimate; no benchmark matched"
			if contractType != "" {
				benchmarks, err := st.ListRiskBenchmarks(ctx, contractType)
				if err == nil && len(benchmarks) > 0 {
					score = benchmarks[0].P50Risk
					notes = fmt.Sprintf("estimated from %s benchmark p50", contractType)
				}
			}

			if err := st.UpdateClauseRisk(ctx, clauseID, score, notes); err != nil {
				return nil, fmt.Errorf("failed to save clause risk: %w", err)
			}
			return map[string]interface{}{"clause_id": clauseID, "risk_score": score, "notes": notes}, nil
		},
	})

	r.Register(Tool{
		Name:        "calculate_overall_risk",
		Description: "Aggregate a contract's clause risk scores into an overall score and persist it.",
		ParameterSchema: domain.ParameterSchema{
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			contractID, err := argString(args, "contract_id")
			if err != nil {
				return nil, err
			}
			clauses, err := st.ListClauses(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("failed to list clauses: %w", err)
			}

			var total float64
			var scored int
			for _, c := range clauses {
				if c.RiskScore != nil {
					total += *c.RiskScore
					scored++
				}
			}

			overall := 0.0
			if scored > 0 {
				overall = total / float64(scored)
			}

			contract, err := st.GetContract(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("failed to load contract: %w", err)
			}
			if contract != nil {
				contract.OverallRiskScore = &overall
				if err := st.UpdateContract(ctx, contract); err != nil {
					return nil, fmt.Errorf("failed to save overall risk: %w", err)
				}
			}

			return map[string]interface{}{"contract_id": contractID, "overall_risk_score": overall, "clauses_scored": scored, "clauses_total": len(clauses)}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_risk_benchmarks",
		Description: "List industry risk benchmarks for a contract type.",
		ParameterSchema: domain.ParameterSchema{
			"contract_type": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			contractType, err := argString(args, "contract_type")
			if err != nil {
				return nil, err
			}
			benchmarks, err := st.ListRiskBenchmarks(ctx, contractType)
			if err != nil {
				return nil, fmt.Errorf("failed to list risk benchmarks: %w", err)
			}
			return benchmarks, nil
		},
	})
}
