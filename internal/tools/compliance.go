package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// registerComplianceTools adds the Compliance tool group: check_compliance,
// get_compliance_rules, get_applicable_regulations.
func registerComplianceTools(r *Registry, st store.Store) {
	r.Register(Tool{
		Name:        "check_compliance",
		Description: "Check a contract's clauses against a regulation's rules and report gaps.",
		ParameterSchema: domain.ParameterSchema{
			"regulation":  domain.FieldSchema{Type: domain.FieldString, Required: true},
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			regulation, err := argString(args, "regulation")
			if err != nil {
				return nil, err
			}
			contractID, err := argString(args, "contract_id")
			if err != nil {
				return nil, err
			}

			rules, err := st.ListComplianceRules(ctx, regulation)
			if err != nil {
				return nil, fmt.Errorf("failed to list compliance rules: %w", err)
			}
			clauses, err := st.ListClauses(ctx, contractID)
			if err != nil {
				return nil, fmt.Errorf("failed to list clauses: %w", err)
			}

			clauseText := strings.ToLower(concatClauseText(clauses))
			type gap struct {
				RuleID   string `json:"rule_id"`
				Text     string `json:"text"`
				Severity string `json:"severity"`
			}
			var gaps []gap
			for _, rule := range rules {
				if !strings.Contains(clauseText, strings.ToLower(rule.Category)) {
					gaps = append(gaps, gap{RuleID: rule.RuleID, Text: rule.Text, Severity: rule.Severity})
				}
			}

			status := domain.ComplianceCompliant
			if len(gaps) > 0 && len(gaps) < len(rules) {
				status = domain.CompliancePartial
			} else if len(gaps) == len(rules) && len(rules) > 0 {
				status = domain.ComplianceNonCompliant
			}

			contract, err := st.GetContract(ctx, contractID)
			if err == nil && contract != nil {
				contract.ComplianceStatus = status
				_ = st.UpdateContract(ctx, contract)
			}

			return map[string]interface{}{
				"regulation": regulation,
				"status":     status,
				"gaps":       gaps,
				"rules_checked": len(rules),
			}, nil
		},
	})

	r.Register(Tool{
		Name:        "get_compliance_rules",
		Description: "List the rules defined for a regulation.",
		ParameterSchema: domain.ParameterSchema{
			"regulation": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			regulation, err := argString(args, "regulation")
			if err != nil {
				return nil, err
			}
			rules, err := st.ListComplianceRules(ctx, regulation)
			if err != nil {
				return nil, fmt.Errorf("failed to list compliance rules: %w", err)
			}
			return rules, nil
		},
	})

	r.Register(Tool{
		Name:        "get_applicable_regulations",
		Description: "Guess which regulations likely apply to a contract based on its clause types.",
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
			text := strings.ToLower(concatClauseText(clauses))

			var regulations []string
			if strings.Contains(text, "personal data") || strings.Contains(text, "confidential") {
				regulations = append(regulations, "GDPR")
			}
			if strings.Contains(text, "health") || strings.Contains(text, "medical") {
				regulations = append(regulations, "HIPAA")
			}
			if strings.Contains(text, "california") || strings.Contains(text, "consumer") {
				regulations = append(regulations, "CCPA")
			}
			if strings.Contains(text, "financial statement") || strings.Contains(text, "audit") {
				regulations = append(regulations, "SOX")
			}
			return regulations, nil
		},
	})
}

func concatClauseText(clauses []domain.Clause) string {
	var b strings.Builder
	for _, c := range clauses {
		b.WriteString(c.Type)
		b.WriteString(" ")
		b.WriteString(c.Text)
		b.WriteString(" ")
	}
	return b.String()
}
