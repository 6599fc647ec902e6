package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// registerContractTools adds the Contract tool group: get_contract_by_id,
// search_contracts, save_contract.
func registerContractTools(r *Registry, st store.Store, blobs blobstore.BlobStore) {
	r.Register(Tool{
		Name:        "get_contract_by_id",
		Description: "Fetch a contract and its parties by contract_id.",
		ParameterSchema: domain.ParameterSchema{
			"contract_id": domain.FieldSchema{Type: domain.FieldString, Required: true, Description: "The contract to fetch."},
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
			return contract, nil
		},
	})

	r.Register(Tool{
		Name:        "search_contracts",
		Description: "Search contracts by title substring.",
		ParameterSchema: domain.ParameterSchema{
			"query": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"limit": domain.FieldSchema{Type: domain.FieldNumber, Required: false},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			query, err := argString(args, "query")
			if err != nil {
				return nil, err
			}
			limit := 10
			if l, err := argFloat(args, "limit"); err == nil {
				limit = int(l)
			}
			contracts, err := st.SearchContracts(ctx, query, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to search contracts: %w", err)
			}
			return contracts, nil
		},
	})

	r.Register(Tool{
		Name:          "save_contract",
		Description:   "Persist a new contract record and, when given, its text.",
		SideEffecting: true,
		ParameterSchema: domain.ParameterSchema{
			"title":         domain.FieldSchema{Type: domain.FieldString, Required: true},
			"contract_type": domain.FieldSchema{Type: domain.FieldString, Required: false},
			"text":          domain.FieldSchema{Type: domain.FieldString, Required: false, Description: "Contract body, if the agent has it in hand (e.g. pasted in chat)."},
			"parties":       domain.FieldSchema{Type: domain.FieldArray, Required: false, Description: "Array of {name, role}."},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			title, err := argString(args, "title")
			if err != nil {
				return nil, err
			}
			contractType := argStringOptional(args, "contract_type")
			text := argStringOptional(args, "text")

			var parties []domain.Party
			if raw, ok := args["parties"].([]interface{}); ok {
				for _, item := range raw {
					obj, ok := item.(map[string]interface{})
					if !ok {
						continue
					}
					name, _ := obj["name"].(string)
					role, _ := obj["role"].(string)
					if name == "" {
						continue
					}
					parties = append(parties, domain.Party{Name: name, Role: role})
				}
			}

			uri, err := blobs.Put(ctx, fmt.Sprintf("%s.txt", title), []byte(text))
			if err != nil {
				return nil, fmt.Errorf("failed to store contract blob: %w", err)
			}

			contract := &domain.Contract{
				ContractID:       uuid.NewString(),
				Title:            title,
				UploadedAt:       time.Now(),
				FileURI:          uri,
				Status:           domain.ContractStatusUploaded,
				ComplianceStatus: domain.ComplianceUnknown,
				Parties:          parties,
			}
			if text != "" {
				contract.TextURI = uri
			}
			if contractType != "" {
				contract.ContractType = &contractType
			}
			if err := st.CreateContract(ctx, contract); err != nil {
				return nil, fmt.Errorf("failed to save contract: %w", err)
			}
			return contract, nil
		},
	})
}
