package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/doccodec"
	"github.com/legaldesk/orchestrator/internal/domain"
	"github.com/legaldesk/orchestrator/internal/store"
)

// registerDocumentTools adds the Document tool group: generate_document,
// list_documents.
func registerDocumentTools(r *Registry, st store.Store, blobs blobstore.BlobStore, codec doccodec.DocumentCodec) {
	r.Register(Tool{
		Name:          "generate_document",
		Description:   "Render and persist a generated document (memo, summary, or compliance report) for the session.",
		SideEffecting: true,
		ParameterSchema: domain.ParameterSchema{
			"kind":       domain.FieldSchema{Type: domain.FieldString, Required: true, Description: "memo | summary | compliance_report"},
			"session_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
			"content":    domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			kindStr, err := argString(args, "kind")
			if err != nil {
				return nil, err
			}
			sessionID, err := argString(args, "session_id")
			if err != nil {
				return nil, err
			}
			content, err := argString(args, "content")
			if err != nil {
				return nil, err
			}

			kind := domain.GeneratedDocumentKind(kindStr)
			rendered, err := codec.RenderDocument(ctx, kind, string(kind), content)
			if err != nil {
				return nil, fmt.Errorf("failed to render document: %w", err)
			}

			uri, err := blobs.Put(ctx, fmt.Sprintf("%s_%s.md", sessionID, kindStr), rendered)
			if err != nil {
				return nil, fmt.Errorf("failed to store document blob: %w", err)
			}

			doc := &domain.GeneratedDocument{
				DocumentID: uuid.NewString(),
				SessionID:  sessionID,
				Kind:       kind,
				FileURI:    uri,
				CreatedAt:  time.Now(),
			}
			if err := st.CreateGeneratedDocument(ctx, doc); err != nil {
				return nil, fmt.Errorf("failed to save generated document: %w", err)
			}
			return doc, nil
		},
	})

	r.Register(Tool{
		Name:        "list_documents",
		Description: "List documents generated so far in this session.",
		ParameterSchema: domain.ParameterSchema{
			"session_id": domain.FieldSchema{Type: domain.FieldString, Required: true},
		},
		Handler: func(ctx context.Context, tc TurnContext, args map[string]interface{}) (interface{}, error) {
			sessionID, err := argString(args, "session_id")
			if err != nil {
				return nil, err
			}
			docs, err := st.ListGeneratedDocuments(ctx, sessionID)
			if err != nil {
				return nil, fmt.Errorf("failed to list generated documents: %w", err)
			}
			return docs, nil
		},
	})
}
