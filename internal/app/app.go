// Package app wires the orchestrator's components into a Container.
// Redesign flag: the teacher leans on a couple of package-level globals
// (DefaultRegistry, default policy engine); this repo wires everything
// explicitly into one Container built at startup instead, with
// tools.DefaultRegistry-style globals avoided entirely.
package app

import (
	"context"
	"fmt"

	"github.com/legaldesk/orchestrator/internal/agentrun"
	"github.com/legaldesk/orchestrator/internal/blobstore"
	"github.com/legaldesk/orchestrator/internal/catalog"
	"github.com/legaldesk/orchestrator/internal/classify"
	"github.com/legaldesk/orchestrator/internal/config"
	"github.com/legaldesk/orchestrator/internal/contextbuild"
	"github.com/legaldesk/orchestrator/internal/doccodec"
	"github.com/legaldesk/orchestrator/internal/llmclient"
	"github.com/legaldesk/orchestrator/internal/orchestrator"
	"github.com/legaldesk/orchestrator/internal/policy"
	"github.com/legaldesk/orchestrator/internal/store"
	"github.com/legaldesk/orchestrator/internal/tools"
)

// Container holds every wired top-level component main needs.
type Container struct {
	Store        *store.SQLiteStore
	Blobs        blobstore.BlobStore
	Codec        doccodec.DocumentCodec
	Registry     *tools.Registry
	Catalog      *catalog.Catalog
	ModelClient  llmclient.ModelClient
	Orchestrator *orchestrator.Orchestrator
}

// Build constructs a Container from Config. Any failure here is a
// configuration_error and should halt process startup (spec.md §7).
func Build(cfg *config.Config) (*Container, error) {
	st, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	blobs, err := blobstore.NewLocalFS("./data/blobs")
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize blob store: %w", err)
	}
	codec := doccodec.NewPlainTextCodec()

	modelClient, err := llmclient.New(cfg)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize model client: %w", err)
	}

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("failed to initialize tool policy: %w", err)
	}
	gate := policy.NewGate(policyEngine)

	registry := tools.NewRegistry(gate, cfg.ToolHandlerTimeout)
	tools.RegisterBuiltins(registry, st, blobs, codec)

	cat := catalog.New()
	classifier := classify.New(modelClient)
	contextBuilder := contextbuild.New(st)
	runner := agentrun.New(contextBuilder, modelClient, registry)

	orch := orchestrator.New(st, cat, classifier, runner, orchestrator.Config{
		RequestTimeout:      cfg.RequestTimeout,
		AgentTurnTimeout:    cfg.AgentTurnTimeout,
		HistoryWindowPairs:  cfg.HistoryWindowPairs,
		TokenBudgetFraction: cfg.ContextTokenBudgetFraction,
	})

	return &Container{
		Store:        st,
		Blobs:        blobs,
		Codec:        codec,
		Registry:     registry,
		Catalog:      cat,
		ModelClient:  modelClient,
		Orchestrator: orch,
	}, nil
}
