package llmclient

import (
	"github.com/legaldesk/orchestrator/internal/config"
	"github.com/legaldesk/orchestrator/internal/domain"
)

// New builds the ModelClient the rest of the orchestrator depends on.
//
// When cfg.UseGroundedBackend is set the caller is asking for a real,
// grounded-search-capable backend; if no model endpoint is configured in
// that case, New fails fast with a configuration_error rather than
// silently falling back to the mock client (spec.md §7, redesign flag on
// strict-mode construction).
func New(cfg *config.Config) (ModelClient, error) {
	if cfg.ModelEndpoint == "" || cfg.ModelEndpoint == "mock" {
		if cfg.UseGroundedBackend {
			return nil, domain.NewCoreError(domain.ErrConfiguration, "grounded backend requested but no model endpoint is configured", nil)
		}
		return NewMockClient(), nil
	}
	return NewClient(cfg.ModelEndpoint, cfg.ModelAPIKey, cfg.ModelProvider), nil
}
