// Package helpers provides shared test fixtures.
package helpers

import (
	"testing"

	"github.com/legaldesk/orchestrator/internal/store"
)

// NewTestStore builds an in-memory SQLite Store for tests, cleaned up
// automatically when the test finishes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}
