package testsupport

import (
	"context"
	"testing"

	"oshash/internal/config"
	"oshash/internal/index"
)

// MustOpenIndex opens the index configured in cfg and registers cleanup.
func MustOpenIndex(t testing.TB, cfg *config.Config) *index.Store {
	t.Helper()

	store, err := index.Open(context.Background(), cfg.Index.Path)
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
