// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"context"
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"

	"quotebuilder/collections"
	"quotebuilder/models"
	"quotebuilder/store"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// NewTestStore returns a RecordStore over a fresh test app, seeded with the
// default catalog.
func NewTestStore(t *testing.T) (*pocketbase.PocketBase, *store.RecordStore) {
	t.Helper()

	app := NewTestApp(t)
	st := store.NewRecordStore(app)
	if err := collections.Seed(context.Background(), st); err != nil {
		t.Fatalf("failed to seed test store: %v", err)
	}
	return app, st
}

// CreateTestClient stores a client with the given name and returns it.
func CreateTestClient(t *testing.T, st store.Store, id, name string) models.Client {
	t.Helper()

	ctx := context.Background()
	clients, err := st.LoadClients(ctx)
	if err != nil {
		t.Fatalf("failed to load clients: %v", err)
	}
	c := models.Client{
		ID:      id,
		Name:    name,
		Surname: "Pérez",
		TaxID:   "12345678Z",
		Address: "Calle Mayor 1, Madrid",
		Type:    models.ClientPrivate,
	}
	if err := st.SaveClients(ctx, append(clients, c)); err != nil {
		t.Fatalf("failed to save test client: %v", err)
	}
	return c
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
