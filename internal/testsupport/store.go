package testsupport

import (
	"context"
	"testing"

	"castpipe/internal/config"
	"castpipe/internal/content"
	"castpipe/internal/language"
)

// MustOpenStore opens a content.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *content.Store {
	t.Helper()

	store, err := content.Open(cfg)
	if err != nil {
		t.Fatalf("content.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SeedRecord creates a content row for tests using the provided store.
func SeedRecord(t testing.TB, store *content.Store, rec content.Record) *content.Record {
	t.Helper()

	if rec.Category == "" {
		rec.Category = content.CategoryDailyNews
	}
	if rec.Language == "" {
		rec.Language = language.Source()
	}
	if err := store.Create(context.Background(), &rec); err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return &rec
}

// SeedContent creates a source row plus a row per target language, all at the
// given status with the given body.
func SeedContent(t testing.TB, store *content.Store, id string, status content.Status, body string) {
	t.Helper()

	for _, lang := range language.All() {
		SeedRecord(t, store, content.Record{
			ID:       id,
			Language: lang,
			Status:   status,
			Title:    "Title " + id,
			Body:     body,
		})
	}
}
