package content_test

import (
	"context"
	"testing"

	"castpipe/internal/content"
	"castpipe/internal/language"
	"castpipe/internal/testsupport"
)

func TestCreateAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.SeedRecord(t, store, content.Record{
		ID:       "2026-08-28-fed-rate-watch",
		Language: language.Source(),
		Category: content.CategoryMacro,
		Status:   content.StatusDraft,
		Title:    "Fed rate watch",
		Body:     "First paragraph.\n\nSecond paragraph.",
	})

	fetched, err := store.Get(ctx, rec.ID, rec.Language)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched == nil {
		t.Fatal("expected row, got nil")
	}
	if fetched.Title != rec.Title || fetched.Category != content.CategoryMacro {
		t.Fatalf("round trip mismatch: %#v", fetched)
	}
	if fetched.ReviewDecision != content.DecisionPending {
		t.Fatalf("new rows default to pending decision, got %s", fetched.ReviewDecision)
	}
}

func TestGetMissingReturnsNil(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	rec, err := store.Get(context.Background(), "absent", language.EnUS)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil for missing row, got %#v", rec)
	}
}

func TestUpdatePersistsArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := testsupport.SeedRecord(t, store, content.Record{
		ID:       "2026-08-28-eth-staking",
		Language: language.EnUS,
		Category: content.CategoryEthereum,
		Status:   content.StatusTranslated,
	})

	rec.Status = content.StatusWAV
	rec.AudioFilePath = "/audio/en-US/ethereum/2026-08-28-eth-staking.wav"
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("Update: %v", err)
	}

	fetched, err := store.Get(ctx, rec.ID, rec.Language)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if fetched.Status != content.StatusWAV || fetched.AudioFilePath != rec.AudioFilePath {
		t.Fatalf("update not persisted: %#v", fetched)
	}
}

func TestUpdateMissingRowFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	rec := &content.Record{ID: "ghost", Language: language.JaJP, Status: content.StatusWAV}
	if err := store.Update(context.Background(), rec); err == nil {
		t.Fatal("expected error updating a missing row")
	}
}

func TestListByIDPutsSourceFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedContent(t, store, "2026-08-28-startup-brief", content.StatusTranslated, "Body.")

	records, err := store.ListByID(ctx, "2026-08-28-startup-brief")
	if err != nil {
		t.Fatalf("ListByID: %v", err)
	}
	if len(records) != len(language.All()) {
		t.Fatalf("expected %d rows, got %d", len(language.All()), len(records))
	}
	if !records[0].IsSource() {
		t.Fatalf("expected source row first, got %s", records[0].Language)
	}
}

func TestListPendingHonorsReviewDecision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	testsupport.SeedRecord(t, store, content.Record{
		ID: "draft-no-decision", Status: content.StatusDraft,
	})
	testsupport.SeedRecord(t, store, content.Record{
		ID: "draft-rejected", Status: content.StatusDraft, ReviewDecision: content.DecisionRejected,
	})
	testsupport.SeedRecord(t, store, content.Record{
		ID: "draft-accepted", Status: content.StatusDraft, ReviewDecision: content.DecisionAccepted,
	})
	testsupport.SeedRecord(t, store, content.Record{
		ID: "mid-pipeline", Status: content.StatusWAV,
	})
	testsupport.SeedRecord(t, store, content.Record{
		ID: "already-published", Status: content.StatusPublished,
	})
	// Target-language rows never drive orchestration.
	testsupport.SeedRecord(t, store, content.Record{
		ID: "target-only", Language: language.EnUS, Status: content.StatusWAV,
	})

	pending, err := store.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}

	got := make(map[string]bool, len(pending))
	for _, rec := range pending {
		got[rec.ID] = true
	}
	for _, want := range []string{"draft-accepted", "mid-pipeline"} {
		if !got[want] {
			t.Fatalf("expected %q in pending set %v", want, got)
		}
	}
	for _, reject := range []string{"draft-no-decision", "draft-rejected", "already-published", "target-only"} {
		if got[reject] {
			t.Fatalf("did not expect %q in pending set %v", reject, got)
		}
	}
}

func TestStatsCountsSourceRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.SeedRecord(t, store, content.Record{ID: "a", Status: content.StatusDraft})
	testsupport.SeedRecord(t, store, content.Record{ID: "b", Status: content.StatusWAV})
	testsupport.SeedRecord(t, store, content.Record{ID: "c", Status: content.StatusWAV})

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[content.StatusDraft] != 1 || stats[content.StatusWAV] != 2 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}
