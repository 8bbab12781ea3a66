package content_test

import (
	"testing"

	"castpipe/internal/content"
)

func TestNextStatusWalksFullPipeline(t *testing.T) {
	expected := []content.Status{
		content.StatusDraft,
		content.StatusReviewed,
		content.StatusTranslated,
		content.StatusWAV,
		content.StatusM3U8,
		content.StatusRemoteUpload,
		content.StatusContentUpload,
		content.StatusPublished,
	}
	current := content.StatusDraft
	walked := []content.Status{current}
	for {
		next, ok := content.NextStatus(current)
		if !ok {
			break
		}
		walked = append(walked, next)
		current = next
	}
	if len(walked) != len(expected) {
		t.Fatalf("walked %d statuses, expected %d", len(walked), len(expected))
	}
	for i := range expected {
		if walked[i] != expected[i] {
			t.Fatalf("position %d: got %s, expected %s", i, walked[i], expected[i])
		}
	}
	if current != content.StatusPublished {
		t.Fatalf("walk must terminate at published, got %s", current)
	}
}

func TestStageTableIsTotal(t *testing.T) {
	if err := content.ValidateStageTable(); err != nil {
		t.Fatalf("stage table must cover every non-terminal status: %v", err)
	}
}

func TestStageForStatus(t *testing.T) {
	cases := []struct {
		status content.Status
		stage  content.StageKind
		ok     bool
	}{
		{content.StatusDraft, "", false},
		{content.StatusReviewed, content.StageTranslate, true},
		{content.StatusTranslated, content.StageAudio, true},
		{content.StatusWAV, content.StageStreaming, true},
		{content.StatusM3U8, content.StageRemoteUpload, true},
		{content.StatusRemoteUpload, content.StageContentUpload, true},
		{content.StatusContentUpload, content.StagePublish, true},
		{content.StatusPublished, "", false},
	}
	for _, tc := range cases {
		stage, ok := content.StageForStatus(tc.status)
		if ok != tc.ok || stage != tc.stage {
			t.Fatalf("StageForStatus(%s) = (%s, %v), expected (%s, %v)", tc.status, stage, ok, tc.stage, tc.ok)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if status, ok := content.ParseStatus("  Remote-Upload "); !ok || status != content.StatusRemoteUpload {
		t.Fatalf("expected remote-upload, got (%s, %v)", status, ok)
	}
	if _, ok := content.ParseStatus("shipped"); ok {
		t.Fatal("unknown status must not parse")
	}
}

func TestAtLeast(t *testing.T) {
	if !content.StatusWAV.AtLeast(content.StatusTranslated) {
		t.Fatal("wav should be at least translated")
	}
	if content.StatusReviewed.AtLeast(content.StatusTranslated) {
		t.Fatal("reviewed should not be at least translated")
	}
}

func TestParseReviewDecision(t *testing.T) {
	if decision, ok := content.ParseReviewDecision(""); !ok || decision != content.DecisionPending {
		t.Fatalf("empty decision should parse as pending, got (%s, %v)", decision, ok)
	}
	if _, ok := content.ParseReviewDecision("maybe"); ok {
		t.Fatal("unknown decision must not parse")
	}
}
