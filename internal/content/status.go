package content

import (
	"fmt"
	"strings"
)

// Status represents one step of the publication pipeline. Statuses form a
// total order and only move forward.
type Status string

const (
	StatusDraft         Status = "draft"
	StatusReviewed      Status = "reviewed"
	StatusTranslated    Status = "translated"
	StatusWAV           Status = "wav"
	StatusM3U8          Status = "m3u8"
	StatusRemoteUpload  Status = "remote-upload"
	StatusContentUpload Status = "content-upload"
	StatusPublished     Status = "published"
)

var allStatuses = []Status{
	StatusDraft,
	StatusReviewed,
	StatusTranslated,
	StatusWAV,
	StatusM3U8,
	StatusRemoteUpload,
	StatusContentUpload,
	StatusPublished,
}

var statusIndex = func() map[Status]int {
	idx := make(map[Status]int, len(allStatuses))
	for i, status := range allStatuses {
		idx[status] = i
	}
	return idx
}()

// StageKind names the operation that advances a content item out of a status.
type StageKind string

const (
	StageTranslate     StageKind = "translate"
	StageAudio         StageKind = "audio"
	StageStreaming     StageKind = "streaming"
	StageRemoteUpload  StageKind = "remote_upload"
	StageContentUpload StageKind = "content_upload"
	StagePublish       StageKind = "publish"
)

// stageByStatus maps each status to the stage that produces its next status.
// Draft has no entry: review happens outside the pipeline. Published has no
// entry: it is terminal.
var stageByStatus = map[Status]StageKind{
	StatusReviewed:      StageTranslate,
	StatusTranslated:    StageAudio,
	StatusWAV:           StageStreaming,
	StatusM3U8:          StageRemoteUpload,
	StatusRemoteUpload:  StageContentUpload,
	StatusContentUpload: StagePublish,
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusIndex[normalized]
	return normalized, ok
}

// NextStatus returns the status that follows current in the pipeline order.
// The second return is false at the terminal status.
func NextStatus(current Status) (Status, bool) {
	idx, ok := statusIndex[current]
	if !ok || idx+1 >= len(allStatuses) {
		return "", false
	}
	return allStatuses[idx+1], true
}

// StageForStatus returns the stage operation that advances the given status.
// Draft and published have no stage; any other miss would be a programming
// error caught by ValidateStageTable.
func StageForStatus(status Status) (StageKind, bool) {
	kind, ok := stageByStatus[status]
	return kind, ok
}

// AtLeast reports whether status has reached want in pipeline order.
func (s Status) AtLeast(want Status) bool {
	si, ok := statusIndex[s]
	if !ok {
		return false
	}
	wi, ok := statusIndex[want]
	if !ok {
		return false
	}
	return si >= wi
}

// ValidateStageTable verifies every non-terminal status past draft has a
// stage operation. A gap is a configuration error and should fail loudly at
// startup rather than deep inside a pipeline run.
func ValidateStageTable() error {
	for _, status := range allStatuses {
		if status == StatusDraft || status == StatusPublished {
			continue
		}
		if _, ok := stageByStatus[status]; !ok {
			return fmt.Errorf("status %q has no stage operation configured", status)
		}
	}
	return nil
}

// ReviewDecision captures the editorial outcome recorded on a draft row.
type ReviewDecision string

const (
	DecisionPending  ReviewDecision = "pending"
	DecisionAccepted ReviewDecision = "accepted"
	DecisionRejected ReviewDecision = "rejected"
)

// ParseReviewDecision converts a string into a known ReviewDecision. An empty
// value parses as pending.
func ParseReviewDecision(value string) (ReviewDecision, bool) {
	normalized := ReviewDecision(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return DecisionPending, true
	case DecisionPending, DecisionAccepted, DecisionRejected:
		return normalized, true
	default:
		return "", false
	}
}
