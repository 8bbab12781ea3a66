package content

import (
	"strings"
	"time"

	"castpipe/internal/language"
)

// Category classifies content into one of the fixed editorial feeds.
type Category string

const (
	CategoryDailyNews Category = "daily-news"
	CategoryEthereum  Category = "ethereum"
	CategoryMacro     Category = "macro"
	CategoryStartup   Category = "startup"
	CategoryAI        Category = "ai"
)

var allCategories = []Category{
	CategoryDailyNews,
	CategoryEthereum,
	CategoryMacro,
	CategoryStartup,
	CategoryAI,
}

// AllCategories returns the known categories in stable order.
func AllCategories() []Category {
	cp := make([]Category, len(allCategories))
	copy(cp, allCategories)
	return cp
}

// ParseCategory converts a string into a known Category.
func ParseCategory(value string) (Category, bool) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	for _, category := range allCategories {
		if category == normalized {
			return category, true
		}
	}
	return "", false
}

// StreamingURLs holds the playback locations produced by the streaming and
// upload stages.
type StreamingURLs struct {
	M3U8   string `json:"m3u8,omitempty"`
	Remote string `json:"remote,omitempty"`
}

// Record is one (id, language) content row. The id is conventionally
// date-prefixed (e.g. 2026-08-28-fed-rate-watch).
type Record struct {
	ID             string
	Language       language.Code
	Category       Category
	Status         Status
	Title          string
	Body           string
	AudioFilePath  string
	Streaming      StreamingURLs
	ContentURL     string
	ReviewDecision ReviewDecision
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsSource reports whether this row is the authoring-language row, which is
// the single authority for pipeline status.
func (r *Record) IsSource() bool {
	return r.Language.IsSource()
}

// Snapshot is the JSON shape pushed to remote object storage by the
// content-upload stage.
type Snapshot struct {
	ID        string        `json:"id"`
	Language  language.Code `json:"language"`
	Category  Category      `json:"category"`
	Status    Status        `json:"status"`
	Title     string        `json:"title"`
	Body      string        `json:"content"`
	AudioURL  string        `json:"audio_url,omitempty"`
	Streaming StreamingURLs `json:"streaming_urls,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewSnapshot builds the uploadable view of a record.
func NewSnapshot(rec *Record) Snapshot {
	return Snapshot{
		ID:        rec.ID,
		Language:  rec.Language,
		Category:  rec.Category,
		Status:    rec.Status,
		Title:     rec.Title,
		Body:      rec.Body,
		AudioURL:  rec.ContentURL,
		Streaming: rec.Streaming,
		UpdatedAt: rec.UpdatedAt,
	}
}
