package content

import (
	"database/sql"
	"fmt"
	"time"

	"castpipe/internal/language"
)

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id              string
		langStr         string
		categoryStr     string
		statusStr       string
		title           sql.NullString
		body            sql.NullString
		audioFilePath   sql.NullString
		streamingM3U8   sql.NullString
		streamingRemote sql.NullString
		contentURL      sql.NullString
		reviewDecision  sql.NullString
		createdRaw      string
		updatedRaw      string
	)

	if err := scanner.Scan(
		&id,
		&langStr,
		&categoryStr,
		&statusStr,
		&title,
		&body,
		&audioFilePath,
		&streamingM3U8,
		&streamingRemote,
		&contentURL,
		&reviewDecision,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	status, ok := ParseStatus(statusStr)
	if !ok {
		return nil, fmt.Errorf("record (%s, %s) has unknown status %q", id, langStr, statusStr)
	}
	decision, ok := ParseReviewDecision(reviewDecision.String)
	if !ok {
		return nil, fmt.Errorf("record (%s, %s) has unknown review decision %q", id, langStr, reviewDecision.String)
	}

	rec := &Record{
		ID:             id,
		Language:       language.Code(langStr),
		Category:       Category(categoryStr),
		Status:         status,
		Title:          title.String,
		Body:           body.String,
		AudioFilePath:  audioFilePath.String,
		Streaming:      StreamingURLs{M3U8: streamingM3U8.String, Remote: streamingRemote.String},
		ContentURL:     contentURL.String,
		ReviewDecision: decision,
	}
	rec.CreatedAt = parseTimestamp(createdRaw)
	rec.UpdatedAt = parseTimestamp(updatedRaw)
	return rec, nil
}

func collectRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func parseTimestamp(raw string) time.Time {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts
	}
	return time.Time{}
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
