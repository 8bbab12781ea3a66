package content

import (
	"path/filepath"
	"strings"

	"castpipe/internal/language"
)

// Artifact layout under the audio root:
//
//	<root>/<language>/<category>/<id>.wav          generated waveform
//	<root>/<language>/<category>/<id>/             HLS playlist + segments
//	<root>/<language>/<category>/<id>.json         content snapshot
//
// The same relative layout is mirrored on remote object storage.

// AudioFilePathFor returns the local waveform path for a record.
func AudioFilePathFor(root string, lang language.Code, category Category, id string) string {
	return filepath.Join(root, string(lang), string(category), id+".wav")
}

// StreamingDirFor returns the local HLS output directory for a record.
func StreamingDirFor(root string, lang language.Code, category Category, id string) string {
	return filepath.Join(root, string(lang), string(category), id)
}

// SnapshotPathFor returns the local content snapshot path for a record.
func SnapshotPathFor(root string, lang language.Code, category Category, id string) string {
	return filepath.Join(root, string(lang), string(category), id+".json")
}

// RemotePrefixFor returns the remote object key prefix for a record's
// streaming artifacts.
func RemotePrefixFor(lang language.Code, category Category, id string) string {
	return strings.Join([]string{string(lang), string(category), id}, "/")
}

// PublicURLFor composes the public playback URL for a remote object key.
func PublicURLFor(baseURL, key string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return key
	}
	return base + "/" + strings.TrimLeft(key, "/")
}
