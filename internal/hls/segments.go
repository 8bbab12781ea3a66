package hls

import (
	"sort"
	"strconv"
	"strings"
)

// SegmentExt is the transport stream segment filename extension.
const SegmentExt = ".ts"

// PlaylistName is the HLS playlist filename within a streaming directory.
const PlaylistName = "playlist.m3u8"

// Segment is one listed segment file with its playback ordinal.
type Segment struct {
	Filename string
	Ordinal  int
}

// ParseListing extracts filenames with the given extension from a remote
// listing. Each useful line is "<whitespace><size><whitespace><filename>";
// anything else — tool banners, warnings, blank lines, other extensions —
// is skipped. Order of appearance is preserved.
func ParseListing(raw, ext string) []string {
	var names []string
	for _, line := range strings.Split(raw, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if _, err := strconv.ParseInt(fields[0], 10, 64); err != nil {
			continue
		}
		name := fields[len(fields)-1]
		if !strings.HasSuffix(name, ext) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// SortSegments orders segment filenames numerically by embedded ordinal, so
// segment_2.ts sorts before segment_10.ts. Names without an ordinal sort
// first, by name.
func SortSegments(names []string) []string {
	segments := make([]Segment, len(names))
	for i, name := range names {
		segments[i] = Segment{Filename: name, Ordinal: ordinalOf(name)}
	}
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].Ordinal != segments[j].Ordinal {
			return segments[i].Ordinal < segments[j].Ordinal
		}
		return segments[i].Filename < segments[j].Filename
	})
	sorted := make([]string, len(segments))
	for i, seg := range segments {
		sorted[i] = seg.Filename
	}
	return sorted
}

// ordinalOf returns the integer in the trailing digit run before the file
// extension, or -1 when the name carries none.
func ordinalOf(name string) int {
	if dot := strings.LastIndexByte(name, '.'); dot >= 0 {
		name = name[:dot]
	}
	end := len(name)
	start := end
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	if start == end {
		return -1
	}
	ordinal, err := strconv.Atoi(name[start:end])
	if err != nil {
		return -1
	}
	return ordinal
}
