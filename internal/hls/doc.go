// Package hls converts generated waveforms into HLS playlists and transport
// stream segments, and parses segment listings produced by external tools.
//
// Segment filenames embed an integer ordinal (segment_007.ts -> 7) and must
// be ordered by it: lexicographic order diverges from playback order once
// ordinals reach two digits.
package hls
