package textproc

import (
	"strings"
	"unicode/utf8"
)

// MaxChunkBytes bounds the UTF-8 byte length of every chunk handed to the
// synthesis service: its request-size limit is 5000 bytes, and 4800 leaves
// margin for request encoding overhead.
const MaxChunkBytes = 4800

// SplitContentIntoChunks splits text into ordered chunks no longer than
// MaxChunkBytes. Double-newline-delimited paragraphs are the preferred split
// unit; an oversized paragraph is subdivided at sentence boundaries, and an
// oversized sentence is hard-sliced on rune boundaries. Empty input yields
// no chunks; input at or below the limit is returned as a single chunk
// unchanged.
func SplitContentIntoChunks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if len(text) <= MaxChunkBytes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	closeChunk := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, paragraph := range splitParagraphs(text) {
		for _, piece := range fitParagraph(paragraph) {
			separator := 0
			if current.Len() > 0 {
				separator = 2
			}
			if current.Len()+separator+len(piece) > MaxChunkBytes {
				closeChunk()
			}
			if current.Len() > 0 {
				current.WriteString("\n\n")
			}
			current.WriteString(piece)
		}
	}
	closeChunk()
	return chunks
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, paragraph := range raw {
		if trimmed := strings.TrimSpace(paragraph); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// fitParagraph returns the paragraph as-is when it fits, otherwise pieces
// split at sentence boundaries, each guaranteed to fit.
func fitParagraph(paragraph string) []string {
	if len(paragraph) <= MaxChunkBytes {
		return []string{paragraph}
	}

	var pieces []string
	var current strings.Builder
	closePiece := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			pieces = append(pieces, s)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(paragraph) {
		if len(sentence) > MaxChunkBytes {
			closePiece()
			pieces = append(pieces, hardSplit(sentence)...)
			continue
		}
		separator := 0
		if current.Len() > 0 {
			separator = 1
		}
		if current.Len()+separator+len(sentence) > MaxChunkBytes {
			closePiece()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(sentence)
	}
	closePiece()
	return pieces
}

// splitSentences cuts after sentence terminators. CJK terminators always end
// a sentence; latin terminators only when followed by whitespace, so decimal
// points and abbreviations stay intact.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		end := i + size
		cut := false
		switch r {
		case '。', '！', '？', '．':
			cut = true
		case '.', '!', '?':
			if end >= len(text) {
				cut = true
			} else {
				next, _ := utf8.DecodeRuneInString(text[end:])
				cut = next == ' ' || next == '\n' || next == '\t'
			}
		}
		if cut {
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// hardSplit slices text into MaxChunkBytes pieces on rune boundaries. Last
// resort for a single sentence that exceeds the ceiling on its own.
func hardSplit(text string) []string {
	var parts []string
	var current strings.Builder
	for _, r := range text {
		if current.Len()+utf8.RuneLen(r) > MaxChunkBytes {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
