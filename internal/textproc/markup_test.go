package textproc_test

import (
	"strings"
	"testing"

	"castpipe/internal/textproc"
)

func TestPlainTextStripsInlineMarkers(t *testing.T) {
	input := "This is **bold** and *italic* with `inline code` kept."
	got := textproc.PlainText(input)
	want := "This is bold and italic with inline code kept."
	if got != want {
		t.Fatalf("PlainText = %q, want %q", got, want)
	}
}

func TestPlainTextCollapsesLinksToText(t *testing.T) {
	input := "Read [the full report](https://example.com/report) today."
	got := textproc.PlainText(input)
	if strings.Contains(got, "example.com") {
		t.Fatalf("link destination leaked into spoken text: %q", got)
	}
	if !strings.Contains(got, "the full report") {
		t.Fatalf("link text lost: %q", got)
	}
}

func TestPlainTextDropsHeadingAndListMarkers(t *testing.T) {
	input := "# Market Recap\n\n- rates held\n- yields fell\n\nDone."
	got := textproc.PlainText(input)
	if strings.Contains(got, "#") || strings.Contains(got, "- ") {
		t.Fatalf("markers survived: %q", got)
	}
	for _, fragment := range []string{"Market Recap", "rates held", "yields fell", "Done."} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in %q", fragment, got)
		}
	}
}

func TestPlainTextOmitsCodeFences(t *testing.T) {
	input := "Before.\n\n```go\nfmt.Println(\"not spoken\")\n```\n\nAfter."
	got := textproc.PlainText(input)
	if strings.Contains(got, "Println") {
		t.Fatalf("fenced code leaked into spoken text: %q", got)
	}
	if !strings.Contains(got, "Before.") || !strings.Contains(got, "After.") {
		t.Fatalf("surrounding text lost: %q", got)
	}
}

func TestPlainTextNormalizesLineBreaks(t *testing.T) {
	input := "one\ntwo\nthree\n\nnext para"
	got := textproc.PlainText(input)
	want := "one two three\n\nnext para"
	if got != want {
		t.Fatalf("PlainText = %q, want %q", got, want)
	}
}
