package textproc

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New()

// PlainText strips presentational markup from a markdown body, returning
// spoken text: bold/italic and heading markers removed, links collapsed to
// their link text, list bullets dropped, fenced code blocks omitted entirely
// (code is not read aloud), inline code kept as its literal text. Block
// content is normalized to paragraphs separated by blank lines.
func PlainText(body string) string {
	src := []byte(body)
	root := markdown.Parser().Parse(text.NewReader(src))

	var paragraphs []string
	var current strings.Builder
	flush := func() {
		if s := normalizeSpace(current.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
		current.Reset()
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch n.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML, ast.KindImage:
			if entering {
				return ast.WalkSkipChildren, nil
			}
		case ast.KindText:
			if entering {
				node := n.(*ast.Text)
				current.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					current.WriteByte(' ')
				}
			}
		case ast.KindParagraph, ast.KindHeading, ast.KindTextBlock:
			if !entering {
				flush()
			}
		}
		return ast.WalkContinue, nil
	})
	flush()

	return strings.Join(paragraphs, "\n\n")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
