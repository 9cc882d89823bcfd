package compiler

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
)

// nodeText concatenates every descendant text node of n, ignoring markup.
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		case *ast.AutoLink:
			sb.Write(t.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}

// leadText joins the top-level paragraphs of root, stopping once
// maxLeadRunes is reached.
func leadText(root ast.Node, source []byte) string {
	var parts []string
	total := 0
	for c := root.FirstChild(); c != nil && total < maxLeadRunes; c = c.NextSibling() {
		if c.Kind() != ast.KindParagraph {
			continue
		}
		t := strings.Join(strings.Fields(nodeText(c, source)), " ")
		if t == "" {
			continue
		}
		parts = append(parts, t)
		total += utf8.RuneCountInString(t) + 1
	}
	return strings.Join(parts, " ")
}

func countWords(root ast.Node, source []byte) int {
	words := 0
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Heading, *ast.Paragraph, *ast.TextBlock:
			words += len(strings.Fields(nodeText(n, source)))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return words
}
