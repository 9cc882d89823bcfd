// Package compiler turns MDX article bodies into rendered HTML plus the
// structural metadata harvested during the same pass: the table of
// contents, the leading paragraph text, and a word count.
package compiler

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/models"
)

// wordsPerMinute drives the read time estimate.
const wordsPerMinute = 200

// maxLeadRunes caps the leading text kept for excerpts.
const maxLeadRunes = 1000

// Options configures a Compiler.
type Options struct {
	// AutoHeadingID assigns slug ids to headings that lack an explicit
	// {#id} attribute.
	AutoHeadingID bool
}

// Compiler renders article bodies. It is safe for concurrent use.
type Compiler struct {
	md goldmark.Markdown
}

// New returns a Compiler configured with opts.
func New(opts Options) *Compiler {
	parserOpts := []parser.Option{parser.WithAttribute()}
	if opts.AutoHeadingID {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		// Component tags must reach the rendering layer untouched.
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Compiler{md: md}
}

// Compile parses body and returns the compiled document. path is used for
// error attribution; firstLine is the 1-based line of body within the file,
// so that reported lines match the source file rather than the body.
func (c *Compiler) Compile(path string, body []byte, firstLine int) (models.Document, error) {
	if firstLine < 1 {
		firstLine = 1
	}
	src, err := preprocess(body)
	if err != nil {
		var se *syntaxError
		if errors.As(err, &se) {
			return models.Document{}, &apperr.CompileError{Path: path, Line: se.line + firstLine - 1, Msg: se.msg}
		}
		return models.Document{}, &apperr.CompileError{Path: path, Msg: err.Error()}
	}

	root := c.md.Parser().Parse(text.NewReader(src))

	var buf bytes.Buffer
	if err := c.md.Renderer().Render(&buf, src, root); err != nil {
		return models.Document{}, &apperr.CompileError{Path: path, Msg: fmt.Sprintf("render: %v", err)}
	}

	return models.Document{
		HTML:     buf.String(),
		TOC:      ExtractTOC(root, src),
		LeadText: leadText(root, src),
		Words:    countWords(root, src),
	}, nil
}

// ReadTime estimates reading minutes for a word count, never less than one.
func ReadTime(words int) int {
	m := words / wordsPerMinute
	if m < 1 {
		return 1
	}
	return m
}

// ExtractTOC walks root in document order and returns one entry per heading.
// Headings without an id attribute yield an empty id.
func ExtractTOC(root ast.Node, source []byte) []models.TOCEntry {
	toc := []models.TOCEntry{}
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		toc = append(toc, models.TOCEntry{
			Depth: h.Level,
			Text:  nodeText(h, source),
			ID:    headingID(h),
		})
		return ast.WalkSkipChildren, nil
	})
	return toc
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}
