// Package parser splits article sources into YAML frontmatter and body.
package parser

import (
	"bytes"
	"errors"
)

// ErrMissingClosingDelimiter is returned when a source opens a frontmatter
// block but never closes it.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Result holds the output of splitting an article source.
type Result struct {
	// Frontmatter is the raw YAML between the delimiters, without them.
	Frontmatter []byte
	// Body is everything after the closing delimiter.
	Body []byte
	// BodyLine is the 1-based line number of the first body line in the
	// original source.
	BodyLine int
	// HasFrontmatter is false when the source does not start with "---".
	HasFrontmatter bool
}

// Parse separates YAML frontmatter (between leading --- delimiters) from the
// article body. A source without an opening delimiter is all body.
func Parse(data []byte) (*Result, error) {
	nl := detectNewline(data)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(data, open) {
		return &Result{Body: data, BodyLine: 1}, nil
	}

	start := len(open)
	// Empty frontmatter block.
	if bytes.HasPrefix(data[start:], open) {
		bodyStart := start + len(open)
		return &Result{
			Frontmatter:    []byte{},
			Body:           data[bodyStart:],
			BodyLine:       3,
			HasFrontmatter: true,
		}, nil
	}

	closeSeq := []byte(nl + "---")
	idx := indexClosing(data[start:], closeSeq, nl)
	if idx < 0 {
		return nil, ErrMissingClosingDelimiter
	}

	fmEnd := start + idx + len(nl)
	bodyStart := start + idx + len(closeSeq)
	if bytes.HasPrefix(data[bodyStart:], []byte(nl)) {
		bodyStart += len(nl)
	}

	return &Result{
		Frontmatter:    data[start:fmEnd],
		Body:           data[bodyStart:],
		BodyLine:       bytes.Count(data[:bodyStart], []byte("\n")) + 1,
		HasFrontmatter: true,
	}, nil
}

// indexClosing finds a closing delimiter that occupies a whole line, either
// followed by a newline or ending the source.
func indexClosing(rest, closeSeq []byte, nl string) int {
	offset := 0
	for {
		idx := bytes.Index(rest[offset:], closeSeq)
		if idx < 0 {
			return -1
		}
		after := rest[offset+idx+len(closeSeq):]
		if len(after) == 0 || bytes.HasPrefix(after, []byte(nl)) {
			return offset + idx
		}
		offset += idx + len(closeSeq)
	}
}

func detectNewline(data []byte) string {
	if i := bytes.IndexByte(data, '\n'); i > 0 && data[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
