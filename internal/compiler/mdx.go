package compiler

import (
	"fmt"
	"regexp"
	"strings"
)

var esmRe = regexp.MustCompile(`^(import|export)\s`)

type syntaxError struct {
	line int
	msg  string
}

func (e *syntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.line, e.msg)
}

type openMark struct {
	name string
	line int
}

// preprocess strips top-level ESM statements and checks that component tags
// and expression braces balance outside code. Stripped lines are blanked, so
// line numbers in the returned source match the input.
func preprocess(body []byte) ([]byte, error) {
	lines := strings.Split(string(body), "\n")
	masked := make([]string, len(lines))

	var (
		fence    string
		esmDepth int
		inESM    bool
	)
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := len(line) - len(trimmed)

		switch {
		case fence != "":
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]+" \t\r") == "" {
				fence = ""
			}
			continue
		case inESM:
			esmDepth += strings.Count(line, "{") - strings.Count(line, "}")
			lines[i] = ""
			inESM = esmDepth > 0
			continue
		case indent < 4 && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")):
			fence = trimmed[:runLen(trimmed, 0)]
			continue
		case esmRe.MatchString(line):
			esmDepth = strings.Count(line, "{") - strings.Count(line, "}")
			lines[i] = ""
			inESM = esmDepth > 0
			continue
		}
		masked[i] = maskInlineCode(line)
	}

	if err := checkBalance(masked); err != nil {
		return nil, err
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func checkBalance(lines []string) error {
	src := strings.Join(lines, "\n")
	var tags, braces []openMark
	line := 1
	for i := 0; i < len(src); i++ {
		switch c := src[i]; {
		case c == '\n':
			line++
		case c == '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				line++
			}
			i++
		case c == '{':
			braces = append(braces, openMark{line: line})
		case c == '}':
			if len(braces) == 0 {
				return &syntaxError{line: line, msg: `unexpected "}"`}
			}
			braces = braces[:len(braces)-1]
		case c == '<':
			if i > 0 && isIdentByte(src[i-1]) {
				continue
			}
			t, ok, err := scanTag(src, i, line)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			switch {
			case t.selfClosing:
			case t.closing:
				if len(tags) == 0 {
					return &syntaxError{line: line, msg: fmt.Sprintf("unexpected closing tag </%s>", t.name)}
				}
				top := tags[len(tags)-1]
				if top.name != t.name {
					return &syntaxError{line: line, msg: fmt.Sprintf("expected </%s>, found </%s>", top.name, t.name)}
				}
				tags = tags[:len(tags)-1]
			default:
				tags = append(tags, openMark{name: t.name, line: line})
			}
			line += strings.Count(src[i:t.end], "\n")
			i = t.end - 1
		}
	}

	if len(tags) > 0 {
		top := tags[len(tags)-1]
		return &syntaxError{line: top.line, msg: fmt.Sprintf("unclosed <%s>", top.name)}
	}
	if len(braces) > 0 {
		return &syntaxError{line: braces[len(braces)-1].line, msg: `unclosed "{"`}
	}
	return nil
}

type tagToken struct {
	name        string
	closing     bool
	selfClosing bool
	end         int // offset just past '>'
}

// scanTag reads a component tag starting at src[at] == '<'. Attributes may
// span lines; quoted values and {...} expressions are skipped whole. ok is
// false when the text at at is not a component tag.
func scanTag(src string, at, line int) (tagToken, bool, error) {
	var t tagToken
	i := at + 1
	if i < len(src) && src[i] == '/' {
		t.closing = true
		i++
	}
	if i >= len(src) || src[i] < 'A' || src[i] > 'Z' {
		return t, false, nil
	}
	nameStart := i
	for i < len(src) && (isIdentByte(src[i]) || src[i] == '.') {
		i++
	}
	t.name = src[nameStart:i]
	if i < len(src) && !isTagBoundary(src[i]) {
		return t, false, nil
	}

	depth := 0
	for ; i < len(src); i++ {
		switch c := src[i]; {
		case depth > 0:
			switch c {
			case '{':
				depth++
			case '}':
				depth--
			}
		case c == '"' || c == '\'':
			j := strings.IndexByte(src[i+1:], c)
			if j < 0 {
				return t, false, &syntaxError{line: line, msg: fmt.Sprintf("unterminated attribute value in <%s>", t.name)}
			}
			i += j + 1
		case c == '{':
			depth++
		case c == '>':
			t.selfClosing = !t.closing && src[i-1] == '/'
			t.end = i + 1
			return t, true, nil
		}
	}
	return t, false, &syntaxError{line: line, msg: fmt.Sprintf("unterminated tag <%s", t.name)}
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isTagBoundary(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '>' || c == '/'
}

// maskInlineCode blanks inline code spans so their content is not checked.
func maskInlineCode(line string) string {
	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}
		n := runLen(line, i)
		end := findRun(line, i+n, n)
		if end < 0 {
			i += n
			continue
		}
		for j := i; j < end+n; j++ {
			b[j] = ' '
		}
		i = end + n
	}
	return string(b)
}

func findRun(s string, from, n int) int {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		m := runLen(s, i)
		if m == n {
			return i
		}
		i += m
	}
	return -1
}

// runLen returns the length of the run of identical bytes starting at i.
func runLen(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == s[i] {
		n++
	}
	return n
}
