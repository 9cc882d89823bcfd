// Package apperr defines the error taxonomy of the content build.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrPublishSkipped is returned by the publisher when there are no build
	// artifacts to publish. Callers treat it as a no-op.
	ErrPublishSkipped = errors.New("publish skipped: build artifacts directory not found")
)

// ProblemKind classifies a single content defect.
type ProblemKind string

// Problem kinds.
const (
	KindSchema    ProblemKind = "schema"
	KindDuplicate ProblemKind = "duplicate"
	KindReference ProblemKind = "reference"
	KindOwnership ProblemKind = "ownership"
	KindCompile   ProblemKind = "compile"
)

// Problem is one defect found in the content tree.
type Problem struct {
	Kind    ProblemKind `json:"kind"`
	Path    string      `json:"path"`
	Field   string      `json:"field,omitempty"`
	Message string      `json:"message"`
}

func (p Problem) String() string {
	if p.Field == "" {
		return fmt.Sprintf("%s: %s [%s]", p.Path, p.Message, p.Kind)
	}
	return fmt.Sprintf("%s: %s: %s [%s]", p.Path, p.Field, p.Message, p.Kind)
}

// SchemaViolation lists every field violation of one content record.
type SchemaViolation struct {
	Path     string
	Problems []Problem
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("schema violation in %s: %s", e.Path, joinProblems(e.Problems))
}

// CompileError reports a Markdown/MDX failure in one article body.
type CompileError struct {
	Path string
	Line int
	Msg  string
}

func (e *CompileError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("compile %s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("compile %s: %s", e.Path, e.Msg)
}

// Problem converts the error into an aggregated problem entry.
func (e *CompileError) Problem() Problem {
	p := Problem{Kind: KindCompile, Path: e.Path, Message: e.Msg}
	if e.Line > 0 {
		p.Field = fmt.Sprintf("line %d", e.Line)
	}
	return p
}

// ContentIntegrityError aggregates every problem found during a build.
// Problems are sorted by path, then field, then message.
type ContentIntegrityError struct {
	Problems []Problem
}

// NewIntegrityError sorts problems into their reporting order.
func NewIntegrityError(problems []Problem) *ContentIntegrityError {
	sorted := make([]Problem, len(problems))
	copy(sorted, problems)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Field != b.Field {
			return a.Field < b.Field
		}
		return a.Message < b.Message
	})
	return &ContentIntegrityError{Problems: sorted}
}

func (e *ContentIntegrityError) Error() string {
	return fmt.Sprintf("content integrity check failed with %d problem(s): %s", len(e.Problems), joinProblems(e.Problems))
}

// IsIntegrity reports whether err carries aggregated content problems.
func IsIntegrity(err error) bool {
	var target *ContentIntegrityError
	return errors.As(err, &target)
}

// IsCompile reports whether err is a CompileError.
func IsCompile(err error) bool {
	var target *CompileError
	return errors.As(err, &target)
}

// Problems extracts the problem list from err, if any.
func Problems(err error) []Problem {
	var integrity *ContentIntegrityError
	if errors.As(err, &integrity) {
		return integrity.Problems
	}
	var schema *SchemaViolation
	if errors.As(err, &schema) {
		return schema.Problems
	}
	var compile *CompileError
	if errors.As(err, &compile) {
		return []Problem{compile.Problem()}
	}
	return nil
}

func joinProblems(problems []Problem) string {
	parts := make([]string, len(problems))
	for i, p := range problems {
		parts[i] = p.String()
	}
	return strings.Join(parts, "; ")
}
