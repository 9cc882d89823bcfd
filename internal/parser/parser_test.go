package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: Hello\nslug: hello\n---\n# Hello\nBody text.\n"))
	require.NoError(t, err)
	require.True(t, r.HasFrontmatter)
	require.Equal(t, "title: Hello\nslug: hello\n", string(r.Frontmatter))
	require.Equal(t, "# Hello\nBody text.\n", string(r.Body))
	require.Equal(t, 5, r.BodyLine)
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	require.NoError(t, err)
	require.False(t, r.HasFrontmatter)
	require.Nil(t, r.Frontmatter)
	require.Equal(t, string(input), string(r.Body))
	require.Equal(t, 1, r.BodyLine)
}

func TestParse_EmptyFrontmatter(t *testing.T) {
	r, err := Parse([]byte("---\n---\nBody\n"))
	require.NoError(t, err)
	require.True(t, r.HasFrontmatter)
	require.Empty(t, r.Frontmatter)
	require.Equal(t, "Body\n", string(r.Body))
	require.Equal(t, 3, r.BodyLine)
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: x\nno close\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestParse_DelimiterMustBeWholeLine(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: x\n----- not a close\n---\nBody"))
	require.NoError(t, err)
	require.Equal(t, "title: x\n----- not a close\n", string(r.Frontmatter))
	require.Equal(t, "Body", string(r.Body))
}

func TestParse_CRLF(t *testing.T) {
	r, err := Parse([]byte("---\r\ntitle: x\r\n---\r\nBody\r\n"))
	require.NoError(t, err)
	require.Equal(t, "title: x\r\n", string(r.Frontmatter))
	require.Equal(t, "Body\r\n", string(r.Body))
	require.Equal(t, 4, r.BodyLine)
}
