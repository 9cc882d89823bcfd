package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark/ast"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/models"
)

func TestExtractTOC_ManualTree(t *testing.T) {
	doc := ast.NewDocument()
	h1 := ast.NewHeading(1)
	h1.AppendChild(h1, ast.NewString([]byte("Intro")))
	h2 := ast.NewHeading(2)
	h2.AppendChild(h2, ast.NewString([]byte("Setup")))
	h2.SetAttributeString("id", []byte("setup"))
	doc.AppendChild(doc, h1)
	doc.AppendChild(doc, h2)

	toc := ExtractTOC(doc, nil)
	require.Equal(t, []models.TOCEntry{
		{Depth: 1, Text: "Intro", ID: ""},
		{Depth: 2, Text: "Setup", ID: "setup"},
	}, toc)
}

func TestCompile_TOCDocumentOrder(t *testing.T) {
	c := New(Options{})
	src := "# Zeta\n\ntext\n\n### Alpha {#alpha}\n\n## Beta *bold* `code`\n"

	doc, err := c.Compile("a.mdx", []byte(src), 1)
	require.NoError(t, err)
	require.Equal(t, []models.TOCEntry{
		{Depth: 1, Text: "Zeta", ID: ""},
		{Depth: 3, Text: "Alpha", ID: "alpha"},
		{Depth: 2, Text: "Beta bold code", ID: ""},
	}, doc.TOC)
}

func TestCompile_AutoHeadingID(t *testing.T) {
	c := New(Options{AutoHeadingID: true})

	doc, err := c.Compile("a.mdx", []byte("# Getting Started\n\n## Custom {#mine}\n"), 1)
	require.NoError(t, err)
	require.Len(t, doc.TOC, 2)
	require.Equal(t, "getting-started", doc.TOC[0].ID)
	require.Equal(t, "mine", doc.TOC[1].ID)
	require.Contains(t, doc.HTML, `id="getting-started"`)
}

func TestCompile_LeadTextAndWords(t *testing.T) {
	c := New(Options{})
	src := "# Title\n\nFirst *paragraph* text\ncontinues here.\n\n```go\nfunc main() {\n```\n\nSecond one.\n"

	doc, err := c.Compile("a.mdx", []byte(src), 1)
	require.NoError(t, err)
	require.Equal(t, "First paragraph text continues here. Second one.", doc.LeadText)
	require.Equal(t, 8, doc.Words)
}

func TestCompile_StripsESMAndKeepsComponents(t *testing.T) {
	c := New(Options{})
	src := "import Callout from '../components/Callout'\nexport const meta = {\n  level: 2,\n}\n\n# Heading\n\n<Callout type=\"info\">\nCareful.\n</Callout>\n"

	doc, err := c.Compile("a.mdx", []byte(src), 1)
	require.NoError(t, err)
	require.NotContains(t, doc.HTML, "import")
	require.NotContains(t, doc.HTML, "level: 2")
	require.Contains(t, doc.HTML, "<Callout")
	require.Len(t, doc.TOC, 1)
}

func TestCompile_UnclosedComponent(t *testing.T) {
	c := New(Options{})
	src := "Intro\n\n<Tabs>\n<Tab label=\"a\">\nA\n</Tab>\n"

	_, err := c.Compile("subjects/math/articles/x.mdx", []byte(src), 6)
	require.Error(t, err)
	var ce *apperr.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "subjects/math/articles/x.mdx", ce.Path)
	require.Equal(t, 8, ce.Line)
	require.Contains(t, ce.Msg, "unclosed <Tabs>")
}

func TestCompile_MismatchedComponent(t *testing.T) {
	_, err := New(Options{}).Compile("x.mdx", []byte("<A>\n<B>\n</A>\n"), 1)
	var ce *apperr.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 3, ce.Line)
	require.Contains(t, ce.Msg, "expected </B>")
}

func TestCompile_UnbalancedBraces(t *testing.T) {
	_, err := New(Options{}).Compile("x.mdx", []byte("value {x\n\nmore\n"), 1)
	var ce *apperr.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 1, ce.Line)

	_, err = New(Options{}).Compile("x.mdx", []byte("ok\n}\n"), 1)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 2, ce.Line)
}

func TestCompile_MultiLineOpeningTag(t *testing.T) {
	src := "# T\n\n<Callout\n  type=\"info\"\n  title={\"a > b\"}\n>\nHello\n</Callout>\n"
	doc, err := New(Options{}).Compile("a.mdx", []byte(src), 1)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "Hello")
}

func TestCompile_MultiLineSelfClosingTag(t *testing.T) {
	src := "Intro\n\n<Figure\n  src=\"/img/a.png\"\n  alt='one > two'\n/>\n\nAfter\n"
	_, err := New(Options{}).Compile("a.mdx", []byte(src), 1)
	require.NoError(t, err)
}

func TestCompile_MultiLineTagLineNumbers(t *testing.T) {
	src := "<Tabs\n  active={0}\n>\n<Tab\n  label=\"a\"\n>\nA\n</Tabs>\n"
	_, err := New(Options{}).Compile("x.mdx", []byte(src), 1)
	var ce *apperr.CompileError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 8, ce.Line)
	require.Contains(t, ce.Msg, "expected </Tab>")

	_, err = New(Options{}).Compile("x.mdx", []byte("text\n<Note\n  kind=\"a\"\n"), 1)
	require.ErrorAs(t, err, &ce)
	require.Equal(t, 2, ce.Line)
	require.Contains(t, ce.Msg, "unterminated tag <Note")
}

func TestCompile_ProseGenericsAreNotTags(t *testing.T) {
	src := "A value of type Array<String> or Map<K, V> is fine, and so is 1 < N.\n"
	_, err := New(Options{}).Compile("x.mdx", []byte(src), 1)
	require.NoError(t, err)
}

func TestCompile_CodeIsNotChecked(t *testing.T) {
	src := "Use `{` and `<Foo>` inline.\n\n```js\nif (x) {\n  <Bar>\n```\n\n~~~\n}\n~~~\n"
	doc, err := New(Options{}).Compile("x.mdx", []byte(src), 1)
	require.NoError(t, err)
	require.Contains(t, doc.HTML, "<code>")
}

func TestReadTime(t *testing.T) {
	require.Equal(t, 1, ReadTime(0))
	require.Equal(t, 1, ReadTime(399))
	require.Equal(t, 2, ReadTime(400))
}
