package document

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Document {
	return &Document{Blocks: []Block{
		{Kind: Heading, Level: 1, ID: "intro", Text: "Intro"},
		{Kind: Paragraph, Text: "one two three four five six seven eight nine ten"},
		{Kind: Heading, Level: 2, ID: "usage", Text: "Usage"},
		{Kind: ListItem, Text: "alpha beta gamma delta"},
		{Kind: Code, Text: "a very long line of code that will not fit"},
		{Kind: Rule},
	}}
}

func TestLayoutHeadingOffsets(t *testing.T) {
	p := sample().Layout(80, nil)

	require.Len(t, p.Headings, 2)
	assert.Equal(t, "intro", p.Headings[0].ID)
	assert.Equal(t, 0.0, p.Headings[0].Offset)
	assert.Equal(t, 1.0, p.Headings[0].Height)
	// heading, blank, paragraph, blank
	assert.Equal(t, 4.0, p.Headings[1].Offset)
	assert.Equal(t, 2, p.Headings[1].Level)
	assert.Equal(t, "Usage", p.Lines[4])
}

func TestLayoutReflowMovesHeadings(t *testing.T) {
	doc := sample()
	wide := doc.Layout(80, nil)
	narrow := doc.Layout(MinWidth, nil)

	assert.Greater(t, len(narrow.Lines), len(wide.Lines))
	assert.Greater(t, narrow.Headings[1].Offset, wide.Headings[1].Offset)

	for i, line := range narrow.Lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), MinWidth, "line %d %q", i, line)
	}
}

func TestLayoutBlockShapes(t *testing.T) {
	p := sample().Layout(20, nil)

	var list, code, rule []string
	for _, line := range p.Lines {
		switch {
		case strings.HasPrefix(line, "• "), strings.HasPrefix(line, "  ") && !strings.HasPrefix(line, "  a "):
			list = append(list, line)
		case strings.HasPrefix(line, "  a "):
			code = append(code, line)
		case strings.HasPrefix(line, "─"):
			rule = append(rule, line)
		}
	}

	require.NotEmpty(t, list)
	assert.True(t, strings.HasPrefix(list[0], "• alpha"))
	require.Len(t, code, 1)
	assert.True(t, strings.HasSuffix(code[0], "…"))
	require.Len(t, rule, 1)
	assert.Equal(t, strings.Repeat("─", 20), rule[0])
}

func TestLayoutStyle(t *testing.T) {
	var styled []Kind
	p := sample().Layout(80, func(b Block, line string) string {
		styled = append(styled, b.Kind)
		if b.Kind == Heading {
			return "# " + line
		}
		return line
	})

	assert.Equal(t, "# Intro", p.Lines[0])
	assert.Contains(t, styled, Rule)
	// Blank separators are not styled.
	assert.Equal(t, "", p.Lines[1])
}

func TestLayoutTallHeading(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: Heading, Level: 1, ID: "long", Text: "a heading long enough to wrap"},
	}}
	p := doc.Layout(MinWidth, nil)
	require.Len(t, p.Headings, 1)
	assert.Equal(t, float64(len(p.Lines)), p.Headings[0].Height)
	assert.Greater(t, p.Headings[0].Height, 1.0)
}

func TestPageAnchorRoundTrip(t *testing.T) {
	p := sample().Layout(80, nil)

	id, off := p.Anchor(2)
	assert.Equal(t, "intro", id)
	assert.Equal(t, 2, off)

	id, off = p.Anchor(6)
	assert.Equal(t, "usage", id)
	assert.Equal(t, 2, off)
	assert.Equal(t, 6, p.Resolve(id, off))

	// Anchors carry across a reflow.
	narrow := sample().Layout(MinWidth, nil)
	line, ok := narrow.Line("usage")
	require.True(t, ok)
	assert.Equal(t, line+2, narrow.Resolve("usage", 2))

	assert.Equal(t, 3, p.Resolve("missing", 3))
	assert.Equal(t, len(p.Lines)-1, p.Resolve("usage", 1000))
	assert.Equal(t, 0, p.Resolve("", -4))
}

func TestPageAnchorBeforeFirstHeading(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: Paragraph, Text: "preface"},
		{Kind: Heading, Level: 1, ID: "one", Text: "One"},
	}}
	p := doc.Layout(40, nil)
	id, off := p.Anchor(1)
	assert.Equal(t, "", id)
	assert.Equal(t, 1, off)
}
