package document

import (
	"bytes"
	"os"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// MarkdownFormat implements Format for Markdown files.
type MarkdownFormat struct{}

func init() {
	Register(&MarkdownFormat{})
}

func (f *MarkdownFormat) Name() string         { return "Markdown" }
func (f *MarkdownFormat) Extensions() []string { return []string{".md", ".markdown"} }

func (f *MarkdownFormat) Load(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc := ParseMarkdown(data)
	if doc.Title == "" {
		doc.Title = titleFromPath(filename)
	}
	return doc, nil
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// ParseMarkdown converts Markdown source to blocks. Heading ids come from
// goldmark's auto heading ids, so they match the anchors a rendered page
// would use. The first level-1 heading becomes the title.
func ParseMarkdown(src []byte) *Document {
	root := md.Parser().Parse(text.NewReader(src))
	doc := &Document{}
	ids := idSet{}

	var walk func(n ast.Node, quoted bool)
	walk = func(n ast.Node, quoted bool) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Heading:
				title := inlineText(node, src)
				id := ""
				if v, ok := node.AttributeString("id"); ok {
					if b, ok := v.([]byte); ok {
						id = string(b)
					}
				}
				if id == "" {
					id = Slug(title)
				}
				if doc.Title == "" && node.Level == 1 {
					doc.Title = title
				}
				doc.Blocks = append(doc.Blocks, Block{Kind: Heading, Level: node.Level, ID: ids.unique(id), Text: title})

			case *ast.Paragraph, *ast.TextBlock:
				if t := inlineText(node, src); t != "" {
					kind := Paragraph
					if quoted {
						kind = Quote
					}
					doc.Blocks = append(doc.Blocks, Block{Kind: kind, Text: t})
				}

			case *ast.FencedCodeBlock, *ast.CodeBlock:
				doc.Blocks = append(doc.Blocks, Block{Kind: Code, Text: rawLines(node, src)})

			case *ast.ListItem:
				if t := inlineText(node, src); t != "" {
					doc.Blocks = append(doc.Blocks, Block{Kind: ListItem, Text: t})
				}
				for sub := node.FirstChild(); sub != nil; sub = sub.NextSibling() {
					if list, ok := sub.(*ast.List); ok {
						walk(list, quoted)
					}
				}

			case *ast.Blockquote:
				walk(node, true)

			case *ast.ThematicBreak:
				doc.Blocks = append(doc.Blocks, Block{Kind: Rule})

			case *ast.HTMLBlock:
				// Raw HTML has no terminal rendering.

			default:
				if k := c.Kind(); k == extast.KindTableHeader || k == extast.KindTableRow {
					doc.Blocks = append(doc.Blocks, Block{Kind: Paragraph, Text: tableRow(c, src)})
					continue
				}
				walk(node, quoted)
			}
		}
	}
	walk(root, false)
	return doc
}

// inlineText collects the text of a node's inline descendants, turning
// line breaks into spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	var collect func(ast.Node)
	collect = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch node := c.(type) {
			case *ast.Text:
				buf.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					buf.WriteByte(' ')
				}
			case *ast.String:
				buf.Write(node.Value)
			case *ast.CodeSpan:
				collect(node)
			case *ast.List:
				// Nested lists are emitted as their own items.
			default:
				collect(node)
			}
		}
	}
	collect(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func tableRow(row ast.Node, src []byte) string {
	var cells []string
	for c := row.FirstChild(); c != nil; c = c.NextSibling() {
		cells = append(cells, inlineText(c, src))
	}
	return strings.Join(cells, " | ")
}

func rawLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
