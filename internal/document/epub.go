package document

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// EPUBFormat implements Format for EPUB files.
type EPUBFormat struct{}

func init() {
	Register(&EPUBFormat{})
}

func (f *EPUBFormat) Name() string         { return "EPUB" }
func (f *EPUBFormat) Extensions() []string { return []string{".epub"} }

// Load reads the spine in order. A chapter without its own h1-h6 gets a
// heading from the NCX table of contents so that every chapter can be
// navigated to.
func (f *EPUBFormat) Load(filename string) (*Document, error) {
	rc, err := epub.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, fmt.Errorf("no rootfiles found in epub")
	}

	book := rc.Rootfiles[0]
	titles := chapterTitles(filename, book)
	doc := &Document{Title: titleFromPath(filename)}
	ids := idSet{}

	for i, ref := range book.Spine.Itemrefs {
		if ref.Item == nil {
			continue
		}
		r, err := ref.Item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			continue
		}

		blocks := blocksFromHTML(string(data), ids)
		if len(blocks) == 0 {
			continue
		}
		if blocks[0].Kind != Heading {
			title, ok := titles[ref.Item.HREF]
			if !ok {
				title, ok = titles[path.Base(ref.Item.HREF)]
			}
			if !ok {
				title = fmt.Sprintf("Section %d", i+1)
			}
			head := Block{Kind: Heading, Level: 1, ID: ids.unique(Slug(title)), Text: title}
			blocks = append([]Block{head}, blocks...)
		}
		doc.Blocks = append(doc.Blocks, blocks...)
	}

	return doc, nil
}

var headingLevels = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// blocksFromHTML turns an XHTML chapter into blocks. Headings keep their
// element id when it is free; text outside block elements is gathered into
// paragraphs.
func blocksFromHTML(s string, ids idSet) []Block {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return nil
	}

	var blocks []Block
	var loose strings.Builder
	flush := func() {
		if t := strings.Join(strings.Fields(loose.String()), " "); t != "" {
			blocks = append(blocks, Block{Kind: Paragraph, Text: t})
		}
		loose.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			loose.WriteString(n.Data)
			loose.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Head, atom.Script, atom.Style:
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				flush()
				title := nodeText(n)
				if title == "" {
					return
				}
				id := attr(n, "id")
				if id == "" {
					id = Slug(title)
				}
				blocks = append(blocks, Block{Kind: Heading, Level: headingLevels[n.DataAtom], ID: ids.unique(id), Text: title})
				return
			case atom.P, atom.Li, atom.Pre, atom.Blockquote, atom.Dd, atom.Dt, atom.Figcaption:
				flush()
				t := nodeText(n)
				kind := Paragraph
				switch n.DataAtom {
				case atom.Li:
					kind = ListItem
				case atom.Pre:
					kind = Code
					t = strings.Trim(rawText(n), "\n")
				case atom.Blockquote:
					kind = Quote
				}
				if strings.TrimSpace(t) != "" {
					blocks = append(blocks, Block{Kind: kind, Text: t})
				}
				return
			case atom.Hr:
				flush()
				blocks = append(blocks, Block{Kind: Rule})
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	flush()
	return blocks
}

// nodeText returns the text under n with whitespace collapsed.
func nodeText(n *html.Node) string {
	return strings.Join(strings.Fields(textOf(n, " ")), " ")
}

// rawText returns the text under n as written, for preformatted blocks.
func rawText(n *html.Node) string {
	return textOf(n, "")
}

func textOf(n *html.Node, sep string) string {
	var out strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out.WriteString(n.Data)
			out.WriteString(sep)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
