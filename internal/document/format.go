package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format loads documents of one file type.
type Format interface {
	Name() string
	Extensions() []string
	Load(filename string) (*Document, error)
}

var registry []Format

// Register adds a format to the registry.
func Register(f Format) {
	registry = append(registry, f)
}

// Open loads a file with the format registered for its extension, or as
// plain text when none matches.
func Open(filename string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range registry {
		for _, e := range f.Extensions() {
			if ext == e {
				doc, err := f.Load(filename)
				if err != nil {
					return nil, fmt.Errorf("load %s: %w", f.Name(), err)
				}
				return doc, nil
			}
		}
	}
	return (&TextFormat{}).Load(filename)
}

// SupportedFormats returns registered format names with their extensions.
func SupportedFormats() []string {
	var out []string
	for _, f := range registry {
		out = append(out, f.Name()+" ("+strings.Join(f.Extensions(), ", ")+")")
	}
	return out
}

// TextFormat reads plain text. Paragraphs are separated by blank lines and
// there are no headings.
type TextFormat struct{}

func (f *TextFormat) Name() string         { return "Text" }
func (f *TextFormat) Extensions() []string { return []string{".txt"} }

func (f *TextFormat) Load(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc := ParseText(string(data))
	doc.Title = titleFromPath(filename)
	return doc, nil
}

func init() {
	Register(&TextFormat{})
}

// ParseText splits text into paragraphs at blank lines.
func ParseText(text string) *Document {
	doc := &Document{}
	for _, para := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if t := strings.Join(strings.Fields(para), " "); t != "" {
			doc.Blocks = append(doc.Blocks, Block{Kind: Paragraph, Text: t})
		}
	}
	return doc
}

func titleFromPath(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
