// Package document loads long-form documents and lays them out as lines of
// terminal text with measured section headings.
package document

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Kind is the type of a block.
type Kind int

const (
	Paragraph Kind = iota
	Heading
	ListItem
	Code
	Quote
	Rule
)

// Block is one unit of document content.
type Block struct {
	Kind  Kind
	Level int    // heading level, 1-6
	ID    string // headings only; unique within the document
	Text  string
}

// Document is a parsed document.
type Document struct {
	Title  string
	Blocks []Block
}

// WordsPerMinute is the reading speed used for ReadingTime.
const WordsPerMinute = 200

// Headings returns the heading blocks in document order.
func (d *Document) Headings() []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Kind == Heading {
			out = append(out, b)
		}
	}
	return out
}

// WordCount returns the number of whitespace-separated words.
func (d *Document) WordCount() int {
	n := 0
	for _, b := range d.Blocks {
		n += len(strings.Fields(b.Text))
	}
	return n
}

// ReadingTime estimates the time to read the document, never less than a
// minute.
func (d *Document) ReadingTime() string {
	minutes := int(math.Round(float64(d.WordCount()) / WordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}

// Slug turns heading text into an anchor id: lower case letters and digits
// joined by single dashes.
func Slug(text string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			dash = false
			sb.WriteRune(r)
		default:
			dash = true
		}
	}
	if sb.Len() == 0 {
		return "section"
	}
	return sb.String()
}

// idSet hands out unique ids, suffixing repeats with -1, -2, ...
type idSet map[string]int

func (s idSet) unique(id string) string {
	if id == "" {
		id = "section"
	}
	n, taken := s[id]
	if !taken {
		s[id] = 0
		return id
	}
	for {
		n++
		candidate := fmt.Sprintf("%s-%d", id, n)
		if _, taken := s[candidate]; !taken {
			s[id] = n
			s[candidate] = 0
			return candidate
		}
	}
}
