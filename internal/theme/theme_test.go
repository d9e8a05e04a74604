package theme

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/document"
)

func TestBlockKeepsText(t *testing.T) {
	th := New(config.Default().Theme)
	tests := []struct {
		name  string
		block document.Block
	}{
		{"title", document.Block{Kind: document.Heading, Level: 1}},
		{"section", document.Block{Kind: document.Heading, Level: 3}},
		{"quote", document.Block{Kind: document.Quote}},
		{"code", document.Block{Kind: document.Code}},
		{"paragraph", document.Block{Kind: document.Paragraph}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ansi.Strip(th.Block(tt.block, "some text")); got != "some text" {
				t.Errorf("Block() = %q, want the line unchanged apart from styling", got)
			}
		})
	}
}

func TestParagraphIsUnstyled(t *testing.T) {
	th := New(config.Default().Theme)
	if got := th.Block(document.Block{Kind: document.Paragraph}, "plain"); got != "plain" {
		t.Errorf("Block() = %q, want %q", got, "plain")
	}
}
