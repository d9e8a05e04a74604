//go:build gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/document"
	"github.com/metcalfc/skim/internal/event"
	"github.com/metcalfc/skim/internal/state"
	"github.com/metcalfc/skim/internal/toc"
)

// fadeHeight is the height of the edge fades over the contents panel.
const fadeHeight = 24

// docView shows the document in a vertical scroll container. Heading
// positions are read back from the laid out widgets, in pixels.
type docView struct {
	scroll   *container.Scroll
	body     *fyne.Container
	headings []heading

	scrolled event.Signal
	resized  event.Signal
}

type heading struct {
	block document.Block
	obj   fyne.CanvasObject
}

func newDocView(doc *document.Document) *docView {
	v := &docView{body: container.NewVBox()}
	for _, b := range doc.Blocks {
		obj := blockObject(b)
		if b.Kind == document.Heading {
			v.headings = append(v.headings, heading{block: b, obj: obj})
		}
		v.body.Add(obj)
	}
	v.scroll = container.NewVScroll(v.body)
	v.scroll.OnScrolled = func(fyne.Position) { v.scrolled.Emit() }
	return v
}

func blockObject(b document.Block) fyne.CanvasObject {
	if b.Kind == document.Rule {
		return widget.NewSeparator()
	}

	text := b.Text
	style := widget.RichTextStyleParagraph
	wrap := fyne.TextWrapWord
	switch b.Kind {
	case document.Heading:
		switch b.Level {
		case 1:
			style = widget.RichTextStyleHeading
		case 2:
			style = widget.RichTextStyleSubHeading
		default:
			style = widget.RichTextStyleStrong
			style.Inline = false
		}
	case document.ListItem:
		text = "• " + text
	case document.Quote:
		style = widget.RichTextStyleBlockquote
	case document.Code:
		style = widget.RichTextStyleCodeBlock
		wrap = fyne.TextWrapBreak
	}

	rt := widget.NewRichText(&widget.TextSegment{Text: text, Style: style})
	rt.Wrapping = wrap
	return rt
}

func (v *docView) Headings() []toc.Heading {
	out := make([]toc.Heading, 0, len(v.headings))
	for _, h := range v.headings {
		out = append(out, toc.Heading{
			ID:     h.block.ID,
			Text:   h.block.Text,
			Level:  h.block.Level,
			Offset: float64(h.obj.Position().Y),
			Height: float64(h.obj.Size().Height),
		})
	}
	return out
}

func (v *docView) ScrollOffset() float64   { return float64(v.scroll.Offset.Y) }
func (v *docView) ViewportHeight() float64 { return float64(v.scroll.Size().Height) }
func (v *docView) ScrollHeight() float64   { return float64(v.body.Size().Height) }

func (v *docView) OnScroll(fn func()) func() { return v.scrolled.Subscribe(fn) }
func (v *docView) OnResize(fn func()) func() { return v.resized.Subscribe(fn) }

func (v *docView) AfterFunc(d time.Duration, fn func()) func() {
	return afterFunc(d, fn)
}

// afterFunc runs fn on the fyne event loop once d has passed, unless
// cancelled first. Cancel must be called from the event loop.
func afterFunc(d time.Duration, fn func()) (cancel func()) {
	stopped := false
	t := time.AfterFunc(d, func() {
		fyne.Do(func() {
			if !stopped {
				fn()
			}
		})
	})
	return func() {
		stopped = true
		t.Stop()
	}
}

// scrollTo moves the document, clamped to the last screen.
func (v *docView) scrollTo(y float32) {
	limit := v.body.Size().Height - v.scroll.Size().Height
	y = max(min(y, limit), 0)
	if y == v.scroll.Offset.Y {
		return
	}
	v.scroll.Offset.Y = y
	v.scroll.Refresh()
	v.scrolled.Emit()
}

// jumpTo scrolls so the heading sits headerOffset pixels below the top.
func (v *docView) jumpTo(id string, headerOffset float32) bool {
	for _, h := range v.headings {
		if h.block.ID == id {
			v.scrollTo(h.obj.Position().Y - headerOffset)
			return true
		}
	}
	return false
}

// anchor returns the id of the last heading at or above the top edge.
func (v *docView) anchor() string {
	id := ""
	for _, h := range v.headings {
		if h.obj.Position().Y > v.scroll.Offset.Y+1 {
			break
		}
		id = h.block.ID
	}
	return id
}

// extent is what the resize watcher compares between polls.
type extent struct {
	width, viewport, content float32
}

func (v *docView) extent() extent {
	return extent{
		width:    v.scroll.Size().Width,
		viewport: v.scroll.Size().Height,
		content:  v.body.Size().Height,
	}
}

// tocPanel is the sidebar: one button per heading in a scroll container,
// with gradients over the edges that hide clipped links.
type tocPanel struct {
	scroll *container.Scroll
	box    *fyne.Container
	ids    []string
	links  map[string]*widget.Button
	top    *canvas.LinearGradient
	bottom *canvas.LinearGradient
	view   fyne.CanvasObject

	scrolled event.Signal
	selected event.Emitter[string]
}

func newTOCPanel(headings []document.Block) *tocPanel {
	p := &tocPanel{
		box:   container.NewVBox(),
		links: make(map[string]*widget.Button),
	}
	for _, h := range headings {
		id := h.ID
		b := widget.NewButton(strings.Repeat("    ", max(h.Level-1, 0))+h.Text, func() {
			p.selected.Emit(id)
		})
		b.Alignment = widget.ButtonAlignLeading
		b.Importance = widget.LowImportance
		p.ids = append(p.ids, id)
		p.links[id] = b
		p.box.Add(b)
	}
	p.scroll = container.NewVScroll(p.box)
	p.scroll.OnScrolled = func(fyne.Position) { p.scrolled.Emit() }

	bg := theme.Color(theme.ColorNameBackground)
	p.top = canvas.NewVerticalGradient(bg, color.Transparent)
	p.bottom = canvas.NewVerticalGradient(color.Transparent, bg)
	for _, g := range []*canvas.LinearGradient{p.top, p.bottom} {
		g.SetMinSize(fyne.NewSize(0, fadeHeight))
		g.Hide()
	}
	p.view = container.NewStack(p.scroll, container.NewBorder(p.top, p.bottom, nil, nil))
	return p
}

func (p *tocPanel) ScrollTop() float64        { return float64(p.scroll.Offset.Y) }
func (p *tocPanel) ScrollHeight() float64     { return float64(p.box.Size().Height) }
func (p *tocPanel) ClientHeight() float64     { return float64(p.scroll.Size().Height) }
func (p *tocPanel) LinkIDs() []string         { return p.ids }
func (p *tocPanel) OnScroll(fn func()) func() { return p.scrolled.Subscribe(fn) }

func (p *tocPanel) SetScrollTop(top float64) {
	limit := p.box.Size().Height - p.scroll.Size().Height
	y := max(min(float32(top), limit), 0)
	if y == p.scroll.Offset.Y {
		return
	}
	p.scroll.Offset.Y = y
	p.scroll.Refresh()
	p.scrolled.Emit()
}

func (p *tocPanel) LinkBounds(id string) (top, height float64, ok bool) {
	b, ok := p.links[id]
	if !ok {
		return 0, 0, false
	}
	return float64(b.Position().Y), float64(b.Size().Height), true
}

func (p *tocPanel) SetHighlighted(id string, on bool) {
	b, ok := p.links[id]
	if !ok {
		return
	}
	imp := widget.LowImportance
	if on {
		imp = widget.HighImportance
	}
	if b.Importance != imp {
		b.Importance = imp
		b.Refresh()
	}
}

func (p *tocPanel) SetFade(top, bottom bool) {
	show(p.top, top)
	show(p.bottom, bottom)
}

func show(o fyne.CanvasObject, on bool) {
	if on {
		o.Show()
	} else {
		o.Hide()
	}
}

// lineHeight converts the configured header offset, in lines, to pixels.
func lineHeight() float32 {
	return theme.Size(theme.SizeNameText) * 1.5
}

func guiOptions(cfg *config.Config, logger *slog.Logger) toc.Options {
	headerOffset := float64(float32(cfg.HeaderOffset) * lineHeight())
	if headerOffset == 0 {
		headerOffset = -1
	}
	return toc.Options{HeaderOffset: headerOffset, Logger: logger}
}

func main() {
	os.Exit(run())
}

func run() int {
	showTOC := flag.Bool("toc", false, "Print the table of contents and exit")
	fresh := flag.Bool("fresh", false, "Start at the top instead of the saved position")
	logFile := flag.String("log", "", "Write debug log to `file`")
	configPath := flag.String("config", "", "Read settings from `file` instead of "+config.Path())
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gskim - GUI Document Reader\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  gskim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		printFormats(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓ PgUp/PgDn  Scroll\n")
		fmt.Fprintf(os.Stderr, "  g/G            Top/bottom\n")
		fmt.Fprintf(os.Stderr, "  T              Show/hide contents\n")
		fmt.Fprintf(os.Stderr, "  F              Fullscreen\n")
		fmt.Fprintf(os.Stderr, "  Q              Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("gskim %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to open log file '%s': %v\n", *logFile, err)
			return 1
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	doc, hash, err := readInput(flag.Arg(0), os.Stdin, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errNoInput) {
			fmt.Fprintln(os.Stderr, "Try: gskim -h")
		}
		return 1
	}

	if *showTOC {
		printTOC(os.Stdout, doc)
		return 0
	}

	store, restore := openStore(hash, *fresh, logger)

	a := app.New()
	w := a.NewWindow("skim - " + doc.Title)

	view := newDocView(doc)
	opts := guiOptions(cfg, logger)
	jumpOffset := float32(max(opts.HeaderOffset, 0))

	progress := widget.NewProgressBar()
	status := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle(doc.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel(doc.ReadingTime()),
		progress,
	)
	reading := container.NewBorder(nil, status, nil, nil, view.scroll)

	updateProgress := func() {
		progress.SetValue(toc.Progress(view.ScrollOffset(), view.ScrollHeight(), view.ViewportHeight()))
	}
	view.OnScroll(updateProgress)
	view.OnResize(updateProgress)

	var split *container.Split
	content := fyne.CanvasObject(reading)
	if headings := doc.Headings(); len(headings) > 0 {
		panel := newTOCPanel(headings)
		panel.selected.Subscribe(func(id string) {
			view.jumpTo(id, jumpOffset)
			logger.Debug("jump", slog.String("id", id))
		})
		split = container.NewHSplit(panel.view, reading)
		split.Offset = 0.28
		if !cfg.ShowSidebar {
			split.Leading.Hide()
		}
		content = split
		// Detached when the window closes and the process exits.
		toc.NewSidebar(view, panel, opts).Attach()
	}

	done := make(chan struct{})
	var closeOnce sync.Once
	save := func() {
		if store == nil || hash == "" {
			return
		}
		if err := store.SetPosition(hash, state.Position{Heading: view.anchor()}); err != nil {
			logger.Warn("save position", slog.Any("err", err))
		}
	}
	quit := func() {
		save()
		closeOnce.Do(func() {
			close(done)
		})
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		step := lineHeight() * 3
		switch key.Name {
		case fyne.KeyUp:
			view.scrollTo(view.scroll.Offset.Y - step)
		case fyne.KeyDown:
			view.scrollTo(view.scroll.Offset.Y + step)
		case fyne.KeyPageUp:
			view.scrollTo(view.scroll.Offset.Y - view.scroll.Size().Height)
		case fyne.KeyPageDown, fyne.KeySpace:
			view.scrollTo(view.scroll.Offset.Y + view.scroll.Size().Height)
		case fyne.KeyHome:
			view.scrollTo(0)
		case fyne.KeyEnd:
			view.scrollTo(view.body.Size().Height)
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
		case fyne.KeyQ:
			quit()
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			if split == nil {
				return
			}
			if split.Leading.Visible() {
				split.Leading.Hide()
			} else {
				split.Leading.Show()
			}
			split.Refresh()
		case 'g':
			view.scrollTo(0)
		case 'G':
			view.scrollTo(view.body.Size().Height)
		}
	})

	w.Resize(fyne.NewSize(960, 720))
	w.SetContent(content)

	// fyne has no resize callback for a container, so poll the measured
	// extent and report changes on the event loop.
	var last extent
	watch := func() {
		e := view.extent()
		if e == last || e.viewport <= 0 {
			return
		}
		last = e
		view.resized.Emit()
		if restore != nil && e.content > 0 {
			view.jumpTo(restore.Heading, jumpOffset)
			restore = nil
		}
	}
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				fyne.Do(watch)
			}
		}
	}()

	w.SetOnClosed(quit)
	w.ShowAndRun()
	return 0
}
