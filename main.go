//go:build !gui

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/metcalfc/skim/internal/config"
	"github.com/metcalfc/skim/internal/document"
	"github.com/metcalfc/skim/internal/keys"
	"github.com/metcalfc/skim/internal/pane"
	"github.com/metcalfc/skim/internal/state"
	"github.com/metcalfc/skim/internal/theme"
	"github.com/metcalfc/skim/internal/toc"
)

type layoutMode int

const (
	modeSidebar layoutMode = iota
	modeCompact
)

func (m layoutMode) String() string {
	if m == modeCompact {
		return "compact"
	}
	return "sidebar"
}

type model struct {
	doc   *document.Document
	cfg   *config.Config
	theme theme.Theme
	keys  keys.Map
	help  help.Model
	log   *slog.Logger

	timers  *pane.Timers
	view    *pane.Document
	list    *pane.List
	summary *pane.Summary
	opts    toc.Options

	forceCompact bool
	showTOC      bool
	mode         layoutMode
	attached     bool
	detach       func()

	store   *state.StateStore
	hash    string
	restore *state.Position

	width    int
	height   int
	ready    bool
	quitting bool
}

func newModel(doc *document.Document, cfg *config.Config, logger *slog.Logger) *model {
	th := theme.New(cfg.Theme)
	km := keys.Default()
	timers := pane.NewTimers()

	headerOffset := float64(cfg.HeaderOffset)
	if headerOffset == 0 {
		headerOffset = -1
	}
	opts := toc.Options{
		HeaderOffset:  headerOffset,
		DeadZone:      1,
		MaskThreshold: 0.5,
		Logger:        logger,
	}

	m := &model{
		doc:     doc,
		cfg:     cfg,
		theme:   th,
		keys:    km,
		help:    help.New(),
		log:     logger,
		timers:  timers,
		view:    pane.NewDocument(timers),
		list:    pane.NewList(km, pane.ListStyles{Link: th.Link, Active: th.Active, Cursor: th.Cursor, Faded: th.Faded}),
		summary: pane.NewSummary(toc.DefaultCircumference, pane.SummaryStyles{Text: th.Summary, Ring: th.Ring, Hint: th.Help}),
		opts:    opts,
		showTOC: cfg.ShowSidebar,
		width:   80,
		height:  24,
	}
	m.list.OnSelect(m.jump)
	return m
}

func (m *model) jump(id string) {
	m.view.JumpTo(id, m.cfg.HeaderOffset)
	if m.mode == modeSidebar {
		m.list.Blur()
	}
	m.log.Debug("jump", slog.String("id", id))
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) wantMode() layoutMode {
	if m.forceCompact || m.width < m.cfg.CompactBelow {
		return modeCompact
	}
	return modeSidebar
}

func (m *model) sidebarVisible() bool {
	return m.mode == modeSidebar && m.showTOC && len(m.doc.Headings()) > 0
}

// chrome returns the number of rows taken by the status and help lines.
func (m *model) chrome() int {
	if m.help.ShowAll {
		rows := 0
		for _, col := range m.keys.FullHelp() {
			rows = max(rows, len(col))
		}
		return 1 + rows
	}
	return 2
}

func (m *model) sidebarWidth() int {
	return min(m.cfg.SidebarWidth, m.width/3)
}

// relayout lays the document out for the current size and mode, and
// attaches the controller for that mode when it changed.
func (m *model) relayout() {
	mode := m.wantMode()
	if m.attached && mode != m.mode {
		m.detach()
		m.attached = false
		m.list.SetOpen(false)
		m.list.Blur()
	}
	m.mode = mode

	docWidth := m.width
	docHeight := m.height - m.chrome()
	listWidth, listHeight := 0, 0
	switch {
	case m.mode == modeCompact:
		docHeight--
		listWidth = m.width
		listHeight = max(min(len(m.doc.Headings()), docHeight/2), 1)
	case m.sidebarVisible():
		listWidth = m.sidebarWidth()
		listHeight = docHeight
		docWidth = m.width - listWidth - 2
	}
	docHeight = max(docHeight, 1)

	page := m.doc.Layout(docWidth, m.theme.Block)
	m.list.SetHeadings(page.Headings)
	m.list.SetSize(listWidth, listHeight)
	m.view.Reflow(page, docWidth, docHeight)

	if m.restore != nil {
		m.view.Restore(m.restore.Heading, m.restore.Offset)
		m.restore = nil
	}

	if !m.attached {
		switch m.mode {
		case modeCompact:
			m.detach = toc.NewMobile(m.view, toc.MobileSurfaces{
				Summary:    m.summary,
				Ring:       m.summary,
				List:       m.list,
				Disclosure: m.list,
			}, m.opts).Attach()
		default:
			m.detach = toc.NewSidebar(m.view, m.list, m.opts).Attach()
		}
		m.attached = true
		m.log.Debug("attached", slog.String("mode", m.mode.String()), slog.Int("width", m.width), slog.Int("headings", len(page.Headings)))
	}
	m.help.Width = m.width
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.timers.Handle(msg) {
		return m, m.timers.Cmd()
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relayout()
		m.ready = true

	case tea.KeyMsg:
		if m.handleKey(msg) {
			m.save()
			m.quitting = true
			return m, tea.Quit
		}

	case tea.MouseMsg:
		cmd = m.view.Update(msg)
	}

	return m, tea.Batch(cmd, m.timers.Cmd())
}

// handleKey applies a key press. It reports whether the program should
// quit.
func (m *model) handleKey(msg tea.KeyMsg) (quit bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return true

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.relayout()

	case key.Matches(msg, m.keys.ToggleTOC):
		if m.mode == modeCompact {
			m.list.Toggle()
			return false
		}
		m.showTOC = !m.showTOC
		if !m.showTOC {
			m.list.Blur()
		}
		m.relayout()

	case key.Matches(msg, m.keys.Focus):
		switch {
		case m.mode == modeCompact:
			m.list.Toggle()
		case !m.sidebarVisible():
			// nothing to focus
		case m.list.Focused():
			m.list.Blur()
		default:
			m.list.Focus()
		}

	case key.Matches(msg, m.keys.Close):
		if m.mode == modeCompact {
			m.list.SetOpen(false)
		} else {
			m.list.Blur()
		}

	case m.list.Focused():
		m.list.Update(msg)

	case key.Matches(msg, m.keys.Top):
		m.view.ScrollTo(0)

	case key.Matches(msg, m.keys.Bottom):
		m.view.ScrollTo(int(m.view.ScrollHeight()))

	default:
		m.view.Update(msg)
	}
	return false
}

// save records the reading position for the next run.
func (m *model) save() {
	if m.store == nil || m.hash == "" {
		return
	}
	id, off := m.view.Anchor()
	if err := m.store.SetPosition(m.hash, state.Position{Heading: id, Offset: off}); err != nil {
		m.log.Warn("save position", slog.Any("err", err))
	}
}

func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch {
	case m.mode == modeCompact:
		body = m.summary.View(m.width, m.list.Open()) + "\n" + m.compactBody()
	case m.sidebarVisible():
		sidebar := m.theme.Border.Render(m.list.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", m.view.View())
	default:
		body = m.view.View()
	}

	return body + "\n" + m.statusLine() + "\n" + m.theme.Help.Render(m.help.View(m.keys))
}

// compactBody draws the open contents list over the top of the document.
func (m *model) compactBody() string {
	doc := m.view.View()
	if !m.list.Open() {
		return doc
	}
	rows := strings.Split(doc, "\n")
	over := strings.Split(m.list.View(), "\n")
	for i := range over {
		if i < len(rows) {
			rows[i] = over[i]
		}
	}
	return strings.Join(rows, "\n")
}

func (m *model) statusLine() string {
	right := fmt.Sprintf("%s  %d%%", m.doc.ReadingTime(), m.view.Percent())
	left := m.doc.Title
	room := m.width - ansi.StringWidth(right) - 4
	left = ansi.Truncate(left, max(room, 0), "…")
	gap := strings.Repeat(" ", max(m.width-2-ansi.StringWidth(left)-ansi.StringWidth(right), 1))
	return m.theme.Status.Render(m.theme.Title.Render(left) + gap + right)
}

func main() {
	os.Exit(run())
}

func run() int {
	showTOC := flag.Bool("toc", false, "Print the table of contents and exit")
	compact := flag.Bool("compact", false, "Use the compact layout regardless of width")
	fresh := flag.Bool("fresh", false, "Start at the top instead of the saved position")
	logFile := flag.String("log", "", "Write debug log to `file`")
	configPath := flag.String("config", "", "Read settings from `file` instead of "+config.Path())
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Skim - Terminal Document Reader\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  skim [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		printFormats(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  skim README.md            Read a Markdown file\n")
		fmt.Fprintf(os.Stderr, "  skim -compact book.epub   Read with the compact contents line\n")
		fmt.Fprintf(os.Stderr, "  cat notes.md | skim       Read Markdown from stdin\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓ j/k  Scroll\n")
		fmt.Fprintf(os.Stderr, "  PgUp/PgDn Scroll a page\n")
		fmt.Fprintf(os.Stderr, "  g/G      Top/bottom\n")
		fmt.Fprintf(os.Stderr, "  t        Show/hide contents\n")
		fmt.Fprintf(os.Stderr, "  TAB      Focus contents\n")
		fmt.Fprintf(os.Stderr, "  ENTER    Go to section\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("skim %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if *logFile != "" {
		f, err := tea.LogToFile(*logFile, "skim")
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
			fmt.Fprintln(os.Stderr, "Try: skim -h")
		}
		return 1
	}

	if *showTOC {
		printTOC(os.Stdout, doc)
		return 0
	}

	m := newModel(doc, cfg, logger)
	m.forceCompact = *compact
	m.hash = hash

	m.store, m.restore = openStore(hash, *fresh, logger)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
