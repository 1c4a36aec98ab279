package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"bannerloop/internal/config"
	"bannerloop/internal/domain"
	"bannerloop/internal/eventbus"
	"bannerloop/internal/log"
	"bannerloop/internal/loop"
)

const (
	autoWidthMargin   = 8
	minItemWidth      = 10
	defaultCardHeight = 9
	minCardHeight     = 3
	chromeRows        = 5 // title, blank, blank, dots, help
	stripTop          = 2
	maxMatches        = 5
	statusTimeout     = 3 * time.Second
)

// Model represents the UI state
type Model struct {
	cfg   *config.Config
	items []domain.Item
	bus   eventbus.Publisher
	clock loop.Clock

	sched   *Scheduler
	surface *Surface
	ctrl    *loop.Controller

	keys      keyMap
	help      help.Model
	dots      paginator.Model
	search    textinput.Model
	searching bool
	matches   fuzzy.Matches
	matchSel  int

	styles   *Styles
	renderer *CardRenderer
	helpText *HelpRenderer

	width, height int
	extent        int
	spacing       int
	cardHeight    int
	ready         bool

	status    string
	statusErr bool
	statusSeq int

	inPagerMode    bool
	resumeAutoplay bool
	quitting       bool

	// Program reference for terminal management
	program *tea.Program
	helpOps *HelpOps

	glamourStyle string
}

// Option configures a Model
type Option func(*Model)

// WithClock replaces the wall clock used for debouncing and drag velocity
func WithClock(c loop.Clock) Option {
	return func(m *Model) { m.clock = c }
}

// WithGlamourStyle picks the markdown style for banner bodies
func WithGlamourStyle(style string) Option {
	return func(m *Model) { m.glamourStyle = style }
}

// NewModel creates a new UI model
func NewModel(cfg *config.Config, bus eventbus.Publisher, opts ...Option) *Model {
	m := &Model{
		cfg:      cfg,
		items:    cfg.DomainItems(),
		bus:      bus,
		keys:     newKeyMap(),
		help:     help.New(),
		styles:   NewStyles(),
		helpText: NewHelpRenderer(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = eventbus.Discard{}
	}

	m.sched = NewScheduler()
	m.surface = NewSurface(m.sched)
	options := cfg.Options()
	options.Bus = m.bus
	if m.clock != nil {
		options.Clock = m.clock
		m.surface.now = m.clock.Now
	}
	m.ctrl = loop.New(m.surface, m.sched, options)
	m.surface.SetDelegate(m.ctrl)
	m.ctrl.Subscribe(func(ch loop.IndexChange) {
		m.dots.Page = ch.New
	})

	m.renderer = NewCardRenderer(m.items, m.styles, m.glamourStyle)

	m.dots = paginator.New()
	m.dots.Type = paginator.Dots
	m.dots.ActiveDot = m.styles.DotActive.Render("•")
	m.dots.InactiveDot = m.styles.DotInactive.Render("•")
	m.dots.SetTotalPages(len(m.items))

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "banner title"
	m.search.CharLimit = 64
	m.search.PromptStyle = m.styles.Prompt

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpOps = NewHelpOps(p)
}

// Controller exposes the carousel controller
func (m *Model) Controller() *loop.Controller {
	return m.ctrl
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages. Timers armed by the controller while handling msg
// are returned as tick commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.sched.Flush())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m.layout()

	case timerMsg:
		m.sched.Fire(msg)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case EventMsg:
		m.handleEvent(msg.Event)

	case helpPagerMsg:
		m.inPagerMode = false
		if m.resumeAutoplay {
			m.resumeAutoplay = false
			m.ctrl.StartAutoplay(m.cfg.Autoplay.Interval.Std())
		}
		if msg.err != nil {
			return m.setError(fmt.Sprintf("help pager failed: %v", msg.err))
		}

	case pauseRenderingMsg:
		m.inPagerMode = true

	case resumeRenderingMsg:
		m.inPagerMode = false

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}

	default:
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return cmd
		}
	}
	return nil
}

// ItemExtent returns the card width for a terminal termWidth cells wide.
// A positive configured width wins over the automatic one.
func ItemExtent(configured, termWidth int) int {
	if configured > 0 {
		return configured
	}
	return max(termWidth-autoWidthMargin, minItemWidth)
}

// layout derives the carousel geometry from the terminal size
func (m *Model) layout() tea.Cmd {
	extent := ItemExtent(m.cfg.Carousel.ItemWidth, m.width)
	spacing := max(m.cfg.Carousel.Spacing, 0)
	height := m.cfg.Carousel.Height
	if height <= 0 {
		height = defaultCardHeight
	}
	if m.height > 0 {
		height = min(height, m.height-chromeRows)
	}
	height = max(height, minCardHeight)

	if m.ready && extent == m.extent && spacing == m.spacing && height == m.cardHeight {
		return nil
	}
	m.extent, m.spacing, m.cardHeight = extent, spacing, height

	m.surface.Stop()
	err := m.ctrl.SetGeometry(loop.Geometry{
		ItemExtent: float64(extent),
		Spacing:    float64(spacing),
		Count:      len(m.items),
	})
	if err != nil {
		return m.setError(err.Error())
	}

	first := !m.ready
	m.ready = true
	if first && m.cfg.Autoplay.Enabled && len(m.items) > 1 {
		m.ctrl.StartAutoplay(m.cfg.Autoplay.Interval.Std())
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Next):
		m.ctrl.Next(true)

	case key.Matches(msg, m.keys.Previous):
		m.ctrl.Previous(true)

	case key.Matches(msg, m.keys.Jump):
		if n := int(msg.String()[0] - '1'); n < len(m.items) {
			m.ctrl.GotoIndex(n, true)
		}

	case key.Matches(msg, m.keys.First):
		m.ctrl.GotoIndex(0, true)

	case key.Matches(msg, m.keys.Last):
		m.ctrl.GotoIndex(len(m.items)-1, true)

	case key.Matches(msg, m.keys.Autoplay):
		if m.ctrl.AutoplayState() == loop.Stopped {
			m.ctrl.StartAutoplay(m.cfg.Autoplay.Interval.Std())
			return m.setStatus("autoplay on")
		}
		m.ctrl.StopAutoplay()
		return m.setStatus("autoplay off")

	case key.Matches(msg, m.keys.Search):
		return m.openSearch()

	case key.Matches(msg, m.keys.Help):
		return m.showHelp()
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if !m.ctrl.Ready() {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.ctrl.Previous(true)
		return
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.ctrl.Next(true)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.Y >= stripTop && msg.Y < stripTop+m.cardHeight {
			m.surface.BeginDrag(msg.X)
		}
	case tea.MouseActionMotion:
		m.surface.DragTo(msg.X)
	case tea.MouseActionRelease:
		m.surface.EndDrag(msg.X)
	}
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	rc, ok := e.(eventbus.RemoteCommandEvent)
	if !ok {
		return
	}
	switch rc.Action {
	case "next":
		m.ctrl.Next(true)
	case "previous":
		m.ctrl.Previous(true)
	case "goto":
		m.ctrl.GotoIndex(rc.Index, true)
	default:
		log.Warn("unknown remote action", "action", rc.Action)
	}
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.ctrl.Close()
	m.surface.Stop()
	m.sched.StopAll()
	return tea.Quit
}

func (m *Model) openSearch() tea.Cmd {
	m.searching = true
	m.search.Reset()
	m.refreshMatches()
	return tea.Batch(m.search.Focus(), textinput.Blink)
}

func (m *Model) closeSearch() {
	m.searching = false
	m.search.Blur()
	m.matches = nil
	m.matchSel = 0
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return m.quit()
	case "esc":
		m.closeSearch()
		return nil
	case "enter":
		if len(m.matches) > 0 {
			m.ctrl.GotoIndex(m.matches[m.matchSel].Index, true)
		}
		m.closeSearch()
		return nil
	case "up", "ctrl+p":
		if m.matchSel > 0 {
			m.matchSel--
		}
		return nil
	case "down", "ctrl+n":
		if m.matchSel < min(len(m.matches), maxMatches)-1 {
			m.matchSel++
		}
		return nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refreshMatches()
	return cmd
}

// refreshMatches ranks item titles against the search query
func (m *Model) refreshMatches() {
	q := strings.TrimSpace(m.search.Value())
	if q == "" {
		m.matches = make(fuzzy.Matches, len(m.items))
		for i, it := range m.items {
			m.matches[i] = fuzzy.Match{Str: it.Title, Index: i}
		}
	} else {
		titles := make([]string, len(m.items))
		for i, it := range m.items {
			titles[i] = it.Title
		}
		m.matches = fuzzy.Find(q, titles)
	}
	m.matchSel = 0
}

func (m *Model) showHelp() tea.Cmd {
	if m.program == nil {
		return m.setError("help pager unavailable")
	}
	m.resumeAutoplay = m.ctrl.AutoplayState() != loop.Stopped
	if m.resumeAutoplay {
		m.ctrl.StopAutoplay()
	}
	return m.fetchHelpPager(m.helpText.RenderHelpContent(len(m.items), m.cfg.Autoplay.Interval.Std()))
}

// fetchHelpPager returns a command that shows help using ov pager
func (m *Model) fetchHelpPager(helpContent string) tea.Cmd {
	return func() tea.Msg {
		// Send pause message to stop rendering
		m.program.Send(pauseRenderingMsg{})

		err := m.helpOps.ShowHelpInPager(helpContent)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return helpPagerMsg{err: err}
	}
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusErr = false
	return m.clearStatusLater()
}

func (m *Model) setError(text string) tea.Cmd {
	log.Warn("ui error", "error", text)
	m.status = text
	m.statusErr = true
	return m.clearStatusLater()
}

func (m *Model) clearStatusLater() tea.Cmd {
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting || m.inPagerMode {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(m.styles.Dim.Render("No banners configured. Run `bannerloop init` to create a config."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(m.renderer.Strip(m.surface.Offset(), m.width, m.extent, m.spacing, m.cardHeight))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.dots.View()))
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render("bannerloop")
	if len(m.items) == 0 {
		return title
	}
	info := fmt.Sprintf("%d/%d  autoplay %s", m.ctrl.CurrentIndex()+1, len(m.items), m.ctrl.AutoplayState())
	return title + "  " + m.styles.Status.Render(info)
}

func (m *Model) renderFooter() string {
	if m.searching {
		lines := []string{m.search.View()}
		for i, match := range m.matches {
			if i == maxMatches {
				break
			}
			style := m.styles.Match
			marker := "  "
			if i == m.matchSel {
				style = m.styles.MatchActive
				marker = "> "
			}
			lines = append(lines, style.Render(fmt.Sprintf("%s%d %s", marker, match.Index+1, match.Str)))
		}
		return strings.Join(lines, "\n")
	}
	if m.status != "" {
		if m.statusErr {
			return m.styles.StatusError.Render(m.status)
		}
		return m.styles.Status.Render(m.status)
	}
	return m.help.View(m.keys)
}
