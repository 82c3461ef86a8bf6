package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"postboard/internal/config"
	"postboard/internal/eventbus"
	"postboard/internal/posts"
	"postboard/internal/ui/views"
)

// chrome is the number of lines taken by everything except the post list
const chrome = 8

// Model represents the UI state. The post store itself is not a field: it is
// looked up from ctx, which carries the provider scope.
type Model struct {
	ctx    context.Context
	config *config.Config
	logger *zap.Logger

	width  int
	height int

	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool
	offset    int

	status      string
	statusIsErr bool

	renderer    *views.Renderer
	pager       *PagerOps
	unsubscribe []func()
}

// NewModel creates a new UI model. ctx must carry a posts provider scope.
func NewModel(ctx context.Context, cfg *config.Config, bus eventbus.EventBus, logger *zap.Logger) (*Model, error) {
	if _, err := posts.FromContext(ctx); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "type to filter posts"
	ti.CharLimit = 256

	m := &Model{
		ctx:      ctx,
		config:   cfg,
		logger:   logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		search:   ti,
		height:   24,
		renderer: views.NewRenderer(cfg.UISettings),
		pager:    NewPagerOps(),
	}

	m.unsubscribe = append(m.unsubscribe,
		bus.Subscribe(eventbus.EventPostAdded, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.PostAddedEvent); ok {
				m.setStatus(fmt.Sprintf("Added %q (%d posts)", event.Post.Title, event.Total), false)
			}
		}),
		bus.Subscribe(eventbus.EventPostsCleared, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.PostsClearedEvent); ok {
				m.setStatus(fmt.Sprintf("Cleared %d posts", event.Removed), false)
			}
		}),
		bus.Subscribe(eventbus.EventQueryChanged, func(e eventbus.DomainEvent) {
			m.offset = 0
		}),
	)

	return m, nil
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.pager.SetProgram(p)
}

// Close detaches the model from the event bus
func (m *Model) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
	m.unsubscribe = nil
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.search.Width = msg.Width - len(m.search.Prompt) - 4
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			m.logger.Warn("pager failed", zap.Error(msg.err))
			m.setStatus(fmt.Sprintf("Pager error: %v", msg.err), true)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := posts.Use(m.ctx)

	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		store.SetQuery("")
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	store.SetQuery(m.search.Value())
	return m, cmd
}

func (m *Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := posts.Use(m.ctx)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(store.Query())
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		m.search.SetValue("")
		store.SetQuery("")

	case key.Matches(msg, m.keys.Add):
		store.AddPost(store.Generate())
		m.offset = 0

	case key.Matches(msg, m.keys.Clear):
		store.ClearPosts()
		m.offset = 0

	case key.Matches(msg, m.keys.Pager):
		visible := store.VisiblePosts()
		if len(visible) == 0 {
			m.setStatus("Nothing to show", true)
			return m, nil
		}
		return m, m.pager.ShowCmd(views.PlainText(visible))

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.offset > 0 {
			m.offset--
		}

	case key.Matches(msg, m.keys.Down):
		m.offset = views.ClampOffset(m.offset+1, len(store.VisiblePosts()), m.postsPerPage())
	}

	return m, nil
}

// View renders the board
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderer.Header(m.ctx))
	if bar := m.renderer.SearchBar(m.ctx, m.search.View(), m.searching); bar != "" {
		sections = append(sections, bar)
	}
	sections = append(sections, "", m.renderer.PostList(m.ctx, m.listHeight(), m.offset))
	if status := m.renderer.Status(m.status, m.statusIsErr); status != "" {
		sections = append(sections, "", status)
	}
	sections = append(sections, "", m.renderer.Styles().Help.Render(m.help.View(m.keys)))

	return m.renderer.Styles().Main.Render(strings.Join(sections, "\n"))
}

func (m *Model) listHeight() int {
	h := m.height - chrome
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) postsPerPage() int {
	n := m.listHeight() / m.renderer.LinesPerPost()
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusIsErr = isErr
}
