// Package app is the terminal UI: a PR selector screen and a per-PR viewer
// with a comment list and a markdown detail pane.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"prterm/internal/config"
	"prterm/internal/github"
	"prterm/internal/store"
)

type screen int

const (
	screenSelect screen = iota
	screenView
)

const fetchTimeout = 30 * time.Second

type prListMsg struct {
	prs []github.PullRequest
	err error
}

type bundleMsg struct {
	number int
	bundle *github.Bundle
	err    error
}

type cachedPRsMsg struct{ prs []github.PullRequest }

type cachedBundleMsg struct {
	number int
	bundle *github.Bundle
}

type cacheSaveMsg struct{ err error }

type tickMsg time.Time

// Model is the root bubbletea model. All mutable UI state lives here and is
// only changed by Update.
type Model struct {
	cfg    config.AppConfig
	keys   KeyMap
	client *github.Client
	cache  *store.Store // nil when the cache could not be opened

	width  int
	height int

	screen screen
	sel    selectorState
	view   viewerState

	refreshing  bool
	lastErr     string
	mouseOn     bool
	interactive bool

	now func() time.Time
}

func NewModel(cfg config.AppConfig, client *github.Client, cache *store.Store, interactive bool) Model {
	return Model{
		cfg:         cfg,
		keys:        defaultKeyMap(),
		client:      client,
		cache:       cache,
		width:       80,
		height:      24,
		sel:         newSelectorState(),
		refreshing:  true,
		interactive: interactive,
		now:         time.Now,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCachedPRsCmd(), m.fetchPRListCmd()}
	if m.interactive {
		cmds = append(cmds, m.tickCmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) refreshInterval() time.Duration {
	secs := m.cfg.RefreshSeconds
	if secs <= 0 {
		secs = config.DefaultRefreshSeconds
	}
	return time.Duration(secs) * time.Second
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval(), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetchPRListCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		prs, err := client.ListOpenPullRequests(ctx)
		return prListMsg{prs: prs, err: err}
	}
}

func (m Model) fetchBundleCmd(number int) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		bundle, err := client.FetchBundle(ctx, number)
		return bundleMsg{number: number, bundle: bundle, err: err}
	}
}

func (m Model) loadCachedPRsCmd() tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache, repo := m.cache, m.client.Repo()
	return func() tea.Msg {
		prs, err := cache.LoadPullRequests(context.Background(), repo)
		if err != nil || len(prs) == 0 {
			return nil
		}
		return cachedPRsMsg{prs: prs}
	}
}

func (m Model) loadCachedBundleCmd(number int) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache, repo := m.cache, m.client.Repo()
	return func() tea.Msg {
		bundle, err := cache.LoadBundle(context.Background(), repo, number)
		if err != nil || bundle == nil {
			return nil
		}
		return cachedBundleMsg{number: number, bundle: bundle}
	}
}

func (m Model) savePRsCmd(prs []github.PullRequest) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache, repo := m.cache, m.client.Repo()
	return func() tea.Msg {
		return cacheSaveMsg{err: cache.SavePullRequests(context.Background(), repo, prs)}
	}
}

func (m Model) saveBundleCmd(bundle *github.Bundle) tea.Cmd {
	if m.cache == nil {
		return nil
	}
	cache := m.cache
	return func() tea.Msg {
		return cacheSaveMsg{err: cache.SaveBundle(context.Background(), bundle)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.reclampAll()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if ev, ok := fromTeaMouse(msg); ok {
			return m.handleMouse(ev)
		}
		return m, nil

	case prListMsg:
		m.refreshing = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.sel.setPRs(msg.prs)
		return m, m.savePRsCmd(msg.prs)

	case cachedPRsMsg:
		// Cached data only fills the gap before the first fetch lands.
		if len(m.sel.prs) == 0 {
			m.sel.setPRs(msg.prs)
		}
		return m, nil

	case bundleMsg:
		m.refreshing = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		if m.screen == screenView && m.viewedNumber() == msg.number {
			m.view.setBundle(msg.bundle)
			m.reclampAll()
		}
		return m, m.saveBundleCmd(msg.bundle)

	case cachedBundleMsg:
		if m.screen == screenView && m.view.bundle == nil && m.viewedNumber() == msg.number {
			m.view.setBundle(msg.bundle)
			m.reclampAll()
		}
		return m, nil

	case cacheSaveMsg:
		if msg.err != nil {
			m.lastErr = fmt.Sprintf("cache: %v", msg.err)
		}
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.tickCmd()}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)
	}
	return m, nil
}

// viewedNumber is the PR the viewer screen is pinned to; stale fetches for
// other PRs are ignored.
func (m Model) viewedNumber() int {
	if m.view.bundle != nil {
		return m.view.bundle.PR.Number
	}
	return m.view.pendingNumber
}

func (m Model) refreshCmd() tea.Cmd {
	if m.screen == screenView {
		return m.fetchBundleCmd(m.viewedNumber())
	}
	return m.fetchPRListCmd()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Terminals without full mouse support can leak SGR reports through as
	// rune input; they decode to the same events as tea.MouseMsg.
	if msg.Type == tea.KeyRunes {
		if events := decodeSGRMouse(string(msg.Runes)); len(events) > 0 {
			var model tea.Model = m
			var cmd tea.Cmd
			for _, ev := range events {
				model, cmd = model.(Model).handleMouse(ev)
			}
			return model, cmd
		}
	}

	if m.screen == screenSelect {
		return m.handleSelectorKey(msg)
	}
	return m.handleViewerKey(msg)
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sel.filtering {
		switch msg.Type {
		case tea.KeyEnter:
			m.sel.acceptFilter()
			return m, nil
		case tea.KeyEscape:
			m.sel.clearFilter()
			return m, nil
		}
		var cmd tea.Cmd
		m.sel.filter, cmd = m.sel.filter.Update(msg)
		m.sel.active = clampIndex(m.sel.active, len(m.sel.visible()))
		return m, cmd
	}

	window := selectorWindow(m.height)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		if !m.refreshing {
			m.refreshing = true
			return m, m.fetchPRListCmd()
		}
	case key.Matches(msg, m.keys.Filter):
		m.sel.startFilter()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.sel.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.sel.move(1)
	case key.Matches(msg, m.keys.PageUp):
		m.sel.move(-(window - 1))
	case key.Matches(msg, m.keys.PageDown):
		m.sel.move(window - 1)
	case key.Matches(msg, m.keys.Top):
		m.sel.active = 0
	case key.Matches(msg, m.keys.Bottom):
		m.sel.active = clampIndex(len(m.sel.visible())-1, len(m.sel.visible()))
	case key.Matches(msg, m.keys.Open):
		if pr, ok := m.sel.activePR(); ok {
			m.screen = screenView
			m.view = viewerState{pendingNumber: pr.Number}
			m.refreshing = true
			return m, tea.Batch(m.loadCachedBundleCmd(pr.Number), m.fetchBundleCmd(pr.Number))
		}
	}
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	l := computeViewerLayout(m.width, m.height)
	detailTotal := len(m.view.detailLines(l.contentWidth))

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		// Viewer state is transient; going back discards it entirely.
		m.screen = screenSelect
		m.view = viewerState{}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if !m.refreshing {
			m.refreshing = true
			return m, m.fetchBundleCmd(m.viewedNumber())
		}
	case key.Matches(msg, m.keys.ToggleMouse):
		if !m.interactive {
			return m, nil
		}
		m.mouseOn = !m.mouseOn
		if m.mouseOn {
			return m, tea.EnableMouseCellMotion
		}
		return m, tea.DisableMouse
	case key.Matches(msg, m.keys.ToggleFocus):
		if m.view.focus == focusList {
			m.view.focus = focusDetail
		} else {
			m.view.focus = focusList
		}
	case key.Matches(msg, m.keys.Up):
		m.viewerStep(-1, l, detailTotal)
	case key.Matches(msg, m.keys.Down):
		m.viewerStep(1, l, detailTotal)
	case key.Matches(msg, m.keys.PageUp):
		m.viewerPage(-1, l, detailTotal)
	case key.Matches(msg, m.keys.PageDown):
		m.viewerPage(1, l, detailTotal)
	case key.Matches(msg, m.keys.Top):
		if m.view.focus == focusList {
			m.view.jumpList(0, l.listInner)
		} else {
			m.view.detailOffset = 0
		}
	case key.Matches(msg, m.keys.Bottom):
		if m.view.focus == focusList {
			m.view.jumpList(len(m.view.rows)-1, l.listInner)
		} else {
			m.view.detailOffset = clampScroll(detailTotal, detailTotal, l.detailInner)
		}
	}
	return m, nil
}

func (m *Model) viewerStep(delta int, l viewerLayout, detailTotal int) {
	if m.view.focus == focusList {
		m.view.moveList(delta, l.listInner)
		return
	}
	m.view.moveDetail(delta, detailTotal, l.detailInner)
}

func (m *Model) viewerPage(direction int, l viewerLayout, detailTotal int) {
	if m.view.focus == focusList {
		m.view.moveList(direction*(l.listInner-1), l.listInner)
		return
	}
	m.view.moveDetail(direction*(l.detailInner-1), detailTotal, l.detailInner)
}

// fromTeaMouse converts the framework's decoded mouse events into the same
// event type the raw SGR path produces.
func fromTeaMouse(msg tea.MouseMsg) (mouseEvent, bool) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return mouseEvent{kind: mouseWheelUp, x: msg.X, y: msg.Y}, true
	case msg.Button == tea.MouseButtonWheelDown:
		return mouseEvent{kind: mouseWheelDown, x: msg.X, y: msg.Y}, true
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		return mouseEvent{kind: mouseLeftPress, x: msg.X, y: msg.Y}, true
	}
	return mouseEvent{}, false
}

func (m Model) handleMouse(ev mouseEvent) (tea.Model, tea.Cmd) {
	if m.screen == screenSelect {
		switch ev.kind {
		case mouseWheelUp:
			m.sel.move(-1)
		case mouseWheelDown:
			m.sel.move(1)
		}
		return m, nil
	}

	l := computeViewerLayout(m.width, m.height)
	target := l.panelAt(ev.y)
	if target == panelNone {
		return m, nil
	}

	switch ev.kind {
	case mouseLeftPress:
		// A plain press focuses the panel under the cursor, nothing more.
		m.view.focus = panelFocus(target)
	case mouseWheelUp, mouseWheelDown:
		m.view.focus = panelFocus(target)
		delta := 1
		if ev.kind == mouseWheelUp {
			delta = -1
		}
		detailTotal := len(m.view.detailLines(l.contentWidth))
		if target == panelList {
			m.view.moveList(delta, l.listInner)
		} else {
			m.view.moveDetail(delta, detailTotal, l.detailInner)
		}
	}
	return m, nil
}

func panelFocus(p panel) focusPanel {
	if p == panelDetail {
		return focusDetail
	}
	return focusList
}

// reclampAll re-clamps every cursor and offset against current dimensions
// and data so nothing is left stale after a resize or snapshot swap.
func (m *Model) reclampAll() {
	m.sel.active = clampIndex(m.sel.active, len(m.sel.visible()))
	l := computeViewerLayout(m.width, m.height)
	m.view.reclamp(l, len(m.view.detailLines(l.contentWidth)))
}

// StaticFrame fetches the PR list once and renders a single frame. This is
// the degraded mode for non-interactive sessions: no transitions, one
// render, then the caller exits.
func (m Model) StaticFrame(ctx context.Context) string {
	prs, err := m.client.ListOpenPullRequests(ctx)
	next, _ := m.Update(prListMsg{prs: prs, err: err})
	return next.View()
}

func (m Model) View() string {
	if m.screen == screenSelect {
		return m.viewSelector()
	}
	return m.viewViewer()
}

func (m Model) statusLine() string {
	switch {
	case m.refreshing:
		return styleStatus.Render("refreshing…")
	case m.lastErr != "":
		return styleError.Render("Last refresh failed: " + m.lastErr)
	default:
		return styleStatus.Render("up to date")
	}
}

func (m Model) viewSelector() string {
	header := []string{
		styleTitle.Render("prterm — " + m.cfg.Repo),
		styleStatus.Render(fmt.Sprintf("%d open pull requests", len(m.sel.visible()))),
		m.statusLine(),
	}
	footer := styleFooter.Render(helpLine(
		m.keys.Up, m.keys.Down, m.keys.Filter, m.keys.Refresh, m.keys.Open, m.keys.Quit))

	return strings.Join(header, "\n") + "\n" +
		m.sel.render(m.width, m.height, m.now()) + "\n" + footer
}

func (m Model) viewViewer() string {
	title := fmt.Sprintf("#%d", m.viewedNumber())
	inference := ""
	if m.view.bundle != nil {
		title = fmt.Sprintf("#%d %s", m.view.bundle.PR.Number, m.view.bundle.PR.Title)
		inference = m.view.bundle.Inference
	}

	meta := ""
	if row, ok := m.view.activeRow(); ok {
		meta = row.Location + " · " + row.Author
		if inference != "" {
			meta += " · " + inference
		}
	} else if inference != "" {
		meta = inference
	}

	header := []string{
		styleTitle.Render(title),
		styleLocation.Render(meta),
		m.statusLine(),
	}

	l := computeViewerLayout(m.width, m.height)
	footer := styleFooter.Render(helpLine(
		m.keys.Up, m.keys.Down, m.keys.ToggleFocus, m.keys.ToggleMouse, m.keys.Refresh, m.keys.Back, m.keys.Quit))

	return strings.Join(header, "\n") + "\n" +
		m.view.renderList(l, m.view.focus == focusList, m.now()) + "\n" +
		m.view.renderDetail(l, m.view.focus == focusDetail) + "\n" +
		footer
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ·  ")
}
