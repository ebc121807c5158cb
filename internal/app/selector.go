package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"prterm/internal/github"
)

// selectorState is the PR selector screen: the open-PR list, a live
// substring filter, and the active index into the filtered view.
type selectorState struct {
	prs       []github.PullRequest
	active    int
	filter    textinput.Model
	filtering bool
}

func newSelectorState() selectorState {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 80
	return selectorState{filter: ti}
}

func (s *selectorState) setPRs(prs []github.PullRequest) {
	s.prs = prs
	s.active = clampIndex(s.active, len(s.visible()))
}

// visible applies the filter over "#number title head→base".
func (s *selectorState) visible() []github.PullRequest {
	query := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	if query == "" {
		return s.prs
	}
	var out []github.PullRequest
	for _, pr := range s.prs {
		if strings.Contains(strings.ToLower(prHeadline(pr)+" "+prRefs(pr)), query) {
			out = append(out, pr)
		}
	}
	return out
}

func (s *selectorState) move(delta int) {
	s.active = clampIndex(s.active+delta, len(s.visible()))
}

func (s *selectorState) activePR() (github.PullRequest, bool) {
	visible := s.visible()
	if len(visible) == 0 {
		return github.PullRequest{}, false
	}
	return visible[clampIndex(s.active, len(visible))], true
}

func (s *selectorState) startFilter() {
	s.filtering = true
	s.filter.Focus()
}

func (s *selectorState) acceptFilter() {
	s.filtering = false
	s.filter.Blur()
	s.active = clampIndex(s.active, len(s.visible()))
}

func (s *selectorState) clearFilter() {
	s.filter.SetValue("")
	s.acceptFilter()
}

func prHeadline(pr github.PullRequest) string {
	return fmt.Sprintf("#%d %s", pr.Number, pr.Title)
}

func prRefs(pr github.PullRequest) string {
	return pr.HeadRef + "→" + pr.BaseRef
}

// render draws the selector panel: paired headline+subline rows, windowed
// and centered on the active index.
func (s *selectorState) render(width, height int, now time.Time) string {
	visible := s.visible()
	window := selectorWindow(height)
	start, end := centeredWindow(len(visible), window, s.active)

	contentWidth := width - 2
	if contentWidth < 1 {
		contentWidth = 1
	}

	var lines []string
	if s.filtering || s.filter.Value() != "" {
		lines = append(lines, ansi.Truncate(s.filter.View(), contentWidth, ""))
	}
	if len(visible) == 0 {
		lines = append(lines, styleSubline.Render("no open pull requests"))
	}
	for i := start; i < end; i++ {
		pr := visible[i]
		headline := ansi.Truncate(prHeadline(pr), contentWidth, "…")
		if i == s.active {
			headline = styleActive.Render("> " + headline)
		} else {
			headline = "  " + headline
		}
		subline := styleSubline.Render(ansi.Truncate(
			fmt.Sprintf("  %s · updated %s", prRefs(pr), relTime(pr.UpdatedAt, now)),
			contentWidth, "…"))
		lines = append(lines, headline, subline)
	}

	inner := height - viewerHeaderLines - footerLines - 2
	if inner < 1 {
		inner = 1
	}
	lines = fillSlots(lines, inner)
	if len(lines) > inner {
		lines = lines[:inner]
	}

	return panelStyle(true).Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, lines...))
}
