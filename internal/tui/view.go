package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/androidlens/internal/notify"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/version"
)

// Application branding constants
const (
	AppName = "ANDROID LENS"

	// Terminal sidebar widths in columns
	sidebarExpandedWidth  = 18
	sidebarCollapsedWidth = 5
)

// Nav glyphs shown when the sidebar is collapsed
var navGlyphs = map[string]string{
	"dashboard": "⌂",
	"devices":   "▯",
	"reports":   "▤",
	"settings":  "⚙",
}

// View renders the dashboard
func (m Model) View() string {
	width := m.Width
	if width < ui.MinTerminalWidth {
		width = ui.MinTerminalWidth
	}

	sidebar := m.renderSidebar()
	contentWidth := width - lipgloss.Width(sidebar) - 1
	if contentWidth > ui.MaxContentWidth {
		contentWidth = ui.MaxContentWidth
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderSearch(),
		m.renderSections(contentWidth),
		m.renderToast(),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)

	helpView := m.Help.View(m.Keys)
	if m.searching {
		helpView = m.Help.View(m.SearchKeys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, m.styles.Muted.Render(helpView))
}

func (m Model) renderHeader() string {
	title := m.styles.Title.Render(AppName)
	sub := m.styles.Subtitle.Render(m.opts.Loader.Status().Source + " • " + version.Get().Version)

	status := ""
	if m.refreshing || m.model.Loading {
		status = " " + m.Spinner.View() + m.styles.Muted.Render(" loading")
	}
	return title + "  " + sub + status
}

func (m Model) renderSearch() string {
	if !m.searching && m.Search.Value() == "" {
		return ""
	}
	line := m.Search.View()
	if q := m.model.Query; q != "" {
		line += m.styles.Muted.Render("  " + plural(m.model.Matches(), "match", "matches"))
	}
	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

func (m Model) renderSidebar() string {
	snap := m.sidebar.Snapshot()
	collapsed := snap.State == ui.SidebarCollapsed

	lines := make([]string, 0, len(ui.NavItems))
	for i, item := range ui.NavItems {
		label := strconv.Itoa(i+1) + " " + item.Label
		if collapsed {
			label = navGlyphs[item.Key]
		}
		if item.Key == snap.Active {
			lines = append(lines, m.styles.Selected.Render("▌"+label))
		} else {
			lines = append(lines, m.styles.Muted.Render(" "+label))
		}
	}

	width := sidebarExpandedWidth
	if collapsed {
		width = sidebarCollapsedWidth
	}
	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(m.styles.Palette.Accent).
		Render(strings.Join(lines, "\n"))
}

// renderSections draws each section as a card with the cursor marked
func (m Model) renderSections(width int) string {
	cards := make([]string, 0, len(m.model.Sections))
	idx := 0
	for _, sec := range m.model.Sections {
		lines := []string{m.styles.Title.Render(sec.Title), ""}
		for _, it := range sec.Items {
			marker := " "
			if it.Highlighted {
				marker = m.styles.Selected.Render(ui.MatchMarker)
			}
			value := m.styles.Tone(it.Tone).Render(it.Text)
			if it.Highlighted {
				value = m.styles.Highlight.Render(it.Text)
			}
			label := m.styles.Label.Render(it.Label)
			if idx == m.cursor {
				label = m.styles.Selected.Width(18).Render("› " + it.Label)
			}
			lines = append(lines, marker+" "+label+" "+value)
			idx++
		}
		cards = append(cards, m.styles.Box(width).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) renderToast() string {
	if m.toast == nil {
		return ""
	}
	style := m.styles.Value
	marker := "i"
	switch m.toast.Kind {
	case notify.KindSuccess:
		style = m.styles.Positive
		marker = ui.SuccessMarker
	case notify.KindError:
		style = m.styles.Negative
		marker = ui.FailureMarker
	}
	return style.Render(marker + " " + m.toast.Message)
}
