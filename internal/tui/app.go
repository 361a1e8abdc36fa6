package tui

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/actions"
	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/export"
	"github.com/muurk/androidlens/internal/fields"
	"github.com/muurk/androidlens/internal/loader"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/notify"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/view"
)

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Messages for async operations
type toastMsg notify.Event
type recordMsg device.Record
type refreshDoneMsg struct{ err error }
type exportDoneMsg struct {
	path string
	err  error
}

// Options wires the dashboard to its collaborators
type Options struct {
	Loader    *loader.Loader
	Toasts    *notify.Hub
	Themes    *ui.ThemeController
	Actions   *actions.Runner
	Clipboard Clipboard // nil selects the system clipboard
	ExportDir string    // "" selects the working directory
	Fields    fields.Registry
	Env       func() fields.Env
}

// Model is the terminal dashboard
type Model struct {
	ctx  context.Context
	opts Options

	sidebar *ui.Sidebar
	styles  ui.Styles

	events  <-chan notify.Event
	records chan device.Record

	model      view.Model
	cursor     int
	toast      *notify.Toast
	refreshing bool

	Search     textinput.Model
	searching  bool
	Spinner    spinner.Model
	Help       help.Model
	Keys       keyMap
	SearchKeys searchKeyMap

	Width  int
	Height int
}

// New creates the dashboard model. ctx bounds refreshes and actions
// started from the dashboard.
func New(ctx context.Context, opts Options) Model {
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Fields == nil {
		opts.Fields = fields.Default()
	}
	if opts.Env == nil {
		opts.Env = fields.NewEnv
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "Search device details..."
	search.Prompt = "/ "
	search.CharLimit = 64
	search.Width = 40

	events, _ := opts.Toasts.Subscribe(16)

	records := make(chan device.Record, 4)
	opts.Loader.OnChange(func(r device.Record) {
		select {
		case records <- r:
		default:
			// Model re-reads the loader on the next message anyway
		}
	})

	m := Model{
		ctx:        ctx,
		opts:       opts,
		sidebar:    ui.NewSidebar(ui.TerminalBreakpoint),
		styles:     ui.NewStyles(opts.Themes.Theme()),
		events:     events,
		records:    records,
		Search:     search,
		Spinner:    s,
		Help:       help.New(),
		Keys:       newKeyMap(),
		SearchKeys: newSearchKeyMap(),
		Width:      ui.MaxContentWidth,
	}
	m.Spinner.Style = m.styles.Selected
	m.rebuild()
	return m
}

// Init starts listening for toasts and record changes
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		waitForToast(m.events),
		waitForRecord(m.records),
	)
}

// waitForToast delivers the next toast event; nil once the hub closes
func waitForToast(events <-chan notify.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return toastMsg(ev)
	}
}

func waitForRecord(records <-chan device.Record) tea.Cmd {
	return func() tea.Msg {
		return recordMsg(<-records)
	}
}

// rebuild recomputes the view-model from the loader and the search term
func (m *Model) rebuild() {
	m.model = view.Build(m.opts.Loader.Record(), m.opts.Fields, m.opts.Env()).Highlight(m.Search.Value())
	if n := len(m.model.Items()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Selected returns the item under the cursor
func (m Model) Selected() (view.Item, bool) {
	items := m.model.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return view.Item{}, false
	}
	return items[m.cursor], true
}

// ViewModel returns the rendered view-model
func (m Model) ViewModel() view.Model {
	return m.model
}

// Sidebar returns the sidebar state machine
func (m Model) Sidebar() *ui.Sidebar {
	return m.sidebar
}

// Toast returns the toast currently displayed
func (m Model) Toast() (notify.Toast, bool) {
	if m.toast == nil {
		return notify.Toast{}, false
	}
	return *m.toast, true
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.sidebar.Resize(msg.Width)
		return m, nil

	case toastMsg:
		ev := notify.Event(msg)
		switch ev.Type {
		case notify.EventShow:
			t := ev.Toast
			m.toast = &t
		case notify.EventDismiss:
			if m.toast != nil && m.toast.ID == ev.Toast.ID {
				m.toast = nil
			}
		}
		return m, waitForToast(m.events)

	case recordMsg:
		m.rebuild()
		return m, waitForRecord(m.records)

	case refreshDoneMsg:
		m.refreshing = false
		m.rebuild()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			logging.Error("Export failed", zap.Error(msg.err))
			m.opts.Toasts.Error("Failed to export device data")
		} else {
			logging.Info("Device data exported", zap.String("path", msg.path))
			m.opts.Toasts.Success(export.SuccessMessage)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

// updateSearch handles input while the search field has focus
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.SearchKeys.Cancel):
		m.Search.Reset()
		m.Search.Blur()
		m.searching = false
		m.rebuild()
		return m, nil

	case key.Matches(msg, m.SearchKeys.Apply):
		m.Search.Blur()
		m.searching = false
		if term := m.model.Query; term != "" {
			m.opts.Toasts.Info(fmt.Sprintf("Searching for: %q", term))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Search, cmd = m.Search.Update(msg)
	m.rebuild()
	return m, cmd
}

// updateNormal handles dashboard key bindings
func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.Keys.Down):
		if m.cursor < len(m.model.Items())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.Keys.Copy):
		m.copySelected()

	case key.Matches(msg, m.Keys.Search):
		m.searching = true
		cmd := m.Search.Focus()
		return m, cmd

	case key.Matches(msg, m.Keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, refreshCmd(m.ctx, m.opts.Loader)

	case key.Matches(msg, m.Keys.Export):
		return m, exportCmd(m.opts.ExportDir, m.opts.Loader.Record())

	case key.Matches(msg, m.Keys.Theme):
		theme, message := m.opts.Themes.Toggle()
		m.styles = ui.NewStyles(theme)
		m.Spinner.Style = m.styles.Selected
		m.opts.Toasts.Info(message)

	case key.Matches(msg, m.Keys.Sidebar):
		m.sidebar.Toggle()

	case key.Matches(msg, m.Keys.Nav):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(ui.NavItems) {
			if message, err := m.sidebar.Select(ui.NavItems[idx].Key, m.Width); err == nil {
				m.opts.Toasts.Info(message)
			}
		}

	case key.Matches(msg, m.Keys.Reboot):
		m.startAction(actions.Reboot)

	case key.Matches(msg, m.Keys.Shutdown):
		m.startAction(actions.Shutdown)

	case key.Matches(msg, m.Keys.Arrive):
		m.startAction(actions.Arrive)

	case key.Matches(msg, m.Keys.Help):
		m.Help.ShowAll = !m.Help.ShowAll
	}

	return m, nil
}

// copySelected writes the selected item's displayed text to the clipboard
func (m Model) copySelected() {
	item, ok := m.Selected()
	if !ok {
		return
	}
	if err := m.opts.Clipboard.WriteAll(item.Text); err != nil {
		logging.Warn("Clipboard write failed", zap.String("key", item.Key), zap.Error(err))
		m.opts.Toasts.Error("Failed to copy")
		return
	}
	m.opts.Toasts.Success(item.Label + " copied")
}

func (m Model) startAction(name string) {
	if err := m.opts.Actions.Start(m.ctx, name); err != nil {
		logging.Error("Action failed", zap.String("action", name), zap.Error(err))
	}
}

// refreshCmd fetches once; the loader reports the outcome as a toast
func refreshCmd(ctx context.Context, l *loader.Loader) tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: l.Refresh(ctx)}
	}
}

func exportCmd(dir string, r device.Record) tea.Cmd {
	return func() tea.Msg {
		path, err := export.WriteFile(dir, r)
		return exportDoneMsg{path: path, err: err}
	}
}
