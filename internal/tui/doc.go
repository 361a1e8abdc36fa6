// Package tui implements the terminal dashboard for Android Lens.
//
// The dashboard is a single Bubble Tea model showing the device record as
// two cards (Device Details and Other Information) beside a
// collapsible navigation sidebar. It shares its state machines with the web
// dashboard: ui.Sidebar (collapsing at 100 columns), ui.ThemeController,
// notify.Hub for toasts and actions.Runner for the simulated device actions.
//
// Toasts and loader changes arrive as tea.Msg values from channel-reading
// commands, so every state change happens on Bubble Tea's update loop.
//
// # Framework Components
//
//   - bubbles/spinner: loading indicator
//   - bubbles/textinput: search field
//   - bubbles/help and bubbles/key: key bindings and the help bar
//   - lipgloss: styling and layout
//   - atotto/clipboard: click-to-copy equivalent (enter or c)
//
// # Key Bindings
//
//	↑/k ↓/j    move the cursor
//	enter/c    copy the selected value
//	/          search (esc clears)
//	r          refresh
//	e          export android-lens-device-data.json
//	alt+t      toggle dark/light theme
//	tab        collapse or expand the sidebar
//	1-4        navigate
//	b p a      reboot, shutdown, arrive
//	?          full help
//	q          quit
//
// # Usage Example
//
//	err := tui.Run(ctx, tui.Options{
//	    Loader:  l,
//	    Toasts:  hub,
//	    Themes:  ui.NewThemeController(registry),
//	    Actions: actions.NewRunner(hub, nil, 0),
//	}, 5*time.Minute)
package tui
