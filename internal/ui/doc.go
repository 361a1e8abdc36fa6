// Package ui holds the front-end-neutral dashboard controls and the
// terminal rendering shared by androidlens commands.
//
// # State machines
//
// Sidebar and ThemeController are used by both the web dashboard and the
// terminal dashboard:
//
//   - Sidebar is expanded or collapsed. Toggle flips it; Resize forces it
//     closed at or below its breakpoint (768 px on the web, 100 columns in a
//     terminal) and never reopens it; Select activates a nav item.
//   - ThemeController holds the dark/light theme. It loads the saved
//     preference once through a ThemeStore, defaults to dark, and saves on
//     every Toggle.
//
// # Rendering
//
// Styles derives lipgloss styles from the active theme's Palette. Header,
// RenderModel and Result print the "run once and exit" output of `show`,
// `export` and `scan`:
//
//	styles := ui.NewStyles(theme)
//	fmt.Println(ui.NewHeader("Android Lens", "androidlens show", params, styles))
//	fmt.Println(ui.RenderModel(model, styles, ui.GetTerminalWidth()))
//
// # Logging Integration
//
// Command output is meant to be read by people, so zap logging stays
// silent unless ANDROIDLENS_LOG_LEVEL is set.
package ui
