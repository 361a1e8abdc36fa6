package ui

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/logging"
)

// Theme is the dashboard colour scheme
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// DefaultTheme applies when nothing has been saved
const DefaultTheme = ThemeDark

// ParseTheme validates a theme name
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeDark, ThemeLight:
		return Theme(s), nil
	default:
		return "", fmt.Errorf("invalid theme %q (must be dark or light)", s)
	}
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

// BodyClass is the class put on the page body
func (t Theme) BodyClass() string {
	if t == ThemeLight {
		return "light-mode"
	}
	return "dark-mode"
}

// ToggleIcon is the Font Awesome icon of the theme switch
func (t Theme) ToggleIcon() string {
	if t == ThemeLight {
		return "fa-sun"
	}
	return "fa-moon"
}

// EnabledMessage is the toast shown after switching to t
func (t Theme) EnabledMessage() string {
	if t == ThemeLight {
		return "Light mode enabled"
	}
	return "Dark mode enabled"
}

// ThemeStore persists the theme preference
type ThemeStore interface {
	// LoadTheme returns the saved theme, or "" when none is saved
	LoadTheme() (string, error)
	SaveTheme(theme string) error
}

// MemoryThemeStore keeps the preference in memory
type MemoryThemeStore struct {
	mu    sync.Mutex
	theme string
}

// LoadTheme implements ThemeStore
func (m *MemoryThemeStore) LoadTheme() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme, nil
}

// SaveTheme implements ThemeStore
func (m *MemoryThemeStore) SaveTheme(theme string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.theme = theme
	return nil
}

// ThemeController holds the active theme and writes every change through
// to its store.
type ThemeController struct {
	mu    sync.Mutex
	theme Theme
	store ThemeStore
}

// NewThemeController reads the saved theme once. Missing or invalid
// preferences fall back to DefaultTheme.
func NewThemeController(store ThemeStore) *ThemeController {
	if store == nil {
		store = &MemoryThemeStore{}
	}

	theme := DefaultTheme
	saved, err := store.LoadTheme()
	if err != nil {
		logging.Warn("Failed to load theme preference", zap.Error(err))
	} else if saved != "" {
		if t, err := ParseTheme(saved); err == nil {
			theme = t
		} else {
			logging.Warn("Ignoring saved theme", zap.String("theme", saved))
		}
	}

	return &ThemeController{theme: theme, store: store}
}

// Theme returns the active theme
func (c *ThemeController) Theme() Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theme
}

// Toggle switches theme, persists it and returns the toast message. A
// failed save is logged; the switch still takes effect.
func (c *ThemeController) Toggle() (Theme, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.theme = c.theme.Opposite()
	if err := c.store.SaveTheme(string(c.theme)); err != nil {
		logging.Warn("Failed to save theme preference",
			zap.String("theme", string(c.theme)),
			zap.Error(err),
		)
	}
	return c.theme, c.theme.EnabledMessage()
}
