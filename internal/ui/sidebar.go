package ui

import (
	"fmt"
	"sync"
)

// Breakpoints at or below which the sidebar is forced closed
const (
	WebBreakpoint      = 768 // CSS pixels
	TerminalBreakpoint = 100 // terminal columns
)

// Sidebar widths in CSS pixels
const (
	ExpandedWidth  = 220
	CollapsedWidth = 60
)

// SidebarState is the sidebar's visibility
type SidebarState int

const (
	SidebarExpanded SidebarState = iota
	SidebarCollapsed
)

// String returns the state name
func (s SidebarState) String() string {
	if s == SidebarCollapsed {
		return "collapsed"
	}
	return "expanded"
}

// MarshalText encodes the state by name
func (s SidebarState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NavItem is one sidebar navigation entry
type NavItem struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// NavItems lists the sidebar entries in display order
var NavItems = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Icon: "fa-home"},
	{Key: "devices", Label: "Devices", Icon: "fa-mobile-alt"},
	{Key: "reports", Label: "Reports", Icon: "fa-chart-bar"},
	{Key: "settings", Label: "Settings", Icon: "fa-cog"},
}

// LookupNav returns the nav item with key
func LookupNav(key string) (NavItem, bool) {
	for _, item := range NavItems {
		if item.Key == key {
			return item, true
		}
	}
	return NavItem{}, false
}

// SidebarSnapshot is a point-in-time copy of the sidebar
type SidebarSnapshot struct {
	State  SidebarState `json:"state"`
	Active string       `json:"active"`
	Width  int          `json:"width"`
}

// Sidebar is the collapse/expand state machine shared by both front ends.
// It is safe for concurrent use.
type Sidebar struct {
	mu         sync.Mutex
	state      SidebarState
	active     string
	breakpoint int
}

// NewSidebar creates an expanded sidebar with the first nav item active
func NewSidebar(breakpoint int) *Sidebar {
	return &Sidebar{
		state:      SidebarExpanded,
		active:     NavItems[0].Key,
		breakpoint: breakpoint,
	}
}

// IsNarrow reports whether width is at or below the breakpoint
func (s *Sidebar) IsNarrow(width int) bool {
	return width <= s.breakpoint
}

// Toggle flips between expanded and collapsed
func (s *Sidebar) Toggle() SidebarState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SidebarExpanded {
		s.state = SidebarCollapsed
	} else {
		s.state = SidebarExpanded
	}
	return s.state
}

// Resize collapses an expanded sidebar when width is at or below the
// breakpoint. It never expands. The return value reports whether the state
// changed.
func (s *Sidebar) Resize(width int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SidebarExpanded && s.IsNarrow(width) {
		s.state = SidebarCollapsed
		return true
	}
	return false
}

// Select makes the nav item active, collapsing the sidebar on narrow
// widths, and returns the navigation toast message.
func (s *Sidebar) Select(key string, width int) (string, error) {
	item, ok := LookupNav(key)
	if !ok {
		return "", fmt.Errorf("unknown navigation item %q", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = item.Key
	if s.IsNarrow(width) {
		s.state = SidebarCollapsed
	}
	return "Navigating to " + item.Label, nil
}

// State returns the current state
func (s *Sidebar) State() SidebarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active returns the active nav key
func (s *Sidebar) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Snapshot returns the current sidebar state
func (s *Sidebar) Snapshot() SidebarSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	width := ExpandedWidth
	if s.state == SidebarCollapsed {
		width = CollapsedWidth
	}
	return SidebarSnapshot{State: s.state, Active: s.active, Width: width}
}
