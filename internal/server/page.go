package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/actions"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/view"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// pageData is the dashboard template's input
type pageData struct {
	Model          view.Model
	Theme          ui.Theme
	Sidebar        ui.SidebarSnapshot
	NavItems       []ui.NavItem
	Actions        []actions.Definition
	Breakpoint     int
	ExpandedWidth  int
	CollapsedWidth int
}

// GET / renders the dashboard with the current state
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Model:          s.model(r.URL.Query().Get("q")),
		Theme:          s.themes.Theme(),
		Sidebar:        s.sidebar.Snapshot(),
		NavItems:       ui.NavItems,
		Actions:        actions.Definitions,
		Breakpoint:     ui.WebBreakpoint,
		ExpandedWidth:  ui.ExpandedWidth,
		CollapsedWidth: ui.CollapsedWidth,
	}

	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		logging.Error("Failed to render dashboard", zap.Error(err))
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
