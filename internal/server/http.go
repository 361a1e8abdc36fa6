package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/muurk/androidlens/internal/actions"
	"github.com/muurk/androidlens/internal/export"
	"github.com/muurk/androidlens/internal/fields"
	"github.com/muurk/androidlens/internal/loader"
	"github.com/muurk/androidlens/internal/logging"
	"github.com/muurk/androidlens/internal/metrics"
	"github.com/muurk/androidlens/internal/notify"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/version"
	"github.com/muurk/androidlens/internal/view"
)

// Handler returns the dashboard's HTTP routes
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler(s.registry)).Methods("GET")
	r.HandleFunc("/ws", s.handleWebSocket).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/device", s.handleDevice).Methods("GET")
	api.HandleFunc("/record", s.handleRecord).Methods("GET")
	api.HandleFunc("/status", s.handleStatus).Methods("GET")
	api.HandleFunc("/refresh", s.handleRefresh).Methods("POST")
	api.HandleFunc("/export", s.handleExport).Methods("GET")
	api.HandleFunc("/theme", s.handleGetTheme).Methods("GET")
	api.HandleFunc("/theme", s.handleToggleTheme).Methods("POST")
	api.HandleFunc("/sidebar", s.handleGetSidebar).Methods("GET")
	api.HandleFunc("/sidebar/toggle", s.handleSidebarToggle).Methods("POST")
	api.HandleFunc("/sidebar/resize", s.handleSidebarResize).Methods("POST")
	api.HandleFunc("/nav/{item}", s.handleNav).Methods("POST")
	api.HandleFunc("/actions", s.handleListActions).Methods("GET")
	api.HandleFunc("/actions/{action}", s.handleAction).Methods("POST")
	api.HandleFunc("/toast", s.handleToast).Methods("POST")
	api.HandleFunc("/version", s.handleVersion).Methods("GET")

	return r
}

// statusRecorder captures the status code and body size of a response
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// Unwrap lets http.ResponseController reach the hijacker for /ws
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// logRequests logs every request and counts it by route template
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// WebSocket upgrades need the raw writer
		if r.URL.Path == "/ws" {
			logging.LogHTTPRequest(r, http.StatusSwitchingProtocols, 0, 0)
			s.metrics.ObserveHTTP("/ws", http.StatusSwitchingProtocols)
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		logging.LogHTTPRequest(r, rec.status, rec.size, time.Since(start))
		s.metrics.ObserveHTTP(route, rec.status)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn("Failed to write JSON response", zap.Error(err))
	}
}

// model builds the view-model of the current record
func (s *Server) model(query string) view.Model {
	m := view.Build(s.loader.Record(), s.fields, fields.NewEnv())
	return m.Highlight(query)
}

// GET /api/device?q=term
func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.model(r.URL.Query().Get("q")))
}

// GET /api/record
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Record())
}

// GET /api/status
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loader.Status())
}

// POST /api/refresh fetches once. Failures are already reported as an
// error toast; the response carries the short message.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.loader.Refresh(r.Context()); err != nil {
		status := http.StatusBadGateway
		if r.Context().Err() != nil {
			status = http.StatusRequestTimeout
		}
		writeJSON(w, status, map[string]string{"error": loader.ShortMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, s.loader.Status())
}

// GET /api/export downloads the current record
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := export.Marshal(s.loader.Record())
	if err != nil {
		logging.Error("Export failed", zap.Error(err))
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	if _, err := w.Write(data); err != nil {
		logging.Warn("Export download interrupted", zap.Error(err))
		return
	}
	s.toasts.Success(export.SuccessMessage)
}

type themeResponse struct {
	Theme     ui.Theme `json:"theme"`
	BodyClass string   `json:"body_class"`
	Icon      string   `json:"icon"`
}

func newThemeResponse(t ui.Theme) themeResponse {
	return themeResponse{Theme: t, BodyClass: t.BodyClass(), Icon: t.ToggleIcon()}
}

// GET /api/theme
func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newThemeResponse(s.themes.Theme()))
}

// POST /api/theme toggles between dark and light
func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, msg := s.themes.Toggle()
	resp := newThemeResponse(theme)

	s.broadcast(MessageTheme, resp)
	s.toasts.Info(msg)
	writeJSON(w, http.StatusOK, resp)
}

// widthParam reads ?width=N. ok is false when the parameter is absent.
func widthParam(r *http.Request) (width int, ok bool, err error) {
	raw := r.URL.Query().Get("width")
	if raw == "" {
		return 0, false, nil
	}
	width, err = strconv.Atoi(raw)
	if err != nil || width < 0 {
		return 0, false, fmt.Errorf("invalid width %q", raw)
	}
	return width, true, nil
}

// GET /api/sidebar
func (s *Server) handleGetSidebar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sidebar.Snapshot())
}

// POST /api/sidebar/toggle
func (s *Server) handleSidebarToggle(w http.ResponseWriter, r *http.Request) {
	s.sidebar.Toggle()
	snap := s.sidebar.Snapshot()
	s.broadcast(MessageSidebar, snap)
	writeJSON(w, http.StatusOK, snap)
}

// POST /api/sidebar/resize?width=N
func (s *Server) handleSidebarResize(w http.ResponseWriter, r *http.Request) {
	width, ok, err := widthParam(r)
	if err != nil || !ok {
		http.Error(w, "width is required", http.StatusBadRequest)
		return
	}

	if s.sidebar.Resize(width) {
		s.broadcast(MessageSidebar, s.sidebar.Snapshot())
	}
	writeJSON(w, http.StatusOK, s.sidebar.Snapshot())
}

// POST /api/nav/{item}?width=N
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	width, ok, err := widthParam(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		// No viewport reported; treat as wide
		width = ui.WebBreakpoint + 1
	}

	msg, err := s.sidebar.Select(mux.Vars(r)["item"], width)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	snap := s.sidebar.Snapshot()
	s.broadcast(MessageSidebar, snap)
	s.toasts.Info(msg)
	writeJSON(w, http.StatusOK, snap)
}

// GET /api/actions
func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, actions.Definitions)
}

// POST /api/actions/{action}
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["action"]
	if err := s.actions.Start(s.ctx, name); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"action": name})
}

type toastRequest struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// POST /api/toast shows a toast reported by the page (clipboard result)
func (s *Server) handleToast(w http.ResponseWriter, r *http.Request) {
	var req toastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxMessageSize)).Decode(&req); err != nil {
		http.Error(w, "invalid toast request", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}

	t := s.toasts.Show(req.Message, notify.ParseKind(req.Kind))
	writeJSON(w, http.StatusOK, t)
}

// GET /api/version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, version.Get())
}
