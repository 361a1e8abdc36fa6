package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/export"
	"github.com/muurk/androidlens/internal/loader"
	"github.com/muurk/androidlens/internal/ui"
)

// apiModel mirrors the view-model JSON
type apiModel struct {
	Loading  bool `json:"loading"`
	Sections []struct {
		Key   string `json:"key"`
		Items []struct {
			Key         string `json:"key"`
			Text        string `json:"text"`
			Tone        string `json:"tone"`
			Class       string `json:"class"`
			Highlighted bool   `json:"highlighted"`
		} `json:"items"`
	} `json:"sections"`
}

func (m apiModel) item(key string) (text, class string, highlighted bool) {
	for _, s := range m.Sections {
		for _, it := range s.Items {
			if it.Key == key {
				return it.Text, it.Class, it.Highlighted
			}
		}
	}
	return "", "", false
}

type testServer struct {
	*Server
	http   *httptest.Server
	themes *ui.MemoryThemeStore
}

func newTestServer(t *testing.T, src loader.Source) *testServer {
	t.Helper()

	themes := &ui.MemoryThemeStore{}
	srv, err := New(&Config{ActionDelay: 20 * time.Millisecond}, src, themes)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})

	return &testServer{Server: srv, http: ts, themes: themes}
}

func (ts *testServer) do(t *testing.T, method, path string, body string) *http.Response {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.http.URL+path, r)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestNew_RequiresSource(t *testing.T) {
	if _, err := New(&Config{}, nil, nil); err == nil {
		t.Error("New() without a source should fail")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	resp := ts.do(t, "GET", "/health", "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "OK" {
		t.Errorf("GET /health = %d %q", resp.StatusCode, body)
	}
}

func TestDevice_PlaceholderThenRefresh(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	var before apiModel
	decode(t, ts.do(t, "GET", "/api/device", ""), &before)
	if !before.Loading {
		t.Error("model should be loading before the first refresh")
	}
	if text, _, _ := before.item(device.KeyName); text != device.LoadingText {
		t.Errorf("placeholder name = %q", text)
	}

	resp := ts.do(t, "POST", "/api/refresh", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/refresh = %d", resp.StatusCode)
	}

	var after apiModel
	decode(t, ts.do(t, "GET", "/api/device", ""), &after)
	if after.Loading {
		t.Error("model should not be loading after refresh")
	}
	if text, _, _ := after.item(device.KeyName); text != "Pixel 7 Pro" {
		t.Errorf("name = %q, want Pixel 7 Pro", text)
	}
	if text, class, _ := after.item(device.KeyIsRooted); text != "Not Rooted" || class != "green" {
		t.Errorf("isRooted = %q/%q, want Not Rooted/green", text, class)
	}
	if len(after.Sections) != 2 || after.Sections[0].Key != "device" || after.Sections[1].Key != "other" {
		t.Errorf("sections out of order: %+v", after.Sections)
	}
}

func TestDevice_SearchHighlights(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})
	ts.do(t, "POST", "/api/refresh", "")

	var m apiModel
	decode(t, ts.do(t, "GET", "/api/device?q=PIXEL", ""), &m)
	if _, _, hl := m.item(device.KeyName); !hl {
		t.Error("name should be highlighted for PIXEL")
	}
	if _, _, hl := m.item(device.KeyManufacturer); hl {
		t.Error("manufacturer should not be highlighted")
	}

	var cleared apiModel
	decode(t, ts.do(t, "GET", "/api/device?q=", ""), &cleared)
	if _, _, hl := cleared.item(device.KeyName); hl {
		t.Error("empty query should clear highlighting")
	}
}

func TestRefresh_HTTPErrorKeepsData(t *testing.T) {
	var fail atomic.Bool
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(device.SamplePayload())
	}))
	defer backend.Close()

	ts := newTestServer(t, loader.NewHTTPSource(backend.URL, loader.DefaultEndpoint, nil, 0))

	if resp := ts.do(t, "POST", "/api/refresh", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("first refresh = %d", resp.StatusCode)
	}
	before := ts.Loader().Record()

	fail.Store(true)
	resp := ts.do(t, "POST", "/api/refresh", "")
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("failed refresh = %d, want 502", resp.StatusCode)
	}
	var body map[string]string
	decode(t, resp, &body)
	if body["error"] != "Device API error (HTTP 500)" {
		t.Errorf("error = %q", body["error"])
	}

	if !ts.Loader().Record().Equal(before) {
		t.Error("record changed after a failed refresh")
	}
	toast, ok := ts.toasts.Current()
	if !ok || toast.Message != loader.MsgFailed {
		t.Errorf("current toast = %+v, want %q", toast, loader.MsgFailed)
	}
}

// blockingSource holds a fetch until its context ends
type blockingSource struct{}

func (blockingSource) Fetch(ctx context.Context) (device.Payload, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingSource) Name() string { return "blocking" }

func TestRefresh_ClientGoneIsTimeout(t *testing.T) {
	ts := newTestServer(t, blockingSource{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestTimeout {
		t.Errorf("refresh with closed client = %d, want 408", rec.Code)
	}
	if ts.ctx.Err() != nil {
		t.Error("server context must outlive the request")
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})
	ts.do(t, "POST", "/api/refresh", "")

	resp := ts.do(t, "GET", "/api/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/export = %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, export.FileName) || !strings.HasPrefix(cd, "attachment") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	data, _ := io.ReadAll(resp.Body)
	got, err := export.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !got.Equal(ts.Loader().Record()) {
		t.Error("exported record differs from the current record")
	}

	if toast, ok := ts.toasts.Current(); !ok || toast.Message != export.SuccessMessage {
		t.Errorf("current toast = %+v", toast)
	}
}

func TestTheme_ToggleTwiceRestores(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	var theme themeResponse
	decode(t, ts.do(t, "GET", "/api/theme", ""), &theme)
	if theme.Theme != ui.ThemeDark || theme.BodyClass != "dark-mode" {
		t.Fatalf("initial theme = %+v", theme)
	}

	decode(t, ts.do(t, "POST", "/api/theme", ""), &theme)
	if theme.Theme != ui.ThemeLight || theme.BodyClass != "light-mode" {
		t.Errorf("after one toggle = %+v", theme)
	}
	if saved, _ := ts.themes.LoadTheme(); saved != "light" {
		t.Errorf("persisted = %q, want light", saved)
	}
	if toast, _ := ts.toasts.Current(); toast.Message != "Light mode enabled" {
		t.Errorf("toast = %q", toast.Message)
	}

	decode(t, ts.do(t, "POST", "/api/theme", ""), &theme)
	if theme.Theme != ui.ThemeDark || theme.BodyClass != "dark-mode" {
		t.Errorf("after two toggles = %+v", theme)
	}
	if saved, _ := ts.themes.LoadTheme(); saved != "dark" {
		t.Errorf("persisted = %q, want dark", saved)
	}
}

func TestSidebar(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	var snap struct {
		State  string `json:"state"`
		Active string `json:"active"`
		Width  int    `json:"width"`
	}

	decode(t, ts.do(t, "POST", "/api/sidebar/resize?width=1200", ""), &snap)
	if snap.State != "expanded" {
		t.Errorf("wide resize state = %s", snap.State)
	}

	decode(t, ts.do(t, "POST", "/api/sidebar/resize?width=768", ""), &snap)
	if snap.State != "collapsed" || snap.Width != ui.CollapsedWidth {
		t.Errorf("narrow resize = %+v", snap)
	}

	decode(t, ts.do(t, "POST", "/api/sidebar/resize?width=1200", ""), &snap)
	if snap.State != "collapsed" {
		t.Error("resizing back should not expand")
	}

	decode(t, ts.do(t, "POST", "/api/sidebar/toggle", ""), &snap)
	if snap.State != "expanded" {
		t.Errorf("toggle state = %s", snap.State)
	}

	decode(t, ts.do(t, "POST", "/api/nav/reports?width=500", ""), &snap)
	if snap.Active != "reports" || snap.State != "collapsed" {
		t.Errorf("nav = %+v", snap)
	}
	if toast, _ := ts.toasts.Current(); toast.Message != "Navigating to Reports" {
		t.Errorf("toast = %q", toast.Message)
	}

	tests := []struct {
		path string
		want int
	}{
		{"/api/sidebar/resize", http.StatusBadRequest},
		{"/api/sidebar/resize?width=wide", http.StatusBadRequest},
		{"/api/nav/reports?width=-1", http.StatusBadRequest},
		{"/api/nav/nowhere", http.StatusNotFound},
	}
	for _, tt := range tests {
		if resp := ts.do(t, "POST", tt.path, ""); resp.StatusCode != tt.want {
			t.Errorf("POST %s = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
	}
}

func TestActions(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	if resp := ts.do(t, "POST", "/api/actions/teleport", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown action = %d, want 404", resp.StatusCode)
	}

	resp := ts.do(t, "POST", "/api/actions/reboot", "")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("reboot = %d, want 202", resp.StatusCode)
	}
	if toast, _ := ts.toasts.Current(); toast.Message != "Rebooting device..." {
		t.Errorf("start toast = %q", toast.Message)
	}

	ts.actions.Wait()
	if toast, _ := ts.toasts.Current(); toast.Message != "Device rebooted successfully" {
		t.Errorf("completion toast = %q", toast.Message)
	}
}

func TestToast(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	resp := ts.do(t, "POST", "/api/toast", `{"message":"IMEI copied","kind":"success"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /api/toast = %d", resp.StatusCode)
	}
	var toast struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
		Icon    string `json:"icon"`
	}
	decode(t, resp, &toast)
	if toast.Kind != "success" || toast.Icon != "check-circle" {
		t.Errorf("toast = %+v", toast)
	}

	for _, body := range []string{`{"message":""}`, `not json`} {
		if resp := ts.do(t, "POST", "/api/toast", body); resp.StatusCode != http.StatusBadRequest {
			t.Errorf("POST /api/toast %s = %d, want 400", body, resp.StatusCode)
		}
	}
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})
	ts.do(t, "POST", "/api/refresh", "")

	resp := ts.do(t, "GET", "/", "")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{
		`<body class="dark-mode">`,
		"Pixel 7 Pro",
		`data-nav="settings"`,
		`data-action="arrive"`,
		`data-tooltip="Copy to clipboard"`,
		`closest('.detail-row')`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	// Clicking anywhere on a row copies it, not only its button
	if strings.Contains(page, `closest('.copy-btn')`) {
		t.Error("copy handler should bind to .detail-row")
	}
}

func TestMetricsAndVersion(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})
	ts.do(t, "POST", "/api/refresh", "")
	ts.do(t, "GET", "/api/version", "")

	resp := ts.do(t, "GET", "/metrics", "")
	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{
		"androidlens_fetch_total",
		`androidlens_http_requests_total{code="200",route="/api/refresh"}`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestWebSocket(t *testing.T) {
	ts := newTestServer(t, &loader.StaticSource{})

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer conn.Close()

	read := func() Message {
		t.Helper()
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var msg struct {
			Type MessageType     `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		return Message{Type: msg.Type, Data: msg.Data}
	}

	var initial []MessageType
	for i := 0; i < 3; i++ {
		initial = append(initial, read().Type)
	}
	want := []MessageType{MessageRecord, MessageTheme, MessageSidebar}
	for i := range want {
		if initial[i] != want[i] {
			t.Fatalf("initial messages = %v, want %v", initial, want)
		}
	}

	if n := ts.GetActiveConnections(); n != 1 {
		t.Errorf("GetActiveConnections() = %d, want 1", n)
	}

	ts.do(t, "POST", "/api/theme", "")

	deadline := time.Now().Add(2 * time.Second)
	var sawTheme, sawToast bool
	for (!sawTheme || !sawToast) && time.Now().Before(deadline) {
		msg := read()
		switch msg.Type {
		case MessageTheme:
			var theme themeResponse
			_ = json.Unmarshal(msg.Data.(json.RawMessage), &theme)
			if theme.Theme != ui.ThemeLight {
				t.Errorf("pushed theme = %s", theme.Theme)
			}
			sawTheme = true
		case MessageToast:
			if strings.Contains(string(msg.Data.(json.RawMessage)), "Light mode enabled") {
				sawToast = true
			}
		}
	}
	if !sawTheme || !sawToast {
		t.Errorf("theme pushed = %v, toast pushed = %v", sawTheme, sawToast)
	}
}
