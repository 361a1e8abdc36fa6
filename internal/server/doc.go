// Package server implements the Android Lens web dashboard.
//
// The server renders the dashboard page with html/template, exposes the
// dashboard state as a small JSON API and pushes every change to connected
// browsers over WebSocket. Device data comes from a loader.Source and is
// refreshed periodically for as long as the server runs.
//
// # Routes
//
//	GET  /                       dashboard page
//	GET  /api/device?q=term      view-model, matches highlighted
//	GET  /api/record             raw record
//	GET  /api/status             last refresh outcome
//	POST /api/refresh            fetch now
//	GET  /api/export             android-lens-device-data.json download
//	GET  /api/theme              current theme
//	POST /api/theme              toggle theme
//	GET  /api/sidebar            sidebar state
//	POST /api/sidebar/toggle     collapse or expand
//	POST /api/sidebar/resize     ?width=N, collapses at or below 768
//	POST /api/nav/{item}         ?width=N, select a nav item
//	GET  /api/actions            available device actions
//	POST /api/actions/{action}   reboot, shutdown or arrive (simulated)
//	POST /api/toast              {"message": "...", "kind": "success"}
//	GET  /api/version            build information
//	GET  /ws                     push stream
//	GET  /metrics                Prometheus metrics
//	GET  /health                 "OK"
//
// # Push Messages
//
// Every WebSocket message is a JSON envelope:
//
//	{"type": "toast",   "data": {"type": "show", "toast": {...}}}
//	{"type": "record",  "data": <view-model>}
//	{"type": "theme",   "data": {"theme": "dark", "body_class": "dark-mode", "icon": "fa-moon"}}
//	{"type": "sidebar", "data": {"state": "collapsed", "active": "dashboard", "width": 60}}
//
// A new client first receives the current record, theme, sidebar and any
// visible toast. Each client has a single writer goroutine; a client that
// cannot keep up is disconnected.
//
// # Usage Example
//
//	srv, err := server.New(&server.Config{Host: "127.0.0.1", Port: 8080}, source, registry)
//	if err != nil {
//	    return err
//	}
//	return srv.Start(ctx) // blocks until SIGINT/SIGTERM or ctx is done
package server
