package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/androidlens/internal/actions"
	"github.com/muurk/androidlens/internal/config"
	"github.com/muurk/androidlens/internal/device"
	"github.com/muurk/androidlens/internal/discovery"
	"github.com/muurk/androidlens/internal/export"
	"github.com/muurk/androidlens/internal/fields"
	"github.com/muurk/androidlens/internal/loader"
	"github.com/muurk/androidlens/internal/notify"
	"github.com/muurk/androidlens/internal/server"
	"github.com/muurk/androidlens/internal/tui"
	"github.com/muurk/androidlens/internal/ui"
	"github.com/muurk/androidlens/internal/view"
)

// Command flags
var (
	outputFormat string
	exportDir    string
	scanTimeout  int

	serveHost      string
	servePort      int
	serveAdvertise bool
	serveInstance  string
	certPath       string
	keyPath        string
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(themeCmd)
}

// dashboardCmd launches the terminal dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the terminal dashboard",
	Long: `Launch the interactive terminal dashboard.

Device data refreshes every api.refresh_minutes. Press ? inside the
dashboard for the full list of key bindings.`,
	Example: `  # Launch with the configured API (or sample data)
  androidlens dashboard
  # Or simply:
  androidlens

  # Launch against a specific API
  androidlens --api http://192.168.1.20:8000`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	reg, err := loadConfig()
	if err != nil {
		return err
	}

	hub := notify.NewHub()
	defer hub.Close()

	opts := tui.Options{
		Loader:  loader.New(reg.API.Source(), loader.WithNotifier(hub)),
		Toasts:  hub,
		Themes:  ui.NewThemeController(reg),
		Actions: actions.NewRunner(hub, nil, 0),
	}

	return tui.Run(cmd.Context(), opts, reg.API.RefreshInterval())
}

// serveCmd starts the web dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the web dashboard.

The dashboard page, its JSON API and a WebSocket for live toasts are served
on one listener. Prometheus metrics are exposed on /metrics.

Flags override the server section of the config file for this run. Pass
--cert and --key together to serve HTTPS.`,
	Example: `  # Serve on the configured address (default 127.0.0.1:8080)
  androidlens serve

  # Listen on all interfaces and announce over mDNS
  androidlens serve --host 0.0.0.0 --advertise

  # Serve HTTPS
  androidlens serve --cert cert.pem --key key.pem --port 8443`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", config.DefaultHost, "Listen host")
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Listen port")
	serveCmd.Flags().BoolVar(&serveAdvertise, "advertise", false, "Announce the dashboard over mDNS")
	serveCmd.Flags().StringVar(&serveInstance, "instance", "", "mDNS instance name (default: Android Lens on <hostname>)")
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (enables HTTPS with --key)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath != "") != (keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}

	reg, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		reg.Server.Host = serveHost
	}
	if flags.Changed("port") {
		reg.Server.Port = servePort
	}
	if flags.Changed("advertise") {
		reg.Server.Advertise = serveAdvertise
	}
	if err := reg.Validate(); err != nil {
		return err
	}

	cfg := &server.Config{
		Host:            reg.Server.Host,
		Port:            reg.Server.Port,
		CertPath:        certPath,
		KeyPath:         keyPath,
		RefreshInterval: reg.API.RefreshInterval(),
		Advertise:       reg.Server.Advertise,
		Instance:        serveInstance,
	}

	srv, err := server.New(cfg, reg.API.Source(), reg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(cmd.Context())
}

// showCmd prints the device details once
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show device details",
	Long: `Fetch the device data once and print it.

The detailed format renders the dashboard cards, compact prints one line per
attribute and json prints the export document.`,
	Example: `  # Detailed cards (default)
  androidlens show

  # One line per attribute
  androidlens show --format compact

  # JSON for scripting
  androidlens show --format json | jq .manufacturer`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "detailed", "compact", "json":
	default:
		return fmt.Errorf("unknown format %q (use detailed, compact or json)", outputFormat)
	}

	reg, err := loadConfig()
	if err != nil {
		return err
	}

	l, err := fetchOnce(cmd.Context(), reg)
	if err != nil {
		return err
	}
	record := l.Record()

	switch outputFormat {
	case "json":
		data, err := export.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
	case "compact":
		fmt.Print(buildModel(record).FormatCompact())
	default:
		p := ui.NewPrinter(os.Stdout, ui.NewThemeController(reg).Theme())
		p.PrintHeader(tui.AppName, "androidlens show", statusParams(l.Status()))
		p.PrintModel(buildModel(record))
	}

	return nil
}

// exportCmd writes the export document
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export device data to " + export.FileName,
	Long: `Fetch the device data once and write it as indented JSON to
` + export.FileName + ` in the chosen directory.`,
	Example: `  # Export to the working directory
  androidlens export

  # Export into a case folder
  androidlens export --dir ./case-1042`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "dir", ".", "Directory to write the export into")
}

func runExport(cmd *cobra.Command, args []string) error {
	reg, err := loadConfig()
	if err != nil {
		return err
	}

	p := ui.NewPrinter(os.Stdout, ui.NewThemeController(reg).Theme())

	l, err := fetchOnce(cmd.Context(), reg)
	if err != nil {
		p.PrintError("Export failed", err)
		return err
	}

	path, err := export.WriteFile(exportDir, l.Record())
	if err != nil {
		p.PrintError("Export failed", err)
		return err
	}

	p.PrintSuccess(export.SuccessMessage, []ui.Param{
		{Key: "File", Value: path},
		{Key: "Source", Value: l.Status().Source},
	})
	return nil
}

// scanCmd browses for dashboards and device APIs
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for Android Lens services on the network",
	Long: `Scan for Android Lens web dashboards and device APIs using mDNS/DNS-SD.

Dashboards announce ` + discovery.DashboardServiceType + ` (see 'androidlens serve --advertise');
device APIs announce ` + discovery.APIServiceType + `.`,
	Example: `  # Scan for 5 seconds (default)
  androidlens scan

  # Longer scan for busy networks
  androidlens scan --timeout 15`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", int(discovery.DefaultScanTimeout/time.Second), "Scan timeout in seconds")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for Android Lens services (timeout: %ds)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = time.Duration(scanTimeout) * time.Second

	services, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(services) == 0 {
		fmt.Println("No services found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the dashboard was started with --advertise")
		fmt.Println("  - Check that multicast traffic is allowed on this network")
		fmt.Println("  - Try increasing --timeout for slower networks")
		return nil
	}

	fmt.Printf("Found %d service(s):\n\n", len(services))

	for i, svc := range services {
		fmt.Printf("%d. %s\n", i+1, svc.Instance)
		fmt.Printf("   Kind:    %s\n", svc.Kind)
		fmt.Printf("   URL:     %s\n", svc.URL())
		if len(svc.Metadata) > 0 {
			fmt.Printf("   Metadata: %v\n", svc.Metadata)
		}
		fmt.Println()
	}

	fmt.Println("Use 'androidlens --api <url>' to read from a discovered device API")

	return nil
}

// themeCmd shows or toggles the saved theme
var themeCmd = &cobra.Command{
	Use:       "theme [toggle]",
	Short:     "Show or toggle the dark/light theme",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"toggle"},
	RunE:      runTheme,
}

func runTheme(cmd *cobra.Command, args []string) error {
	reg, err := loadConfig()
	if err != nil {
		return err
	}

	themes := ui.NewThemeController(reg)
	if len(args) == 0 {
		fmt.Println(themes.Theme())
		return nil
	}

	_, message := themes.Toggle()
	fmt.Println(message)
	return nil
}

// fetchOnce loads the device data a single time
func fetchOnce(ctx context.Context, reg *config.Registry) (*loader.Loader, error) {
	l := loader.New(reg.API.Source())
	if err := l.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", loader.MsgFailed, err)
	}
	return l, nil
}

func buildModel(r device.Record) view.Model {
	return view.Build(r, fields.Default(), fields.NewEnv())
}

func statusParams(st loader.Status) []ui.Param {
	params := []ui.Param{{Key: "Source", Value: st.Source}}
	if !st.UpdatedAt.IsZero() {
		params = append(params, ui.Param{Key: "Updated", Value: st.UpdatedAt.Format(time.RFC1123)})
	}
	return params
}
