package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/pdfa11y/internal/config"
	"github.com/jackzampolin/pdfa11y/internal/home"
	"github.com/jackzampolin/pdfa11y/internal/metrics"
	"github.com/jackzampolin/pdfa11y/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pdfa11y server",
	Long: `Start the pdfa11y HTTP server.

The server keeps audit sessions in memory; they are lost on restart.
Changes to the config file are picked up while running for upload
limits and severity overrides.

The server provides:
  - /           - Upload page and browser report
  - /api/...    - Analysis, report, remediation and download endpoints
  - /health     - Basic server health check
  - /ready      - Readiness check (includes the page rasterizer)
  - /swagger/   - API documentation

Examples:
  pdfa11y serve                    # Start on the configured port (default 8080)
  pdfa11y serve --port 3000        # Start on custom port
  pdfa11y serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		cfg := cm.Get()

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		cm.OnError(func(err error) {
			logger.Error("config reload failed; keeping previous settings", "error", err)
		})
		cm.WatchConfig()

		var query *metrics.Query
		var recorder *metrics.Recorder
		if cfg.Metrics.Enabled {
			store, err := metrics.Open(h.MetricsPath(cfg.Metrics.Path))
			if err != nil {
				return err
			}
			defer store.Close()
			query = store.Query()
			recorder = store.Recorder()
			logger.Info("metrics enabled", "path", store.Path())
		}

		svc, err := newAuditService(cfg, logger, recorder)
		if err != nil {
			return err
		}

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            strconv.Itoa(port),
			Audit:           svc,
			ConfigManager:   cm,
			Home:            h,
			MetricsQuery:    query,
			MaxUploadBytes:  cfg.MaxUploadBytes(),
			UploadRateLimit: cfg.Server.UploadRateLimit,
			UploadBurst:     cfg.Server.UploadBurst,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// loadConfig reads --config, falling back to the config file in the home
// directory when one exists.
func loadConfig(h *home.Dir) (*config.Manager, error) {
	path := cfgFile
	if path == "" && h.ConfigExists() {
		path = h.ConfigPath()
	}
	return config.NewManager(path)
}

func newLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})), nil
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
