package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"evalhq/hermes/pkg/audit"
	"evalhq/hermes/pkg/cli"
	"evalhq/hermes/pkg/config"
	"evalhq/hermes/pkg/gateway"
	"evalhq/hermes/pkg/lifecycle"
	"evalhq/hermes/pkg/registry"
	"evalhq/hermes/pkg/security/auth"
	"evalhq/hermes/pkg/server"
	"evalhq/hermes/pkg/telemetry/health"
	"evalhq/hermes/pkg/telemetry/logging"
	"evalhq/hermes/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bridge server",
	Long: `Start the bridge server with the specified configuration.

The engine module is resolved from the registry at startup. If resolution
fails the server still starts, in a degraded state: bridged endpoints answer
503 and /healthz carries the failure detail.

Examples:
  # Start with default config
  hermes run

  # Start with custom config
  hermes run --config /etc/hermes/config.yaml

  # Override listen address
  hermes run --listen 0.0.0.0:8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Resolve the engine. Failure is not fatal: the bridge runs degraded and
	// surfaces the failure through /healthz and 503s.
	mgr := lifecycle.NewManager(cfg.Bridge, registry.Default())
	if err := mgr.Start(ctx); err != nil {
		slog.Warn("starting in degraded mode", "error", err)
	}
	defer func() { _ = mgr.Stop() }()

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)

	var recorder *audit.Recorder
	if cfg.Audit.Enabled {
		store, err := audit.OpenStore(audit.StoreConfig{
			Driver: cfg.Audit.Driver,
			Path:   cfg.Audit.Path,
		})
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		recorder = audit.NewRecorder(store, audit.RecorderConfig{
			AsyncBuffer: cfg.Audit.AsyncBuffer,
		})
		defer func() { _ = recorder.Close() }()
		collector.RegisterAuditDropped(recorder.Dropped)
	}

	prober := health.NewProber(mgr, cfg.Telemetry.Health, collector)
	prober.RunOnce(ctx)
	if err := prober.Start(); err != nil {
		return fmt.Errorf("failed to start engine probe: %w", err)
	}
	defer prober.Stop()

	// Watch the config file so operators see a restart-required notice when
	// it changes on disk.
	if watcher, err := config.NewWatcher(cfgFile); err == nil {
		go func() { _ = watcher.Watch(ctx, nil) }()
		defer func() { _ = watcher.Stop() }()
	} else {
		slog.Warn("config watcher unavailable", "error", err)
	}

	gw := gateway.NewHandler(mgr, gateway.Config{
		Provider: cfg.Bridge.Provider,
		Version:  Version,
		Audit:    auditSink(recorder),
	})
	authmw := auth.NewMiddleware(auth.NewKeySet(cfg.Auth.Keys)).WithFailureCounter(collector)

	srv := server.NewServer(cfg.Server, cfg.Telemetry.Metrics, gw, authmw, collector)
	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	return nil
}

// auditSink converts a possibly-nil recorder into the gateway's sink
// interface without producing a non-nil interface around a nil pointer.
func auditSink(r *audit.Recorder) gateway.AuditSink {
	if r == nil {
		return nil
	}
	return r
}
