package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/charliek/logview/internal/api"
	"github.com/charliek/logview/internal/config"
	"github.com/charliek/logview/internal/constants"
	"github.com/charliek/logview/internal/logging"
	"github.com/charliek/logview/internal/logs"
	"github.com/charliek/logview/internal/web"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the log viewer server",
	Long: `Run the log viewer server.

Loads the config file, opens every configured provider and serves the UI
under /{route_prefix} until interrupted.

Examples:
  logview serve                    # Use ./logview.yaml
  logview serve -c prod.yaml       # Use another config file
  logview serve --port 8080        # Override server.port`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Override the configured port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("port") {
		if servePort < 1 || servePort > 65535 {
			return fmt.Errorf("invalid port %d (must be 1-65535)", servePort)
		}
		cfg.Server.Port = servePort
	}

	var self *logs.MemoryProvider
	if !cfg.SelfLogs.Disabled {
		self = logs.NewMemoryProvider(cfg.SelfLogs.Capacity)
	}
	initLogging(cfg, self)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newServer(ctx, cfg, self)
	if err != nil {
		return err
	}
	defer app.registry.Close()

	logging.Info().
		Str("config", configPath).
		Str("url", fmt.Sprintf("http://%s/%s/", cfg.Server.Address(), cfg.UI.RoutePrefix)).
		Str("auth", cfg.UI.AuthType).
		Strs("providers", app.registry.Keys()).
		Msg("starting logview")
	if cfg.UI.AuthType == config.AuthTypeNone && !isLoopbackHost(cfg.Server.Host) {
		logging.Warn().Str("host", cfg.Server.Host).Msg("no authorization configured while listening on a network interface")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultShutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	logging.Info().Msg("shutdown complete")
	return nil
}

// initLogging configures the global logger and tees it into self when set.
func initLogging(cfg *config.Config, self *logs.MemoryProvider) {
	lc := logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	}
	if self != nil {
		lc.Tee = self
	}
	logging.Init(lc)
}

// serverApp bundles what serve needs to run and tear down.
type serverApp struct {
	server   *api.Server
	registry *logs.Registry
}

// newServer wires providers, authorization, the dispatcher and the host
// server from cfg.
func newServer(ctx context.Context, cfg *config.Config, self *logs.MemoryProvider) (*serverApp, error) {
	chain, err := cfg.Auth.Chain()
	if err != nil {
		return nil, fmt.Errorf("building authorization chain: %w", err)
	}

	registry, err := logs.BuildRegistry(ctx, cfg, self)
	if err != nil {
		return nil, fmt.Errorf("building providers: %w", err)
	}

	assets, err := web.Static()
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("loading ui assets: %w", err)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if self != nil {
		promRegistry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "logview",
			Subsystem: "self",
			Name:      "buffered_entries",
			Help:      "Entries held by the self log provider.",
		}, func() float64 { return float64(self.Len()) }))
	}

	dispatcher := api.NewDispatcher(api.Options{
		RoutePrefix: cfg.UI.RoutePrefix,
		Chain:       chain,
		HomeURL:     cfg.UI.HomeURL,
		HeadContent: cfg.UI.HeadContent,
		BodyContent: cfg.UI.BodyContent,
		AuthType:    cfg.UI.AuthType,
	}, registry, assets, api.NewMetrics(promRegistry))

	server := api.NewServer(api.ServerConfig{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}, dispatcher, promRegistry)

	return &serverApp{server: server, registry: registry}, nil
}

// isLoopbackHost checks if the host only accepts local connections
func isLoopbackHost(host string) bool {
	return host == "127.0.0.1" || host == "localhost" || host == "::1"
}
