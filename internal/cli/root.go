package cli

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/charliek/logview/internal/config"
	"github.com/charliek/logview/internal/constants"
)

// Version is set during build
var Version = "dev"

// TokenEnvVar supplies the bearer token for client commands when --token is not given.
const TokenEnvVar = "LOGVIEW_TOKEN"

// Global flags
var (
	configPath  string
	apiAddr     string
	routePrefix string
	authToken   string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "logview",
	Short: "Browse structured logs from several stores in one UI",
	Long: `logview serves an embedded web UI and JSON API for browsing structured
logs. It supports:
  - Named log providers: memory, JSONL files, PostgreSQL tables and Redis lists
  - Filtering by level, text, and time range with pagination
  - Pluggable authorization: local-only, bearer token, basic auth and JWT
  - Command line access to the same API`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		clientCommands := map[string]bool{
			"keys": true,
			"logs": true,
		}
		if !clientCommands[cmd.Name()] {
			return
		}

		// Fill in whatever the flags left open from the config file
		cfg, _ := config.Load(configPath)
		if !cmd.Flags().Changed("addr") {
			apiAddr = discoverAPIAddress(cfg)
		}
		if !cmd.Flags().Changed("prefix") && cfg != nil {
			routePrefix = cfg.UI.RoutePrefix
		}
		if authToken == "" {
			authToken = os.Getenv(TokenEnvVar)
		}
		if authToken == "" && cfg != nil {
			authToken = cfg.Auth.Token
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "logview version %s\n", Version)
	},
}

func init() {
	// Persistent flags available to all subcommands
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", constants.DefaultConfigFile, "Config file")
	rootCmd.PersistentFlags().StringVar(&apiAddr, "addr", constants.DefaultAPIAddress, "Server address for client commands")
	rootCmd.PersistentFlags().StringVar(&routePrefix, "prefix", constants.DefaultRoutePrefix, "Route prefix the UI is served under")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Bearer token for client commands (default $"+TokenEnvVar+")")

	// Set version template
	rootCmd.SetVersionTemplate("logview version {{.Version}}\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// discoverAPIAddress returns the server URL from the config file, falling
// back to the default address. Wildcard hosts are dialed on loopback.
func discoverAPIAddress(cfg *config.Config) string {
	if cfg == nil {
		return constants.DefaultAPIAddress
	}

	host := cfg.Server.Host
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = constants.DefaultAPIHost
	}
	port := cfg.Server.Port
	if port == 0 {
		port = constants.DefaultAPIPort
	}

	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}
