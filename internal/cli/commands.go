package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/charliek/logview/internal/domain"
	"github.com/charliek/logview/internal/query"
)

// Client command flags
var (
	jsonOutput bool
	logParams  domain.LogParams
	logsFrom   string
	logsTo     string
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List log providers",
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show one page of logs",
	Long: `Show one page of logs from a provider.

Examples:
  logview logs                               # Newest entries of the default provider
  logview logs --key db --level Error        # Errors from the "db" provider
  logview logs --search timeout --page 2     # Second page of matches
  logview logs --from 2024-05-01 --to "2024-05-01 12:00"`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

func init() {
	keysCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	logsCmd.Flags().StringVarP(&logParams.Key, "key", "k", "", "Provider key (default: server default)")
	logsCmd.Flags().StringVarP(&logParams.Level, "level", "l", "", "Only entries with this level")
	logsCmd.Flags().StringVarP(&logParams.Search, "search", "s", "", "Text searched in message and exception")
	logsCmd.Flags().IntVar(&logParams.Page, "page", 0, "Page number (default 1)")
	logsCmd.Flags().IntVarP(&logParams.Count, "count", "n", 0, "Entries per page (default 10)")
	logsCmd.Flags().StringVar(&logsFrom, "from", "", "Start of the time range (inclusive)")
	logsCmd.Flags().StringVar(&logsTo, "to", "", "End of the time range (inclusive)")
	logsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")

	rootCmd.AddCommand(keysCmd, logsCmd)
}

func runKeys(cmd *cobra.Command, args []string) error {
	client := NewClient(apiAddr, routePrefix, authToken)

	keys, err := client.GetKeys(cmd.Context())
	if err != nil {
		return fmt.Errorf("%w\nIs logview running at %s?", err, apiAddr)
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(keys)
	}
	for _, key := range keys {
		fmt.Fprintln(cmd.OutOrStdout(), key)
	}
	return nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	params := logParams
	if logsFrom != "" {
		from := query.ParseDate(logsFrom)
		if from == nil {
			return fmt.Errorf("invalid --from value %q", logsFrom)
		}
		params.From = *from
	}
	if logsTo != "" {
		to := query.ParseDate(logsTo)
		if to == nil {
			return fmt.Errorf("invalid --to value %q", logsTo)
		}
		params.To = *to
	}

	client := NewClient(apiAddr, routePrefix, authToken)
	resp, err := client.GetLogs(cmd.Context(), params)
	if err != nil {
		return err
	}

	if jsonOutput {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
	}
	NewLogPrinter(cmd.OutOrStdout()).PrintPage(resp)
	return nil
}
