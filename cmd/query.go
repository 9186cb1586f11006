package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/DachengChen/smartbi/chat"
	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/sqlguard"
	"github.com/DachengChen/smartbi/tui"
	"github.com/spf13/cobra"
)

var (
	queryMaxRows int
	queryMetrics string
)

var queryCmd = &cobra.Command{
	Use:   "query <sql>",
	Short: "Run one read-only SELECT and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(envFile, connectionName, true)
		if err != nil {
			return err
		}
		if !cfg.DBConfigured() {
			return fmt.Errorf("no database configured: set DB_HOST and DB_NAME or use --connection")
		}

		metrics := cfg.SelectedMetrics
		if cmd.Flags().Changed("metrics") {
			metrics = config.SplitList(queryMetrics)
		}
		maxRows := cfg.DB.MaxRows
		if cmd.Flags().Changed("max-rows") {
			if err := validateMaxRows(queryMaxRows); err != nil {
				return err
			}
			maxRows = queryMaxRows
		}

		exec, err := newExecutor(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runQuery(ctx, cmd.OutOrStdout(), exec, args[0], maxRows, metrics)
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryMaxRows, "max-rows", config.DefaultMaxRows, "row cap appended as LIMIT when the statement has none")
	queryCmd.Flags().StringVar(&queryMetrics, "metrics", "", "comma-separated table.metric names to guard against")
	rootCmd.AddCommand(queryCmd)
}

// validateMaxRows rejects caps the executor would replace with its default.
func validateMaxRows(n int) error {
	if n <= 0 {
		return fmt.Errorf("--max-rows must be positive, got %d", n)
	}
	return nil
}

// runQuery applies the metric guard and then executes sql. A guard hit
// returns before any database I/O.
func runQuery(ctx context.Context, w io.Writer, exec chat.Executor, sql string, maxRows int, metrics []string) error {
	if sqlguard.HasMetricNameColumnReference(sql, metrics) {
		return chat.ErrMetricColumnMisuse
	}
	res, err := exec.Execute(ctx, sql, maxRows)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, tui.RenderResult(res))
	return err
}
