package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/DachengChen/smartbi/config"
	"github.com/DachengChen/smartbi/sqlguard"
	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("statement would not be executed")

var checkMetrics string

var checkCmd = &cobra.Command{
	Use:   "check <sql>",
	Short: "Show how a statement is judged, without touching the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), args[0], config.SplitList(checkMetrics))
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkMetrics, "metrics", "", "comma-separated table.metric names to guard against")
	rootCmd.AddCommand(checkCmd)
}

// runCheck prints the normalized statement (or "rejected") and the metric
// guard verdict. It returns errCheckFailed when either check fails.
func runCheck(w io.Writer, sql string, metrics []string) error {
	normalized, ok := sqlguard.NormalizeSingleSelect(sql)
	if ok {
		fmt.Fprintf(w, "select:  %s\n", normalized)
	} else {
		fmt.Fprintln(w, "select:  rejected")
	}

	hit := sqlguard.HasMetricNameColumnReference(sql, metrics)
	switch {
	case len(metrics) == 0:
		fmt.Fprintln(w, "metrics: no metrics selected")
	case hit:
		fmt.Fprintf(w, "metrics: references one of %v as a column\n", sqlguard.MetricNames(metrics))
	default:
		fmt.Fprintln(w, "metrics: ok")
	}

	if !ok || hit {
		return errCheckFailed
	}
	return nil
}
