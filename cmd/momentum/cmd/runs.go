package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solhart/momentum/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List journaled backtest runs",
	Long: `Runs lists the backtest runs recorded in the SQLite journal,
newest first.

Example:
  momentum runs --db momentum.db`,
	RunE: runRuns,
}

var runsDBPath string

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVarP(&runsDBPath, "db", "d", "./momentum.db", "path to SQLite journal DB")
}

func runRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(runsDBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tCREATED\tSYMBOL\tTF\tTRADES\tWIN RATE\tRETURN\tMAX DD")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.2f%%\t%.2f%%\t%.2f%%\n",
			r.RunID, r.Created.Format("2006-01-02 15:04"), r.Symbol, r.Timeframe,
			r.TotalTrades, r.WinRate, r.TotalReturn, r.MaxDrawdown)
	}
	return w.Flush()
}
