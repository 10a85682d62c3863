package cmd

import (
	"context"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/solhart/momentum/broker"
	"github.com/solhart/momentum/feed"
	"github.com/solhart/momentum/health"
	"github.com/solhart/momentum/live"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Continuously scan for entry signals",
	Long: `Run polls the configured symbols once per timeframe interval,
evaluates the entry conditions on the latest candle, and places
orders through the paper execution gateway when a signal confirms.

A liveness endpoint is served on the health port for the deployment
platform.

Example:
  momentum run --config momentum.yaml --health-port 8080`,
	RunE: runRun,
}

var runHealthPort int

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&runHealthPort, "health-port", 0, "liveness endpoint port (overrides config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runHealthPort != 0 {
		cfg.Live.HealthPort = runHealthPort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := health.NewServer(cfg.Live.HealthPort)
	go func() {
		if err := srv.Start(); err != nil {
			log.WithError(err).Error("health server failed")
		}
	}()
	defer srv.Shutdown(context.Background())

	provider := feed.NewClient(cfg.Backtest.APIURL)
	poller := live.NewPoller(cfg, provider, broker.NewPaper())
	poller.Checked = srv.Checked

	if err := poller.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
