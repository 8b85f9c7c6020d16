package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sekka-mobility/forecast/app"
	"github.com/sekka-mobility/forecast/config"
	"github.com/sekka-mobility/forecast/pkg/export"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score every route on its holdout window without retraining artifacts",
	RunE:  runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	results, err := svc.EvaluateAll(ctx)
	if err != nil {
		return err
	}
	return export.WriteCSV(os.Stdout, results)
}
