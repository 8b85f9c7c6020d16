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
	"github.com/sekka-mobility/forecast/infra/logger"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train every route from the input series and write the report",
	RunE:  runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()

	go func() {
		if err := svc.ServeMetrics(ctx); err != nil {
			logger.New("metrics").Errorf("metrics server: %v", err)
		}
	}()

	results, err := svc.TrainAll(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s\tFAILED\t%v\n", r.RouteID, r.Err)
			continue
		}
		fmt.Printf("%s\tmae=%.3f\trmse=%.3f\n", r.RouteID, r.Report.MAE, r.Report.RMSE)
	}
	return nil
}
