package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sekka-mobility/forecast/app"
	"github.com/sekka-mobility/forecast/config"
	"github.com/sekka-mobility/forecast/core/model"
	"github.com/sekka-mobility/forecast/infra/logger"
)

var (
	predictRoute  string
	predictHours  int
	predictAnchor string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Forecast congestion for one route",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictRoute, "route", "", "route identifier")
	predictCmd.Flags().IntVar(&predictHours, "hours", 24, "forecast horizon in hours")
	predictCmd.Flags().StringVar(&predictAnchor, "anchor", "", "forecast start (RFC3339, defaults to the model's last observation)")
	_ = predictCmd.MarkFlagRequired("route")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
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

	var anchor time.Time
	if predictAnchor != "" {
		anchor, err = time.Parse(time.RFC3339, predictAnchor)
		if err != nil {
			return fmt.Errorf("parse anchor: %w", err)
		}
	}

	points, err := svc.Predict(predictRoute, anchor, predictHours)
	if err != nil {
		return err
	}

	type row struct {
		Timestamp time.Time `json:"timestamp"`
		Yhat      float64   `json:"yhat"`
		YhatLower float64   `json:"yhat_lower"`
		YhatUpper float64   `json:"yhat_upper"`
		Status    string    `json:"status"`
	}
	rows := make([]row, len(points))
	for i, p := range points {
		rows[i] = row{
			Timestamp: p.Timestamp,
			Yhat:      p.Yhat,
			YhatLower: p.YhatLower,
			YhatUpper: p.YhatUpper,
			Status:    model.Classify(p.Yhat).String(),
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
