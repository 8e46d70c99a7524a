package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bezmoradi/whichkey/internal/config"
	"github.com/bezmoradi/whichkey/internal/metrics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show how often each sequence was used",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricsManager, err := metrics.NewMetricsManager(config.GetStatsDir())
		if err != nil {
			return fmt.Errorf("error initializing metrics: %w", err)
		}

		totalMetrics, err := metricsManager.GetTotalMetrics()
		if err != nil {
			return fmt.Errorf("error getting total metrics: %w", err)
		}

		recentDays, err := metricsManager.GetRecentDays(7)
		if err != nil {
			fmt.Printf("⚠️  Warning: Failed to get recent metrics: %v\n", err)
		}

		formatter := metrics.NewStatsFormatter()
		fmt.Println(formatter.FormatTotalStats(totalMetrics))
		fmt.Println()

		if len(recentDays) > 0 {
			fmt.Println(formatter.FormatWeeklyStats(recentDays))
		}
		return nil
	},
}

var resetStatsCmd = &cobra.Command{
	Use:   "reset-stats",
	Short: "Clear all usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metricsManager, err := metrics.NewMetricsManager(config.GetStatsDir())
		if err != nil {
			return fmt.Errorf("error initializing metrics: %w", err)
		}

		if err := metricsManager.ClearAllMetrics(); err != nil {
			return fmt.Errorf("error clearing metrics: %w", err)
		}

		fmt.Println("🗑️  All usage statistics have been cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetStatsCmd)
}
