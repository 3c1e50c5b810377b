package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/model"
)

var trialCmd = &cobra.Command{
	Use:   "trial",
	Short: "Manage the free trial and subscription",
}

var trialStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the free trial",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		status, err := env.Gate.StartTrial(ctx)
		if err != nil {
			return err
		}
		if err := env.Audit.Record(ctx, model.AuditTrialStarted, map[string]any{
			"duration_days": cfg.Trial.DurationDays,
		}); err != nil {
			zap.L().Warn("audit write failed", zap.Error(err))
		}
		fmt.Printf("Trial started: %d days of full access.\n", cfg.Trial.DurationDays)
		printTrialStatus(status)
		return nil
	},
}

var trialUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade to the paid plan",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		status, err := env.Gate.UpgradeToPaid(ctx)
		if err != nil {
			return err
		}
		if err := env.Audit.Record(ctx, model.AuditPlanUpgraded, map[string]any{
			"monthly_price": cfg.Trial.MonthlyPrice,
		}); err != nil {
			zap.L().Warn("audit write failed", zap.Error(err))
		}
		fmt.Printf("Upgraded to paid plan ($%.2f/month).\n", cfg.Trial.MonthlyPrice)
		printTrialStatus(status)
		return nil
	},
}

var trialStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show trial and subscription status",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		status, err := env.Gate.Status(ctx)
		if err != nil {
			return err
		}
		printTrialStatus(status)
		return nil
	},
}

func init() {
	trialCmd.AddCommand(trialStartCmd)
	trialCmd.AddCommand(trialUpgradeCmd)
	trialCmd.AddCommand(trialStatusCmd)
	rootCmd.AddCommand(trialCmd)
}

func printTrialStatus(s model.TrialStatus) {
	switch {
	case s.IsPaid:
		fmt.Println("Plan:      paid")
		if s.UpgradedAt != nil {
			fmt.Printf("Upgraded:  %s\n", s.UpgradedAt.Format(time.RFC3339))
		}
	case !s.HasStartedTrial:
		fmt.Println("Plan:      none (run 'trial start' to begin the free trial)")
	case s.IsExpired:
		fmt.Println("Plan:      trial (expired)")
		fmt.Printf("Upgrade for $%.2f/month to keep launching campaigns.\n", cfg.Trial.MonthlyPrice)
	default:
		fmt.Println("Plan:      trial")
		fmt.Printf("Remaining: %d day(s)\n", s.TrialDaysRemaining)
		if s.WarningLevel != model.WarningNone {
			fmt.Printf("Warning:   %s\n", s.WarningLevel)
		}
	}
	fmt.Printf("Autopilot: %v\n", s.CanUseAutopilot())
}
