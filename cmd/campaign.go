package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/drip"
	"github.com/sells-group/outreach-cli/internal/eligibility"
	"github.com/sells-group/outreach-cli/internal/ingest"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/pkg/bulksend"
)

var campaignCmd = &cobra.Command{
	Use:   "campaign",
	Short: "Launch and manage drip campaigns",
}

var campaignLaunchCmd = &cobra.Command{
	Use:   "launch <leads-file>",
	Short: "Launch a campaign over a lead batch",
	Long: `Launch a campaign from a lead file.

Leads are filtered for sendability first (autopilot requires both a valid
email and phone). The message comes from --subject/--body, or from the
first step of the sequence named by --sequence.

Examples:
  # Manual campaign with an explicit template
  campaign launch leads.csv --subject "Quick question" --body "Hi {{name}}..."

  # Autopilot campaign driven by a catalog sequence, 10 emails/hour
  campaign launch leads.csv --mode autopilot --sequence local-no-website-hot --emails-per-hour 10`,
	Args: cobra.ExactArgs(1),
	RunE: runCampaignLaunch,
}

var campaignPauseCmd = &cobra.Command{
	Use:   "pause [campaign-id]",
	Short: "Pause a campaign (defaults to the active one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCampaignTransition(cmd, args, "pause")
	},
}

var campaignResumeCmd = &cobra.Command{
	Use:   "resume [campaign-id]",
	Short: "Resume a paused campaign",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCampaignTransition(cmd, args, "resume")
	},
}

var campaignStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent campaigns and the active one",
	RunE:  runCampaignStatus,
}

func init() {
	f := campaignLaunchCmd.Flags()
	f.String("sequence", "", "catalog sequence ID to drive the campaign")
	f.String("subject", "", "email subject (overrides sequence)")
	f.String("body", "", "email body (overrides sequence)")
	f.String("mode", "manual", "campaign mode: manual or autopilot")
	f.Int("emails-per-hour", 0, "drip rate (default: saved preference, then config)")
	f.Bool("supersede", false, "pause the currently active campaign instead of failing")

	campaignCmd.AddCommand(campaignLaunchCmd)
	campaignCmd.AddCommand(campaignPauseCmd)
	campaignCmd.AddCommand(campaignResumeCmd)
	campaignCmd.AddCommand(campaignStatusCmd)
	rootCmd.AddCommand(campaignCmd)
}

func runCampaignLaunch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("campaign"); err != nil {
		return err
	}

	sequenceID, _ := cmd.Flags().GetString("sequence")
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")
	modeFlag, _ := cmd.Flags().GetString("mode")
	emailsPerHour, _ := cmd.Flags().GetInt("emails-per-hour")
	supersede, _ := cmd.Flags().GetBool("supersede")

	mode, err := parseMode(modeFlag)
	if err != nil {
		return err
	}

	env, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := checkTransport(ctx, env.Sender); err != nil {
		return err
	}

	leads, err := ingest.LoadFile(args[0])
	if err != nil {
		return err
	}

	eligible, excluded := eligibility.Filter(leads, mode)
	if len(eligible) == 0 {
		return eris.Errorf("campaign: no sendable leads in %s (mode %s, %d excluded)", args[0], mode, excluded)
	}
	if excluded > 0 {
		fmt.Printf("Excluded %d leads without valid contact details.\n", excluded)
	}

	req := drip.LaunchRequest{
		Leads:         eligible,
		EmailsPerHour: resolveEmailsPerHour(ctx, env, emailsPerHour),
		Supersede:     supersede,
	}
	if subject != "" || body != "" {
		req.Template = &model.Template{Subject: subject, Body: body}
	}
	if sequenceID != "" {
		seq, ok := env.Catalog.Get(sequenceID)
		if !ok {
			return eris.Errorf("campaign: unknown sequence %q", sequenceID)
		}
		req.Sequence = &seq
		if err := env.Audit.Record(ctx, model.AuditSequenceSelected, map[string]any{
			"sequence_id": seq.ID,
			"context":     seq.Context,
			"priority":    seq.Priority,
		}); err != nil {
			zap.L().Warn("audit write failed", zap.Error(err))
		}
	}

	record, err := env.Scheduler.Launch(ctx, req)
	if err != nil {
		if drip.IsTransport(err) && record != nil {
			fmt.Printf("Send failed; campaign %s saved as paused.\n", record.ID)
			fmt.Printf("Transport error: %s\n", err.Error())
			return nil
		}
		return err
	}

	printCampaign(record)
	if record.Status == model.CampaignStatusActive {
		fmt.Printf("Estimated completion: ~%d hour(s) at %d emails/hour\n",
			drip.EstimateHours(record.TotalLeads, record.Drip.EmailsPerHour),
			record.Drip.EmailsPerHour)
	}
	return nil
}

// checkTransport fails a launch fast when the bulk-send service cannot be
// reached, before any leads are loaded or filtered.
func checkTransport(ctx context.Context, sender *bulksend.Client) error {
	if err := sender.Ping(ctx); err != nil {
		return eris.Wrap(err, "campaign: bulk-send service unreachable")
	}
	return nil
}

// resolveEmailsPerHour picks the drip rate: explicit flag wins and is saved
// as the new preference, otherwise the stored preference, otherwise config.
func resolveEmailsPerHour(ctx context.Context, env *appEnv, flagValue int) int {
	if flagValue > 0 {
		plan := drip.PlanRate(flagValue)
		if err := env.Store.SetDripConfig(ctx, plan.Config()); err != nil {
			zap.L().Warn("saving drip preference failed", zap.Error(err))
		}
		return flagValue
	}
	if saved, err := env.Store.GetDripConfig(ctx); err == nil && saved != nil {
		return saved.EmailsPerHour
	}
	return cfg.Drip.EmailsPerHour
}

func runCampaignTransition(cmd *cobra.Command, args []string, action string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	id := ""
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		active, err := env.Scheduler.Active(ctx)
		if err != nil {
			return err
		}
		if active == nil {
			return eris.New("campaign: no active campaign")
		}
		id = active.ID
	}

	var record *model.CampaignRecord
	switch action {
	case "pause":
		record, err = env.Scheduler.Pause(ctx, id)
	case "resume":
		record, err = env.Scheduler.Resume(ctx, id)
	}
	if err != nil {
		return err
	}

	printCampaign(record)
	return nil
}

func runCampaignStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	env, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	campaigns, err := env.Store.ListCampaigns(ctx, 10)
	if err != nil {
		return err
	}
	if len(campaigns) == 0 {
		fmt.Println("No campaigns yet.")
		return nil
	}

	for i := range campaigns {
		printCampaign(&campaigns[i])
		fmt.Println()
	}
	return nil
}

func printCampaign(record *model.CampaignRecord) {
	fmt.Printf("Campaign: %s\n", record.ID)
	fmt.Printf("Status:   %s\n", record.Status)
	fmt.Printf("Leads:    %d total, %d sent\n", record.TotalLeads, record.SentCount)
	if record.Sequence != nil {
		fmt.Printf("Sequence: %s (%s)\n", record.Sequence.Name, record.Sequence.ID)
	}
	if record.Template.Subject != "" {
		fmt.Printf("Subject:  %s\n", record.Template.Subject)
	}
	fmt.Printf("Drip:     %d emails/hour, %d min between sends\n",
		record.Drip.EmailsPerHour, record.Drip.DelayMinutes)
	fmt.Printf("Created:  %s\n", record.CreatedAt.Format(time.RFC3339))
	if record.StartedAt != nil {
		fmt.Printf("Started:  %s\n", record.StartedAt.Format(time.RFC3339))
	}
	if record.LastSentAt != nil {
		fmt.Printf("Last send: %s\n", record.LastSentAt.Format(time.RFC3339))
	}
}
