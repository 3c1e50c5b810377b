package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/outreach-cli/internal/analyzer"
	"github.com/sells-group/outreach-cli/internal/eligibility"
	"github.com/sells-group/outreach-cli/internal/ingest"
	"github.com/sells-group/outreach-cli/internal/model"
	"github.com/sells-group/outreach-cli/internal/scorer"
)

var scoreCmd = &cobra.Command{
	Use:   "score <leads-file>",
	Short: "Score a lead batch and summarize conversion signals",
	Long: `Score leads from a CSV, JSON, or XLSX file.

Each lead receives a point score built from web-presence gaps (no website,
legacy platform, poor mobile experience, outstanding issues) plus contact
and reputation signals, then a hot/warm/cold classification.

Examples:
  # Score a CSV export and print a table
  score leads.csv

  # Export scored leads to CSV
  score leads.csv --format csv --output scored.csv

  # Check autopilot eligibility (requires both email and phone)
  score leads.csv --mode autopilot`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("format", "table", "output format: table, csv, or json")
	f.String("output", "", "output file path (default: stdout)")
	f.String("mode", "manual", "eligibility mode: manual or autopilot")
	f.Int("concurrency", 8, "number of leads scored in parallel")

	rootCmd.AddCommand(scoreCmd)
}

// scoredLead pairs a lead with its score for output.
type scoredLead struct {
	Lead   model.Lead        `json:"lead"`
	Result model.ScoreResult `json:"result"`
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cfg.Validate("score"); err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	modeFlag, _ := cmd.Flags().GetString("mode")
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	if format != "table" && format != "csv" && format != "json" {
		return eris.Errorf("score: --format must be table, csv, or json (got %q)", format)
	}
	mode, err := parseMode(modeFlag)
	if err != nil {
		return err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	leads, err := ingest.LoadFile(args[0])
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		fmt.Println("No leads found.")
		return nil
	}

	log := zap.L().With(zap.String("command", "score"))
	log.Info("scoring batch", zap.Int("leads", len(leads)), zap.Int("concurrency", concurrency))

	scored := make([]scoredLead, len(leads))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, lead := range leads {
		g.Go(func() error {
			scored[i] = scoredLead{Lead: lead, Result: scorer.Score(lead)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "score: batch")
	}

	stats := analyzer.Recompute(leads)
	eligible, excluded := eligibility.Filter(leads, mode)

	if err := outputScored(scored, format, outputPath); err != nil {
		return err
	}
	printBatchSummary(stats, mode, len(eligible), excluded)

	return nil
}

func parseMode(s string) (model.CampaignMode, error) {
	switch s {
	case "manual":
		return model.ModeManual, nil
	case "autopilot":
		return model.ModeAutopilot, nil
	default:
		return "", eris.Errorf("--mode must be manual or autopilot (got %q)", s)
	}
}

func printBatchSummary(stats model.BatchStats, mode model.CampaignMode, eligible, excluded int) {
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Total leads:    %d\n", stats.Total)
	fmt.Printf("Hot:            %d\n", stats.HotCount)
	fmt.Printf("Warm:           %d\n", stats.WarmCount)
	fmt.Printf("Cold:           %d\n", stats.ColdCount)
	fmt.Printf("No website:     %d\n", stats.NoWebsiteCount)
	fmt.Printf("Needs upgrade:  %d\n", stats.NeedsUpgradeCount)
	fmt.Printf("Poor mobile:    %d\n", stats.PoorMobileCount)
	fmt.Printf("Dominant:       %s\n", stats.DominantClassification)
	if len(stats.TopPainPoints) > 0 {
		fmt.Println("Top pain points:")
		for _, pp := range stats.TopPainPoints {
			fmt.Printf("  %-25s %d\n", pp.Tag, pp.Count)
		}
	}
	fmt.Printf("Sendable (%s): %d eligible, %d excluded\n", mode, eligible, excluded)
}

func outputScored(scored []scoredLead, format, outputPath string) error {
	var w *os.File
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	} else {
		w = os.Stdout
	}

	switch format {
	case "csv":
		return writeScoredCSV(w, scored)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(scored)
	case "table":
		return writeScoredTable(w, scored)
	default:
		return eris.Errorf("score: unsupported format %q", format)
	}
}

func writeScoredCSV(w *os.File, scored []scoredLead) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"business_name", "email", "phone", "score", "classification", "reasons"}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "score: write CSV header")
	}

	for _, s := range scored {
		row := []string{
			s.Lead.BusinessName,
			s.Lead.Email,
			s.Lead.Phone,
			fmt.Sprintf("%d", s.Result.Score),
			string(s.Result.Classification),
			strings.Join(s.Result.Reasons, "; "),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "score: write CSV row")
		}
	}
	return nil
}

func writeScoredTable(w *os.File, scored []scoredLead) error {
	header := fmt.Sprintf("%-35s %-30s %6s %-5s %s\n",
		"Business", "Email", "Score", "Class", "Reasons")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "score: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 110)); err != nil {
		return eris.Wrap(err, "score: write table separator")
	}

	for _, s := range scored {
		name := s.Lead.BusinessName
		if len(name) > 35 {
			name = name[:32] + "..."
		}
		line := fmt.Sprintf("%-35s %-30s %6d %-5s %s\n",
			name, s.Lead.Email, s.Result.Score, s.Result.Classification,
			strings.Join(s.Result.Reasons, "; "))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "score: write table row")
		}
	}
	return nil
}
