package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/outreach-cli/internal/analyzer"
	"github.com/sells-group/outreach-cli/internal/catalog"
	"github.com/sells-group/outreach-cli/internal/ingest"
	"github.com/sells-group/outreach-cli/internal/recommend"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <leads-file>",
	Short: "Rank outreach sequences against a lead batch",
	Long: `Recommend outreach sequences for a scored lead batch.

The batch is scored and aggregated, then every sequence in the catalog for
the chosen context is ranked by how well its priority and framing match the
batch composition.

Examples:
  # Rank local-business sequences
  recommend leads.csv

  # Rank SaaS sequences, top 3 only
  recommend leads.csv --context saas --top 3`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	f := recommendCmd.Flags()
	f.String("context", catalog.ContextLocalBusiness, "sequence context: local-business or saas")
	f.Int("top", 0, "limit output to the top N sequences (0 = all)")

	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate("score"); err != nil {
		return err
	}

	context, _ := cmd.Flags().GetString("context")
	top, _ := cmd.Flags().GetInt("top")

	leads, err := ingest.LoadFile(args[0])
	if err != nil {
		return err
	}

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	sequences := cat.ByContext(context)
	if len(sequences) == 0 {
		return eris.Errorf("recommend: no sequences for context %q", context)
	}

	stats := analyzer.Recompute(leads)
	zap.L().Info("recommending sequences",
		zap.Int("leads", stats.Total),
		zap.String("context", context),
		zap.String("dominant", string(stats.DominantClassification)),
	)

	recs := recommend.Recommend(sequences, stats)
	if top > 0 && top < len(recs) {
		recs = recs[:top]
	}

	fmt.Printf("Batch: %d leads (%d hot / %d warm / %d cold), dominant %s\n\n",
		stats.Total, stats.HotCount, stats.WarmCount, stats.ColdCount,
		stats.DominantClassification)

	for i, rec := range recs {
		fmt.Printf("%d. %s  [%s/%s]  score %d\n",
			i+1, rec.Sequence.Name, rec.Sequence.Context, rec.Sequence.Priority, rec.Score)
		fmt.Printf("   %s\n", rec.Reason)
		fmt.Printf("   Matched leads: %d   Est. response rate: %s\n",
			rec.MatchedLeadCount, rec.EstimatedResponseRate)
		if len(rec.Sequence.Tags) > 0 {
			fmt.Printf("   Tags: %s\n", strings.Join(rec.Sequence.Tags, ", "))
		}
		fmt.Println()
	}

	return nil
}
