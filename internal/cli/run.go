package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/justicehub-au/finder-dedupe/internal/dedup"
	"github.com/justicehub-au/finder-dedupe/internal/metrics"
	"github.com/justicehub-au/finder-dedupe/internal/models"
	"github.com/justicehub-au/finder-dedupe/internal/records"
)

var (
	runNewFile      string
	runExistingFile string
	runOutDir       string
	runProgress     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run deduplication over one or two record batches",
	Long: `Run the deduplication engine over a batch of new records, optionally
against an existing corpus.

Writes two files to the output directory: pairs.json with every duplicate
candidate found, and merged.json with the auto-merged records.

Examples:
  finder run --new scraped.json
  finder run --new scraped.json --existing corpus.json --out ./dedupe
  finder run --new scraped.json --config pipeline.yaml --progress`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVarP(&runNewFile, "new", "n", "", "JSON file with the new record batch (required)")
	runCmd.Flags().StringVarP(&runExistingFile, "existing", "e", "", "JSON file with the existing corpus")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "dedupe-output", "output directory")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "show an interactive progress bar")
	_ = runCmd.MarkFlagRequired("new")
}

func runRun(cmd *cobra.Command, args []string) error {
	newRecords, err := records.Load(runNewFile)
	if err != nil {
		return err
	}

	var existing []models.ServiceRecord
	if runExistingFile != "" {
		existing, err = records.Load(runExistingFile)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collector := metrics.NewCollector()
	engine := dedup.New(cfg.Dedup, logger, collector)

	var result *dedup.RunResult
	if runProgress {
		result, err = runWithProgress(ctx, engine, newRecords, existing)
	} else {
		result, err = engine.FindDuplicates(ctx, newRecords, existing)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	interrupted := errors.Is(err, context.Canceled)

	pairsPath := filepath.Join(runOutDir, "pairs.json")
	mergedPath := filepath.Join(runOutDir, "merged.json")
	if werr := records.WriteJSON(pairsPath, result.DuplicatePairs); werr != nil {
		return werr
	}
	if werr := records.WriteJSON(mergedPath, result.MergedServices); werr != nil {
		return werr
	}

	if interrupted {
		fmt.Println("Interrupted; partial results written.")
	}

	snap := result.Stats.Snapshot(len(result.DuplicatePairs), len(result.MergedServices))
	fmt.Printf("Checked %d pairs in %dms (avg %.2fms/pair)\n",
		snap.TotalChecked, snap.ProcessingTimeMs, snap.AverageCheckMs)
	fmt.Printf("  Duplicates found: %d\n", snap.DuplicatesFound)
	fmt.Printf("  Auto-merged:      %d\n", snap.AutoMerged)
	fmt.Printf("  Pending review:   %d\n", snap.PendingReview)
	fmt.Printf("Results written to %s and %s\n", pairsPath, mergedPath)

	if verbose {
		printMetrics(collector.Snapshot())
	}

	if interrupted {
		return context.Canceled
	}
	return nil
}

func printMetrics(snap metrics.Snapshot) {
	fmt.Println("\nOperation timings:")
	for _, op := range []struct {
		name string
		s    *metrics.OperationSnapshot
	}{
		{"score", snap.Score},
		{"evaluate", snap.Evaluate},
		{"merge", snap.Merge},
	} {
		if op.s == nil {
			continue
		}
		fmt.Printf("  %-8s count=%d total=%dms avg=%.1fµs min=%dµs max=%dµs\n",
			op.name, op.s.Count, op.s.TotalTimeMs, op.s.AvgTimeUs, op.s.MinTimeUs, op.s.MaxTimeUs)
	}
}
