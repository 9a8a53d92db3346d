package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justicehub-au/finder-dedupe/internal/dedup"
	"github.com/justicehub-au/finder-dedupe/internal/models"
	"github.com/justicehub-au/finder-dedupe/internal/similarity"
)

var scoreCmd = &cobra.Command{
	Use:   "score <record-a.json> <record-b.json>",
	Short: "Score a single pair of records",
	Long: `Score one pair of service records and print the similarity breakdown
and the verdict the engine would reach. Useful for tuning thresholds and
debugging surprising matches.

Each file holds a single service record as a JSON object.

Examples:
  finder score a.json b.json
  finder score a.json b.json --config pipeline.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: runScore,
}

func runScore(cmd *cobra.Command, args []string) error {
	a, err := loadRecord(args[0])
	if err != nil {
		return err
	}
	b, err := loadRecord(args[1])
	if err != nil {
		return err
	}

	scorer := similarity.NewScorer(cfg.Dedup.MaxLocationDistanceMeters, cfg.Dedup.CountryCallingCode, cfg.Dedup.NationalNumberLength)
	scores := scorer.Vector(a, b)

	fmt.Printf("%s  vs  %s\n\n", a.Name, b.Name)
	fmt.Printf("  name:             %.3f\n", scores.Name)
	fmt.Printf("  organization:     %.3f\n", scores.Organization)
	fmt.Printf("  location:         %.3f\n", scores.Location)
	fmt.Printf("  contact:          %.3f\n", scores.Contact)
	fmt.Printf("  legal identifier: %.3f\n", scores.LegalID)

	verdict := dedup.NewEvaluator(cfg.Dedup).Evaluate(scores)
	if verdict == nil {
		fmt.Println("\nVerdict: not a duplicate")
		return nil
	}
	fmt.Printf("\nVerdict: %s (confidence %.3f)\n", verdict.Type, verdict.Confidence)
	fmt.Printf("  %s\n", verdict.Reason)
	return nil
}

// loadRecord reads a single service record from a JSON object file.
func loadRecord(path string) (*models.ServiceRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record file: %w", err)
	}
	var rec models.ServiceRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if rec.Name == "" {
		return nil, fmt.Errorf("%s: record has no name", path)
	}
	return &rec, nil
}
