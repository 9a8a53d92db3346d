package dedup

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/justicehub-au/finder-dedupe/internal/metrics"
	"github.com/justicehub-au/finder-dedupe/internal/models"
	"github.com/justicehub-au/finder-dedupe/internal/similarity"
)

// batchSize is the number of candidate pairs handed to a worker at once.
// Cancellation is only observed at batch boundaries.
const batchSize = 128

// progressLogInterval controls how often the engine logs traversal progress.
const progressLogInterval = 100

// RunResult carries everything a deduplication run produced. The caller owns
// persistence of MergedServices and review routing of non-auto-merge pairs.
type RunResult struct {
	DuplicatePairs []models.DuplicateCandidate `json:"duplicate_pairs"`
	MergedServices []models.ServiceRecord      `json:"merged_services"`
	Stats          models.RunStats             `json:"stats"`
}

// Engine coordinates a deduplication run. It holds no per-run state, so a
// single Engine is safe for concurrent runs.
type Engine struct {
	cfg       Config
	scorer    *similarity.Scorer
	evaluator *Evaluator
	merger    *Merger
	logger    *slog.Logger
	collector *metrics.Collector

	// OnProgress, when set, is called with (pairs checked, total pairs)
	// as the run advances. Called from worker goroutines.
	OnProgress func(checked, total int)
}

// New creates an engine. logger may be nil for a silent engine; collector
// may be nil to skip per-operation timing.
func New(cfg Config, logger *slog.Logger, collector *metrics.Collector) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	scorer := similarity.NewScorer(cfg.MaxLocationDistanceMeters, cfg.CountryCallingCode, cfg.NationalNumberLength)
	return &Engine{
		cfg:       cfg,
		scorer:    scorer,
		evaluator: NewEvaluator(cfg),
		merger:    NewMerger(scorer),
		logger:    logger,
		collector: collector,
	}
}

// batchOutcome is one worker's result for one batch. Outcomes are written to
// distinct slice slots and reduced in batch order, so output is
// deterministic regardless of worker scheduling.
type batchOutcome struct {
	pairs  []models.DuplicateCandidate
	merged []models.ServiceRecord
	stats  models.RunStats
}

// FindDuplicates compares newRecords against existingRecords and against
// itself, returning every duplicate pair, the auto-merged records, and run
// statistics. On cancellation the partially-accumulated result is returned
// together with the context's error.
func (e *Engine) FindDuplicates(ctx context.Context, newRecords, existingRecords []models.ServiceRecord) (*RunResult, error) {
	if err := models.ValidateBatch("new", newRecords); err != nil {
		return nil, err
	}
	if err := models.ValidateBatch("existing", existingRecords); err != nil {
		return nil, err
	}

	start := time.Now()

	gen := &generator{newRecords: newRecords, existing: existingRecords, blocking: e.cfg.Blocking}
	batches := gen.batches(batchSize)

	totalPairs := 0
	for _, b := range batches {
		totalPairs += len(b)
	}

	e.logger.Info("starting deduplication",
		"new", len(newRecords),
		"existing", len(existingRecords),
		"pairs", totalPairs,
		"blocking", string(e.cfg.Blocking),
		"concurrency", e.concurrency(),
	)

	type workItem struct {
		seq   int
		pairs []pair
	}

	outcomes := make([]batchOutcome, len(batches))
	workChan := make(chan workItem, len(batches))
	var checked atomic.Int64
	var wg sync.WaitGroup

	for w := 0; w < e.concurrency(); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range workChan {
				if ctx.Err() != nil {
					return
				}
				outcomes[item.seq] = e.processBatch(item.pairs)

				done := checked.Add(int64(len(item.pairs)))
				if e.OnProgress != nil {
					e.OnProgress(int(done), totalPairs)
				}
				if done/progressLogInterval != (done-int64(len(item.pairs)))/progressLogInterval {
					e.logger.Debug("deduplication progress", "checked", done, "total", totalPairs)
				}
			}
		}()
	}

	for seq, b := range batches {
		workChan <- workItem{seq: seq, pairs: b}
	}
	close(workChan)
	wg.Wait()

	result := &RunResult{}
	for _, o := range outcomes {
		result.DuplicatePairs = append(result.DuplicatePairs, o.pairs...)
		result.MergedServices = append(result.MergedServices, o.merged...)
		result.Stats.Add(o.stats)
	}
	result.Stats.ProcessingTimeMs = time.Since(start).Milliseconds()

	e.logger.Info("deduplication complete",
		"checked", result.Stats.TotalChecked,
		"duplicates", result.Stats.DuplicatesFound,
		"auto_merged", result.Stats.AutoMerged,
		"pending_review", result.Stats.PendingReview,
		"duration_ms", result.Stats.ProcessingTimeMs,
	)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

func (e *Engine) concurrency() int {
	if e.cfg.Concurrency <= 0 {
		return 1
	}
	return e.cfg.Concurrency
}

// processBatch evaluates one batch of pairs into a local accumulator; no
// shared state is touched, which keeps workers contention-free.
func (e *Engine) processBatch(pairs []pair) batchOutcome {
	var out batchOutcome

	for _, p := range pairs {
		out.stats.TotalChecked++

		candidate, merged := e.checkPair(p)
		if candidate == nil {
			continue
		}

		out.pairs = append(out.pairs, *candidate)
		out.stats.DuplicatesFound++

		if merged != nil {
			out.merged = append(out.merged, *merged)
			out.stats.AutoMerged++
		} else {
			out.stats.PendingReview++
		}
	}

	return out
}

// checkPair scores and evaluates a single pair, returning the candidate (nil
// for no match) and the merged record when the pair auto-merges.
func (e *Engine) checkPair(p pair) (*models.DuplicateCandidate, *models.ServiceRecord) {
	scoreStart := time.Now()
	scores := e.scorer.Vector(p.a, p.b)
	e.record(metrics.OpScore, scoreStart)

	evalStart := time.Now()
	verdict := e.evaluator.Evaluate(scores)
	e.record(metrics.OpEvaluate, evalStart)

	if verdict == nil {
		return nil, nil
	}

	candidate := &models.DuplicateCandidate{
		ID:             uuid.New().String(),
		Service1:       models.Summarize(p.a),
		Service2:       models.Summarize(p.b),
		Scores:         scores,
		MatchType:      verdict.Type,
		Confidence:     verdict.Confidence,
		Reason:         verdict.Reason,
		AutoMerge:      verdict.Confidence >= e.cfg.AutoMergeThreshold && !e.cfg.RequireManualReview,
		ComparisonType: p.comparison,
		FoundAt:        time.Now().UTC(),
	}

	if !candidate.AutoMerge {
		return candidate, nil
	}

	mergeStart := time.Now()
	merged := e.merger.Merge(p.a, p.b, verdict, candidate.ID)
	e.record(metrics.OpMerge, mergeStart)

	return candidate, &merged
}

func (e *Engine) record(op string, start time.Time) {
	if e.collector != nil {
		e.collector.RecordTiming(op, time.Since(start))
	}
}
