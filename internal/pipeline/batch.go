package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cypherswwayinc/phishguardlite/internal/model"
	"github.com/cypherswwayinc/phishguardlite/internal/page"
)

// DefaultConcurrency is the number of links scored at once by default.
const DefaultConcurrency = 10

// LinkScorer scores one URL with its link text. *scoring.Scorer implements it.
type LinkScorer interface {
	Score(rawURL, linkText string) (model.ScoreResult, error)
}

// LinkResult is the outcome of scoring one link.
type LinkResult struct {
	page.Link

	// Result is the score of the link. It is the zero value when Error is set.
	Result model.ScoreResult `json:"result"`

	// Error describes why the link could not be scored.
	Error string `json:"error,omitempty"`
}

// BatchProcessor scores many links concurrently.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type BatchProcessor struct {
	scorer LinkScorer

	// concurrency is the maximum number of links scored at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of links scored at once.
// Default is DefaultConcurrency if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor using scorer.
func NewBatchProcessor(scorer LinkScorer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		scorer:      scorer,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scores links concurrently and returns one result per link in
// input order. A link that cannot be scored gets its Error set and does not
// stop the batch; only cancellation does.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, links []page.Link) ([]LinkResult, error) {
	bp.logger.Debug("starting batch scoring",
		"total_links", len(links),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	// Each goroutine writes only its own index, so no lock is needed.
	results := make([]LinkResult, len(links))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, link := range links {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			results[i] = LinkResult{Link: link}
			res, err := bp.scorer.Score(link.URL, link.Text)
			if err != nil {
				bp.logger.Debug("link not scored", "url", link.URL, "error", err)
				results[i].Error = err.Error()
				return nil
			}
			results[i].Result = res
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Debug("batch scoring complete",
		"total_links", len(links),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// Flagged returns the results whose score is at least minScore, in order.
func Flagged(results []LinkResult, minScore int) []LinkResult {
	out := make([]LinkResult, 0, len(results))
	for _, r := range results {
		if r.Error == "" && r.Result.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}
