// Package scanner scores many tickers in parallel over a bounded
// worker pool.
package scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"swingscore/pkg/model"
)

// Scorer produces the composite score for one ticker.
type Scorer interface {
	Score(ctx context.Context, ticker string) (*model.ScoreResult, error)
}

// ProgressCallback is called after each ticker completes.
type ProgressCallback func(scanned, total int)

// ScanResult aggregates one scan run. TotalScanned counts tickers
// actually attempted, which falls short of the watchlist size when a
// timeout or cancellation aborts the run. Results are sorted by score
// descending; tickers that failed to score are counted but not listed.
type ScanResult struct {
	TotalScanned int                 `json:"total_scanned"`
	Failed       int                 `json:"failed"`
	Results      []model.ScoreResult `json:"results"`
	ScanTime     time.Duration       `json:"scan_time"`
}

// Scanner fans ticker scoring out across a worker pool.
type Scanner struct {
	scorer       Scorer
	workers      int
	timeout      time.Duration
	minScore     int
	progressFunc ProgressCallback
}

// New creates a scanner. minScore drops results under the threshold;
// zero keeps everything.
func New(scorer Scorer, workers int, timeout time.Duration, minScore int) *Scanner {
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		scorer:   scorer,
		workers:  workers,
		timeout:  timeout,
		minScore: minScore,
	}
}

// SetProgressCallback sets the progress callback function.
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan scores every ticker and returns the survivors ranked best
// first. Individual scoring failures are logged and skipped so one bad
// symbol cannot sink a watchlist run.
func (s *Scanner) Scan(ctx context.Context, tickers []string) (*ScanResult, error) {
	startTime := time.Now()

	if len(tickers) == 0 {
		return &ScanResult{Results: []model.ScoreResult{}}, nil
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	jobChan := make(chan string, len(tickers))
	resultChan := make(chan model.ScoreResult, len(tickers))

	for _, ticker := range tickers {
		jobChan <- ticker
	}
	close(jobChan)

	var scannedCount, failedCount int64

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobChan {
				select {
				case <-ctx.Done():
					return
				default:
					result, err := s.scorer.Score(ctx, ticker)
					if err != nil {
						atomic.AddInt64(&failedCount, 1)
						log.Warn().Str("ticker", ticker).Err(err).Msg("scan skipping ticker")
					} else if result.Score >= s.minScore {
						resultChan <- *result
					}

					count := atomic.AddInt64(&scannedCount, 1)
					if s.progressFunc != nil {
						s.progressFunc(int(count), len(tickers))
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]model.ScoreResult, 0, len(tickers))
	for result := range resultChan {
		results = append(results, result)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return &ScanResult{
		TotalScanned: int(atomic.LoadInt64(&scannedCount)),
		Failed:       int(atomic.LoadInt64(&failedCount)),
		Results:      results,
		ScanTime:     time.Since(startTime),
	}, nil
}
