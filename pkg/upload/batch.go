package upload

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// BatchResult is the outcome of one file in a batch
type BatchResult struct {
	FileName string
	Result   Result
	Err      error
	Duration time.Duration
}

// UploadBatch uploads every request with at most max_concurrent_uploads
// uploads in flight. A failed file does not stop the others. Results come
// back in request order.
func (s *Service) UploadBatch(ctx context.Context, reqs []Request) []BatchResult {
	if len(reqs) == 0 {
		return nil
	}

	maxConcurrent := s.MaxConcurrentUploads()
	s.logger.Info().
		Int("total_files", len(reqs)).
		Int("max_concurrent", maxConcurrent).
		Msg("starting batch upload")

	// Create semaphore for concurrency control
	sem := semaphore.NewWeighted(int64(maxConcurrent))

	// Goroutines never return an error, so one failure leaves the group
	// context intact for the rest
	var g errgroup.Group

	results := make([]BatchResult, len(reqs))
	for i, req := range reqs {
		g.Go(func() error {
			results[i].FileName = req.FileName

			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Err = fmt.Errorf("failed to acquire upload slot: %w", err)
				return nil
			}
			defer sem.Release(1)

			start := time.Now()
			res, err := s.Upload(ctx, req)
			results[i].Result = res
			results[i].Err = err
			results[i].Duration = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	// Log summary
	successCount := 0
	failureCount := 0
	var totalDuration time.Duration
	for _, r := range results {
		if r.Err == nil {
			successCount++
		} else {
			failureCount++
		}
		totalDuration += r.Duration
	}

	s.logger.Info().
		Int("successful", successCount).
		Int("failed", failureCount).
		Dur("total_duration", totalDuration).
		Msg("batch upload completed")

	return results
}
