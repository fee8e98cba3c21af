package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MultiUploader handles uploading to multiple backends in parallel
type MultiUploader struct {
	logger zerolog.Logger
	retry  RetryConfig
}

// NewMultiUploader creates a new multi-uploader
func NewMultiUploader(logger zerolog.Logger, retry RetryConfig) *MultiUploader {
	return &MultiUploader{logger: logger, retry: retry}
}

// Upload puts the object to every backend concurrently. Results come back
// in the same order as backends, so results[0] belongs to the primary.
func (m *MultiUploader) Upload(ctx context.Context, backends []Backend, obj Object) []Result {
	var wg sync.WaitGroup
	results := make([]Result, len(backends))

	// Upload to each backend in parallel
	for i, backend := range backends {
		wg.Add(1)

		go func(i int, b Backend) {
			defer wg.Done()

			start := time.Now()

			m.logger.Debug().
				Str("backend", b.Name()).
				Str("type", b.Type()).
				Str("key", obj.Key).
				Int("size_bytes", len(obj.Data)).
				Msg("starting upload")

			var url string
			err := WithRetry(ctx, m.retry, func() error {
				var putErr error
				url, putErr = b.Put(ctx, obj)
				return putErr
			})
			duration := time.Since(start)

			result := Result{
				BackendName: b.Name(),
				BackendType: b.Type(),
				Success:     err == nil,
				Error:       err,
				Duration:    duration,
			}
			if err == nil {
				result.URL = url
			}

			if err != nil {
				m.logger.Error().
					Err(err).
					Str("backend", b.Name()).
					Str("key", obj.Key).
					Dur("duration", duration).
					Msg("upload failed")
			} else {
				m.logger.Info().
					Str("backend", b.Name()).
					Str("key", obj.Key).
					Dur("duration", duration).
					Msg("upload succeeded")
			}

			results[i] = result
		}(i, backend)
	}

	wg.Wait()

	return results
}
