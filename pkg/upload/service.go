package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/williamokano/img_uploader/pkg/config"
	"github.com/williamokano/img_uploader/pkg/history"
	"github.com/williamokano/img_uploader/pkg/objectkey"
	"github.com/williamokano/img_uploader/pkg/storage"

	// Import backends to register them
	_ "github.com/williamokano/img_uploader/pkg/storage/backblaze"
	_ "github.com/williamokano/img_uploader/pkg/storage/local"
	_ "github.com/williamokano/img_uploader/pkg/storage/s3"
	_ "github.com/williamokano/img_uploader/pkg/storage/ssh"
)

// ConfigLoader returns the configuration to use for one upload.
// *config.Source satisfies it.
type ConfigLoader interface {
	Load() (*config.Config, error)
}

// LoaderFunc adapts a function to ConfigLoader
type LoaderFunc func() (*config.Config, error)

func (f LoaderFunc) Load() (*config.Config, error) { return f() }

// BackendFactory creates the backends for a list of destinations.
// *storage.Factory satisfies it.
type BackendFactory interface {
	CreateAll(ctx context.Context, configs []storage.Config) ([]storage.Backend, error)
}

// KeyPrefixer is implemented by backends that choose their own key prefix
type KeyPrefixer interface {
	KeyPrefix() string
}

// Request is a single file to upload
type Request struct {
	Data        []byte
	FileName    string
	ContentType string
}

// Result describes a finished upload. URL is the primary destination's
// public URL; Backends holds one result per destination in config order.
type Result struct {
	Key      string
	URL      string
	Backends []storage.Result
}

// Option customizes a Service
type Option func(*Service)

// WithFactory replaces the default backend factory
func WithFactory(f BackendFactory) Option {
	return func(s *Service) { s.factory = f }
}

// WithHistory records successful uploads in r
func WithHistory(r history.Recorder) Option {
	return func(s *Service) { s.history = r }
}

// WithClock replaces time.Now for key generation and history timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces uuid.New for key generation
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

// Service uploads files to the configured destinations
type Service struct {
	loader  ConfigLoader
	factory BackendFactory
	history history.Recorder
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewService creates a service that loads its configuration from loader on
// every upload
func NewService(loader ConfigLoader, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		loader:  loader,
		factory: storage.NewFactory(),
		history: history.Nop{},
		logger:  logger,
		now:     time.Now,
		newID:   uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload stores req under a freshly generated key on the primary
// destination, then on every mirror in parallel, and returns the primary
// destination's URL. Mirrors are skipped when the primary fails. Mirror
// failures are logged and reported in Result.Backends but do not fail the
// upload.
func (s *Service) Upload(ctx context.Context, req Request) (Result, error) {
	cfg, err := s.loader.Load()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", storage.ErrInvalidConfig, err)
	}

	backends, err := s.factory.CreateAll(ctx, cfg.EnabledDestinations())
	if err != nil {
		return Result{}, err
	}
	defer storage.CloseAll(backends)
	if len(backends) == 0 {
		return Result{}, fmt.Errorf("%w: no enabled storage destinations", storage.ErrInvalidConfig)
	}

	primary := backends[0]
	prefix := objectkey.DefaultPrefix
	if p, ok := primary.(KeyPrefixer); ok {
		prefix = p.KeyPrefix()
	}

	now := s.now()
	obj := storage.Object{
		Key:         objectkey.Generate(prefix, now, s.newID(), req.FileName),
		Data:        req.Data,
		ContentType: req.ContentType,
	}

	log := s.logger.With().
		Str("key", obj.Key).
		Str("file_name", req.FileName).
		Logger()

	// The primary goes first; mirrors only receive objects the primary
	// accepted, so a rejected upload leaves nothing behind on any
	// destination.
	uploader := storage.NewMultiUploader(log, cfg.GetRetryConfig())
	results := uploader.Upload(ctx, backends[:1], obj)

	result := Result{Key: obj.Key, Backends: results}
	if !results[0].Success {
		return result, results[0].Error
	}

	if len(backends) > 1 {
		mirrors := uploader.Upload(ctx, backends[1:], obj)
		for _, r := range mirrors {
			if !r.Success {
				log.Warn().Err(r.Error).Str("backend", r.BackendName).Msg("mirror upload failed")
			}
		}
		results = append(results, mirrors...)
		result.Backends = results
	}
	result.URL = results[0].URL

	entry := history.Entry{
		Key:         obj.Key,
		URL:         result.URL,
		Backend:     results[0].BackendName,
		FileName:    req.FileName,
		ContentType: obj.ContentTypeOrDefault(),
		Size:        int64(len(req.Data)),
		CreatedAt:   now,
	}
	if err := s.history.Record(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to record upload history")
	}

	log.Info().
		Str("url", result.URL).
		Int("destinations", len(results)).
		Msg("image uploaded")

	return result, nil
}

// MaxConcurrentUploads returns the configured batch concurrency
func (s *Service) MaxConcurrentUploads() int {
	cfg, err := s.loader.Load()
	if err != nil {
		return config.DefaultMaxConcurrentUploads
	}
	return cfg.GetMaxConcurrentUploads()
}
