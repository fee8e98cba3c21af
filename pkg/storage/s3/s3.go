package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/williamokano/img_uploader/pkg/logger"
	"github.com/williamokano/img_uploader/pkg/objectkey"
	"github.com/williamokano/img_uploader/pkg/sigv4"
	"github.com/williamokano/img_uploader/pkg/storage"
)

// maxErrorBody caps how much of a rejection body is kept
const maxErrorBody = 64 << 10

// HTTPDoer sends a single request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customizes a Backend
type Option func(*Backend)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(client HTTPDoer) Option {
	return func(b *Backend) { b.client = client }
}

// WithClock replaces time.Now as the source of the signing date
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger sets the logger used for upload diagnostics
func WithLogger(l zerolog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// Backend uploads objects with a single SigV4-signed PUT
type Backend struct {
	name   string
	cfg    Config
	client HTTPDoer
	now    func() time.Time
	logger zerolog.Logger
}

func init() {
	storage.RegisterBackend("s3", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new S3 backend from a destination config. Missing keys are
// looked up in the shared AWS config when a profile is named.
func New(ctx context.Context, cfg storage.Config, opts ...Option) (*Backend, error) {
	// Extract S3 config from options
	s3Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	s3Cfg, err = ResolveCredentials(ctx, s3Cfg)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	return NewBackend(cfg.Name, s3Cfg, opts...)
}

// NewBackend creates a backend from an already decoded config
func NewBackend(name string, cfg Config, opts ...Option) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, storage.WrapError(name, "init", err)
	}
	if cfg.Endpoint != "" {
		if _, err := parseEndpoint(cfg.Endpoint); err != nil {
			return nil, storage.WrapError(name, "init", err)
		}
	}

	b := &Backend{
		name:   name,
		cfg:    cfg,
		client: http.DefaultClient,
		now:    time.Now,
		logger: *logger.Get(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if cfg.Endpoint != "" && cfg.PublicBaseURL == "" && !cfg.PublicURLFromEndpoint {
		b.logger.Warn().
			Str("backend", name).
			Str("endpoint", cfg.Endpoint).
			Msg("custom endpoint without public_base_url, returned URLs will point at AWS")
	}

	return b, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "s3" }

// KeyPrefix returns the prefix new object keys should use
func (b *Backend) KeyPrefix() string { return b.cfg.KeyPrefix() }

// Put signs and sends one PUT for obj and returns its public URL. Each call
// builds a fresh signature, so re-running Put after a failure is safe.
func (b *Backend) Put(ctx context.Context, obj storage.Object) (string, error) {
	target, err := ResolveTarget(b.cfg, obj.Key)
	if err != nil {
		return "", storage.WrapError(b.name, "resolve", err)
	}

	contentType := obj.ContentTypeOrDefault()
	payloadHash := sigv4.HashHex(obj.Data)
	now := b.now()
	amzDate, _ := sigv4.FormatAmzDate(now)

	signed := sigv4.Sign(sigv4.Input{
		Method:       http.MethodPut,
		CanonicalURI: target.CanonicalURI,
		Headers: []sigv4.Header{
			{Name: "content-type", Value: contentType},
			{Name: "host", Value: target.Host},
			{Name: "x-amz-content-sha256", Value: payloadHash},
			{Name: "x-amz-date", Value: amzDate},
		},
		PayloadHash:     payloadHash,
		AccessKeyID:     b.cfg.AccessKeyID,
		SecretAccessKey: b.cfg.SecretAccessKey,
		Region:          b.cfg.Region,
		Service:         sigv4.ServiceS3,
		Time:            now,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target.URL, bytes.NewReader(obj.Data))
	if err != nil {
		return "", storage.WrapError(b.name, "upload", err)
	}
	req.Host = target.Host
	req.ContentLength = int64(len(obj.Data))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Amz-Content-Sha256", payloadHash)
	req.Header.Set("X-Amz-Date", signed.AmzDate)
	req.Header.Set("Authorization", signed.Authorization)

	b.logger.Debug().
		Str("backend", b.name).
		Str("key", obj.Key).
		Str("host", target.Host).
		Str("signed_headers", signed.SignedHeaders).
		Int("size_bytes", len(obj.Data)).
		Msg("sending signed PUT")

	resp, err := b.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", storage.WrapError(b.name, "upload", ctxErr)
		}
		return "", storage.WrapError(b.name, "upload", fmt.Errorf("%w: %w", storage.ErrConnFailed, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		b.logger.Error().
			Str("backend", b.name).
			Str("key", obj.Key).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("s3 rejected upload")
		return "", storage.WrapError(b.name, "upload", &storage.UploadError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		})
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))

	return PublicURL(b.cfg, obj.Key, target), nil
}

// Close is a no-op for S3
func (b *Backend) Close() error {
	return nil
}

// UploadObject validates cfg, generates a key for fileName and uploads data
// in a single PUT. It returns the public URL of the stored object.
func UploadObject(ctx context.Context, cfg Config, data []byte, fileName, contentType string, opts ...Option) (string, error) {
	b, err := NewBackend("s3", cfg, opts...)
	if err != nil {
		return "", err
	}
	defer b.Close()

	return b.Put(ctx, storage.Object{
		Key:         objectkey.New(cfg.KeyPrefix(), fileName),
		Data:        data,
		ContentType: contentType,
	})
}
