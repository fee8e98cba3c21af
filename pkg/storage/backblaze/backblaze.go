package backblaze

import (
	"bytes"
	"context"
	"io"
	"path"

	"github.com/kurin/blazer/b2"

	"github.com/williamokano/img_uploader/pkg/storage"
)

type Backend struct {
	name          string
	bucket        objectWriter
	prefix        string
	publicBaseURL string
}

// objectWriter stores one named object and returns its download URL
type objectWriter interface {
	write(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// bucketWriter writes objects into a B2 bucket
type bucketWriter struct {
	bucket *b2.Bucket
}

func (w bucketWriter) write(ctx context.Context, name, contentType string, data []byte) (string, error) {
	o := w.bucket.Object(name)
	writer := o.NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{
		ContentType: contentType,
	}))

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		writer.Close()
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}
	return o.URL(), nil
}

func init() {
	storage.RegisterBackend("backblaze", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new Backblaze B2 backend
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	b2Cfg, err := parseConfig(cfg.Options)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Create B2 client
	client, err := b2.NewClient(ctx, b2Cfg.AccountID, b2Cfg.ApplicationKey)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", storage.ErrAuthFailed)
	}

	// Get bucket
	bucket, err := client.Bucket(ctx, b2Cfg.BucketName)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "get bucket", err)
	}

	return newBackend(cfg.Name, b2Cfg, bucketWriter{bucket: bucket}), nil
}

func newBackend(name string, cfg *Config, bucket objectWriter) *Backend {
	return &Backend{
		name:          name,
		bucket:        bucket,
		prefix:        cfg.Prefix,
		publicBaseURL: cfg.PublicBaseURL,
	}
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "backblaze" }

// Put uploads the object to B2 with its content type and returns the
// friendly download URL, or the public base URL when one is configured
func (b *Backend) Put(ctx context.Context, obj storage.Object) (string, error) {
	key := objectName(b.prefix, obj.Key)

	url, err := b.bucket.write(ctx, key, obj.ContentTypeOrDefault(), obj.Data)
	if err != nil {
		return "", storage.WrapError(b.name, "upload", err)
	}

	if b.publicBaseURL != "" {
		return b.publicBaseURL + "/" + key, nil
	}
	return url, nil
}

// Close releases resources
func (b *Backend) Close() error {
	return nil
}

func objectName(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}
