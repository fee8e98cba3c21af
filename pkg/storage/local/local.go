package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/williamokano/img_uploader/pkg/storage"
)

type Backend struct {
	name          string
	basePath      string
	publicBaseURL string
}

func init() {
	storage.RegisterBackend("local", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg)
	})
}

// New creates a new local filesystem backend
func New(cfg storage.Config) (*Backend, error) {
	// Extract path from options
	path := cfg.BaseDir
	if pathVal, ok := cfg.Options["path"]; ok {
		p, ok := pathVal.(string)
		if !ok {
			return nil, fmt.Errorf("%w: path must be a string", storage.ErrInvalidConfig)
		}
		if p != "" {
			path = p
		}
	}
	if path == "" {
		return nil, storage.MissingOptionError("path")
	}

	var publicBaseURL string
	if v, ok := cfg.Options["public_base_url"].(string); ok {
		publicBaseURL = strings.TrimSuffix(v, "/")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, storage.WrapError(cfg.Name, "init", fmt.Errorf("failed to create directory: %w", err))
	}

	return &Backend{
		name:          cfg.Name,
		basePath:      abs,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "local" }

// Put writes the object under the base path. The data lands in a temporary
// file first and is renamed into place, so readers never see a partial
// object.
func (b *Backend) Put(ctx context.Context, obj storage.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storage.WrapError(b.name, "write", err)
	}

	destFullPath, err := b.resolve(obj.Key)
	if err != nil {
		return "", storage.WrapError(b.name, "write", err)
	}

	// Ensure destination directory exists
	destDir := filepath.Dir(destFullPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", storage.WrapError(b.name, "write", err)
	}

	tmp, err := os.CreateTemp(destDir, ".upload-*")
	if err != nil {
		return "", storage.WrapError(b.name, "write", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(obj.Data); err != nil {
		tmp.Close()
		os.Remove(tmpPath) // Clean up partial file
		return "", storage.WrapError(b.name, "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", storage.WrapError(b.name, "write", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return "", storage.WrapError(b.name, "write", err)
	}
	if err := os.Rename(tmpPath, destFullPath); err != nil {
		os.Remove(tmpPath)
		return "", storage.WrapError(b.name, "write", err)
	}

	return b.publicURL(obj.Key, destFullPath), nil
}

// Close is a no-op for local backend
func (b *Backend) Close() error {
	return nil
}

// resolve maps a key to a path that is guaranteed to stay under basePath
func (b *Backend) resolve(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty object key", storage.ErrInvalidConfig)
	}
	full := filepath.Join(b.basePath, filepath.FromSlash(key))
	rel, err := filepath.Rel(b.basePath, full)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: object key %q escapes base path", storage.ErrPermissionDenied, key)
	}
	return full, nil
}

func (b *Backend) publicURL(key, fullPath string) string {
	if b.publicBaseURL != "" {
		return b.publicBaseURL + "/" + key
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(fullPath)}).String()
}
