package storage

import (
	"context"
	"time"
)

// Backend represents a destination that stores uploaded objects and can tell
// where they are publicly reachable
type Backend interface {
	// Name returns a human-readable name for this backend (e.g., "env_s3", "cdn_mirror")
	Name() string

	// Type returns the backend type (s3, local, backblaze, ssh)
	Type() string

	// Put stores the object under obj.Key and returns its public URL.
	// A failed Put leaves nothing behind that the caller needs to clean up.
	Put(ctx context.Context, obj Object) (string, error)

	// Close releases resources (connections, sessions)
	Close() error
}

// Object is a single binary payload ready to be stored
type Object struct {
	Key         string // Object key (e.g., "uploads/1705314600000-<uuid>-photo.png")
	Data        []byte // Raw bytes, sent as-is
	ContentType string // MIME type; empty means application/octet-stream
}

// DefaultContentType is used when an upload carries no MIME type
const DefaultContentType = "application/octet-stream"

// ContentTypeOrDefault returns the object's content type or the default
func (o Object) ContentTypeOrDefault() string {
	if o.ContentType == "" {
		return DefaultContentType
	}
	return o.ContentType
}

// Config represents storage backend configuration
type Config struct {
	Name    string                 `json:"name"`     // User-friendly name (e.g., "s3_primary")
	Type    string                 `json:"type"`     // Backend type: s3, local, backblaze, ssh
	Enabled bool                   `json:"enabled"`  // Whether this backend is active
	BaseDir string                 `json:"base_dir"` // Base directory/prefix for objects
	Options map[string]interface{} `json:"options"`  // Backend-specific options
}

// Result represents outcome of a storage operation
type Result struct {
	BackendName string
	BackendType string
	URL         string
	Success     bool
	Error       error
	Duration    time.Duration
}
