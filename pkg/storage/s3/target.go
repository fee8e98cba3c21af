package s3

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/williamokano/img_uploader/pkg/storage"
)

// Target is where a single PUT is sent. Host is exactly what gets signed
// and sent in the Host header; CanonicalURI is the encoded path used both
// in the URL and in the canonical request.
type Target struct {
	Host         string
	URL          string
	CanonicalURI string
}

// ResolveTarget computes the upload target for key. It performs no I/O and
// fails only when the endpoint cannot be parsed.
func ResolveTarget(cfg Config, key string) (Target, error) {
	encoded := EncodeKey(key)

	if cfg.Endpoint == "" {
		host := awsHost(cfg.Bucket, cfg.Region)
		uri := "/" + encoded
		return Target{Host: host, URL: "https://" + host + uri, CanonicalURI: uri}, nil
	}

	endpoint, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return Target{}, err
	}

	// Path-style and virtual-hosted are exclusive: the bucket lives either
	// in the path or in the host, never both
	var host, uri string
	if cfg.PathStyle {
		host = endpoint.Host
		uri = "/" + cfg.Bucket + "/" + encoded
	} else {
		host = cfg.Bucket + "." + endpoint.Host
		uri = "/" + encoded
	}

	// Any path on the endpoint is replaced, not joined
	return Target{
		Host:         host,
		URL:          endpoint.Scheme + "://" + host + uri,
		CanonicalURI: uri,
	}, nil
}

// PublicURL returns the address handed back to the caller after a
// successful upload.
//
// Without a PublicBaseURL this is always the AWS virtual-hosted form, even
// when the object was PUT to a custom endpoint. A MinIO or R2 upload
// therefore returns a URL that may not resolve unless PublicBaseURL is set
// or PublicURLFromEndpoint is enabled, in which case target.URL is used.
// Every branch percent-encodes the key with EncodeKey, so the same key
// yields the same path whichever rule applies.
func PublicURL(cfg Config, key string, target Target) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(cfg.PublicBaseURL, "/") + "/" + EncodeKey(key)
	}

	if cfg.PublicURLFromEndpoint && cfg.Endpoint != "" {
		return target.URL
	}

	return "https://" + awsHost(cfg.Bucket, cfg.Region) + "/" + EncodeKey(key)
}

// EncodeKey percent-encodes every byte outside the RFC 3986 unreserved set
// (A-Z a-z 0-9 - . _ ~), leaving '/' as the path separator
func EncodeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '/' || isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	}
	return false
}

func awsHost(bucket, region string) string {
	return bucket + ".s3." + region + ".amazonaws.com"
}

func parseEndpoint(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", storage.ErrInvalidEndpoint, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w %q: scheme must be http or https", storage.ErrInvalidEndpoint, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w %q: missing host", storage.ErrInvalidEndpoint, raw)
	}
	return u, nil
}
