package objectkey

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultPrefix is the directory every uploaded object lands in
	DefaultPrefix = "uploads"

	// Separator joins the timestamp, UUID and file name segments
	Separator = "-"

	// Replacement stands in for every character outside the safe set
	Replacement = '-'

	// fallbackName is used when the caller supplies no file name at all
	fallbackName = "file"

	uuidLength = 36
)

// Components represents the parsed segments of an object key
type Components struct {
	Prefix    string
	Timestamp time.Time
	ID        uuid.UUID
	Name      string
}

// New generates a key for fileName under prefix using the current time and
// a random UUID
func New(prefix, fileName string) string {
	return Generate(prefix, time.Now(), uuid.New(), fileName)
}

// Generate builds <prefix>/<epoch-millis>-<uuid>-<sanitized-name>.
// Timestamp plus UUID keeps concurrent uploads from ever sharing a key.
func Generate(prefix string, now time.Time, id uuid.UUID, fileName string) string {
	name := Sanitize(fileName)
	if name == "" {
		name = fallbackName
	}

	base := strconv.FormatInt(now.UnixMilli(), 10) + Separator + id.String() + Separator + name

	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return base
	}
	return prefix + "/" + base
}

// Sanitize replaces every rune outside [A-Za-z0-9._-] with '-'
func Sanitize(fileName string) string {
	var b strings.Builder
	b.Grow(len(fileName))
	for _, r := range fileName {
		if isSafe(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(Replacement)
	}
	return b.String()
}

func isSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '_' || r == '-':
		return true
	}
	return false
}

// Parse splits a key produced by Generate back into its components
func Parse(key string) (Components, error) {
	prefix := ""
	base := key
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		prefix = key[:idx]
		base = key[idx+1:]
	}

	sep := strings.Index(base, Separator)
	if sep <= 0 {
		return Components{}, fmt.Errorf("invalid object key %q: missing timestamp segment", key)
	}

	millis, err := strconv.ParseInt(base[:sep], 10, 64)
	if err != nil {
		return Components{}, fmt.Errorf("invalid object key %q: failed to parse timestamp: %w", key, err)
	}

	rest := base[sep+1:]
	if len(rest) < uuidLength+1 || rest[uuidLength:uuidLength+1] != Separator {
		return Components{}, fmt.Errorf("invalid object key %q: missing uuid segment", key)
	}

	id, err := uuid.Parse(rest[:uuidLength])
	if err != nil {
		return Components{}, fmt.Errorf("invalid object key %q: %w", key, err)
	}

	return Components{
		Prefix:    prefix,
		Timestamp: time.UnixMilli(millis).UTC(),
		ID:        id,
		Name:      rest[uuidLength+1:],
	}, nil
}
