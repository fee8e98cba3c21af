package objectkey_test

import (
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/img_uploader/pkg/objectkey"
)

var safeSegment = regexp.MustCompile(`^[A-Za-z0-9._-]*$`)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "photo.png", "photo.png"},
		{"keeps_underscore_and_dash", "my_photo-1.png", "my_photo-1.png"},
		{"spaces", "my photo.png", "my-photo.png"},
		{"forward_slash", "../../etc/passwd", "..-..-etc-passwd"},
		{"backslash", `C:\Users\me\a.png`, "C--Users-me-a.png"},
		{"control_chars", "a\x00b\nc\td.png", "a-b-c-d.png"},
		{"unicode_is_one_dash_per_rune", "café.png", "caf-.png"},
		{"emoji", "😀.gif", "-.gif"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := objectkey.Sanitize(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, safeSegment, got)
		})
	}
}

func TestGenerate(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	t.Run("default_prefix", func(t *testing.T) {
		key := objectkey.Generate(objectkey.DefaultPrefix, now, id, "my photo.png")
		assert.Equal(t, "uploads/1705314600000-0f8fad5b-d9cb-469f-a165-70867728950e-my-photo.png", key)
	})

	t.Run("prefix_slashes_trimmed", func(t *testing.T) {
		key := objectkey.Generate("/blog/images/", now, id, "a.png")
		assert.True(t, strings.HasPrefix(key, "blog/images/1705314600000-"), key)
	})

	t.Run("no_prefix", func(t *testing.T) {
		key := objectkey.Generate("", now, id, "a.png")
		assert.Equal(t, "1705314600000-0f8fad5b-d9cb-469f-a165-70867728950e-a.png", key)
	})

	t.Run("empty_name_falls_back", func(t *testing.T) {
		key := objectkey.Generate(objectkey.DefaultPrefix, now, id, "")
		assert.True(t, strings.HasSuffix(key, "-file"), key)
	})

	t.Run("hostile_name_stays_in_prefix", func(t *testing.T) {
		key := objectkey.Generate(objectkey.DefaultPrefix, now, id, "../../../secret")
		assert.Equal(t, 1, strings.Count(key, "/"))
		base := key[strings.LastIndex(key, "/")+1:]
		assert.Regexp(t, safeSegment, base)
	})
}

func TestNew_Unique(t *testing.T) {
	const workers = 64

	var (
		mu   sync.Mutex
		wg   sync.WaitGroup
		keys = make(map[string]struct{}, workers)
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := objectkey.New(objectkey.DefaultPrefix, "same.png")
			mu.Lock()
			keys[key] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, keys, workers)
}

func TestParse(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")

	t.Run("round_trip", func(t *testing.T) {
		key := objectkey.Generate(objectkey.DefaultPrefix, now, id, "my-photo.png")

		components, err := objectkey.Parse(key)
		require.NoError(t, err)
		assert.Equal(t, "uploads", components.Prefix)
		assert.True(t, now.Equal(components.Timestamp))
		assert.Equal(t, id, components.ID)
		assert.Equal(t, "my-photo.png", components.Name)
	})

	t.Run("nested_prefix", func(t *testing.T) {
		key := objectkey.Generate("a/b", now, id, "x.png")
		components, err := objectkey.Parse(key)
		require.NoError(t, err)
		assert.Equal(t, "a/b", components.Prefix)
	})

	t.Run("invalid_keys", func(t *testing.T) {
		for _, key := range []string{
			"uploads/x.png",
			"uploads/abc-0f8fad5b-d9cb-469f-a165-70867728950e-x.png",
			"uploads/1705314600000-not-a-uuid",
			"uploads/1705314600000-zzzzzzzz-d9cb-469f-a165-70867728950e-x.png",
		} {
			_, err := objectkey.Parse(key)
			assert.Error(t, err, key)
		}
	})
}
