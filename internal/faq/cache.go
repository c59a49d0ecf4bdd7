package faq

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// CacheFileName is the embedding cache file created under the cache
// directory. Exported so the index command can drop it to force a rebuild.
const CacheFileName = "faq_embeddings.json"

// ErrCacheInvalid indicates the cache file exists but failed validation and
// must be rebuilt.
var ErrCacheInvalid = errors.New("embedding cache invalid")

// cacheFile is the on-disk cache layout. Questions and answers are raw
// (unnormalized) embedding matrices aligned with Metadata.
type cacheFile struct {
	Questions [][]float32 `json:"questions"`
	Answers   [][]float32 `json:"answers"`
	Metadata  []FAQ       `json:"metadata"`
}

// loadCache reads and validates the embedding cache against the current
// corpus. Any structural problem (unreadable file, corrupt JSON, missing
// keys, length mismatch, corpus size drift) returns ErrCacheInvalid so the
// caller rebuilds.
func loadCache(path string, corpusSize int) (*cacheFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: cache file missing", ErrCacheInvalid)
		}
		return nil, fmt.Errorf("%w: reading cache: %v", ErrCacheInvalid, err)
	}

	// Decode into a raw map first so a file missing required keys is
	// distinguishable from one holding empty arrays.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: corrupt JSON: %v", ErrCacheInvalid, err)
	}
	for _, key := range []string{"questions", "answers", "metadata"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q", ErrCacheInvalid, key)
		}
	}

	var c cacheFile
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: corrupt JSON: %v", ErrCacheInvalid, err)
	}

	if len(c.Questions) != len(c.Answers) || len(c.Questions) != len(c.Metadata) {
		return nil, fmt.Errorf("%w: length mismatch (Q:%d, A:%d, M:%d)",
			ErrCacheInvalid, len(c.Questions), len(c.Answers), len(c.Metadata))
	}
	if len(c.Metadata) != corpusSize {
		return nil, fmt.Errorf("%w: corpus size mismatch (cache:%d, current:%d)",
			ErrCacheInvalid, len(c.Metadata), corpusSize)
	}

	return &c, nil
}

// saveCache writes the embedding cache atomically (temp file + rename) while
// holding an advisory file lock, so concurrent processes don't interleave
// rebuilds.
func saveCache(path string, c *cacheFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquiring cache lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("writing cache: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("committing cache: %w", err)
	}
	return nil
}
