package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	"tunestatus"
)

// CacheFile stores the cache record as one JSON file. Corrupt or missing
// content is never fatal: Load falls back to a fresh record so a bad file can
// only cost history, not a run.
type CacheFile struct {
	path string
}

func NewCacheFile(path string) *CacheFile {
	return &CacheFile{path: path}
}

// Load reads the cache record. Unknown fields in the file are tolerated.
func (c *CacheFile) Load(_ context.Context) (tunestatus.CacheRecord, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return tunestatus.CacheRecord{}, nil
		}
		// Unreadable file gets the same fresh-record treatment as a corrupt
		// one; the caller may log the error but must not abort the run.
		return tunestatus.CacheRecord{}, fmt.Errorf("read cache %q: %w", c.path, err)
	}

	var rec tunestatus.CacheRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return tunestatus.CacheRecord{}, fmt.Errorf("parse cache %q: %w", c.path, err)
	}
	return rec, nil
}

// Save writes the record atomically (temp file + rename) and stamps
// UpdatedAt.
func (c *CacheFile) Save(_ context.Context, rec tunestatus.CacheRecord) error {
	rec.UpdatedAt = time.Now().Unix()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".tunestatus-cache-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace cache %q: %w", c.path, err)
	}
	return nil
}
