package memory

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// kvArea is a string key-value area backed by one file per key. It stands in
// for the host environment's local storage: the emulated backend keeps one
// key per (store, table) pair holding a JSON array of rows.
type kvArea struct {
	dir string
}

func newKVArea(dir string) *kvArea {
	return &kvArea{dir: dir}
}

func (kv *kvArea) path(key string) string {
	return filepath.Join(kv.dir, key+".json")
}

// Get reads the value stored under key. The second return is false when the
// key has never been written.
func (kv *kvArea) Get(key string) (string, bool, error) {
	f, err := os.Open(kv.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("opening %s: %w", key, err)
	}
	defer f.Close()

	data, err := io.ReadAll(bufio.NewReader(f))
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value under key atomically using the temp-file, fsync, rename
// pattern so a crash mid-write never leaves a torn value.
func (kv *kvArea) Set(key, value string) error {
	if err := os.MkdirAll(kv.dir, 0o755); err != nil {
		return fmt.Errorf("creating kv dir: %w", err)
	}
	tmp, err := os.CreateTemp(kv.dir, ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, kv.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
