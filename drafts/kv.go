package drafts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// KV is the minimal key-value surface the KVStore persists through. It
// matches the shape of browser local storage so any flat string-keyed
// backend can implement it.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string) error
}

// MemoryKV is an in-process KV, used by tests and as a scratch backend.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string][]byte
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: map[string][]byte{}}
}

func (m *MemoryKV) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, true
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([]byte, len(value))
	copy(copied, value)
	m.entries[key] = copied
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// FileKV persists entries as a single JSON object on disk. Writes go through
// a temp file plus rename so a crashed write never truncates existing data.
// A corrupted or missing file reads as empty.
type FileKV struct {
	mu      sync.Mutex
	path    string
	entries map[string]json.RawMessage
}

// NewFileKV opens (or initializes) a file-backed KV at path.
func NewFileKV(path string) (*FileKV, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, err
	}

	kv := &FileKV{path: abs, entries: map[string]json.RawMessage{}}

	data, err := os.ReadFile(abs)
	if err == nil {
		var entries map[string]json.RawMessage
		if json.Unmarshal(data, &entries) == nil && entries != nil {
			kv.entries = entries
		}
	}
	return kv, nil
}

func (f *FileKV) Get(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.entries[key]
	if !ok {
		return nil, false
	}
	copied := make([]byte, len(value))
	copy(copied, value)
	return copied, true
}

func (f *FileKV) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := make(json.RawMessage, len(value))
	copy(copied, value)
	f.entries[key] = copied
	return f.flushLocked()
}

func (f *FileKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, key)
	return f.flushLocked()
}

func (f *FileKV) flushLocked() error {
	data, err := json.Marshal(f.entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".markpad-kv-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, f.path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
