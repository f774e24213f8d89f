package drafts

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// KVStore keeps every draft inside one JSON mapping entry plus one entry for
// the current-draft pointer, the layout browser-local storage used. It fails
// soft end to end: a corrupted mapping reads as empty, write failures
// propagate as errors without corrupting previously stored data.
type KVStore struct {
	kv         KV
	draftsKey  string
	currentKey string
	now        func() time.Time
	logger     interfaces.Logger
}

// StoreOption customizes store construction.
type StoreOption func(*KVStore)

// WithClock overrides the timestamp source, used by tests.
func WithClock(now func() time.Time) StoreOption {
	return func(s *KVStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStoreLogger attaches a module logger to the store.
func WithStoreLogger(logger interfaces.Logger) StoreOption {
	return func(s *KVStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewKVStore builds a draft store over the supplied KV backend.
func NewKVStore(kv KV, cfg runtimeconfig.StorageConfig, opts ...StoreOption) *KVStore {
	s := &KVStore{
		kv:         kv,
		draftsKey:  cfg.DraftsKey,
		currentKey: cfg.CurrentKey,
		now:        time.Now,
		logger:     logging.NoOp(),
	}
	if strings.TrimSpace(s.draftsKey) == "" {
		s.draftsKey = "drafts"
	}
	if strings.TrimSpace(s.currentKey) == "" {
		s.currentKey = "current_draft_id"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*KVStore)(nil)

// Save persists content under existingID when that id is known, otherwise
// under a freshly minted id. The saved draft becomes current. A non-nil
// error means nothing was saved.
func (s *KVStore) Save(content string, fileName *string, existingID string) (string, error) {
	all := s.readAll()

	id := existingID
	if _, ok := all[id]; id == "" || !ok {
		id = s.mintUnique(fileName, all)
	}

	var name *string
	if fileName != nil {
		trimmed := strings.TrimSpace(*fileName)
		if trimmed != "" {
			name = &trimmed
		}
	}

	all[id] = &Draft{
		ID:           id,
		Content:      content,
		LastModified: s.now().UTC(),
		FileName:     name,
	}

	if err := s.writeAll(all); err != nil {
		s.logger.Warn("draft save failed", "draft_id", id, "error", err)
		return "", wrapWriteError(err)
	}
	if err := s.SetCurrentID(id); err != nil {
		s.logger.Warn("current pointer update failed", "draft_id", id, "error", err)
	}
	return id, nil
}

// Load returns the draft for id and makes it current; ErrNotFound when the
// id is unknown.
func (s *KVStore) Load(id string) (*Draft, error) {
	all := s.readAll()
	draft, ok := all[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.SetCurrentID(id); err != nil {
		s.logger.Warn("current pointer update failed", "draft_id", id, "error", err)
	}
	return draft.Clone(), nil
}

// LoadLast resolves the current-draft pointer. A missing or dangling pointer
// reports ErrNoCurrent.
func (s *KVStore) LoadLast() (*Draft, error) {
	id, ok := s.CurrentID()
	if !ok {
		return nil, ErrNoCurrent
	}
	all := s.readAll()
	draft, ok := all[id]
	if !ok {
		return nil, ErrNoCurrent
	}
	return draft.Clone(), nil
}

// List returns every draft ordered by last modification, newest first.
func (s *KVStore) List() []*Draft {
	all := s.readAll()
	out := make([]*Draft, 0, len(all))
	for _, draft := range all {
		out = append(out, draft.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastModified.Equal(out[j].LastModified) {
			return out[i].ID < out[j].ID
		}
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out
}

// Delete removes a draft; false when the id is unknown. Deleting the current
// draft clears the pointer.
func (s *KVStore) Delete(id string) bool {
	all := s.readAll()
	if _, ok := all[id]; !ok {
		return false
	}
	delete(all, id)
	if err := s.writeAll(all); err != nil {
		s.logger.Warn("draft delete failed", "draft_id", id, "error", err)
		return false
	}
	if current, ok := s.CurrentID(); ok && current == id {
		s.ClearCurrentID()
	}
	return true
}

// CurrentID returns the current-draft pointer. A pointer referencing a
// missing draft is treated as absent.
func (s *KVStore) CurrentID() (string, bool) {
	raw, ok := s.kv.Get(s.currentKey)
	if !ok {
		return "", false
	}
	id := decodeCurrent(raw)
	if id == "" {
		return "", false
	}
	if _, exists := s.readAll()[id]; !exists {
		return "", false
	}
	return id, true
}

// SetCurrentID points the store at id.
func (s *KVStore) SetCurrentID(id string) error {
	encoded, err := json.Marshal(id)
	if err != nil {
		return wrapWriteError(err)
	}
	return wrapWriteError(s.kv.Set(s.currentKey, encoded))
}

// ClearCurrentID unsets the pointer; best effort.
func (s *KVStore) ClearCurrentID() {
	if err := s.kv.Delete(s.currentKey); err != nil {
		s.logger.Warn("current pointer clear failed", "error", err)
	}
}

func (s *KVStore) mintUnique(fileName *string, all map[string]*Draft) string {
	now := s.now()
	for {
		id := MintID(fileName, now)
		if _, taken := all[id]; !taken {
			return id
		}
		now = now.Add(time.Millisecond)
	}
}

func (s *KVStore) readAll() map[string]*Draft {
	raw, ok := s.kv.Get(s.draftsKey)
	if !ok {
		return map[string]*Draft{}
	}
	var all map[string]*Draft
	if err := json.Unmarshal(raw, &all); err != nil || all == nil {
		// Corrupted payloads read as empty; the next save rewrites them.
		s.logger.Warn("stored drafts unreadable, treating as empty", "error", err)
		return map[string]*Draft{}
	}
	return all
}

func (s *KVStore) writeAll(all map[string]*Draft) error {
	data, err := json.Marshal(all)
	if err != nil {
		return err
	}
	return s.kv.Set(s.draftsKey, data)
}

// decodeCurrent accepts both the JSON-encoded pointer this store writes and
// the bare string older layouts persisted.
func decodeCurrent(raw []byte) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	return strings.TrimSpace(string(raw))
}
