package drafts

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// currentPointerName is the single row naming the open draft.
const currentPointerName = "current"

type draftPointer struct {
	bun.BaseModel `bun:"table:draft_pointers,alias:dp"`

	Name    string `bun:"name,pk"`
	DraftID string `bun:"draft_id,notnull"`
}

// BunStore keeps drafts in sqlite through bun. It satisfies the same
// fail-soft Store contract as KVStore so hosts can switch backends without
// touching callers.
type BunStore struct {
	db     *bun.DB
	now    func() time.Time
	logger interfaces.Logger
}

// BunStoreOption customizes store construction.
type BunStoreOption func(*BunStore)

// WithBunClock overrides the timestamp source, used by tests.
func WithBunClock(now func() time.Time) BunStoreOption {
	return func(s *BunStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBunLogger attaches a module logger to the store.
func WithBunLogger(logger interfaces.Logger) BunStoreOption {
	return func(s *BunStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// OpenSQLite opens a bun handle over the sqlite driver.
func OpenSQLite(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// NewBunStore builds a sqlite-backed draft store, creating tables when absent.
func NewBunStore(db *bun.DB, opts ...BunStoreOption) (*BunStore, error) {
	s := &BunStore{
		db:     db,
		now:    time.Now,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*Draft)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, wrapWriteError(err)
	}
	if _, err := db.NewCreateTable().Model((*draftPointer)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, wrapWriteError(err)
	}
	return s, nil
}

var _ Store = (*BunStore)(nil)

func (s *BunStore) Save(content string, fileName *string, existingID string) (string, error) {
	ctx := context.Background()

	var name *string
	if fileName != nil {
		trimmed := strings.TrimSpace(*fileName)
		if trimmed != "" {
			name = &trimmed
		}
	}

	id := existingID
	exists := false
	if id != "" {
		if _, err := s.get(ctx, id); err == nil {
			exists = true
		}
	}
	if !exists {
		id = s.mintUnique(ctx, name)
	}

	draft := &Draft{
		ID:           id,
		Content:      content,
		LastModified: s.now().UTC(),
		FileName:     name,
	}

	var err error
	if exists {
		_, err = s.db.NewUpdate().Model(draft).WherePK().Exec(ctx)
	} else {
		_, err = s.db.NewInsert().Model(draft).Exec(ctx)
	}
	if err != nil {
		s.logger.Warn("draft save failed", "draft_id", id, "error", err)
		return "", wrapWriteError(err)
	}

	if err := s.SetCurrentID(id); err != nil {
		s.logger.Warn("current pointer update failed", "draft_id", id, "error", err)
	}
	return id, nil
}

func (s *BunStore) Load(id string) (*Draft, error) {
	ctx := context.Background()
	draft, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.SetCurrentID(id); err != nil {
		s.logger.Warn("current pointer update failed", "draft_id", id, "error", err)
	}
	return draft, nil
}

func (s *BunStore) LoadLast() (*Draft, error) {
	id, ok := s.CurrentID()
	if !ok {
		return nil, ErrNoCurrent
	}
	draft, err := s.get(context.Background(), id)
	if err != nil {
		return nil, ErrNoCurrent
	}
	return draft, nil
}

func (s *BunStore) List() []*Draft {
	ctx := context.Background()
	var all []*Draft
	if err := s.db.NewSelect().Model(&all).Scan(ctx); err != nil {
		s.logger.Warn("draft list failed", "error", err)
		return []*Draft{}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].LastModified.Equal(all[j].LastModified) {
			return all[i].ID < all[j].ID
		}
		return all[i].LastModified.After(all[j].LastModified)
	})
	return all
}

func (s *BunStore) Delete(id string) bool {
	ctx := context.Background()
	res, err := s.db.NewDelete().Model((*Draft)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		s.logger.Warn("draft delete failed", "draft_id", id, "error", err)
		return false
	}
	affected, err := res.RowsAffected()
	if err != nil || affected == 0 {
		return false
	}
	if current, ok := s.currentPointer(ctx); ok && current == id {
		s.ClearCurrentID()
	}
	return true
}

func (s *BunStore) CurrentID() (string, bool) {
	ctx := context.Background()
	id, ok := s.currentPointer(ctx)
	if !ok {
		return "", false
	}
	if _, err := s.get(ctx, id); err != nil {
		return "", false
	}
	return id, true
}

func (s *BunStore) SetCurrentID(id string) error {
	ctx := context.Background()
	pointer := &draftPointer{Name: currentPointerName, DraftID: id}
	_, err := s.db.NewInsert().
		Model(pointer).
		On("CONFLICT (name) DO UPDATE").
		Set("draft_id = EXCLUDED.draft_id").
		Exec(ctx)
	return wrapWriteError(err)
}

func (s *BunStore) ClearCurrentID() {
	ctx := context.Background()
	if _, err := s.db.NewDelete().
		Model((*draftPointer)(nil)).
		Where("name = ?", currentPointerName).
		Exec(ctx); err != nil {
		s.logger.Warn("current pointer clear failed", "error", err)
	}
}

// restore inserts a draft verbatim, preserving id and timestamp. Used by the
// key-value migration path.
func (s *BunStore) restore(draft *Draft) error {
	ctx := context.Background()
	_, err := s.db.NewInsert().
		Model(draft).
		On("CONFLICT (id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("last_modified = EXCLUDED.last_modified").
		Set("file_name = EXCLUDED.file_name").
		Exec(ctx)
	return wrapWriteError(err)
}

func (s *BunStore) get(ctx context.Context, id string) (*Draft, error) {
	draft := new(Draft)
	err := s.db.NewSelect().Model(draft).Where("d.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapReadError(err)
	}
	return draft, nil
}

func (s *BunStore) currentPointer(ctx context.Context) (string, bool) {
	pointer := new(draftPointer)
	err := s.db.NewSelect().Model(pointer).Where("dp.name = ?", currentPointerName).Scan(ctx)
	if err != nil {
		return "", false
	}
	return pointer.DraftID, pointer.DraftID != ""
}

func (s *BunStore) mintUnique(ctx context.Context, fileName *string) string {
	now := s.now()
	for {
		id := MintID(fileName, now)
		if _, err := s.get(ctx, id); errors.Is(err, ErrNotFound) {
			return id
		}
		now = now.Add(time.Millisecond)
	}
}
