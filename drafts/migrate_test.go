package drafts

import (
	"testing"
	"time"

	"github.com/goliatone/go-markpad/internal/runtimeconfig"
)

func TestMigrateKV(t *testing.T) {
	kv := NewMemoryKV()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	src := NewKVStore(kv, runtimeconfig.DefaultConfig().Storage, WithClock(func() time.Time {
		current = current.Add(time.Minute)
		return current
	}))

	first, err := src.Save("alpha", strptr("a.md"), "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	second, err := src.Save("beta", nil, "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	dst := newBunTestStore(t)

	migrated, err := MigrateKV(src, dst)
	if err != nil {
		t.Fatalf("MigrateKV: %v", err)
	}
	if migrated != 2 {
		t.Fatalf("expected two migrated drafts, got %d", migrated)
	}

	got, err := dst.Load(first)
	if err != nil {
		t.Fatalf("Load migrated: %v", err)
	}
	if got.Content != "alpha" || got.FileName == nil || *got.FileName != "a.md" {
		t.Fatalf("migrated draft mismatch: %#v", got)
	}
	srcDraft, err := src.Load(first)
	if err != nil {
		t.Fatalf("Load source: %v", err)
	}
	if !got.LastModified.Equal(srcDraft.LastModified) {
		t.Fatalf("expected timestamps preserved: %v vs %v", got.LastModified, srcDraft.LastModified)
	}

	if _, err := dst.Load(second); err != nil {
		t.Fatalf("Load second migrated draft: %v", err)
	}
	if _, err := dst.LoadLast(); err != nil {
		t.Fatalf("expected current pointer migrated, got %v", err)
	}
}
