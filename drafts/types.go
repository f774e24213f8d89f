package drafts

import (
	"strings"
	"time"

	slug "github.com/goliatone/go-slug"
	"github.com/uptrace/bun"
)

// Draft is a persisted, uniquely-identified document snapshot. The JSON shape
// matches the key-value storage layout (lastModified as ISO-8601, fileName
// null when the draft was never named) so stored payloads stay portable
// across implementations.
type Draft struct {
	bun.BaseModel `bun:"table:drafts,alias:d"`

	ID           string    `bun:"id,pk"                  json:"id"`
	Content      string    `bun:"content,notnull"        json:"content"`
	LastModified time.Time `bun:"last_modified,notnull"  json:"lastModified"`
	FileName     *string   `bun:"file_name"              json:"fileName"`
}

// Clone returns a deep copy so callers can mutate results without touching
// store-held state.
func (d *Draft) Clone() *Draft {
	if d == nil {
		return nil
	}
	copied := *d
	if d.FileName != nil {
		name := *d.FileName
		copied.FileName = &name
	}
	return &copied
}

// isoFormat mirrors the millisecond-precision UTC timestamps embedded in
// draft ids by the original storage layout.
const isoFormat = "2006-01-02T15:04:05.000Z"

// MintID derives a new draft id: draft_{iso} for unnamed documents,
// file_{name}_{iso} when a file name exists at creation. The embedded name is
// slug-normalized so ids stay key-safe; the stored FileName keeps the raw
// value. Ids are minted once and never change for a logical document.
func MintID(fileName *string, now time.Time) string {
	ts := now.UTC().Format(isoFormat)
	if fileName == nil || strings.TrimSpace(*fileName) == "" {
		return "draft_" + ts
	}

	name, err := slug.Normalize(strings.TrimSpace(*fileName))
	if err != nil || name == "" {
		name = "file"
	}
	return "file_" + name + "_" + ts
}
