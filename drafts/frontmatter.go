package drafts

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// draftEnvelope is the YAML frontmatter shape used by draft export files.
type draftEnvelope struct {
	ID           string `yaml:"id"`
	FileName     string `yaml:"fileName"`
	LastModified string `yaml:"lastModified"`
}

// ExportDraft serializes a draft as a Markdown file with YAML frontmatter so
// drafts can leave the store as plain files.
func ExportDraft(draft *Draft) []byte {
	var b bytes.Buffer
	b.WriteString("---\n")
	b.WriteString("id: " + strconv.Quote(draft.ID) + "\n")
	if draft.FileName != nil && *draft.FileName != "" {
		b.WriteString("fileName: " + strconv.Quote(*draft.FileName) + "\n")
	}
	b.WriteString("lastModified: " + strconv.Quote(draft.LastModified.UTC().Format(time.RFC3339Nano)) + "\n")
	b.WriteString("---\n\n")
	b.WriteString(draft.Content)
	return b.Bytes()
}

// ImportDraft parses an exported draft file back into a Draft. Files without
// an id get a freshly minted one; files without a timestamp use now.
func ImportDraft(source []byte, now time.Time) (*Draft, error) {
	var meta draftEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return nil, fmt.Errorf("drafts: parse export frontmatter: %w", err)
	}

	var name *string
	if trimmed := strings.TrimSpace(meta.FileName); trimmed != "" {
		name = &trimmed
	}

	id := strings.TrimSpace(meta.ID)
	if id == "" {
		id = MintID(name, now)
	}

	modified := now.UTC()
	if raw := strings.TrimSpace(meta.LastModified); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			modified = parsed.UTC()
		}
	}

	// The export writes one blank line between frontmatter and body.
	body = bytes.TrimPrefix(body, []byte("\n"))

	return &Draft{
		ID:           id,
		Content:      string(body),
		LastModified: modified,
		FileName:     name,
	}, nil
}
