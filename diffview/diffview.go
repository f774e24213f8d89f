// Package diffview renders a line-level diff between two text versions as
// HTML, used to preview proposed edits next to the live document.
package diffview

import (
	"html"
	"strings"
	"time"

	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// Renderer computes and renders line diffs. It is stateless and reusable.
type Renderer struct {
	timeout time.Duration
	logger  interfaces.Logger
}

// Option customizes renderer construction.
type Option func(*Renderer)

// WithLogger attaches a module logger to the renderer.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRenderer constructs a diff renderer from the supplied configuration.
func NewRenderer(cfg runtimeconfig.DiffConfig, opts ...Option) *Renderer {
	r := &Renderer{
		timeout: cfg.Timeout,
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render diffs two documents line by line and returns HTML where every line
// is wrapped in a tag carrying its change kind. Unchanged blank lines render
// as zero-content spacer lines so vertical alignment with the non-diff
// preview stays plausible. Content is HTML-escaped.
func (r *Renderer) Render(before, after string) string {
	differ := dmp.New()
	if r.timeout > 0 {
		differ.DiffTimeout = r.timeout
	}

	src, dst, lineIndex := differ.DiffLinesToChars(before, after)
	diffs := differ.DiffMain(src, dst, false)
	diffs = differ.DiffCleanupSemantic(diffs)
	diffs = differ.DiffCharsToLines(diffs, lineIndex)

	var b strings.Builder
	for _, diff := range diffs {
		class := ""
		switch diff.Type {
		case dmp.DiffInsert:
			class = "diff-added"
		case dmp.DiffDelete:
			class = "diff-removed"
		case dmp.DiffEqual:
			class = "diff-unchanged"
		}
		for _, line := range splitLines(diff.Text) {
			writeLine(&b, class, line)
		}
	}
	return b.String()
}

func splitLines(chunk string) []string {
	if chunk == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(chunk, "\n"), "\n")
}

func writeLine(b *strings.Builder, class, line string) {
	if class == "diff-unchanged" && line == "" {
		b.WriteString(`<div class="diff-line diff-spacer"></div>` + "\n")
		return
	}
	b.WriteString(`<div class="diff-line ` + class + `">`)
	b.WriteString(html.EscapeString(line))
	b.WriteString("</div>\n")
}
