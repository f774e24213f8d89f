package markdown

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/goliatone/go-markpad/internal/logging"
	"github.com/goliatone/go-markpad/internal/runtimeconfig"
	"github.com/goliatone/go-markpad/pkg/interfaces"
)

// Heading is one entry of the document outline, in document order.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Result carries a sanitized HTML fragment plus the outline extracted from it.
type Result struct {
	HTML     string
	Headings []Heading
}

// ErrorFallbackHTML is the inert fragment returned when rendering fails.
// The caller can show it in place of the preview without defensive checks.
const ErrorFallbackHTML = `<p class="markdown-render-error">Preview unavailable: the document could not be rendered.</p>`

// Renderer converts Markdown into sanitized HTML. It is stateless and safe
// for reuse across renders; heading id disambiguation resets on every call.
type Renderer struct {
	engine goldmark.Markdown
	policy *bluemonday.Policy
	logger interfaces.Logger
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

// NewRenderer constructs a renderer from the supplied configuration.
// Unsupported extension names are ignored, matching the registry behaviour
// of the config surface.
func NewRenderer(cfg runtimeconfig.MarkdownConfig, opts ...Option) *Renderer {
	r := &Renderer{
		engine: newEngine(cfg),
		policy: newPolicy(),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts markdown into sanitized HTML plus the heading outline.
// It never returns an error: internal failures produce ErrorFallbackHTML and
// an empty outline, and the input text is never mutated or lost.
func (r *Renderer) Render(markdown string) (result Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("markdown render panicked", "panic", rec)
			result = Result{HTML: ErrorFallbackHTML, Headings: []Heading{}}
		}
	}()

	if markdown == "" {
		return Result{HTML: "", Headings: []Heading{}}
	}

	source := []byte(markdown)
	doc := r.engine.Parser().Parse(text.NewReader(source))
	headings := collectHeadings(doc, source)

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, source, doc); err != nil {
		r.logger.Error("markdown render failed", "error", err)
		return Result{HTML: ErrorFallbackHTML, Headings: []Heading{}}
	}

	return Result{
		HTML:     r.policy.Sanitize(buf.String()),
		Headings: headings,
	}
}

// newEngine builds a goldmark.Markdown from the runtime configuration. Raw
// HTML passes through the renderer and is scrubbed by the sanitizer policy
// afterwards, so the allow-list is enforced in exactly one place.
func newEngine(cfg runtimeconfig.MarkdownConfig) goldmark.Markdown {
	exts := collectExtensions(cfg.Extensions)
	exts = append(exts, newHighlighting(cfg.HighlightStyle))

	rendererOptions := []renderer.Option{
		html.WithUnsafe(),
	}
	if cfg.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithRendererOptions(rendererOptions...),
	)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"typographer":   extension.Typographer,
	"smartypants":   extension.Typographer,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

func collectExtensions(names []string) []goldmark.Extender {
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.GFM,
			extension.Typographer,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// newHighlighting configures fenced code block rendering. Chroma resolves the
// fence language and falls back to a plain-text lexer for unknown names, so a
// bad language tag degrades to an unstyled block instead of failing the render.
func newHighlighting(style string) goldmark.Extender {
	if strings.TrimSpace(style) == "" {
		style = "github"
	}
	return highlighting.NewHighlighting(
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(true),
		),
		highlighting.WithWrapperRenderer(wrapCodeBlock),
	)
}

// wrapCodeBlock tags every fenced code block with its language so downstream
// styling can target it.
func wrapCodeBlock(w util.BufWriter, c highlighting.CodeBlockContext, entering bool) {
	lang := "plaintext"
	if l, ok := c.Language(); ok && len(l) > 0 {
		if slug := Slugify(string(l)); slug != "" {
			lang = slug
		}
	}
	if entering {
		_, _ = w.WriteString(`<div class="codeblock language-` + lang + `">`)
		return
	}
	_, _ = w.WriteString("</div>")
}
