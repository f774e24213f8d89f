package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrStorageBackendUnknown indicates an unsupported draft storage backend.
var ErrStorageBackendUnknown = errors.New("markpad config: storage backend is invalid")

// ErrStorageKeyRequired indicates a missing key-value entry name.
var ErrStorageKeyRequired = errors.New("markpad config: storage entry keys are required")

var ErrStoragePathRequired = errors.New("markpad config: storage path is required for the file backend")
var ErrStorageDSNRequired = errors.New("markpad config: storage dsn is required for the bun backend")
var ErrLoggingProviderUnknown = errors.New("markpad config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("markpad config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("markpad config: logging format is invalid")

// Config aggregates adapter bindings and tunables for the markpad module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Logging    LoggingConfig
	Storage    StorageConfig
	Markdown   MarkdownConfig
	Autosave   AutosaveConfig
	ScrollSync ScrollSyncConfig
	Diff       DiffConfig
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// StorageConfig selects and parameterizes the draft store backend.
// The kv backend persists the single-object JSON layout; the bun
// backend keeps drafts in sqlite.
type StorageConfig struct {
	Backend    string
	Path       string
	DSN        string
	DraftsKey  string
	CurrentKey string
}

// MarkdownConfig captures parser and highlighter behaviour for the renderer.
type MarkdownConfig struct {
	Extensions     []string
	HardWraps      bool
	HighlightStyle string
}

// AutosaveConfig captures the quiet-period policy for background saves.
type AutosaveConfig struct {
	Enabled bool
	Quiet   time.Duration
}

// ScrollSyncConfig tunes the editor/preview scroll coupling.
type ScrollSyncConfig struct {
	SourceWindow time.Duration
	ApplyDelay   time.Duration
	Tolerance    float64
}

// DiffConfig bounds the line-diff computation.
type DiffConfig struct {
	Timeout time.Duration
}

// DefaultConfig returns opinionated defaults for a single-user authoring host.
func DefaultConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "",
		},
		Storage: StorageConfig{
			Backend:    "kv",
			Path:       "drafts.json",
			DraftsKey:  "drafts",
			CurrentKey: "current_draft_id",
		},
		Markdown: MarkdownConfig{
			HardWraps:      true,
			HighlightStyle: "github",
		},
		Autosave: AutosaveConfig{
			Enabled: true,
			Quiet:   3 * time.Second,
		},
		ScrollSync: ScrollSyncConfig{
			SourceWindow: 150 * time.Millisecond,
			ApplyDelay:   30 * time.Millisecond,
			Tolerance:    0.01,
		},
		Diff: DiffConfig{
			Timeout: time.Second,
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Backend) {
	case "kv", "memory":
		if normalize(cfg.Storage.Backend) == "kv" && strings.TrimSpace(cfg.Storage.Path) == "" {
			return ErrStoragePathRequired
		}
	case "bun":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageBackendUnknown, cfg.Storage.Backend)
	}
	if strings.TrimSpace(cfg.Storage.DraftsKey) == "" || strings.TrimSpace(cfg.Storage.CurrentKey) == "" {
		return ErrStorageKeyRequired
	}

	if provider := normalize(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}

	return validation.Errors{
		"autosave.quiet":           validation.Validate(int64(cfg.Autosave.Quiet), validation.Min(int64(0))),
		"scroll_sync.sourcewindow": validation.Validate(int64(cfg.ScrollSync.SourceWindow), validation.Min(int64(0))),
		"scroll_sync.applydelay":   validation.Validate(int64(cfg.ScrollSync.ApplyDelay), validation.Min(int64(0))),
		"scroll_sync.tolerance":    validation.Validate(cfg.ScrollSync.Tolerance, validation.Min(0.0), validation.Max(1.0)),
		"diff.timeout":             validation.Validate(int64(cfg.Diff.Timeout), validation.Min(int64(0))),
	}.Filter()
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "gologger", "noop":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
