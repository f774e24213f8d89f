package logging

import (
	"context"

	"github.com/goliatone/go-markpad/pkg/interfaces"
)

const (
	rootModule       = "markpad"
	markdownModule   = "markpad.markdown"
	draftsModule     = "markpad.drafts"
	editorModule     = "markpad.editor"
	scrollSyncModule = "markpad.scrollsync"
	diffModule       = "markpad.diff"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// MarkdownLogger returns the logger namespace reserved for the renderer.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// DraftsLogger returns the logger namespace reserved for draft persistence.
func DraftsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, draftsModule)
}

// EditorLogger returns the logger namespace reserved for session state.
func EditorLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, editorModule)
}

// ScrollSyncLogger returns the logger namespace reserved for scroll coupling.
func ScrollSyncLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, scrollSyncModule)
}

// DiffLogger returns the logger namespace reserved for the diff renderer.
func DiffLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, diffModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

// NoOpProvider returns a provider whose loggers drop every entry, used when
// the logging provider is configured off.
func NoOpProvider() interfaces.LoggerProvider {
	return noopProvider{}
}

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
