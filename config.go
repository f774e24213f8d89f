package markpad

import "github.com/goliatone/go-markpad/internal/runtimeconfig"

var (
	ErrStorageBackendUnknown  = runtimeconfig.ErrStorageBackendUnknown
	ErrStorageKeyRequired     = runtimeconfig.ErrStorageKeyRequired
	ErrStoragePathRequired    = runtimeconfig.ErrStoragePathRequired
	ErrStorageDSNRequired     = runtimeconfig.ErrStorageDSNRequired
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	LoggingConfig    = runtimeconfig.LoggingConfig
	StorageConfig    = runtimeconfig.StorageConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	AutosaveConfig   = runtimeconfig.AutosaveConfig
	ScrollSyncConfig = runtimeconfig.ScrollSyncConfig
	DiffConfig       = runtimeconfig.DiffConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
