package tableimporter

import "github.com/goliatone/go-table-importer/internal/runtimeconfig"

var (
	ErrDataDirRequired        = runtimeconfig.ErrDataDirRequired
	ErrCSVControlsInvalid     = runtimeconfig.ErrCSVControlsInvalid
	ErrShortcodeNameRequired  = runtimeconfig.ErrShortcodeNameRequired
	ErrShortcodeNameInvalid   = runtimeconfig.ErrShortcodeNameInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	CSVConfig       = runtimeconfig.CSVConfig
	ShortcodeConfig = runtimeconfig.ShortcodeConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the baseline configuration: the marker filter is
// off and the inline tag is registered as "ti".
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
