package app

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// SourcePath is the story source file.
	SourcePath string

	// RegionsPath is the YAML or JSON regions file. Empty means no regions.
	RegionsPath string

	// Active is the key of the region to make active.
	Active string

	// Select is the key of a region to navigate to after loading.
	Select string

	// Replace, when set, becomes the new text of the active region.
	Replace *string

	// Write saves the edited source and regions back to disk.
	Write bool

	// Watch keeps re-rendering as the files change.
	Watch bool

	// Interactive shows the document in a terminal viewer instead of
	// printing it.
	Interactive bool

	// Script overrides the configured Lua navigation hook.
	Script string

	// LogLevel overrides the configured log level.
	LogLevel string

	// Color forces colour on or off. Nil detects a terminal.
	Color *bool
}
