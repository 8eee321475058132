// Package config provides storysource settings.
//
// Settings are resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file (Load); a missing file is not an error
//  3. STORYSOURCE_* environment variables
//
// Example file:
//
//	[log]
//	level = "info"
//
//	[highlight]
//	language = "jsx"
//	style = "monokai"
//
//	[splice]
//	exactEndColumn = false
//
//	[panel]
//	validate = true
//
//	[watch]
//	debounce = "100ms"
//
//	[script]
//	navigate = "storybook.lua"
//	timeout = "1s"
//
//	[view]
//	tint = 0.12
package config
