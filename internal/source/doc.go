// Package source loads story documents from disk and keeps them current.
//
// A document is a text file plus an optional YAML file that maps region
// keys to boundaries:
//
//	"Button@with text":
//	  start: {line: 3, col: 26}
//	  end: {line: 3, col: 48}
//
// Regions keep the order in which they appear in the file. Watcher reloads
// the document when either file changes and publishes it on an event bus
// as a panel.DocumentReplaced message.
package source
