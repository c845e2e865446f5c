// Package cli holds helpers shared by the scenery commands: typed command
// errors and signal-aware contexts.
package cli
