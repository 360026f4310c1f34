// Package ui provides terminal output helpers for cognisync.
package ui

import (
	"github.com/fatih/color"
)

// Color function types for styled output.
var (
	// Success is used for successful operations (green).
	Success = color.New(color.FgGreen).SprintFunc()
	// Error is used for errors and failures (red).
	Error = color.New(color.FgRed).SprintFunc()
	// Warning is used for warnings and cautions (yellow).
	Warning = color.New(color.FgYellow).SprintFunc()
	// Info is used for informational messages (cyan).
	Info = color.New(color.FgCyan).SprintFunc()
	// Bold is used for emphasis.
	Bold = color.New(color.Bold).SprintFunc()
	// Dim is used for secondary information (faint).
	Dim = color.New(color.Faint).SprintFunc()
	// Header is used for section headers (bold cyan).
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolSkipped = "-"
	SymbolAdded   = "+"
	SymbolRemoved = "×"
	SymbolUpdated = "~"
)

func status(symbol string, paint func(a ...any) string, msg string) string {
	if msg == "" {
		return paint(symbol)
	}
	return paint(symbol) + " " + msg
}

// StatusSuccess returns a green checkmark with optional message.
func StatusSuccess(msg string) string {
	return status(SymbolSuccess, Success, msg)
}

// StatusError returns a red X with optional message.
func StatusError(msg string) string {
	return status(SymbolError, Error, msg)
}

// StatusWarning returns a yellow warning with optional message.
func StatusWarning(msg string) string {
	return status(SymbolWarning, Warning, msg)
}

// StatusSkipped returns a dimmed skip symbol with optional message.
func StatusSkipped(msg string) string {
	return status(SymbolSkipped, Dim, msg)
}

// StatusAdded returns a green plus with optional message.
func StatusAdded(msg string) string {
	return status(SymbolAdded, Success, msg)
}

// StatusUpdated returns a cyan tilde with optional message.
func StatusUpdated(msg string) string {
	return status(SymbolUpdated, Info, msg)
}

// StatusRemoved returns a yellow cross with optional message.
func StatusRemoved(msg string) string {
	return status(SymbolRemoved, Warning, msg)
}

// DisableColors disables all color output.
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output.
func EnableColors() {
	color.NoColor = false
}

// IsColorEnabled returns whether colors are currently enabled.
func IsColorEnabled() bool {
	return !color.NoColor
}
