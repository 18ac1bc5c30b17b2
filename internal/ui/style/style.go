// Package style holds the colours and glyphs fnspec uses for validation reports and log lines.
package style

import "github.com/charmbracelet/lipgloss"

// Colors for descriptor outcomes.
var (
	// Green marks a descriptor that loaded cleanly.
	Green = lipgloss.Color("#22A06B")
	// Red marks a descriptor that failed to load and error log lines.
	Red = lipgloss.Color("#D93025")
	// Yellow marks warnings such as ignored keys or unset references.
	Yellow = lipgloss.Color("#F59E0B")
	// Slate is used for function detail lines and informational logs.
	Slate = lipgloss.Color("#667085")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	// Dot prefixes each function line of a report.
	Dot = "●"
	// Trigger separates a function from the topics that invoke it.
	Trigger = "←"
	// Cause prefixes each entry of an error's cause chain.
	Cause = "→"
)
