// Package output provides utilities for creating termenv.Output with consistent
// color profile and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// ColorProfile returns the color profile for terminal output.
// It returns Ascii when NO_COLOR is set and detects the terminal's capabilities otherwise.
func ColorProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// New creates a new termenv.Output writing to w, defaulting to stderr.
// Files that are not terminals, such as redirected stdout in CI, get plain output.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	profile := ColorProfile()
	if _, isFile := w.(*os.File); isFile && !IsTerminal(w) {
		profile = termenv.Ascii
	}

	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
