package style_test

import (
	"regexp"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/fnspec/internal/ui/style"
)

func TestColors_AreHexRGB(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for name, c := range map[string]lipgloss.Color{
		"green":  style.Green,
		"red":    style.Red,
		"yellow": style.Yellow,
		"slate":  style.Slate,
	} {
		assert.Regexp(t, hex, string(c), name)
	}
}

func TestGlyphs_AreDistinct(t *testing.T) {
	glyphs := []string{style.Check, style.Cross, style.Warning, style.Dot, style.Trigger, style.Cause}

	seen := make(map[string]bool, len(glyphs))
	for _, g := range glyphs {
		assert.False(t, seen[g], "glyph %q reused", g)
		seen[g] = true
	}
}
