package logger

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/harrison/qbc/internal/models"
)

// colorScheme defines consistent colors for conversion output.
// Green: converted files and clean summaries
// Red: failures
// Yellow: skips and warnings
// Cyan: labels
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	dim     *color.Color
}

// newColorScheme creates the standard color scheme. When enabled is false
// every color prints plain text regardless of the terminal.
func newColorScheme(enabled bool) *colorScheme {
	cs := &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{cs.success, cs.fail, cs.warn, cs.label, cs.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return cs
}

// status returns the color used for a file outcome.
func (cs *colorScheme) status(s models.Status) *color.Color {
	switch s {
	case models.StatusConverted:
		return cs.success
	case models.StatusSkipped:
		return cs.warn
	default:
		return cs.fail
	}
}

// level returns the color used for a log level tag.
func (cs *colorScheme) level(level string) *color.Color {
	switch level {
	case "TRACE", "DEBUG":
		return cs.dim
	case "WARN":
		return cs.warn
	case "ERROR":
		return cs.fail
	default:
		return cs.label
	}
}

// formatColorizedCount formats "label: N" with a cyan label and a value colored
// by c when the count is non-zero.
func formatColorizedCount(label string, n int, c *color.Color, scheme *colorScheme) string {
	value := fmt.Sprintf("%d", n)
	if n > 0 {
		value = c.Sprint(value)
	}
	return fmt.Sprintf("%s: %s", scheme.label.Sprint(label), value)
}
