package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/qbc/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow. Color follows fatih/color's
// terminal detection, so redirected output is plain text.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	color.New(color.FgYellow).Fprint(out, b.String())
}

// WarnNoFilesMatched builds the warning shown when the inputs resolve to no
// source documents. oppositeCount is the number of documents found with the
// other direction's source extension; when non-zero the suggestion points at
// the direction flag.
func WarnNoFilesMatched(inputs []string, direction models.Direction, oppositeCount int) Warning {
	w := Warning{
		Title:   "No files matched",
		Message: fmt.Sprintf("No %s files were found in the given inputs.", direction.SourceExt()),
		Files:   inputs,
	}
	if oppositeCount > 0 {
		flag := "--qmd-to-ipynb"
		if direction == models.ToIPYNB {
			flag = "without --qmd-to-ipynb"
		}
		w.Suggestion = fmt.Sprintf("Found %d %s file(s) instead; run %s to convert them.",
			oppositeCount, direction.TargetExt(), flag)
	} else {
		w.Suggestion = "Check the input paths, or pass --recursive to search subdirectories."
	}
	return w
}

// WarnConverterMissing builds the warning shown when the converter
// executable cannot be found.
func WarnConverterMissing(converter string) Warning {
	return Warning{
		Title:   fmt.Sprintf("%s is not installed", converter),
		Message: fmt.Sprintf("The %q executable was not found on PATH. Please install it before running this command.", converter),
		Suggestion: "See https://quarto.org/docs/get-started/ for installation instructions, " +
			"or install from PyPI using `pipx install quarto-cli` or `uv tool install quarto-cli`.",
	}
}
