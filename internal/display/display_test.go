package display

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/harrison/qbc/internal/models"
)

func plainOutput(t *testing.T) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
}

func TestDisplayWarning_TitleOnly(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer
	Warning{Title: "Something odd"}.Display(&buf)

	if got, want := buf.String(), "Warning: Something odd\n"; got != want {
		t.Errorf("Display() = %q, want %q", got, want)
	}
}

func TestDisplayWarning_Complete(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer
	Warning{
		Title:      "Title",
		Message:    "Details here",
		Files:      []string{"a.ipynb", "b.ipynb"},
		Suggestion: "Do something",
	}.Display(&buf)

	want := "Warning: Title\n" +
		"    Details here\n" +
		"    Affected files:\n" +
		"      1. a.ipynb\n" +
		"      2. b.ipynb\n" +
		"    Suggestion:\n" +
		"    Do something\n"
	if buf.String() != want {
		t.Errorf("Display() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestDisplayWarning_SingleFile(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer
	Warning{Title: "T", Files: []string{"only.qmd"}}.Display(&buf)
	if !strings.Contains(buf.String(), "Affected file:\n") {
		t.Errorf("expected singular label, got %q", buf.String())
	}
}

func TestDisplayWarning_Color(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	Warning{Title: "T"}.Display(&buf)
	if !strings.HasPrefix(buf.String(), "\x1b[33m") {
		t.Errorf("expected yellow output, got %q", buf.String())
	}
}

func TestWarnNoFilesMatched(t *testing.T) {
	tests := []struct {
		name      string
		direction models.Direction
		opposite  int
		want      []string
	}{
		{"nothing anywhere", models.ToQMD, 0, []string{"No .ipynb files", "--recursive"}},
		{"qmd files present", models.ToQMD, 3, []string{"Found 3 .qmd file(s) instead", "run --qmd-to-ipynb"}},
		{"ipynb files present", models.ToIPYNB, 1, []string{"No .qmd files", "Found 1 .ipynb file(s)", "without --qmd-to-ipynb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WarnNoFilesMatched([]string{"docs"}, tt.direction, tt.opposite)
			text := w.Message + " " + w.Suggestion
			for _, want := range tt.want {
				if !strings.Contains(text, want) {
					t.Errorf("warning %q missing %q", text, want)
				}
			}
			if len(w.Files) != 1 || w.Files[0] != "docs" {
				t.Errorf("Files = %v, want [docs]", w.Files)
			}
		})
	}
}

func TestWarnConverterMissing(t *testing.T) {
	w := WarnConverterMissing("quarto")
	if w.Title != "quarto is not installed" {
		t.Errorf("Title = %q", w.Title)
	}
	if !strings.Contains(w.Suggestion, "https://quarto.org/docs/get-started/") {
		t.Errorf("Suggestion = %q, want install link", w.Suggestion)
	}
}

func TestPlanListing(t *testing.T) {
	plainOutput(t)
	var buf bytes.Buffer

	p := NewPlanListing(&buf, 3)
	p.Start(models.ToQMD)
	p.Convert(models.FileTask{SourcePath: "/src/a.ipynb", OutputPath: "/out/a.qmd"})
	p.Decided(models.FileResult{Task: models.FileTask{SourcePath: "/src/b.ipynb"}, Status: models.StatusSkipped, Message: "filtered"})
	p.Decided(models.FileResult{Task: models.FileTask{SourcePath: "/src/c.ipynb"}, Status: models.StatusFailed, Error: errors.New("collision")})
	p.Complete()

	want := "Planned conversions (ipynb->qmd, dry run):\n" +
		"  [1/3] /src/a.ipynb -> /out/a.qmd\n" +
		"  [2/3] SKIPPED /src/b.ipynb: filtered\n" +
		"  [3/3] FAILED /src/c.ipynb: collision\n" +
		"✓ 1 file(s) would be converted, 1 skipped, 1 failed\n"
	if buf.String() != want {
		t.Errorf("listing =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestCountFilesWithExt(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.qmd", "b.qmd", "c.ipynb", filepath.Join("sub", "d.qmd")} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	file := filepath.Join(dir, "a.qmd")
	missing := filepath.Join(dir, "missing")

	if got := CountFilesWithExt([]string{dir, file, missing}, ".qmd", false); got != 2 {
		t.Errorf("non-recursive count = %d, want 2", got)
	}
	if got := CountFilesWithExt([]string{dir}, ".qmd", true); got != 3 {
		t.Errorf("recursive count = %d, want 3", got)
	}
}
