package models

import (
	"errors"
	"fmt"
	"strings"
)

// Direction selects which way a batch converts documents.
type Direction int

const (
	// ToQMD converts Jupyter notebooks into Quarto markdown (the default).
	ToQMD Direction = iota
	// ToIPYNB converts Quarto markdown into Jupyter notebooks.
	ToIPYNB
)

// Document extensions handled by the converter.
const (
	ExtIPYNB = ".ipynb"
	ExtQMD   = ".qmd"
)

// SourceExt returns the extension of the files a batch reads.
func (d Direction) SourceExt() string {
	if d == ToIPYNB {
		return ExtQMD
	}
	return ExtIPYNB
}

// TargetExt returns the extension of the files a batch writes.
func (d Direction) TargetExt() string {
	if d == ToIPYNB {
		return ExtIPYNB
	}
	return ExtQMD
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	return fmt.Sprintf("%s->%s", strings.TrimPrefix(d.SourceExt(), "."), strings.TrimPrefix(d.TargetExt(), "."))
}

// ParseDirection is the inverse of Direction.String.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case ToQMD.String():
		return ToQMD, nil
	case ToIPYNB.String():
		return ToIPYNB, nil
	}
	return ToQMD, fmt.Errorf("unknown direction %q", s)
}

// FileTask is one unit of conversion work: a single source document and
// the output path derived for it.
type FileTask struct {
	Index      int    // Position in resolver order
	SourcePath string // Absolute path of the document to convert
	OutputPath string // Absolute path the converter writes to
	SourceExt  string // Extension of SourcePath (".ipynb" or ".qmd")
	TargetExt  string // Extension appended to the output name
}

// Validate checks that the task carries everything the converter needs.
func (t *FileTask) Validate() error {
	if t.SourcePath == "" {
		return errors.New("source path is required")
	}
	if t.OutputPath == "" {
		return errors.New("output path is required")
	}
	if t.TargetExt == "" {
		return errors.New("target extension is required")
	}
	return nil
}
