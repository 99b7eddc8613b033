package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInputNotFound is returned when a literal input path does not exist.
var ErrInputNotFound = errors.New("input not found")

// ErrUnsupportedInput is returned when an input exists but is neither a
// regular file nor a directory (a FIFO, socket or device).
var ErrUnsupportedInput = errors.New("input is not a regular file or directory")

// ResolveOptions controls how input specs are turned into source files.
type ResolveOptions struct {
	// Extension is the source extension of the batch (".ipynb" or ".qmd").
	Extension string
	// Recursive descends into subdirectories of directory specs.
	Recursive bool
	// StrictExtension drops explicitly named files whose extension differs
	// from Extension. By default explicit files are taken as-is.
	StrictExtension bool
}

// Resolve expands input specs (files, directories or glob patterns) into a
// sorted, de-duplicated list of absolute source paths.
//
// A spec naming an existing file is included as-is, a directory is scanned
// for files with the batch extension, and anything containing glob
// metacharacters is expanded ("**" matches across directories). A literal
// spec that does not exist is an error wrapping ErrInputNotFound; one that
// exists as something else wraps ErrUnsupportedInput.
func Resolve(specs []string, opts ResolveOptions) (*ScanResult, error) {
	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return
		}
		abs = filepath.Clean(abs)
		if seen[abs] {
			return
		}
		seen[abs] = true
		result.Files = append(result.Files, abs)
	}

	for _, spec := range specs {
		info, statErr := os.Stat(spec)
		switch {
		case statErr == nil && info.Mode().IsRegular():
			if opts.StrictExtension && filepath.Ext(spec) != opts.Extension {
				continue
			}
			add(spec)

		case statErr == nil && info.IsDir():
			scan, err := ScanDirectory(spec, ScanOptions{
				Extensions: []string{opts.Extension},
				Recursive:  opts.Recursive,
			})
			if err != nil {
				return nil, err
			}
			result.Errors = append(result.Errors, scan.Errors...)
			for _, f := range scan.Files {
				add(f)
			}

		case IsGlob(spec):
			matches, err := expandGlob(spec, opts.Extension)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}

		case statErr == nil:
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedInput, spec, info.Mode().Type())

		case statErr != nil && !os.IsNotExist(statErr):
			return nil, fmt.Errorf("failed to access %s: %w", spec, statErr)

		default:
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, spec)
		}
	}

	sort.Strings(result.Files)
	return result, nil
}

// IsGlob reports whether spec contains glob metacharacters.
func IsGlob(spec string) bool {
	return strings.ContainsAny(spec, "*?[{")
}

func expandGlob(pattern, ext string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	base = filepath.FromSlash(base)

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		if filepath.Ext(m) != ext || !isRegularFile(m) {
			continue
		}
		if insideHiddenDir(base, m) {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// insideHiddenDir reports whether any directory between base and path is
// hidden. Directories named in base itself are the caller's choice.
func insideHiddenDir(base, path string) bool {
	rel, err := filepath.Rel(base, filepath.Dir(path))
	if err != nil || rel == "." {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if isHidden(part) {
			return true
		}
	}
	return false
}

// CommonRoot returns the deepest directory containing every path. Paths
// must be absolute. It returns "" for an empty list.
func CommonRoot(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	root := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		dir := filepath.Dir(p)
		for !WithinDir(root, dir) {
			parent := filepath.Dir(root)
			if parent == root {
				return root
			}
			root = parent
		}
	}
	return root
}

// WithinDir reports whether path is dir or lies below it.
func WithinDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
