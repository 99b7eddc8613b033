package naming

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harrison/qbc/internal/fileutil"
)

var (
	// ErrEmptyOutputName means nothing is left of the file name to write.
	ErrEmptyOutputName = errors.New("empty output file name")
	// ErrOutsideRoot means a source file does not live under the source root.
	ErrOutsideRoot = errors.New("source is outside the input root")
	// ErrOutputOutsideRoot means the prefix or replacement leads out of the output root.
	ErrOutputOutsideRoot = errors.New("output is outside the output root")
)

// Options holds the batch-wide naming rules. It is read-only once built.
type Options struct {
	SourceRoot    string           // Directory relative paths are measured from
	OutputRoot    string           // Directory outputs are written under
	MatchReplace  MatchReplaceSpec // Optional filter and rename rule
	Prefix        string           // Prepended to every output name; may contain "/"
	KeepExtension bool             // Keep the source extension before the target one
	TargetExt     string           // Extension of the converted document
}

// Derivation is the outcome of deriving one output path. Exactly one of
// OutputPath, Skip or Err is meaningful.
type Derivation struct {
	OutputPath string
	Skip       bool
	SkipReason string
	Err        error
}

// Transformer derives output paths for source files.
type Transformer struct {
	opts Options
}

// NewTransformer creates a Transformer. Roots are made absolute so that
// derived paths do not depend on later working-directory changes.
func NewTransformer(opts Options) (*Transformer, error) {
	if opts.TargetExt == "" {
		return nil, errors.New("target extension is required")
	}
	for _, root := range []*string{&opts.SourceRoot, &opts.OutputRoot} {
		if *root == "" {
			*root = "."
		}
		abs, err := filepath.Abs(*root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", *root, err)
		}
		*root = abs
	}
	return &Transformer{opts: opts}, nil
}

// Options returns the resolved options.
func (t *Transformer) Options() Options { return t.opts }

// Derive computes the output path for sourcePath:
//
//	<output root>/<dir relative to source root>/<prefix><name><ext>
//
// where <name> is the stem after the match/replace rule. Files whose stem
// does not match the rule are skipped. A result that is not strictly below
// the output root is an error.
func (t *Transformer) Derive(sourcePath string) Derivation {
	rel, err := filepath.Rel(t.opts.SourceRoot, sourcePath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Derivation{Err: fmt.Errorf("%w: %s not under %s", ErrOutsideRoot, sourcePath, t.opts.SourceRoot)}
	}

	base := filepath.Base(sourcePath)
	origExt := filepath.Ext(base)
	stem := strings.TrimSuffix(base, origExt)

	name := stem
	if t.opts.MatchReplace != nil {
		var ok bool
		name, ok = t.opts.MatchReplace.Apply(stem)
		if !ok {
			return Derivation{
				Skip:       true,
				SkipReason: fmt.Sprintf("does not match %q", t.opts.MatchReplace.Pattern().String()),
			}
		}
	}
	if name == "" {
		if t.opts.MatchReplace != nil {
			return Derivation{Err: fmt.Errorf("%w: substitution left nothing of %s", ErrEmptyOutputName, base)}
		}
		return Derivation{Err: fmt.Errorf("%w: %s has no name before its extension", ErrEmptyOutputName, base)}
	}

	fileName := t.opts.Prefix + name
	if t.opts.KeepExtension {
		fileName += origExt
	}
	fileName += t.opts.TargetExt

	outputPath := filepath.Join(t.opts.OutputRoot, filepath.Dir(rel), fileName)
	if outputPath == t.opts.OutputRoot || !fileutil.WithinDir(t.opts.OutputRoot, outputPath) {
		return Derivation{Err: fmt.Errorf("%w: %s maps to %s", ErrOutputOutsideRoot, base, outputPath)}
	}
	return Derivation{OutputPath: outputPath}
}
