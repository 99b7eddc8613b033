package executor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/qbc/internal/models"
	"github.com/harrison/qbc/internal/naming"
)

// touch creates small documents (and their parent directories) under root.
func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(name), 0644))
	}
}

func mustSpec(t *testing.T, arg string) naming.MatchReplaceSpec {
	t.Helper()
	spec, err := naming.ParseMatchReplace(arg)
	require.NoError(t, err)
	return spec
}

func TestBuildPlan_DerivesOutputsInResolverOrder(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	touch(t, src, "b.ipynb", "a.ipynb", "sub/c.ipynb")

	plan, err := BuildPlan([]string{src}, Options{Recursive: true, OutputRoot: out})
	require.NoError(t, err)

	assert.Equal(t, src, plan.SourceRoot)
	assert.Equal(t, out, plan.OutputRoot)
	require.Len(t, plan.Entries, 3)

	want := []string{"a.qmd", "b.qmd", filepath.Join("sub", "c.qmd")}
	for i, e := range plan.Entries {
		assert.Nil(t, e.Decided)
		assert.Equal(t, i, e.Task.Index)
		assert.Equal(t, filepath.Join(out, want[i]), e.Task.OutputPath)
		assert.Equal(t, ".ipynb", e.Task.SourceExt)
		assert.Equal(t, ".qmd", e.Task.TargetExt)
	}
	assert.Len(t, plan.ToConvert(), 3)
	assert.Empty(t, plan.Decided())
}

func TestBuildPlan_SkipsNonMatching(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	touch(t, src, "_draft_x.ipynb", "y.ipynb")

	plan, err := BuildPlan([]string{src}, Options{OutputRoot: out, MatchReplace: mustSpec(t, "^_draft_/")})
	require.NoError(t, err)

	tasks := plan.ToConvert()
	require.Len(t, tasks, 1)
	assert.Equal(t, filepath.Join(out, "x.qmd"), tasks[0].OutputPath)

	decided := plan.Decided()
	require.Len(t, decided, 1)
	assert.Equal(t, models.StatusSkipped, decided[0].Status)
	assert.Equal(t, filepath.Join(src, "y.ipynb"), decided[0].Task.SourcePath)
	assert.Contains(t, decided[0].Message, "^_draft_")
}

func TestBuildPlan_CollisionFailsLaterSource(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	touch(t, src, "_x.ipynb", "x.ipynb")

	// Both names become x.qmd once the leading underscore is stripped.
	plan, err := BuildPlan([]string{src}, Options{OutputRoot: out, MatchReplace: mustSpec(t, "^_?x$/x")})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	first, second := plan.Entries[0], plan.Entries[1]
	assert.Nil(t, first.Decided)
	assert.Equal(t, filepath.Join(src, "_x.ipynb"), first.Task.SourcePath)

	require.NotNil(t, second.Decided)
	assert.Equal(t, models.StatusFailed, second.Decided.Status)
	assert.True(t, errors.Is(second.Decided.Error, naming.ErrOutputCollision))
	assert.True(t, IsFileError(second.Decided.Error))
}

func TestBuildPlan_EmptySubstitutionFails(t *testing.T) {
	src := t.TempDir()
	touch(t, src, "gone.ipynb")

	plan, err := BuildPlan([]string{src}, Options{OutputRoot: t.TempDir(), MatchReplace: mustSpec(t, "^gone$/")})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	require.NotNil(t, plan.Entries[0].Decided)
	assert.True(t, errors.Is(plan.Entries[0].Decided.Error, naming.ErrEmptyOutputName))
}

func TestBuildPlan_ReplacementLeavingOutputRootFails(t *testing.T) {
	base := t.TempDir()
	src := filepath.Join(base, "nb")
	out := filepath.Join(base, "out")
	touch(t, src, "sub/c.ipynb", "d.ipynb")

	plan, err := BuildPlan([]string{src}, Options{
		Recursive:    true,
		OutputRoot:   out,
		MatchReplace: mustSpec(t, "^c$/../../escaped"),
	})
	require.NoError(t, err)
	require.Len(t, plan.Entries, 2)

	var escaped *PlanEntry
	for i := range plan.Entries {
		if filepath.Base(plan.Entries[i].Task.SourcePath) == "c.ipynb" {
			escaped = &plan.Entries[i]
		}
	}
	require.NotNil(t, escaped)
	require.NotNil(t, escaped.Decided)
	assert.Equal(t, models.StatusFailed, escaped.Decided.Status)
	assert.True(t, errors.Is(escaped.Decided.Error, naming.ErrOutputOutsideRoot))
	assert.Empty(t, plan.ToConvert(), "d.ipynb is skipped and c.ipynb fails")
}

func TestBuildPlan_ExplicitInputRoot(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	touch(t, root, "course/week1/a.ipynb")

	plan, err := BuildPlan([]string{filepath.Join(root, "course", "week1", "a.ipynb")}, Options{
		InputRoot:  root,
		OutputRoot: out,
	})
	require.NoError(t, err)
	require.Len(t, plan.ToConvert(), 1)
	assert.Equal(t, filepath.Join(out, "course", "week1", "a.qmd"), plan.ToConvert()[0].OutputPath)
}

func TestBuildPlan_ReverseDirection(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	touch(t, src, "doc.qmd", "nb.ipynb")

	plan, err := BuildPlan([]string{src}, Options{Direction: models.ToIPYNB, OutputRoot: out})
	require.NoError(t, err)
	tasks := plan.ToConvert()
	require.Len(t, tasks, 1)
	assert.Equal(t, filepath.Join(out, "doc.ipynb"), tasks[0].OutputPath)
}

func TestBuildPlan_NoFiles(t *testing.T) {
	plan, err := BuildPlan([]string{t.TempDir()}, Options{OutputRoot: t.TempDir()})
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestBuildPlan_MissingInput(t *testing.T) {
	_, err := BuildPlan([]string{filepath.Join(t.TempDir(), "nope.ipynb")}, Options{})
	require.Error(t, err)
}
