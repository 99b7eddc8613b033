package executor

import (
	"fmt"
	"sort"

	"github.com/harrison/qbc/internal/fileutil"
	"github.com/harrison/qbc/internal/models"
	"github.com/harrison/qbc/internal/naming"
)

// Options configures a conversion batch.
type Options struct {
	Direction       models.Direction
	Recursive       bool
	StrictExtension bool
	InputRoot       string // Explicit source root; common ancestor of inputs when empty
	OutputRoot      string // Defaults to the working directory
	MatchReplace    naming.MatchReplaceSpec
	Prefix          string
	KeepExtension   bool
	MaxWorkers      int // 0 = runtime.NumCPU()
}

// PlanEntry is one resolved file. Decided is set when the outcome is known
// before conversion (skipped by the filter, or failed while naming).
type PlanEntry struct {
	Task    models.FileTask
	Decided *models.FileResult
}

// Plan is the fully derived work list of a batch, in resolver order.
type Plan struct {
	SourceRoot string
	OutputRoot string
	Direction  models.Direction
	Entries    []PlanEntry
	Warnings   []error // Non-fatal resolver errors
}

// BuildPlan resolves specs and derives every output path. It performs no
// conversion and never spawns a process.
func BuildPlan(specs []string, opts Options) (*Plan, error) {
	scan, err := fileutil.Resolve(specs, fileutil.ResolveOptions{
		Extension:       opts.Direction.SourceExt(),
		Recursive:       opts.Recursive,
		StrictExtension: opts.StrictExtension,
	})
	if err != nil {
		return nil, err
	}

	sourceRoot := opts.InputRoot
	if sourceRoot == "" {
		sourceRoot = fileutil.CommonRoot(scan.Files)
	}
	transformer, err := naming.NewTransformer(naming.Options{
		SourceRoot:    sourceRoot,
		OutputRoot:    opts.OutputRoot,
		MatchReplace:  opts.MatchReplace,
		Prefix:        opts.Prefix,
		KeepExtension: opts.KeepExtension,
		TargetExt:     opts.Direction.TargetExt(),
	})
	if err != nil {
		return nil, fmt.Errorf("invalid naming options: %w", err)
	}

	resolved := transformer.Options()
	plan := &Plan{
		SourceRoot: resolved.SourceRoot,
		OutputRoot: resolved.OutputRoot,
		Direction:  opts.Direction,
		Entries:    make([]PlanEntry, 0, len(scan.Files)),
		Warnings:   scan.Errors,
	}

	collisions := naming.NewCollisionDetector()
	for i, source := range scan.Files {
		task := models.FileTask{
			Index:      i,
			SourcePath: source,
			SourceExt:  opts.Direction.SourceExt(),
			TargetExt:  opts.Direction.TargetExt(),
		}

		d := transformer.Derive(source)
		switch {
		case d.Err != nil:
			plan.Entries = append(plan.Entries, decided(task, models.StatusFailed, "", NewFileError(source, PhaseNaming, d.Err)))
			continue
		case d.Skip:
			plan.Entries = append(plan.Entries, decided(task, models.StatusSkipped, d.SkipReason, nil))
			continue
		}

		task.OutputPath = d.OutputPath
		if err := collisions.Claim(source, d.OutputPath); err != nil {
			plan.Entries = append(plan.Entries, decided(task, models.StatusFailed, "", NewFileError(source, PhaseNaming, err)))
			continue
		}
		plan.Entries = append(plan.Entries, PlanEntry{Task: task})
	}

	return plan, nil
}

func decided(task models.FileTask, status models.Status, message string, err error) PlanEntry {
	return PlanEntry{
		Task: task,
		Decided: &models.FileResult{
			Task:    task,
			Status:  status,
			Message: message,
			Error:   err,
		},
	}
}

// ToConvert returns the tasks that need the converter, in resolver order.
func (p *Plan) ToConvert() []models.FileTask {
	var tasks []models.FileTask
	for _, e := range p.Entries {
		if e.Decided == nil {
			tasks = append(tasks, e.Task)
		}
	}
	return tasks
}

// Decided returns the results known before conversion, in resolver order.
func (p *Plan) Decided() []models.FileResult {
	var results []models.FileResult
	for _, e := range p.Entries {
		if e.Decided != nil {
			results = append(results, *e.Decided)
		}
	}
	return results
}

// Empty reports whether the resolver found no files.
func (p *Plan) Empty() bool {
	return len(p.Entries) == 0
}

// sortByIndex orders results by resolver position.
func sortByIndex(results []models.FileResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Task.Index < results[j].Task.Index
	})
}
