package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/harrison/qbc/internal/config"
	"github.com/harrison/qbc/internal/converter"
	"github.com/harrison/qbc/internal/display"
	"github.com/harrison/qbc/internal/executor"
	"github.com/harrison/qbc/internal/logger"
	"github.com/harrison/qbc/internal/models"
	"github.com/harrison/qbc/internal/naming"
	"github.com/spf13/cobra"
)

// dotenvFile is read from the working directory when present.
const dotenvFile = ".env"

// errNoFilesMatched is returned for an empty batch when --fail-on-empty is set.
var errNoFilesMatched = errors.New("no files matched the given inputs")

// convertFlags holds the conversion flags that do not go through Config.
type convertFlags struct {
	direction     models.Direction
	matchReplace  string
	prefix        string
	keepExtension bool
	outputPath    string
	recursive     bool
	inputRoot     string
	strictExt     bool
	dryRun        bool
	report        string
	failOnEmpty   bool
}

func readConvertFlags(cmd *cobra.Command) convertFlags {
	flags := cmd.Flags()
	var f convertFlags

	qmdToIpynb, _ := flags.GetBool("qmd-to-ipynb")
	if qmdToIpynb {
		f.direction = models.ToIPYNB
	}
	f.matchReplace, _ = flags.GetString("match-replace-pattern")
	f.prefix, _ = flags.GetString("prefix")
	f.keepExtension, _ = flags.GetBool("keep-extension")
	f.outputPath, _ = flags.GetString("output-path")
	f.recursive, _ = flags.GetBool("recursive")
	f.inputRoot, _ = flags.GetString("input-root")
	f.strictExt, _ = flags.GetBool("strict-ext")
	f.dryRun, _ = flags.GetBool("dry-run")
	f.report, _ = flags.GetString("report")
	f.failOnEmpty, _ = flags.GetBool("fail-on-empty")
	return f
}

// loadConfig builds the effective configuration: defaults, config file,
// environment, then flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(dotenvFile); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	// Build flag pointers for merge (only explicitly set values)
	var maxWorkersPtr *int
	if cmd.Flags().Changed("max-workers") {
		maxWorkers, _ := cmd.Flags().GetInt("max-workers")
		maxWorkersPtr = &maxWorkers
	}

	var timeoutPtr *time.Duration
	if cmd.Flags().Changed("timeout") {
		timeout, _ := cmd.Flags().GetDuration("timeout")
		timeoutPtr = &timeout
	}

	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}

	var logLevelPtr *string
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		debug := "debug"
		logLevelPtr = &debug
	}

	var historyPtr *bool
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		disabled := false
		historyPtr = &disabled
	}

	cfg.MergeWithFlags(maxWorkersPtr, timeoutPtr, logDirPtr, logLevelPtr, historyPtr)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// runConvert implements the conversion performed by the root command.
func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	f := readConvertFlags(cmd)

	matchReplace, err := naming.ParseMatchReplace(f.matchReplace)
	if err != nil {
		return fmt.Errorf("invalid --match-replace-pattern: %w", err)
	}

	outputRoot, err := filepath.Abs(f.outputPath)
	if err != nil {
		return fmt.Errorf("invalid --output-path %q: %w", f.outputPath, err)
	}

	opts := executor.Options{
		Direction:       f.direction,
		Recursive:       f.recursive,
		StrictExtension: f.strictExt,
		InputRoot:       f.inputRoot,
		OutputRoot:      outputRoot,
		MatchReplace:    matchReplace,
		Prefix:          f.prefix,
		KeepExtension:   f.keepExtension,
		MaxWorkers:      cfg.MaxWorkers,
	}

	if f.dryRun {
		return runDryRun(cmd, args, opts, f)
	}

	// Console logger for real-time progress, file logger for the run log
	consoleLog := logger.NewConsoleLogger(cmd.OutOrStdout(), cfg.LogLevel)
	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer fileLog.Close()

	multiLog := &multiLogger{
		loggers: []executor.Logger{consoleLog, fileLog},
	}

	invoker := converter.NewInvokerWithPath(cfg.Converter, cfg.TaskTimeout)
	orch := executor.NewOrchestrator(invoker, multiLog, opts)

	result, execErr := orch.Execute(cmd.Context(), args)
	if result == nil {
		if errors.Is(execErr, executor.ErrEnvironmentNotReady) {
			display.WarnConverterMissing(cfg.Converter).Display(cmd.ErrOrStderr())
		}
		return execErr
	}

	if f.report != "" {
		if err := writeReport(f.report, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if result.NoFilesMatched {
		return noFilesMatched(cmd, args, f)
	}

	if cfg.History.Enabled {
		if err := recordHistory(cmd.Context(), cfg.History.DBPath, result); err != nil {
			multiLog.Warnf("failed to record run history: %v", err)
		}
	}

	if execErr != nil {
		return fmt.Errorf("batch interrupted: %w", execErr)
	}

	if batchErr := executor.NewBatchError(result); batchErr != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Failure details written to: %s\n", filepath.Join(cfg.LogDir, "files"))
		return batchErr
	}
	return nil
}

// runDryRun lists the planned conversions. The converter is neither
// required nor started, and the output root is not locked.
func runDryRun(cmd *cobra.Command, args []string, opts executor.Options, f convertFlags) error {
	plan, err := executor.BuildPlan(args, opts)
	if err != nil {
		return err
	}
	for _, w := range plan.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", w)
	}

	if plan.Empty() {
		return noFilesMatched(cmd, args, f)
	}

	listing := display.NewPlanListing(cmd.OutOrStdout(), len(plan.Entries))
	listing.Start(plan.Direction)
	for _, entry := range plan.Entries {
		if entry.Decided != nil {
			listing.Decided(*entry.Decided)
			continue
		}
		listing.Convert(entry.Task)
	}
	listing.Complete()
	return nil
}

// noFilesMatched shows the empty-batch warning, pointing at the direction
// flag when documents of the other kind are present.
func noFilesMatched(cmd *cobra.Command, args []string, f convertFlags) error {
	opposite := display.CountFilesWithExt(args, f.direction.TargetExt(), f.recursive)
	display.WarnNoFilesMatched(args, f.direction, opposite).Display(cmd.ErrOrStderr())
	if f.failOnEmpty {
		return errNoFilesMatched
	}
	return nil
}
