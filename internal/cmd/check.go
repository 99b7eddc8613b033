package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/harrison/qbc/internal/converter"
	"github.com/harrison/qbc/internal/display"
	"github.com/harrison/qbc/internal/executor"
	"github.com/harrison/qbc/internal/logger"
	"github.com/spf13/cobra"
)

// versionTimeout bounds "<converter> --version".
const versionTimeout = 30 * time.Second

// NewCheckCommand creates the 'qbc check' command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check that the converter is installed",
		Long: `Check that the configured converter (quarto by default) can be found
on PATH and report its version.

The converter can be changed with the "converter" config key or the
QBC_CONVERTER environment variable.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .qbc/config.yaml)")

	return cmd
}

// runCheck executes the check command
func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	invoker := converter.NewInvokerWithPath(cfg.Converter, 0)
	path, err := invoker.CheckInstalled()
	if err != nil {
		display.WarnConverterMissing(cfg.Converter).Display(cmd.ErrOrStderr())
		return fmt.Errorf("%w: %w", executor.ErrEnvironmentNotReady, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), versionTimeout)
	defer cancel()

	version, err := invoker.Version(ctx)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	if logger.IsTerminal(out) {
		green.EnableColor()
	} else {
		green.DisableColor()
	}
	green.Fprint(out, "✓ ")
	fmt.Fprintf(out, "%s %s is installed at %s\n", cfg.Converter, version, path)
	return nil
}
