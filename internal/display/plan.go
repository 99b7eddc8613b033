package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/harrison/qbc/internal/models"
)

// PlanListing prints a dry-run plan one file at a time: [N/Total] src -> dst.
type PlanListing struct {
	writer  io.Writer
	total   int
	current int
	skipped int
	failed  int
}

// NewPlanListing creates a listing for total resolved files.
func NewPlanListing(w io.Writer, total int) *PlanListing {
	return &PlanListing{writer: w, total: total}
}

// Start displays the header message
func (p *PlanListing) Start(direction models.Direction) {
	fmt.Fprintf(p.writer, "Planned conversions (%s, dry run):\n", direction)
}

// Convert lists a file that would be converted.
func (p *PlanListing) Convert(task models.FileTask) {
	p.current++
	color.New(color.FgCyan).Fprintf(p.writer, "  [%d/%d] %s -> %s\n", p.current, p.total, task.SourcePath, task.OutputPath)
}

// Decided lists a file whose outcome is known without converting it.
func (p *PlanListing) Decided(result models.FileResult) {
	p.current++
	c := color.New(color.FgYellow)
	if result.IsFailed() {
		p.failed++
		c = color.New(color.FgRed)
	} else {
		p.skipped++
	}
	c.Fprintf(p.writer, "  [%d/%d] %s %s: %s\n", p.current, p.total, result.Status, result.Task.SourcePath, result.Reason())
}

// Complete displays the totals.
func (p *PlanListing) Complete() {
	would := p.current - p.skipped - p.failed
	fmt.Fprintf(p.writer, "%s %d file(s) would be converted, %d skipped, %d failed\n",
		color.GreenString("✓"), would, p.skipped, p.failed)
}
