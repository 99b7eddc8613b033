package logger

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ProgressBar renders batch completion as "[=====     ] 5/10 (50%)".
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
	mu          sync.RWMutex
}

// NewProgressBar creates a new progress bar. Widths below 1 fall back to 10.
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{
		total:       total,
		width:       width,
		enableColor: enableColor,
	}
}

// Update sets the current progress value, clamped to [0, total].
func (pb *ProgressBar) Update(current int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = max(0, min(current, pb.total))
}

// Increment increments the current progress by 1
func (pb *ProgressBar) Increment() {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	if pb.current < pb.total {
		pb.current++
	}
}

// Current returns the current progress value
func (pb *ProgressBar) Current() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.current
}

// Percentage returns the progress percentage (0-100)
func (pb *ProgressBar) Percentage() int {
	pb.mu.RLock()
	defer pb.mu.RUnlock()
	return pb.percentage()
}

func (pb *ProgressBar) percentage() int {
	if pb.total <= 0 {
		return 0
	}
	return pb.current * 100 / pb.total
}

// Render returns the bar as a single line without a trailing newline.
func (pb *ProgressBar) Render() string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	filled := 0
	if pb.total > 0 {
		filled = pb.current * pb.width / pb.total
	}

	bar := strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled)
	if pb.enableColor {
		c := color.New(color.FgCyan)
		if pb.current >= pb.total && pb.total > 0 {
			c = color.New(color.FgGreen)
		}
		c.EnableColor()
		bar = c.Sprint(bar)
	}

	return fmt.Sprintf("[%s] %d/%d (%d%%)", bar, pb.current, pb.total, pb.percentage())
}
