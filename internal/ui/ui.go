package ui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gubarz/recapmd/internal/output"
	"github.com/gubarz/recapmd/internal/session"
)

// ============================================================================
// Run TUI
// ============================================================================

// getTTY returns file handles for TUI input/output
// Uses /dev/tty so the editor works when the recap arrives on stdin
func getTTY() (in *os.File, out *os.File, cleanup func()) {
	var closers []func()

	stdinInfo, _ := os.Stdin.Stat()
	stdoutInfo, _ := os.Stdout.Stat()
	stdinIsTTY := stdinInfo != nil && stdinInfo.Mode()&os.ModeCharDevice != 0
	stdoutIsTTY := stdoutInfo != nil && stdoutInfo.Mode()&os.ModeCharDevice != 0

	if stdinIsTTY && stdoutIsTTY {
		return os.Stdin, os.Stdout, func() {}
	}

	in, out = os.Stdin, os.Stdout
	if !stdoutIsTTY {
		if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
			out = f
			closers = append(closers, func() { f.Close() })
		} else {
			out = os.Stderr // Last resort fallback
		}
		// Tell lipgloss to use the TTY for color detection
		lipgloss.SetDefaultRenderer(lipgloss.NewRenderer(out))
	}
	if !stdinIsTTY {
		if f, err := os.OpenFile("/dev/tty", os.O_RDONLY, 0); err == nil {
			in = f
			closers = append(closers, func() { f.Close() })
		}
	}

	return in, out, func() {
		for _, c := range closers {
			c()
		}
	}
}

// Run opens the editor over sess and blocks until the user quits. An export
// accepted in print mode is written to stdout after the screen is restored.
func Run(sess *session.Session, opts Options) error {
	m := newMainModel(sess, opts)

	ttyIn, ttyOut, cleanup := getTTY()
	RefreshStyles() // Refresh after getTTY sets up the renderer
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(ttyOut), tea.WithInput(ttyIn))
	finalModel, err := p.Run()
	cleanup()

	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	result, ok := finalModel.(mainModel)
	if !ok || result.exported == "" {
		return nil
	}
	result.log.Info("printing export", zap.Int("bytes", len(result.exported)))
	return result.opts.Writer.Write(result.exported, output.ModePrint)
}

// renderMarkdown renders md for the terminal with the configured glamour style
func renderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("glamour renderer: %w", err)
	}
	return r.Render(md)
}

// ============================================================================
// Helpers
// ============================================================================

// clamp restricts v to the range [minV, maxV]
func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

// maxInt returns the larger of a and b
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// countLines counts the lines of a newline-terminated block
func countLines(s string) int {
	return strings.Count(s, "\n")
}

// scrollWindow calculates the visible range for a scrollable list
func scrollWindow(cursor, total, height int, offset *int) (start, end int) {
	if cursor < *offset {
		*offset = cursor
	}
	if cursor >= *offset+height {
		*offset = cursor - height + 1
	}
	maxOffset := max(0, total-height)
	*offset = clamp(*offset, 0, maxOffset)

	start = *offset
	end = min(start+height, total)
	return
}

// truncateString truncates a string to maxLen runes with ellipsis
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 1 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}
