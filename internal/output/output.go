package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// ErrClipboardUnavailable is returned when no clipboard tool is installed
var ErrClipboardUnavailable = errors.New("no clipboard tool available")

// systemClipboard implements Clipboard on top of the platform clipboard
type systemClipboard struct{}

// Copy copies text to the system clipboard
func (systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Output Modes
// ============================================================================

// Mode represents where an exported recap should go
type Mode string

const (
	ModePrint Mode = "print"
	ModeCopy  Mode = "copy"
	ModeFile  Mode = "file"
)

// ErrUnknownMode is returned for modes other than print, copy and file
var ErrUnknownMode = errors.New("unknown output mode")

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModePrint, ModeCopy, ModeFile:
		return m, nil
	case "":
		return ModePrint, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// ============================================================================
// Writer
// ============================================================================

// Writer delivers exported text to stdout, the clipboard or a file
type Writer struct {
	stdout    io.Writer
	clipboard Clipboard
	path      string
	log       *zap.Logger
	// print instead when the clipboard is unavailable
	printFallback bool
}

// NewWriter creates a writer that prints to stdout and writes file mode
// output to path
func NewWriter(path string) *Writer {
	return &Writer{
		stdout:        os.Stdout,
		clipboard:     systemClipboard{},
		path:          path,
		log:           zap.NewNop(),
		printFallback: true,
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (w *Writer) WithClipboard(c Clipboard) *Writer {
	w.clipboard = c
	return w
}

// WithStdout redirects print mode
func (w *Writer) WithStdout(out io.Writer) *Writer {
	w.stdout = out
	return w
}

// WithoutPrintFallback makes copy mode fail with ErrClipboardUnavailable
// instead of printing. Used while a full screen program owns stdout.
func (w *Writer) WithoutPrintFallback() *Writer {
	w.printFallback = false
	return w
}

// WithLogger sets the logger
func (w *Writer) WithLogger(l *zap.Logger) *Writer {
	if l != nil {
		w.log = l
	}
	return w
}

// Path returns the file mode target
func (w *Writer) Path() string {
	return w.path
}

// Write hands text to the destination selected by mode
func (w *Writer) Write(text string, mode Mode) error {
	switch mode {
	case ModePrint, "":
		_, err := fmt.Fprint(w.stdout, text)
		return err
	case ModeCopy:
		if err := w.clipboard.Copy(text); err != nil {
			if errors.Is(err, ErrClipboardUnavailable) && w.printFallback {
				w.log.Warn("clipboard unavailable, printing export")
				_, err := fmt.Fprint(w.stdout, text)
				return err
			}
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		w.log.Debug("export copied", zap.Int("bytes", len(text)))
		return nil
	case ModeFile:
		return w.writeFile(text)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

func (w *Writer) writeFile(text string) error {
	if w.path == "" {
		return errors.New("file output: no path configured")
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("file output: %w", err)
		}
	}
	if err := os.WriteFile(w.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("file output: %w", err)
	}
	w.log.Debug("export written", zap.String("path", w.path), zap.Int("bytes", len(text)))
	return nil
}
