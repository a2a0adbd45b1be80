package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeClipboard struct {
	copied []string
	err    error
}

func (f *fakeClipboard) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.copied = append(f.copied, text)
	return nil
}

func TestWritePrint(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter("").WithStdout(&buf)

	if err := w.Write("# recap\n", ModePrint); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "# recap\n" {
		t.Errorf("expected %q, got %q", "# recap\n", buf.String())
	}
}

func TestWriteCopy(t *testing.T) {
	clip := &fakeClipboard{}
	var buf bytes.Buffer
	w := NewWriter("").WithClipboard(clip).WithStdout(&buf)

	if err := w.Write("text", ModeCopy); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(clip.copied) != 1 || clip.copied[0] != "text" {
		t.Errorf("expected clipboard to receive text, got %v", clip.copied)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing printed, got %q", buf.String())
	}
}

func TestWriteCopyError(t *testing.T) {
	boom := errors.New("no display")
	w := NewWriter("").WithClipboard(&fakeClipboard{err: boom})

	if err := w.Write("text", ModeCopy); !errors.Is(err, boom) {
		t.Errorf("expected wrapped clipboard error, got %v", err)
	}
}

func TestWriteCopyUnavailable(t *testing.T) {
	tests := []struct {
		name       string
		fallback   bool
		wantErr    bool
		wantStdout string
	}{
		{name: "prints by default", fallback: true, wantErr: false, wantStdout: "text"},
		{name: "fails without fallback", fallback: false, wantErr: true, wantStdout: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewWriter("").WithClipboard(&fakeClipboard{err: ErrClipboardUnavailable}).WithStdout(&buf)
			if !tt.fallback {
				w.WithoutPrintFallback()
			}

			err := w.Write("text", ModeCopy)
			if tt.wantErr && !errors.Is(err, ErrClipboardUnavailable) {
				t.Errorf("expected ErrClipboardUnavailable, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if buf.String() != tt.wantStdout {
				t.Errorf("expected stdout %q, got %q", tt.wantStdout, buf.String())
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "recap.md")
	w := NewWriter(path)

	if err := w.Write("content", ModeFile); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if string(data) != "content" {
		t.Errorf("expected %q, got %q", "content", data)
	}
}

func TestWriteFileWithoutPath(t *testing.T) {
	if err := NewWriter("").Write("x", ModeFile); err == nil {
		t.Errorf("expected error without a path")
	}
}

func TestWriteUnknownMode(t *testing.T) {
	err := NewWriter("").Write("x", Mode("exec"))
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in       string
		expected Mode
		wantErr  bool
	}{
		{in: "print", expected: ModePrint},
		{in: "copy", expected: ModeCopy},
		{in: "file", expected: ModeFile},
		{in: "", expected: ModePrint},
		{in: "exec", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("expected ErrUnknownMode, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
