package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
)

// isolate points HOME and the working directory at an empty temp dir so no
// real config file is picked up
func isolate(t *testing.T) string {
	t.Helper()
	viper.Reset()
	C = Config{}
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, ".cache"))
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PWD", dir)
	return dir
}

func TestInitDefaults(t *testing.T) {
	dir := isolate(t)

	if err := Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "output", got: GetOutput(), expected: "print"},
		{name: "in progress header", got: GetInProgressHeader(), expected: "# Tarefas em andamento:"},
		{name: "new header", got: GetNewHeader(), expected: "# Tarefas novas:"},
		{name: "log level", got: GetLogLevel(), expected: "info"},
		{name: "glamour style", got: GetGlamourStyle(), expected: "auto"},
		{name: "color updated", got: GetColorUpdated(), expected: "33"},
		{name: "log file", got: GetLogFile(), expected: filepath.Join(dir, ".cache", "recapmd", "recapmd.log")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.got)
			}
		})
	}

	if GetDedupeUpdated() {
		t.Errorf("expected dedupe_updated to default to false")
	}
	if C.Output != "print" {
		t.Errorf("expected C.Output %q, got %q", "print", C.Output)
	}
}

func TestInitReadsYAML(t *testing.T) {
	dir := isolate(t)

	yaml := strings.Join([]string{
		"output: file",
		"output_file: ~/recaps/week.md",
		"new_header: \"## Fresh\"",
		"dedupe_updated: true",
		"color_done: \"92\"",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "recapmd.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if GetOutput() != "file" {
		t.Errorf("expected output %q, got %q", "file", GetOutput())
	}
	if expected := filepath.Join(dir, "recaps", "week.md"); GetOutputFile() != expected {
		t.Errorf("expected %q, got %q", expected, GetOutputFile())
	}
	if GetNewHeader() != "## Fresh" {
		t.Errorf("expected %q, got %q", "## Fresh", GetNewHeader())
	}
	if !GetDedupeUpdated() || !C.DedupeUpdated {
		t.Errorf("expected dedupe_updated true")
	}
	if GetColorDone() != "92" {
		t.Errorf("expected %q, got %q", "92", GetColorDone())
	}
}

func TestInitEnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("RECAPMD_OUTPUT", "copy")

	if err := Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if GetOutput() != "copy" {
		t.Errorf("expected %q, got %q", "copy", GetOutput())
	}
}

func TestInitMalformedConfig(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "recapmd.yaml"), []byte("output: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Init(); err == nil {
		t.Errorf("expected error for malformed config")
	}
	if GetOutput() != "print" {
		t.Errorf("expected defaults to survive, got %q", GetOutput())
	}
}

func TestSetters(t *testing.T) {
	isolate(t)
	_ = Init()

	SetOutput("copy")
	SetOutputFile("out.md")
	SetLogLevel("debug")
	SetLogFile("")

	if GetOutput() != "copy" || C.Output != "copy" {
		t.Errorf("expected output copy, got %q / %q", GetOutput(), C.Output)
	}
	if GetOutputFile() != "out.md" {
		t.Errorf("expected %q, got %q", "out.md", GetOutputFile())
	}
	if GetLogLevel() != "debug" {
		t.Errorf("expected %q, got %q", "debug", GetLogLevel())
	}
	if GetLogFile() != "" {
		t.Errorf("expected logging disabled, got %q", GetLogFile())
	}
}

func TestExpandTilde(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		in       string
		expected string
	}{
		{in: "", expected: ""},
		{in: "~", expected: dir},
		{in: "~/x.md", expected: filepath.Join(dir, "x.md")},
		{in: "/abs/x.md", expected: "/abs/x.md"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := expandTilde(tt.in); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
