package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output_file"`
	LogLevel         string `mapstructure:"log_level"`
	LogEncoding      string `mapstructure:"log_encoding"`
	LogFile          string `mapstructure:"log_file"`
	InProgressHeader string `mapstructure:"in_progress_header"`
	NewHeader        string `mapstructure:"new_header"`
	DedupeUpdated    bool   `mapstructure:"dedupe_updated"`
	GlamourStyle     string `mapstructure:"glamour_style"`
	ColorTitle       string `mapstructure:"color_title"`
	ColorUpdated     string `mapstructure:"color_updated"`
	ColorDone        string `mapstructure:"color_done"`
	ColorNew         string `mapstructure:"color_new"`
	ColorDim         string `mapstructure:"color_dim"`
	ColorCursor      string `mapstructure:"color_cursor"`
	ColorBorder      string `mapstructure:"color_border"`
	ColorSelected    string `mapstructure:"color_selected"`
}

// C is the global config instance
var C Config

// Init initializes configuration with viper
func Init() error {
	viper.SetDefault("output", "print")
	viper.SetDefault("output_file", "recap.md")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_encoding", "json")
	viper.SetDefault("log_file", defaultLogFile())
	viper.SetDefault("in_progress_header", "# Tarefas em andamento:")
	viper.SetDefault("new_header", "# Tarefas novas:")
	viper.SetDefault("dedupe_updated", false)
	viper.SetDefault("glamour_style", "auto")
	viper.SetDefault("color_title", "37")    // White
	viper.SetDefault("color_updated", "33")  // Yellow
	viper.SetDefault("color_done", "32")     // Green
	viper.SetDefault("color_new", "36")      // Cyan
	viper.SetDefault("color_dim", "241")
	viper.SetDefault("color_cursor", "212")
	viper.SetDefault("color_border", "240")
	viper.SetDefault("color_selected", "236")

	viper.SetConfigName("recapmd")
	viper.SetConfigType("yaml")

	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "recapmd"))
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("RECAPMD")
	viper.AutomaticEnv()

	// A missing config file is fine, a broken one is reported
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			_ = viper.Unmarshal(&C)
			return fmt.Errorf("read config: %w", err)
		}
	}

	return viper.Unmarshal(&C)
}

// defaultLogFile places the log under the user cache dir
func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "recapmd", "recapmd.log")
}

// expandTilde expands ~ to the user's home directory
func expandTilde(path string) string {
	if len(path) == 0 {
		return path
	}
	if path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetOutput returns the output mode
func GetOutput() string {
	return viper.GetString("output")
}

// GetOutputFile returns the export target for file mode, with tilde expansion
func GetOutputFile() string {
	return expandTilde(viper.GetString("output_file"))
}

// GetLogLevel returns the log level
func GetLogLevel() string {
	return viper.GetString("log_level")
}

// GetLogEncoding returns json or console
func GetLogEncoding() string {
	return viper.GetString("log_encoding")
}

// GetLogFile returns the log path with tilde expansion. Empty disables logging.
func GetLogFile() string {
	return expandTilde(viper.GetString("log_file"))
}

// GetInProgressHeader returns the header above existing items
func GetInProgressHeader() string {
	return viper.GetString("in_progress_header")
}

// GetNewHeader returns the header above items created this session
func GetNewHeader() string {
	return viper.GetString("new_header")
}

// GetDedupeUpdated returns whether add-comment skips an existing [UPDATED]
func GetDedupeUpdated() bool {
	return viper.GetBool("dedupe_updated")
}

// GetGlamourStyle returns the export preview style
func GetGlamourStyle() string {
	return viper.GetString("glamour_style")
}

// GetColorTitle returns ANSI color code for plain titles
func GetColorTitle() string {
	return viper.GetString("color_title")
}

// GetColorUpdated returns ANSI color code for [UPDATED] titles
func GetColorUpdated() string {
	return viper.GetString("color_updated")
}

// GetColorDone returns ANSI color code for [DONE] titles
func GetColorDone() string {
	return viper.GetString("color_done")
}

// GetColorNew returns ANSI color code for new items and comments
func GetColorNew() string {
	return viper.GetString("color_new")
}

// GetColorDim returns the color for secondary text
func GetColorDim() string {
	return viper.GetString("color_dim")
}

// GetColorCursor returns the cursor color
func GetColorCursor() string {
	return viper.GetString("color_cursor")
}

// GetColorBorder returns the border color
func GetColorBorder() string {
	return viper.GetString("color_border")
}

// GetColorSelected returns the selected row background
func GetColorSelected() string {
	return viper.GetString("color_selected")
}

// SetOutput sets output mode at runtime
func SetOutput(mode string) {
	viper.Set("output", mode)
	C.Output = mode
}

// SetOutputFile sets the export target at runtime
func SetOutputFile(path string) {
	viper.Set("output_file", path)
	C.OutputFile = path
}

// SetLogFile sets the log path at runtime
func SetLogFile(path string) {
	viper.Set("log_file", path)
	C.LogFile = path
}

// SetLogLevel sets the log level at runtime
func SetLogLevel(level string) {
	viper.Set("log_level", level)
	C.LogLevel = level
}
