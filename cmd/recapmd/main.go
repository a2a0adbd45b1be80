package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gubarz/recapmd/internal/config"
	"github.com/gubarz/recapmd/internal/export"
	"github.com/gubarz/recapmd/internal/item"
	"github.com/gubarz/recapmd/internal/logging"
	"github.com/gubarz/recapmd/internal/markdown"
	"github.com/gubarz/recapmd/internal/output"
	"github.com/gubarz/recapmd/internal/parser"
	"github.com/gubarz/recapmd/internal/session"
	"github.com/gubarz/recapmd/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "recapmd [file]",
	Short: "Review and re-export weekly recap cards",
	Long: `Turns the Markdown of a weekly recap card into editable items.

Comment on items, mark them done, add new ones and export the
result back to Markdown for the task board. Reads stdin when the
file is "-" or when input is piped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEditor,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the items found in a recap",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runParse,
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Parse a recap and export it again without editing",
	Long: `Parses the recap and serializes it straight back. Items marked
[DONE] are dropped and [UPDATED] markers are cleared, which is the
starting point for the next week's card.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Print today's date tag",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), item.DateTag(time.Now()))
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(parseCmd, exportCmd, tagCmd)

	rootCmd.PersistentFlags().StringP("output", "o", "", "Output mode: print, copy, file")
	rootCmd.PersistentFlags().Bool("print", false, "Print the export (shorthand for -o print)")
	rootCmd.PersistentFlags().Bool("copy", false, "Copy the export (shorthand for -o copy)")
	rootCmd.PersistentFlags().String("out-file", "", "Target file for -o file")
	rootCmd.PersistentFlags().String("log-file", "", "Log file path")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	parseCmd.Flags().StringP("format", "f", "text", "Output format: text, yaml, json")

	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

// applyFlags copies command line overrides into the config
func applyFlags(cmd *cobra.Command) {
	if p, _ := cmd.Flags().GetBool("print"); p {
		config.SetOutput(string(output.ModePrint))
	} else if c, _ := cmd.Flags().GetBool("copy"); c {
		config.SetOutput(string(output.ModeCopy))
	} else if o, _ := cmd.Flags().GetString("output"); o != "" {
		config.SetOutput(o)
	}
	if f, _ := cmd.Flags().GetString("out-file"); f != "" {
		config.SetOutputFile(f)
	}
	if f, _ := cmd.Flags().GetString("log-file"); f != "" {
		config.SetLogFile(f)
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		config.SetLogLevel(l)
	}
}

// ============================================================================
// Shared setup
// ============================================================================

// app bundles what every subcommand needs
type app struct {
	log     *zap.Logger
	cleanup func()
	mode    output.Mode
	writer  *output.Writer
	items   []item.Item
	report  parser.Report
}

// setup applies flags, builds the logger and parses the input
func setup(cmd *cobra.Command, args []string) (*app, error) {
	applyFlags(cmd)

	mode, err := output.ParseMode(config.GetOutput())
	if err != nil {
		return nil, err
	}

	log, cleanup, err := logging.New(logging.Config{
		Level:    config.GetLogLevel(),
		Encoding: config.GetLogEncoding(),
		File:     config.GetLogFile(),
	})
	if err != nil {
		return nil, err
	}

	raw, source, err := readInput(args, os.Stdin)
	if err != nil {
		cleanup()
		return nil, err
	}

	p := parser.NewParser(markdown.NewTokenizer(), parser.WithLogger(log))
	items, report := p.ParseWithReport(raw)
	log.Info("recap loaded",
		zap.String("source", source),
		zap.Int("items", report.Items),
		zap.Int("done_dropped", report.Done))

	return &app{
		log:     log,
		cleanup: cleanup,
		mode:    mode,
		writer:  output.NewWriter(config.GetOutputFile()).WithLogger(log),
		items:   items,
		report:  report,
	}, nil
}

// readInput loads the recap from a file argument or stdin
func readInput(args []string, stdin *os.File) (raw, source string, err error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read recap: %w", err)
		}
		return string(data), args[0], nil
	}

	if len(args) == 0 {
		if info, err := stdin.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", "", errors.New("no input: pass a file or pipe the recap on stdin")
		}
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), "stdin", nil
}

func rules() item.Rules {
	return item.Rules{DedupeUpdated: config.GetDedupeUpdated()}
}

func layout() export.Layout {
	return export.Layout{
		InProgressHeader: config.GetInProgressHeader(),
		NewHeader:        config.GetNewHeader(),
	}
}

// ============================================================================
// Commands
// ============================================================================

func runEditor(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer a.cleanup()

	sess := session.New(a.items, session.WithLogger(a.log))
	return ui.Run(sess, ui.Options{
		Rules:        rules(),
		Layout:       layout(),
		Writer:       a.writer,
		Mode:         a.mode,
		GlamourStyle: config.GetGlamourStyle(),
		Logger:       a.log,
	})
}

func runParse(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer a.cleanup()

	format, _ := cmd.Flags().GetString("format")
	if err := writeItems(cmd.OutOrStdout(), a.items, format); err != nil {
		return err
	}

	r := a.report
	fmt.Fprintf(cmd.ErrOrStderr(), "%d items (%d done, %d short, %d headings skipped)\n",
		r.Items, r.Done, r.Short, r.Headings)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd, args)
	if err != nil {
		return err
	}
	defer a.cleanup()

	text := export.Serialize(a.items, layout())
	return a.writer.Write(text, a.mode)
}

// writeItems renders the parsed collection in the requested format
func writeItems(w io.Writer, items []item.Item, format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		for _, it := range items {
			fmt.Fprintf(w, "%s. %s\n", it.ID, it.Title)
			for i, c := range it.Comments {
				if i == 0 {
					fmt.Fprintf(w, "   %s\n", c.Content)
					continue
				}
				fmt.Fprintf(w, "   %d: %s\n", i, c.Content)
			}
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(items); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (supported: text, yaml, json)", format)
	}
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
