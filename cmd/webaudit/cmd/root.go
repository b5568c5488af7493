// Package cmd provides the root command and CLI setup for webaudit.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/codelens/webaudit/analyzer"
	"github.com/codelens/webaudit/inspector/catalog"
	"github.com/codelens/webaudit/inspector/repository"
)

var (
	viewsFlag       string
	procsFlag       string
	defineFlags     []string
	formatFlag      string
	concurrencyFlag int
	gitignoreFlag   bool
	logFileFlag     string
	verboseFlag     bool
)

const rootLongDescription = `Webaudit inventories a legacy web codebase: it resolves the static
include/require graph, extracts referenced tables and the operation
performed on each, reconstructs branch-conditioned query variants and
lists outward-facing endpoints (API calls, form targets, frames,
redirects).

The path argument may be a project root or any file inside it; when a
file is given the project root is detected from common markers
(composer.json, index.php, .git).`

var rootCmd = &cobra.Command{
	Use:   "webaudit [path]",
	Short: "Analyze a legacy web codebase for data access and external endpoints",
	Long:  rootLongDescription,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalysis,
}

func init() {
	configureRootFlags(rootCmd.Flags())
	cobra.OnInitialize(initConfig)
}

func configureRootFlags(flags *pflag.FlagSet) {
	flags.StringVar(&viewsFlag, "views", "", "path to the known-view reference list")
	flags.StringVar(&procsFlag, "procs", "", "path to the known-stored-procedure reference list")
	flags.StringArrayVar(&defineFlags, "define", nil, "inject a symbolic constant as NAME=VALUE (repeatable)")
	flags.StringVar(&formatFlag, "format", "yaml", "report format: yaml or json")
	flags.IntVar(&concurrencyFlag, "concurrency", 1, "number of files analyzed in parallel")
	flags.BoolVar(&gitignoreFlag, "gitignore", true, "honor the project .gitignore during enumeration")
	flags.StringVar(&logFileFlag, "log-file", "", "log file location (defaults beside the binary)")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	configureLogger(logFileFlag, verboseFlag)

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	project, err := repository.New().DetectProject(target)
	if err != nil {
		return fmt.Errorf("failed to detect project root: %w", err)
	}
	slog.Debug("detected project", "root", project.RootPath, "type", project.Type)

	refs := catalog.New()
	if err := refs.Load(cmd.Context(), viewsFlag, procsFlag); err != nil {
		return err
	}
	refs.RegisterSymbols(parseDefines(defineFlags), "cli")

	runner := analyzer.New(
		analyzer.WithCatalog(refs),
		analyzer.WithConcurrency(concurrencyFlag),
		analyzer.WithGitignore(gitignoreFlag),
	)
	report, err := runner.AnalyzeDir(cmd.Context(), project.RootPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	slog.Info("analysis complete", "files", len(report.Files), "errors", len(report.Errors))

	var data []byte
	switch formatFlag {
	case "json":
		data, err = analyzer.EmitJSON(report)
	case "yaml":
		data, err = analyzer.EmitYAML(report)
	default:
		return fmt.Errorf("unknown format: %s", formatFlag)
	}
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// parseDefines converts NAME=VALUE pairs into the symbol-registration shape.
func parseDefines(defines []string) map[string]interface{} {
	values := make(map[string]interface{}, len(defines))
	for _, define := range defines {
		name, value, found := strings.Cut(define, "=")
		if !found || name == "" {
			continue
		}
		values[name] = value
	}
	return values
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
