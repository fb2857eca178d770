package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aledsdavies/bashcst/internal/config"
	"github.com/spf13/cobra"
)

// Build-time variables - can be set via ldflags
var (
	Version   string = "dev"
	BuildTime string = "unknown"
	GitCommit string = "unknown"
)

// Global flags
var (
	configFile   string
	format       string
	templateFile string
	trivia       bool
	validate     bool
	useOracle    bool
	showDigest   bool
	showDiff     bool
	write        bool
	debug        bool
)

var (
	cfg    *config.Config
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bashcst",
	Short: "Lossless Bash parser and generator",
	Long: `bashcst parses Bash scripts into a concrete syntax tree that keeps every
space, comment and quote, and regenerates the exact source from it.
Commands read the named file, or standard input when no file or "-" is given.`,
	SilenceUsage:               true,
	SuggestionsMinimumDistance: 2,
	PersistentPreRunE:          setup,
}

var tokensCmd = &cobra.Command{
	Use:   "tokens [file]",
	Short: "Print the token stream of a script",
	Args:  cobra.MaximumNArgs(1),
	RunE:  tokensCommand,
}

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the syntax tree of a script",
	Long: `Print the syntax tree of a script as JSON, YAML or CBOR.
Trivia (spaces, newlines, comments) is left out unless --trivia is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: parseCommand,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Regenerate a script from its syntax tree",
	Args:  cobra.MaximumNArgs(1),
	RunE:  fmtCommand,
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Verify that scripts round-trip exactly",
	Long: `Parse each script, regenerate it and check that the output is identical,
that a second pass changes nothing and that the reparsed tree has the same
shape. With --oracle the script is also parsed with tree-sitter-bash.`,
	RunE: checkCommand,
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "List the functions, variables and commands of a script",
	Args:  cobra.MaximumNArgs(1),
	RunE:  symbolsCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display version, build time, and git commit information for bashcst.",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "bashcst %s\n", Version)
		fmt.Fprintf(out, "Built: %s\n", BuildTime)
		fmt.Fprintf(out, "Commit: %s\n", GitCommit)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	parseCmd.Flags().StringVarP(&format, "format", "o", "json", "Tree encoding: json, yaml or cbor")
	parseCmd.Flags().BoolVar(&trivia, "trivia", false, "Include spaces, newlines and comments")
	parseCmd.Flags().BoolVar(&validate, "validate", false, "Validate the tree against the JSON Schema")

	fmtCmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")

	checkCmd.Flags().BoolVar(&useOracle, "oracle", false, "Cross-check with tree-sitter-bash")
	checkCmd.Flags().BoolVar(&showDigest, "digest", false, "Print BLAKE2b digests")
	checkCmd.Flags().BoolVar(&showDiff, "diff", true, "Print a unified diff when regeneration differs")

	symbolsCmd.Flags().StringVar(&templateFile, "template", "", "Custom text/template for the outline")

	rootCmd.AddCommand(tokensCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the config file, applies flags set on the command line and
// configures logging.
func setup(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	loaded, err := config.Load(configFile)
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = format
	}
	if flags.Changed("trivia") {
		cfg.Trivia = trivia
	}
	if flags.Changed("validate") {
		cfg.Validate = validate
	}
	if flags.Changed("oracle") {
		cfg.Oracle = useOracle
	}
	if flags.Changed("digest") {
		cfg.Digest = showDigest
	}
	if flags.Changed("diff") {
		cfg.Diff = showDiff
	}
	if err := cfg.Check(); err != nil {
		return err
	}

	logger.Debug("configuration loaded", "config", configFile, "format", cfg.Format,
		"trivia", cfg.Trivia, "oracle", cfg.Oracle)
	return nil
}
