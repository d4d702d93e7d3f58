package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/logging"
	"github.com/fenilsonani/dupescan/internal/reporter"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	logLevel   string

	extensions    []string
	excludes      []string
	workers       int
	outputFmt     string
	outputFile    string
	maxTextChars  int
	minSimilarity float64
	timeout       string
	quiet         bool
	sniff         bool

	cfg *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Find duplicate and near-duplicate documents",
	Long: `dupescan walks a directory tree and reports files with identical content
and pairs of documents (text, PDF, Word) whose text is similar.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFiles(); err != nil {
			return err
		}

		loaded, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.ApplyEnv(); err != nil {
			return err
		}
		cfg = loaded

		level := cfg.LogLevel
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if verbose {
			level = "debug"
		}
		return logging.Init(level, os.Stderr)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [directory]",
	Short: "Scan a directory for duplicate and similar files",
	Long: `Scans every regular file under the directory, groups byte-identical files
and scores the text similarity of every pair of documents. When no directory
is given you are prompted for one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyScanFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		format, err := reporter.ParseFormat(cfg.Output)
		if err != nil {
			return err
		}

		var root string
		if len(args) > 0 {
			root = args[0]
		} else {
			root, err = promptDirectory(os.Stdin, os.Stdout)
			if err != nil {
				return err
			}
		}

		scnr, err := scanner.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var result *scanner.Result
		if ui.ShouldAnimate(os.Stderr, quiet) {
			result, err = ui.RunScan(ctx, scnr, root, os.Stderr)
		} else {
			result, err = scnr.Scan(ctx, root)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return fmt.Errorf("scan cancelled")
			}
			return fmt.Errorf("scan failed: %w", err)
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(result, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Printf("Report saved to: %s\n", outputFile)
			fmt.Println(reporter.HighestSimilarityLine(result))
			return nil
		}

		rptr := reporter.New(os.Stdout, format)
		if err := rptr.Report(result); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Shows the config file location and the effective configuration after
environment overrides.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
			fmt.Println("Run 'dupescan config init' to create it.")
		}
		fmt.Println()

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := resolveConfigPath()
		if err != nil {
			return err
		}

		created, err := config.EnsureConfigExists(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		if !created {
			fmt.Printf("Config file already exists: %s\n", cfgPath)
			return nil
		}

		log.Info().Str("path", cfgPath).Msg("Wrote default configuration")
		fmt.Printf("Created config file: %s\n", cfgPath)
		return nil
	},
}

var configExampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print an annotated example configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(config.GetExampleConfig())
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	// Scan command flags
	scanCmd.Flags().StringSliceVar(&extensions, "ext", nil, "only scan files with these extensions (e.g. pdf,docx)")
	scanCmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob patterns to exclude")
	scanCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = one per CPU)")
	scanCmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")
	scanCmd.Flags().IntVar(&maxTextChars, "max-text-chars", 0, "compare at most this many characters per file (0 = all)")
	scanCmd.Flags().Float64Var(&minSimilarity, "min-similarity", 0, "only report pairs at or above this score (0-1)")
	scanCmd.Flags().StringVar(&timeout, "timeout", "30s", "per-file text extraction timeout (0 = none)")
	scanCmd.Flags().BoolVar(&quiet, "quiet", false, "no live progress display")
	scanCmd.Flags().BoolVar(&sniff, "sniff", false, "detect the format of files without an extension")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configExampleCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

// applyScanFlags overrides cfg with every scan flag set on the command line
func applyScanFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("ext") {
		cfg.Extensions = extensions
	}
	if flags.Changed("exclude") {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, excludes...)
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("output") {
		cfg.Output = outputFmt
	}
	if flags.Changed("max-text-chars") {
		cfg.Similarity.MaxTextChars = maxTextChars
	}
	if flags.Changed("min-similarity") {
		cfg.Similarity.MinSimilarity = minSimilarity
	}
	if flags.Changed("timeout") {
		cfg.Extraction.Timeout = timeout
	}
	if flags.Changed("sniff") {
		cfg.Extraction.SniffContent = sniff
	}
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.GetConfigPath()
}

func loadConfig() (*config.Config, error) {
	cfgPath, err := resolveConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(cfgPath)
}
