package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/IvanShishkin/fdigest/internal/config"
	"github.com/IvanShishkin/fdigest/internal/core"
	"github.com/IvanShishkin/fdigest/internal/filesystem"
	"github.com/IvanShishkin/fdigest/internal/prompt"
	"github.com/IvanShishkin/fdigest/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorOrange = "\033[38;5;208m"
	colorGray   = "\033[38;5;245m"
)

var version = "0.1.0"

// Exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitDifferences = 2
)

// errDifferences ends compare and verify runs that found differences
var errDifferences = errors.New("differences found")

// app holds the console streams and the logger shared by all commands
type app struct {
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	verbose bool
	logger  *zap.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{in: os.Stdin, out: os.Stdout, errOut: os.Stderr}
	err := newRootCmd(a).ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	os.Exit(a.exitCode(err))
}

// exitCode maps a command error to the process exit status and reports it
func (a *app) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errDifferences):
		return exitDifferences
	default:
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return exitError
	}
}

// newLogger builds a development logger when verbose, otherwise one that only reports errors
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}

	// Silent logger - only errors
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}

// digestFlags are the command line overrides of the loaded configuration
type digestFlags struct {
	configFile   string
	format       string
	outputDir    string
	onError      string
	creationTime string
	blockSize    string
	exclude      []string
	noProgress   bool
}

func newRootCmd(a *app) *cobra.Command {
	var flags digestFlags

	rootCmd := &cobra.Command{
		Use:   "fdigest [path]",
		Short: "fdigest - SHA-512 inventory of a directory tree",
		Long: `Walks a directory tree, computes the SHA-512 digest of every file and writes
an inventory report with path, size, timestamps and digest of each file.
Without a path the directory is asked for on standard input.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.logger != nil {
				return nil
			}
			logger, err := newLogger(a.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags before doing anything
			if err := validateFlags(flags.format, flags.onError, flags.creationTime); err != nil {
				fmt.Fprintf(a.out, "\n  %s✗ Invalid parameter:%s %s\n\n", colorRed, colorReset, err.Error())
				return err
			}

			cfg, err := loadConfig(cmd, &flags)
			if err != nil {
				return err
			}

			root, err := a.resolveRoot(cfg, args)
			if err != nil {
				return err
			}

			return a.runDigest(cmd.Context(), cfg, root)
		},
	}

	// Global verbose flag
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flags.configFile, "config", "", "Config file (yaml, toml, json or ini)")

	rootCmd.Flags().StringVarP(&flags.format, "format", "f", "", "Report format: "+strings.Join(config.ReportFormats, ", "))
	rootCmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "Directory the report is written to (default: current directory)")
	rootCmd.Flags().StringVar(&flags.onError, "on-error", "", "Unreadable files: skip or abort")
	rootCmd.Flags().StringVar(&flags.creationTime, "creation-time", "", "Creation time source: ctime or birth")
	rootCmd.Flags().StringVar(&flags.blockSize, "block-size", "", "Read block size for hashing (e.g. 64K, 1M)")
	rootCmd.Flags().StringSliceVar(&flags.exclude, "exclude", nil, "Directory names to leave out")
	rootCmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Do not print progress")

	// Disable built-in help command
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(verifyCmd(a, &flags))

	rootCmd.SetIn(a.in)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	return rootCmd
}

// loadConfig reads the configuration and applies the flags set on the command line
func loadConfig(cmd *cobra.Command, flags *digestFlags) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.configFile)
	if err != nil {
		return nil, err
	}

	// Override config with CLI flags
	if flags.format != "" {
		cfg.ReportFormat = flags.format
	}
	if flags.outputDir != "" {
		cfg.OutputDir = flags.outputDir
	}
	if flags.onError != "" {
		cfg.OnError = flags.onError
	}
	if flags.creationTime != "" {
		cfg.CreationTime = flags.creationTime
	}
	if flags.blockSize != "" {
		cfg.BlockSize = flags.blockSize
	}
	if len(flags.exclude) > 0 {
		cfg.Exclude = flags.exclude
	}
	if flags.noProgress {
		cfg.Progress = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRoot takes the root from the argument or the config, and asks for it otherwise
func (a *app) resolveRoot(cfg *config.Config, args []string) (string, error) {
	root := cfg.Root
	if len(args) > 0 {
		root = args[0]
	}

	if root == "" {
		return prompt.NewPrompter(a.in, a.out).Ask()
	}
	if err := prompt.ValidateRoot(root, nil); err != nil {
		return "", err
	}
	return root, nil
}

func (a *app) runDigest(ctx context.Context, cfg *config.Config, root string) error {
	scanner, err := core.NewScanner(cfg, filesystem.NewOS(cfg), a.logger)
	if err != nil {
		return err
	}
	if cfg.Progress {
		scanner.SetProgressCallback(newProgressPrinter(a.out))
	}

	results, err := scanner.Run(ctx, root)
	if err != nil {
		a.logger.Error("Digest failed", zap.Error(err))
		return err
	}

	report.WriteSummary(a.out, results)
	return nil
}

// validateFlags validates enumerated CLI flags
func validateFlags(format, onError, creationTime string) error {
	if format != "" && !contains(config.ReportFormats, format) {
		return fmt.Errorf("--format must be one of: %s (got: %s)", strings.Join(config.ReportFormats, ", "), format)
	}
	if onError != "" && !contains(config.ErrorPolicies, onError) {
		return fmt.Errorf("--on-error must be one of: %s (got: %s)", strings.Join(config.ErrorPolicies, ", "), onError)
	}
	if creationTime != "" && !contains(config.CreationSources, creationTime) {
		return fmt.Errorf("--creation-time must be one of: %s (got: %s)", strings.Join(config.CreationSources, ", "), creationTime)
	}
	return nil
}

// contains checks if a slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
