// Command ssml converts prose into SSML documents and rewrites existing ones.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/book-expert/logger"
	"github.com/book-expert/ssml-service/internal/config"
	"github.com/book-expert/ssml-service/internal/core"
	"github.com/book-expert/ssml-service/internal/text"
	"github.com/spf13/cobra"
)

// Flag names.
const (
	flagConfig        = "config"
	flagCentralConfig = "central-config"
	flagLogDir        = "log-dir"
)

// Flag descriptions.
const (
	flagConfigDesc        = "Path to a TOML configuration file"
	flagCentralConfigDesc = "Load configuration through the central configurator"
	flagLogDirDesc        = "Directory for log files (overrides [paths].base_logs_dir)"
)

// File names.
const (
	bootstrapLogFileName = "ssml-bootstrap.log"
	logFileName          = "ssml.log"
	logDirPermissions    = 0o750
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath    string
	centralConfig bool
	logDir        string

	cfg *config.Config
	log *logger.Logger
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		os.Exit(1)
	}
}

// run builds the command tree and executes it with args.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	application := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootCmd := application.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	defer application.close()

	return rootCmd.Execute()
}

func (a *app) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ssml",
		Short:         "Cast prose into SSML and modify SSML documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		Long: `ssml turns plain text into Speech Synthesis Markup Language documents
for a text-to-speech engine, one <s> element per sentence, and rewrites
the voice or lexicon of existing documents.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, flagConfig, "", flagConfigDesc)
	rootCmd.PersistentFlags().BoolVar(&a.centralConfig, flagCentralConfig, false, flagCentralConfigDesc)
	rootCmd.PersistentFlags().StringVar(&a.logDir, flagLogDir, "", flagLogDirDesc)

	rootCmd.AddCommand(a.newCastCmd(), a.newModifyCmd(), a.newServeCmd())

	return rootCmd
}

// setup loads configuration and initializes the final logger. A bootstrap
// logger in the temp directory records configuration failures.
func (a *app) setup() error {
	bootstrapLog, err := logger.New(os.TempDir(), bootstrapLogFileName)
	if err != nil {
		return fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	defer func() {
		closeErr := bootstrapLog.Close()
		if closeErr != nil {
			fmt.Fprintf(a.stderr, "error closing bootstrap logger: %v\n", closeErr)
		}
	}()

	cfg, err := a.loadConfig(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return err
	}

	if a.logDir != "" {
		cfg.Paths.BaseLogsDir = a.logDir
	}

	err = os.MkdirAll(cfg.Paths.BaseLogsDir, logDirPermissions)
	if err != nil {
		bootstrapLog.Error("Failed to create logs directory %s: %v", cfg.Paths.BaseLogsDir, err)

		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	finalLog, err := logger.New(cfg.Paths.BaseLogsDir, logFileName)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	a.cfg = cfg
	a.log = finalLog

	return nil
}

func (a *app) loadConfig(bootstrapLog *logger.Logger) (*config.Config, error) {
	switch {
	case a.configPath != "":
		bootstrapLog.Info("Loading configuration from %s", a.configPath)

		return config.LoadFile(a.configPath)
	case a.centralConfig:
		bootstrapLog.Info("Loading configuration through the central configurator")

		return config.Load(bootstrapLog)
	default:
		return config.Default(), nil
	}
}

func (a *app) close() {
	if a.log == nil {
		return
	}

	closeErr := a.log.Close()
	if closeErr != nil {
		fmt.Fprintf(a.stderr, "error closing logger: %v\n", closeErr)
	}
}

// caster returns the caster selected by the normalize setting.
func (a *app) caster(normalize bool) core.Caster {
	if !normalize {
		return core.DefaultCaster
	}

	return core.NormalizingCaster{
		Next:      core.DefaultCaster,
		Normalize: text.NewNormalizer().Normalize,
	}
}
