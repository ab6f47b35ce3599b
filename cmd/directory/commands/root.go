package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"company-directory/internal/config"
)

var (
	configPath string
	logFile    string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

// Execute runs the root command.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !silent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "directory",
		Short:         "Browse and serve a company directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = c

			l, err := newLogger(verbose, logFile)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a yaml config file")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(serveCmd(), browseCmd(), listCmd())
	return root
}

func newLogger(verbose bool, output string) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if output != "" {
		zc.OutputPaths = []string{output}
		zc.ErrorOutputPaths = []string{output}
	}
	return zc.Build()
}

// silentError has already been reported to the user.
type silentError struct {
	err error
}

func (e silentError) Error() string { return e.err.Error() }
func (e silentError) Unwrap() error { return e.err }

func silent(err error) bool {
	var se silentError
	return errors.As(err, &se)
}
