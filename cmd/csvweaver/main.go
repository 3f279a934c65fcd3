package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/drblury/csvweaver/csvresponse"
	"github.com/drblury/csvweaver/internal/config"
)

var version = "dev"

const (
	exitOK = iota
	exitGeneral
	exitInvalidInput
	exitFormatting
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "csvweaver",
		Short: "Render rows as CSV downloads",
		Long: `csvweaver formats rows of named or positional cells as CSV in a
chosen delimiter, quoting style and character encoding. It runs as an HTTP
export service backed by MongoDB datasets or converts row documents locally.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default .csvweaver.yaml or ~/.csvweaver/config.yaml)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	rootCmd.AddCommand(
		newServeCommand(loadConfig),
		newConvertCommand(loadConfig),
		newHealthcheckCommand(),
	)
	return rootCmd
}

// mapErrorToExitCode maps command errors to process exit codes.
func mapErrorToExitCode(err error) int {
	if err == nil {
		return exitOK
	}

	var fmtErr *csvresponse.FormattingError
	if errors.As(err, &fmtErr) {
		return exitFormatting
	}

	var rowErr *csvresponse.InvalidRowError
	if errors.As(err, &rowErr) ||
		errors.Is(err, csvresponse.ErrUnsupportedInput) ||
		errors.Is(err, csvresponse.ErrInvalidOptions) ||
		errors.Is(err, config.ErrInvalidConfig) {
		return exitInvalidInput
	}

	return exitGeneral
}

// readInput reads the named file, or in when name is empty or "-".
func readInput(in io.Reader, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(in)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}
