package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/driftgrid/internal/cli"
	derrors "github.com/matzehuels/driftgrid/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	preRun := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		return preRun(cmd, args)
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// exitCode maps an error to the process status: 130 after an interrupt
// and 2 for bad input or configuration.
func exitCode(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return 130
	case derrors.Is(err, derrors.ErrCodeInvalidInput),
		derrors.Is(err, derrors.ErrCodeInvalidConfig),
		derrors.Is(err, derrors.ErrCodeInvalidFormat):
		return 2
	}
	return 1
}
