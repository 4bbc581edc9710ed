// Package commands implements the ibankctl command tree.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/ibank/internal/app"
	"github.com/ericfisherdev/ibank/internal/application"
	"github.com/ericfisherdev/ibank/internal/config"
	"github.com/ericfisherdev/ibank/internal/domain/model"
	"github.com/ericfisherdev/ibank/internal/logging"
)

var (
	configFile string
	verbose    bool
	appCtx     *app.App
)

// Execute runs the root command against os.Args until it finishes or the
// process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	err := run(ctx, root)
	report(root.ErrOrStderr(), err)
	return err
}

// alertError is a load failure whose alert has already been printed.
type alertError struct {
	err error
}

func (e *alertError) Error() string { return e.err.Error() }
func (e *alertError) Unwrap() error { return e.err }

// report prints err unless the screen's alert already told the user.
func report(w io.Writer, err error) {
	var shown *alertError
	if err == nil || errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// run executes root and releases whatever PersistentPreRunE opened, on
// success and failure alike.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if appCtx != nil {
		if closeErr := appCtx.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		appCtx = nil
	}
	return err
}

func newRootCmd() *cobra.Command {
	appCtx = nil

	root := &cobra.Command{
		Use:           "ibankctl",
		Short:         "Browse the iBank list screens from a terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if configFile != "" {
				if err := os.Setenv(config.EnvPrefix+"CONFIG_FILE", configFile); err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			logger, err := logging.New(cmd.ErrOrStderr(), level, cfg.LogFormat)
			if err != nil {
				return err
			}

			appCtx, err = app.Build(cmd.Context(), cfg, logger)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "YAML config file (overrides IBANK_CONFIG_FILE)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log item loads to stderr")

	root.AddCommand(screensCmd(), listCmd(), showCmd())

	return root
}

// loadScreen resolves id and loads it. A failed load prints the screen's
// alert to stderr and returns the load error marked as already reported.
func loadScreen(cmd *cobra.Command, id string) (*application.ListScreen, []application.ListItem, error) {
	screen, ok := appCtx.Screens.Get(model.ScreenID(id))
	if !ok {
		return nil, nil, fmt.Errorf("unknown screen %q", id)
	}

	items, err := screen.Load(cmd.Context())
	if err != nil {
		alert, ok := screen.Alert()
		if !ok {
			return nil, nil, err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s [%s]\n", alert.Title, alert.Message, alert.Action)
		return nil, nil, &alertError{err: err}
	}
	return screen, items, nil
}

func parseRow(arg string) (int, error) {
	row, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("row must be a number, got %q", arg)
	}
	return row, nil
}
