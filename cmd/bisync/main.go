package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"bisync/internal/dirsyncer"
	"bisync/internal/log"
	"bisync/internal/model"
	"bisync/internal/settings"
)

//errSyncFailed means the failure is already logged, only the exit status is left to report.
var errSyncFailed = errors.New("sync failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if errors.Is(err, errSyncFailed) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bisync [flags] <left> <right>",
		Short: "Two-way reconciliation of two directory trees",
		Long: `bisync compares two directory trees, reports the entries missing on each side
(or smaller on it) and the disk space each side needs, then copies them in both directions.
Entries whose names start with the hidden prefix are ignored.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := settings.NewViper(cmd.Flags())
			if err != nil {
				return err
			}
			stg, err := settings.New(v, args)
			if err != nil {
				return err
			}
			return runSync(cmd.Context(), stg)
		},
	}
	settings.RegisterFlags(cmd.Flags())
	return cmd
}

func runSync(ctx context.Context, stg *settings.Settings) error {
	logger, err := log.New(stg.LogLevel, stg.LogFile)
	if err != nil {
		return fmt.Errorf("cannot create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := stg.Validate(); err != nil {
		logger.Error("invalid settings", log.Cause(err))
		return errSyncFailed
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncer := dirsyncer.New(logger, *stg, model.NewOSRoot(stg.LeftDir), model.NewOSRoot(stg.RightDir))
	if _, err := syncer.Sync(ctx); err != nil {
		return errSyncFailed
	}
	return nil
}
