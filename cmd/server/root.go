package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/RSSNext/Folo-sub005/internal/app"
	"github.com/RSSNext/Folo-sub005/internal/config"
	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/service"
	"github.com/RSSNext/Folo-sub005/internal/snowflake"
)

const shutdownTimeout = 10 * time.Second

func newRootCmd() *cobra.Command {
	var a *app.App
	getApp := func() *app.App { return a }

	cmd := &cobra.Command{
		Use:           "folo",
		Short:         "Local-first cache engine for the Folo reader",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !requiresApp(cmd) || a != nil {
				return nil
			}
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			if err := snowflake.Init(cfg.NodeID); err != nil {
				return err
			}
			built, err := app.New(cfg)
			if err != nil {
				return err
			}
			a = built
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				_ = a.Close()
				a = nil
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), getApp())
		},
	}

	cmd.AddCommand(newServeCmd(getApp))
	cmd.AddCommand(newCleanCmd(getApp))
	cmd.AddCommand(newSwitchUserCmd(getApp))
	cmd.AddCommand(newResetCmd(getApp))
	return cmd
}

func newServeCmd(getApp func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Hydrate the cache, start periodic cleaning and serve the local bridge API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), getApp())
		},
	}
}

func newCleanCmd(getApp func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Evict entities not visited within the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			ctx := commandContext(cmd)
			if err := a.Bootstrap.Hydrate(ctx); err != nil {
				return err
			}
			report, err := a.Cleaner.CleanOutdatedData(ctx)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return report.Saga.Err()
		},
	}
}

func newSwitchUserCmd(getApp func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch-user <user-id>",
		Short: "Drop cached data only other users needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID := strings.TrimSpace(args[0])
			if userID == "" {
				return errors.New("user id is required")
			}
			a := getApp()
			ctx := commandContext(cmd)
			if err := a.Bootstrap.Hydrate(ctx); err != nil {
				return err
			}
			report, err := a.SwitchUser(ctx, userID)
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report)
			return report.Saga.Err()
		},
	}
}

func newResetCmd(getApp func() *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe every cached table and visit record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getApp().Logout(commandContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "local data reset")
			return nil
		},
	}
}

func serve(parent context.Context, a *app.App) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.Serve() }()

	select {
	case err := <-errCh:
		a.Scheduler.Stop()
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "module", "app", "action", "shutdown", "resource", "server", "result", "ok")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printReport(w io.Writer, report service.CleanReport) {
	fmt.Fprintf(w, "feeds=%d entries=%d lists=%d inboxes=%d subscriptions=%d\n",
		report.Feeds, report.Entries, report.Lists, report.Inboxes, report.Subscriptions)
	if failed := report.Saga.FailedSteps(); len(failed) > 0 {
		fmt.Fprintf(w, "failed steps: %s\n", strings.Join(failed, ", "))
	}
}

func requiresApp(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		name := c.Name()
		if name == "help" || name == "completion" {
			return false
		}
	}
	return true
}
