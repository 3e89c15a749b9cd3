package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/app"
	"github.com/sentimenta/moodsync/internal/config"
	"github.com/sentimenta/moodsync/internal/observability"
	apperrors "github.com/sentimenta/moodsync/pkg/util"
)

const exitNotAuthenticated = 2

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd().ExecuteContext(ctx)
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	if errors.Is(err, apperrors.ErrNotAuthenticated) {
		stop()
		os.Exit(exitNotAuthenticated)
	}
	stop()
	os.Exit(1)
}

// env is built once per invocation by the root command.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func rootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "moodsync",
		Short:         "Keep a local session and data in sync with a Sentimenta backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := observability.NewLogger(cfg.Logger)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			e.cfg, e.logger = cfg, logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}

	cmd.AddCommand(
		loginCmd(e),
		logoutCmd(e),
		whoamiCmd(e),
		statusCmd(e),
		syncCmd(e),
		watchCmd(e),
		mockServerCmd(e),
	)
	return cmd
}

// withApp wires the client, runs the load-time refresh and hands it to fn.
func (e *env) withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	a, err := app.New(ctx, e.cfg, e.logger, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()
	a.Start(ctx)
	return fn(ctx, a)
}
