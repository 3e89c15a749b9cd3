package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentimenta/moodsync/internal/app"
	"github.com/sentimenta/moodsync/internal/events"
	"github.com/sentimenta/moodsync/internal/mockapi"
	"github.com/sentimenta/moodsync/internal/worker"
)

func loginCmd(e *env) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session cookie",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("MOODSYNC_PASSWORD")
			}
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				subject, err := a.Auth.Login(ctx, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\n", subject)
				if !e.cfg.Session.Persist {
					fmt.Fprintln(cmd.ErrOrStderr(), "note: SESSION_PERSIST is off, the session ends with this process")
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or MOODSYNC_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Auth.Logout(ctx)
				fmt.Fprintln(cmd.OutOrStdout(), "logged out")
				return nil
			})
		},
	}
}

func whoamiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the subject of the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				subject := a.Session.State().Get()
				if !subject.Present() {
					fmt.Fprintln(cmd.OutOrStdout(), "not logged in")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), subject)
				return nil
			})
		},
	}
}

func statusCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the backend is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				a.Data.RefreshServerStatus(ctx)
				if a.Data.Status.Get() {
					fmt.Fprintln(cmd.OutOrStdout(), "up")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "down")
				return fmt.Errorf("backend %s unreachable", e.cfg.API.BaseURL)
			})
		},
	}
}

func syncCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:       "sync [moods|advice|user]...",
		Short:     "Fetch resources and print them as JSON",
		ValidArgs: []string{"moods", "advice", "user"},
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if date != "" {
					day, err := time.Parse("2006-01-02", date)
					if err != nil {
						return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
					}
					entry, found, err := a.Data.AdviceForDate(ctx, day)
					if err != nil {
						return err
					}
					if !found {
						return fmt.Errorf("no advice for %s", date)
					}
					return printJSON(cmd, entry)
				}

				if len(args) == 0 {
					if err := a.SyncAll(ctx); err != nil {
						return err
					}
					return printJSON(cmd, map[string]any{
						"moods":  a.Data.Moods.Get(),
						"advice": a.Data.Advice.Get(),
						"user":   a.Data.User.Get(),
					})
				}

				out := map[string]any{}
				for _, name := range args {
					var err error
					switch name {
					case "moods":
						err = a.Data.UpdateMoods(ctx)
						out[name] = a.Data.Moods.Get()
					case "advice":
						err = a.Data.UpdateAdvice(ctx)
						out[name] = a.Data.Advice.Get()
					case "user":
						err = a.Data.UpdateUser(ctx)
						out[name] = a.Data.User.Get()
					}
					if err != nil {
						return err
					}
				}
				return printJSON(cmd, out)
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "fetch the advice for one day (YYYY-MM-DD)")
	return cmd
}

func watchCmd(e *env) *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Sync all resources periodically until the session ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withApp(cmd, func(ctx context.Context, a *app.App) error {
				d := events.NewInMemoryDispatcher(e.logger)
				d.Subscribe(events.SyncCompleted, func(_ context.Context, ev events.Event) error {
					fmt.Fprintf(cmd.OutOrStdout(), "round %d: %d moods, %d advice (%s)\n",
						ev.Round, len(a.Data.Moods.Get()), len(a.Data.Advice.Get()), ev.Duration.Round(time.Millisecond))
					return nil
				})
				d.Subscribe(events.SessionEnded, func(_ context.Context, ev events.Event) error {
					fmt.Fprintf(cmd.OutOrStdout(), "round %d: session ended\n", ev.Round)
					return nil
				})

				err := worker.NewSyncWorker(a.SyncAll, interval, d, e.logger).Run(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "time between sync rounds")
	return cmd
}

func mockServerCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local stand-in Sentimenta backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := mockapi.New(mockapi.Options{
				Config:     e.cfg.Mock,
				CookieName: e.cfg.Session.CookieName,
				Logger:     e.logger,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(e.cfg.Mock.Addr()) }()
			e.logger.Info("demo account ready", zap.String("email", e.cfg.Mock.DemoEmail))

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
				e.logger.Info("shutting down mock api")
				return srv.Shutdown()
			}
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
