package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"studytime/internal/client"
	"studytime/internal/di"
	"studytime/internal/providers"
	"studytime/internal/services"
	"studytime/internal/structures"
	"studytime/internal/timer"
	"studytime/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "studytime",
		Short:         "Study time tracking server and terminal timer",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newTimerCmd(), newRegisterCmd())
	return root
}

func newServeCmd() *cobra.Command {
	flags := &structures.CliFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := di.InitApp(flags)
			return err
		},
	}
	cmd.Flags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config")
	cmd.Flags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to console as well")
	return cmd
}

type clientFlags struct {
	server   string
	username string
	password string
}

func (f *clientFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.server, "server", "http://127.0.0.1:8080", "API base URL")
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&f.password, "password", "p", os.Getenv("STUDYTIME_PASSWORD"), "account password (or STUDYTIME_PASSWORD)")
	_ = cmd.MarkFlagRequired("username")
}

func newRegisterCmd() *cobra.Command {
	f := &clientFlags{}
	var displayName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.New(f.server, nil)
			u, err := c.Register(cmd.Context(), services.RegisterInput{Username: f.username, Password: f.password, DisplayName: displayName})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&displayName, "display-name", "", "name shown on the leaderboard")
	return cmd
}

func newTimerCmd() *cobra.Command {
	f := &clientFlags{}
	var subject, color string
	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the terminal study timer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := client.New(f.server, nil)
			if _, err := c.Login(ctx, f.username, f.password); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			subjects, err := c.Subjects(ctx)
			if err != nil {
				return err
			}
			if subject != "" {
				s, err := c.CreateSubject(ctx, services.CreateSubjectInput{Name: subject, Color: color})
				if err != nil {
					return err
				}
				subjects = append(subjects, s)
			}

			logger := newTimerLogger()
			loop := timer.NewTickLoop()
			r := timer.NewReflector(c, providers.NewClockProvider(), loop, logger)
			return tui.Run(ctx, r, loop, subjects)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&subject, "new-subject", "", "create a subject before starting")
	cmd.Flags().StringVar(&color, "color", "#6366f1", "color for --new-subject")
	return cmd
}

// newTimerLogger keeps the alt screen clean; only warnings reach stderr.
func newTimerLogger() providers.Logger {
	return providers.NewWriterLogger(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.WarnLevel))
}
