package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"moneymanager/internal/backend"
	"moneymanager/internal/cli"
	"moneymanager/internal/config"
	"moneymanager/internal/core"
	"moneymanager/internal/report"
	"moneymanager/internal/services"
)

// app is what every subcommand works with.
type app struct {
	svc   *services.LedgerService
	store backend.Store
	now   func() time.Time
}

type opener func(ctx context.Context) (*app, func() error, error)

func openFromEnv(ctx context.Context) (*app, func() error, error) {
	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig((*config.Config).Validate)
	if err != nil {
		return nil, nil, err
	}
	// stdout carries command output.
	logger := cli.SetupLoggerTo(os.Stderr, cfg.LogLevel)
	be, err := cli.OpenBackend(ctx, logger, cfg)
	if err != nil {
		return nil, nil, err
	}
	svc := services.NewLedgerService(be.Store, be.Provider, services.WithLogger(logger))
	return &app{svc: svc, store: be.Store, now: time.Now}, be.Close, nil
}

// newRootCmd builds the command tree. The returned func releases whatever
// open acquired and must be called once Execute returns.
func newRootCmd(open opener) (*cobra.Command, func() error) {
	var (
		a       *app
		cleanup func() error
	)

	root := &cobra.Command{
		Use:          "ledgerctl",
		Short:        "Administer moneymanager ledgers",
		Long:         `ledgerctl manages accounts and prints or exports reports straight from the configured data backend.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, cleanup, err = open(cmd.Context())
			return err
		},
	}
	get := func() *app { return a }

	root.AddCommand(newUserCmd(get), newSummaryCmd(get), newExportCmd(get))
	return root, func() error {
		if cleanup == nil {
			return nil
		}
		return cleanup()
	}
}

// asOfDate parses --as-of, defaulting to today.
func asOfDate(a *app, value string) (core.Date, error) {
	if strings.TrimSpace(value) == "" {
		return core.DateOf(a.now()), nil
	}
	return core.ParseDate(value)
}

func render(ctx context.Context, a *app, w io.Writer, r report.Renderer, username, asOfFlag string) error {
	asOf, err := asOfDate(a, asOfFlag)
	if err != nil {
		return err
	}
	state, err := a.svc.State(ctx, username)
	if err != nil {
		return err
	}
	return r.Render(w, report.Assemble(state, asOf), state.Transactions)
}

func newUserCmd(get func() *app) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var password string
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("--password is required")
			}
			if err := get().svc.Register(cmd.Context(), args[0], password, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %s\n", args[0])
			return nil
		},
	}
	add.Flags().StringVarP(&password, "password", "p", "", "Password for the new account")

	list := &cobra.Command{
		Use:   "list",
		Short: "List users with stored ledgers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := get().store.Users(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintln(cmd.OutOrStdout(), u)
			}
			return nil
		},
	}

	userCmd.AddCommand(add, list)
	return userCmd
}

func newSummaryCmd(get func() *app) *cobra.Command {
	var username, asOf string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a user's report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render(cmd.Context(), get(), cmd.OutOrStdout(), report.TextRenderer{}, username, asOf)
		},
	}
	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	cmd.Flags().StringVar(&asOf, "as-of", "", "Report date (YYYY-MM-DD), default today")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newExportCmd(get func() *app) *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export reports",
	}

	var username, out, asOf, delimiter string
	csvCmd := &cobra.Command{
		Use:   "csv",
		Short: "Export a user's report as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := report.CSVRenderer{}
			if delimiter != "" {
				if len([]rune(delimiter)) != 1 {
					return fmt.Errorf("--delimiter must be a single character, got %q", delimiter)
				}
				renderer.Comma = []rune(delimiter)[0]
			}

			if out == "" || out == "-" {
				return render(cmd.Context(), get(), cmd.OutOrStdout(), renderer, username, asOf)
			}
			return writeFile(out, func(w io.Writer) error {
				return render(cmd.Context(), get(), w, renderer, username, asOf)
			})
		},
	}
	csvCmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	csvCmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	csvCmd.Flags().StringVar(&asOf, "as-of", "", "Report date (YYYY-MM-DD), default today")
	csvCmd.Flags().StringVar(&delimiter, "delimiter", "", "Field delimiter, default comma")
	_ = csvCmd.MarkFlagRequired("user")

	exportCmd.AddCommand(csvCmd)
	return exportCmd
}

// writeFile creates path, fills it with write and makes it durable. The
// first error among write, sync and close is returned.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	if err := write(f); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", path, err)
	}
	return nil
}
