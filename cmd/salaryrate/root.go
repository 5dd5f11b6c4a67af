package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-per-hour/internal/config"
	"github.com/cmlabs-hris/salary-per-hour/internal/domain/salaryrate"
	"github.com/cmlabs-hris/salary-per-hour/internal/exporter"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/database"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/logger"
	"github.com/cmlabs-hris/salary-per-hour/internal/pkg/validator"
	"github.com/spf13/cobra"
)

const version = "v1.0.0"

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:          "salaryrate",
		Short:        "Compute salary per hour by year, month and branch",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
				return fmt.Errorf("invalid --log-level %q", opts.logLevel)
			}
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), logger.Options{
				App:     "salaryrate",
				Version: version,
				Env:     "cli",
				Level:   level,
				Concise: true,
			}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newCalculateCmd(),
		newRecalculateCmd(),
		newExportCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return cmd
}

// parseAsOf returns now for an empty value.
func parseAsOf(v string, now time.Time) (time.Time, error) {
	if v == "" {
		return now.UTC(), nil
	}
	d, err := validator.ParseDate(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of: %w", err)
	}
	return d, nil
}

func connect(ctx context.Context) (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{MaxConns: 4, PingTimeout: 5 * time.Second})
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

type outputOptions struct {
	path   string
	format string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&o.format, "format", "", "Output format: csv or xlsx (default: from --output extension, else csv)")
}

func (o outputOptions) resolveFormat() (string, error) {
	format := o.format
	if format == "" {
		format = "csv"
		if o.path != "" {
			if ext := extOf(o.path); ext == "xlsx" {
				format = ext
			}
		}
	}
	if _, err := exporter.ContentType(format); err != nil {
		return "", err
	}
	return format, nil
}

// open returns the destination writer; the caller closes it.
func (o outputOptions) open(cmd *cobra.Command) (io.WriteCloser, error) {
	if o.path == "" || o.path == "-" {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(o.path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func extOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

func writeRates(cmd *cobra.Command, out outputOptions, rates []salaryrate.Rate) error {
	format, err := out.resolveFormat()
	if err != nil {
		return err
	}

	w, err := out.open(cmd)
	if err != nil {
		return err
	}
	if err := exporter.Write(w, format, rates); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
