package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts"
)

// options holds the flags shared by every command.
type options struct {
	logLevel string
	quiet    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:          config.AppName,
		Short:        "Daily spending charts and a ten day forecast",
		Long:         "Aggregate a CSV or XLSX of dated transactions by day, chart it and project the next ten days.",
		SilenceUsage: true,
		Version:      contracts.Version,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "Only print errors")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// logger writes JSON logs to stderr unless quiet.
func (o *options) logger(stderr io.Writer) *slog.Logger {
	if o.quiet {
		stderr = io.Discard
	}
	return infrastructure.NewLogger(stderr, o.logLevel)
}

// loadConfig reads configuration the same way the server does.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := contracts.GetVersionInfo()
			fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Field", "Value"}, [][]string{
				{"version", info.Version},
				{"build_time", info.BuildTime},
				{"git_commit", info.GitCommit},
				{"go_version", info.GoVersion},
				{"platform", info.OS + "/" + info.Architecture},
			}))
			return nil
		},
	}
}
