package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/exporter"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/pipeline"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/validation"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Output file names written by run.
const (
	historyFile  = "daily_spending.png"
	forecastFile = "spending_forecast.png"
)

type runOptions struct {
	*options
	input       string
	outDir      string
	xlsx        bool
	csv         bool
	historyDays int
}

func newRunCmd(opts *options) *cobra.Command {
	ro := &runOptions{options: opts}
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Chart and forecast a transactions file",
		Example: "  spendcast run --input spend.csv --out ./out --xlsx",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ro.run(cmd)
		},
	}
	cmd.Flags().StringVarP(&ro.input, "input", "i", "", "CSV or XLSX file with Date and Amount columns")
	cmd.Flags().StringVarP(&ro.outDir, "out", "o", ".", "Directory the charts are written to")
	cmd.Flags().BoolVar(&ro.xlsx, "xlsx", false, "Also write the daily and forecast tables as a workbook")
	cmd.Flags().BoolVar(&ro.csv, "csv", false, "Also write the daily and forecast tables as CSV")
	cmd.Flags().IntVar(&ro.historyDays, "history", 14, "Days of history to print (0 prints all)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func (ro *runOptions) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	logger := ro.logger(cmd.ErrOrStderr())

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files := validation.NewFileValidator(cfg.Upload.AllowedExtensions, logger)
	if err := files.ValidateInputFile(ro.input); err != nil {
		return userError(err)
	}
	if err := files.ValidateOutputDirectory(ro.outDir); err != nil {
		return err
	}

	data, err := os.ReadFile(ro.input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	upload := domain.RawUpload{Filename: filepath.Base(ro.input), Data: data}
	if err := files.ValidateContent(upload); err != nil {
		return userError(err)
	}

	orchestrator, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}
	analysis, err := orchestrator.Run(ctx, upload)
	if err != nil {
		return userError(err)
	}

	var written []string
	images := []struct {
		name    string
		payload domain.ImagePayload
	}{
		{historyFile, analysis.HistoryChart},
		{forecastFile, analysis.ForecastChart},
	}
	for _, img := range images {
		path := filepath.Join(ro.outDir, img.name)
		if err := writeImage(path, img.payload); err != nil {
			return err
		}
		written = append(written, path)
	}

	var formats []exporter.Format
	if ro.xlsx {
		formats = append(formats, exporter.FormatXLSX)
	}
	if ro.csv {
		formats = append(formats, exporter.FormatCSV)
	}
	exp := exporter.New(logger)
	for _, f := range formats {
		path := filepath.Join(ro.outDir, exporter.Filename(analysis, f))
		if err := exp.ExportFile(path, analysis); err != nil {
			return err
		}
		written = append(written, path)
	}

	if ro.quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprint(out, renderAnalysis(analysis, ro.historyDays))
	fmt.Fprintln(out)
	for _, path := range written {
		fmt.Fprintf(out, "  wrote %s\n", path)
	}
	return nil
}

// userError replaces classified input errors with their plain message.
func userError(err error) error {
	if _, ok := apperrors.AsAppError(err); ok && apperrors.StatusFor(err) < 500 {
		return errors.New(apperrors.UserMessage(err))
	}
	return err
}

func writeImage(path string, payload domain.ImagePayload) error {
	raw, err := base64.StdEncoding.DecodeString(payload.Base64)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
