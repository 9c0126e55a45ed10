// Package main provides the CLI entry point for unflatten.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Xtuden-com/flatten-tool/pkg/unflatten"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/logging"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/models"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/output"
	"github.com/Xtuden-com/flatten-tool/pkg/unflatten/parser"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "unflatten [input.xlsx | csv-dir]",
		Short: "Rebuild nested JSON records from spreadsheets",
		Long: `unflatten reads a workbook whose column headers are field paths
(e.g. items/0/id) and joins the main sheet with its sub-sheets into
nested JSON records.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return run(cmd, args[0], s)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFile, "config", "c", "", "Config file (yaml, toml or json)")
	flags.StringP("main-sheet", "m", "main", "Name of the sheet holding top-level records")
	flags.String("root-id", "", "Root identifier column (default: ocid)")
	flags.Bool("no-root-id", false, "Identify records by the local id column alone")
	flags.String("id-name", unflatten.DefaultIDName, "Local identifier column")
	flags.String("separator", unflatten.DefaultSeparator, "Path separator in column headers")
	flags.StringArray("sub-sheet", nil, "Nest a sub-sheet under another sheet (child=parent, repeatable)")
	flags.StringSlice("skip-column", nil, "Column to ignore (repeatable)")
	flags.String("input-format", "auto", "Input format: auto, xlsx, or csv")
	flags.Bool("keep-text", false, "Keep cell values as text instead of parsing numbers")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	flags.Bool("pretty", false, "Pretty-print JSON output")
	flags.Bool("lines", false, "Write one record per line")
	flags.String("envelope", "", "Wrap records in an object at this path (e.g. releases)")
	flags.StringArray("meta", nil, "Set a value beside the enveloped records (path=value, repeatable)")
	flags.String("log-level", "warn", "Log level: debug, info, warn, or error")
	flags.String("log-format", string(logging.FormatConsole), "Log format: console or json")

	return rootCmd
}

func run(cmd *cobra.Command, inputPath string, s *settings) (err error) {
	logger, err := logging.New(cmd.ErrOrStderr(), s.LogLevel, logging.Format(s.LogFormat))
	if err != nil {
		return err
	}
	defer logger.Sync()

	format, readOpts, err := s.parserOptions()
	if err != nil {
		return err
	}
	wb, err := parser.Read(inputPath, format, readOpts)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}
	logger.Debug("read workbook", zap.String("book", wb.BookName), zap.Strings("sheets", wb.Names()))

	cfg, err := s.unflattenConfig()
	if err != nil {
		return err
	}
	outOpts, err := s.outputOptions()
	if err != nil {
		return err
	}

	warnings := 0
	records, err := unflatten.Unflatten(wb, cfg,
		unflatten.WithLogger(logger),
		unflatten.WithWarningHandler(logging.WarningHandler(logger)),
		unflatten.WithWarningHandler(func(models.Warning) { warnings++ }),
	)
	if err != nil {
		return fmt.Errorf("unflatten failed: %w", err)
	}

	var w io.Writer = cmd.OutOrStdout()
	if s.Output != "" {
		f, ferr := os.Create(s.Output)
		if ferr != nil {
			return fmt.Errorf("failed to create output: %w", ferr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to write output: %w", cerr)
			}
		}()
		w = f
	}

	n, err := output.Write(w, records, outOpts)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if s.Output == "" && !s.Lines {
		fmt.Fprintln(w)
	}

	logger.Info("unflattened workbook",
		zap.String("book", wb.BookName),
		zap.Int("records", n),
		zap.Int("warnings", warnings))
	return nil
}
