package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"vaxetl/internal/dataprocessing"
	apperrors "vaxetl/internal/errors"
	"vaxetl/internal/files"
	"vaxetl/pkg/contracts/domain"
)

// inspectHeadRows is how many data rows inspect prints per workbook
const inspectHeadRows = 3

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the shape, columns and first rows of every raw workbook",
	Long: `Inspect reads every workbook in the raw directory and prints its shape, its
column names and its first rows. A workbook that cannot be read is reported and
skipped.`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, env, err := setup(cmd)
		if err != nil {
			return err
		}
		return env.finish(ctx, runInspect(ctx, env))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(ctx context.Context, env *environment) error {
	discovery := files.NewDiscovery(env.paths)
	workbooks, err := discovery.FindExcelFiles(env.paths.RawDir)
	if err != nil {
		return apperrors.NewNotFoundError("raw directory", err).WithContext("path", env.paths.RawDir)
	}

	for _, wb := range workbooks {
		frame, err := dataprocessing.ReadWorkbook(wb.Path, env.cfg.Cleaner.Sheet)
		if err != nil {
			env.logger.WarnContext(ctx, "Failed to read workbook",
				slog.String("file", wb.Name),
				slog.String("error", err.Error()))
			fmt.Fprintf(env.out, "\n📄 %s\n⚠ %v\n", wb.Name, err)
			continue
		}
		printFrameSummary(env.out, wb.Name, frame)
	}

	unknown, err := discovery.UnknownWorkbooks()
	if err != nil {
		return err
	}
	for _, wb := range unknown {
		fmt.Fprintf(env.out, "\nℹ %s matches no dataset and is ignored by clean\n", wb.Name)
	}
	for _, f := range files.Missing(discovery.RawFiles()) {
		fmt.Fprintf(env.out, "\n⚠ %s workbook missing: %s\n", f.Dataset.DisplayName(), f.Name)
	}
	return nil
}

func printFrameSummary(w io.Writer, name string, frame *domain.Frame) {
	rows, cols := frame.Shape()
	fmt.Fprintf(w, "\n📄 %s\n", name)
	fmt.Fprintf(w, "Shape: (%d, %d)\n", rows, cols)
	fmt.Fprintf(w, "Columns: %s\n", strings.Join(frame.Columns, ", "))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(frame.Columns, "\t"))
	for _, row := range frame.Rows[:min(rows, inspectHeadRows)] {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
