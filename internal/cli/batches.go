// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/courtdesk/internal/core/batch"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
)

func newBatchesCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "Manage intake batches and workbook imports",
	}
	cmd.AddCommand(
		newBatchesListCommand(state),
		newBatchesImportCommand(state),
		newBatchesTemplateCommand(),
	)
	return cmd
}

func (state *app) batchService() *batch.Service {
	return batch.NewService(batch.NewUpstreamRepository(state.client), state.recorder, state.logger)
}

func newBatchesListCommand(state *app) *cobra.Command {
	var (
		paging pageFlags
		search string
		status string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List intake batches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params := paging.params()
			batches, total, err := state.batchService().ListBatches(cmd.Context(), batch.Filter{
				Query:  search,
				Status: batch.BatchStatus(status),
			}, params)
			if err != nil {
				return err
			}

			out := newTable(cmd.OutOrStdout())
			out.row("ID", "NAME", "STATUS", "CASES", "RECEIVED")
			for _, item := range batches {
				out.row(item.ID.String(), item.Name, item.StatusLabel, strconv.Itoa(item.CaseCount), orDash(item.ReceivedDate))
			}
			if err := out.flush(); err != nil {
				return err
			}
			footer(cmd.OutOrStdout(), params, total)
			return nil
		},
	}

	paging.bind(cmd)
	cmd.Flags().StringVarP(&search, "query", "q", "", "free-text search")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return protected(cmd, sec.PermViewBatch)
}

func newBatchesImportCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <batch-id> <workbook.xlsx>",
		Short: "Import cases from an Excel workbook into a batch",
		Long: `Import cases from an Excel workbook into a batch.

Rows are checked locally first; only valid rows are sent. Every rejected row
is listed with the reason, whether it failed locally or on the server.

Examples:
  courtctl batches template intake.xlsx
  courtctl batches import 42 intake.xlsx`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			report, err := state.batchService().ImportWorkbook(cmd.Context(), args[0], file)
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Imported %d of %d rows into batch %s\n", report.Imported, report.Total, report.BatchID)
			if len(report.Rejected) == 0 {
				return nil
			}

			fmt.Fprintln(stdout)
			out := newTable(stdout)
			out.row("ROW", "FIELD", "REASON")
			for _, rejected := range report.Rejected {
				out.row(strconv.Itoa(rejected.Row), orDash(rejected.Field), rejected.Message)
			}
			return out.flush()
		},
	}
	return protected(cmd, sec.PermImportBatch)
}

func newBatchesTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template <output.xlsx>",
		Short: "Write an empty import workbook with the expected columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.OpenFile(args[0], os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}

			if err := batch.WriteTemplate(file); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", args[0])
			return nil
		},
	}
}
