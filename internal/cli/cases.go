// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/courtdesk/internal/core/legalcase"
	"github.com/taibuivan/courtdesk/internal/platform/sec"
	"github.com/taibuivan/courtdesk/internal/upstream"
	"github.com/taibuivan/courtdesk/pkg/slice"
)

func newCasesCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Browse legal cases",
	}
	cmd.AddCommand(newCasesListCommand(state))
	return cmd
}

func newCasesListCommand(state *app) *cobra.Command {
	var (
		paging   pageFlags
		search   string
		statuses []string
		batchID  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List legal cases",
		Long: `List legal cases, newest first.

Examples:
  courtctl cases list --status PENDING,IN_PROGRESS
  courtctl cases list --batch 42 --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := legalcase.NewService(legalcase.NewUpstreamRepository(state.client), state.recorder, state.logger)

			filter := legalcase.Filter{
				Query:    search,
				Statuses: slice.Map(statuses, func(raw string) legalcase.CaseStatus { return legalcase.CaseStatus(strings.ToUpper(raw)) }),
				BatchID:  batchID,
			}
			params := paging.params()

			cases, total, err := service.ListCases(cmd.Context(), filter, params)
			if err != nil {
				return err
			}

			out := newTable(cmd.OutOrStdout())
			out.row("ID", "CASE NUMBER", "TITLE", "STATUS", "ACCEPTED")
			for _, legalCase := range cases {
				out.row(legalCase.ID.String(), legalCase.CaseNumber, legalCase.Title, legalCase.StatusLabel, orDash(legalCase.AcceptedDate))
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
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status, comma separated")
	cmd.Flags().StringVar(&batchID, "batch", "", "only cases of this batch")
	return protected(cmd, sec.PermViewLegalCase)
}

// idString renders an API id for a table cell.
func idString(id upstream.ID) string {
	return orDash(id.String())
}
