// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/courtdesk/pkg/pagination"
)

// # Paging

// pageFlags binds --page and --limit.
type pageFlags struct {
	page  int
	limit int
}

func (flags *pageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flags.page, "page", pagination.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&flags.limit, "limit", pagination.DefaultLimit, "items per page")
}

// params clamps the flags the way list endpoints do.
func (flags *pageFlags) params() pagination.Params {
	params := pagination.Params{Page: flags.page, Limit: flags.limit}
	if params.Page < 1 {
		params.Page = pagination.DefaultPage
	}
	if params.Limit < 1 {
		params.Limit = pagination.DefaultLimit
	}
	return pagination.Params{Page: params.Page, Limit: min(params.Limit, pagination.MaxLimit)}
}

// # Tables

// table writes tab-aligned rows.
type table struct {
	writer *tabwriter.Writer
}

func newTable(out io.Writer) *table {
	return &table{writer: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
}

func (out *table) row(cells ...string) {
	fmt.Fprintln(out.writer, strings.Join(cells, "\t"))
}

func (out *table) flush() error {
	return out.writer.Flush()
}

// footer prints the page position under a listing.
func footer(out io.Writer, params pagination.Params, total int) {
	meta := pagination.NewMeta(params.Page, params.Limit, total)
	fmt.Fprintf(out, "\nPage %d of %d, %d total\n", meta.Page, max(meta.TotalPages, 1), meta.Total)
}

// orDash renders an empty cell.
func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
