// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/taibuivan/courtdesk/internal/core/batch"
	"github.com/taibuivan/courtdesk/internal/platform/apperr"
)

// buildWorkbook writes rows onto the first sheet of an in-memory workbook.
func buildWorkbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for index, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, index+1)
		require.NoError(t, err)
		require.NoError(t, file.SetSheetRow("Sheet1", cell, &row))
	}

	var buffer bytes.Buffer
	require.NoError(t, file.Write(&buffer))
	return &buffer
}

// sampleWorkbook mixes valid, blank, invalid and duplicate rows under a
// Vietnamese header.
func sampleWorkbook(t *testing.T) *bytes.Buffer {
	return buildWorkbook(t,
		[]any{"Số vụ án", "TÊN VỤ ÁN", "Nguyên đơn", "Bị đơn", "Quan hệ pháp luật", "Ngày thụ lý"},
		[]any{"12/2026", "Land dispute", "Nguyen Van A", "Tran Thi B", "tranh-chap-dat-dai", "15/01/2026"},
		[]any{"", "", "", "", "", ""},
		[]any{"bad", "", "", "", "", ""},
		[]any{"12/2026", "Same number", "", "", "", ""},
		[]any{"13/2026/hs-st", "Contract", "", "", "", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		[]any{"14/2026", "Other", "", "", "", "sometime"},
	)
}

/*
TestParseWorkbook maps the folded header and reports row errors by row number.
*/
func TestParseWorkbook(t *testing.T) {
	rows, rejected, err := batch.ParseWorkbook(sampleWorkbook(t))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, batch.Row{
		Row:              2,
		CaseNumber:       "12/2026",
		Title:            "Land dispute",
		Plaintiff:        "Nguyen Van A",
		Defendant:        "Tran Thi B",
		RelationshipCode: "tranh-chap-dat-dai",
		AcceptedDate:     "2026-01-15",
	}, rows[0])
	assert.Equal(t, 6, rows[1].Row)
	assert.Equal(t, "13/2026/HS-ST", rows[1].CaseNumber)
	assert.Equal(t, "2026-02-01", rows[1].AcceptedDate)

	byRow := map[int][]string{}
	for _, rowError := range rejected {
		byRow[rowError.Row] = append(byRow[rowError.Row], rowError.Field)
	}
	assert.ElementsMatch(t, []string{batch.FieldCaseNumber, batch.FieldTitle}, byRow[4])
	assert.Equal(t, []string{batch.FieldCaseNumber}, byRow[5])
	assert.Equal(t, []string{batch.FieldAcceptedDate}, byRow[7])
	assert.NotContains(t, byRow, 3, "blank rows are skipped")
}

/*
TestParseWorkbook_BadInput rejects unreadable files and unusable headers.
*/
func TestParseWorkbook_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		content *bytes.Buffer
		message string
	}{
		{"not_xlsx", bytes.NewBufferString("case_number,title\n1/2026,x\n"), ""},
		{"missing_title", buildWorkbook(t, []any{"Case number", "Plaintiff"}), "Missing column title"},
		{"duplicate_column", buildWorkbook(t, []any{"Case number", "Title", "Tên vụ án"}), "appears twice"},
		{"empty_sheet", buildWorkbook(t), "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := batch.ParseWorkbook(tt.content)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, "VALIDATION_ERROR", appError.Code)
			if tt.message != "" {
				require.NotEmpty(t, appError.Details)
				found := false
				for _, detail := range appError.Details {
					found = found || strings.Contains(detail.Message, tt.message)
				}
				assert.True(t, found, "details: %+v", appError.Details)
			}
		})
	}
}

/*
TestWriteTemplate produces a workbook the parser accepts.
*/
func TestWriteTemplate(t *testing.T) {
	var buffer bytes.Buffer
	require.NoError(t, batch.WriteTemplate(&buffer))

	rows, rejected, err := batch.ParseWorkbook(&buffer)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Empty(t, rejected)
}
