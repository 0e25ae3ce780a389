// Copyright (c) 2026 Courtdesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package batch

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/taibuivan/courtdesk/internal/platform/apperr"
	"github.com/taibuivan/courtdesk/internal/platform/validate"
	"github.com/taibuivan/courtdesk/pkg/slug"
)

// # Column Mapping

// Columns lists the import columns in template order.
var Columns = []string{
	FieldCaseNumber,
	FieldTitle,
	FieldPlaintiff,
	FieldDefendant,
	FieldRelationshipCode,
	FieldAcceptedDate,
}

// headerAliases maps folded header text onto a column. Keys are [slug.Key]
// output, so case and diacritics never matter.
var headerAliases = map[string]string{
	"case_number":       FieldCaseNumber,
	"case_no":           FieldCaseNumber,
	"so_vu_an":          FieldCaseNumber,
	"so_thu_ly":         FieldCaseNumber,
	"title":             FieldTitle,
	"ten_vu_an":         FieldTitle,
	"trich_yeu":         FieldTitle,
	"plaintiff":         FieldPlaintiff,
	"nguyen_don":        FieldPlaintiff,
	"defendant":         FieldDefendant,
	"bi_don":            FieldDefendant,
	"relationship_code": FieldRelationshipCode,
	"relationship":      FieldRelationshipCode,
	"ma_quan_he":        FieldRelationshipCode,
	"quan_he_phap_luat": FieldRelationshipCode,
	"accepted_date":     FieldAcceptedDate,
	"ngay_thu_ly":       FieldAcceptedDate,
}

// dateLayouts are the text date forms accepted besides Excel serial dates.
var dateLayouts = []string{validate.DateLayout, "02/01/2006", "2/1/2006", "02-01-2006", "02.01.2006"}

// # Parsing

/*
ParseWorkbook reads the cases on the first sheet of an .xlsx workbook.

Description: The first row is the header. Blank rows are skipped. Each
remaining row is validated on its own; failures become [RowError] values and
never abort the parse.

Returns:
  - []Row: Valid rows, in sheet order
  - []RowError: Rejected rows, in sheet order
  - error: VALIDATION_ERROR for an unreadable workbook or a bad header row
*/
func ParseWorkbook(reader io.Reader) ([]Row, []RowError, error) {
	// 1. Open
	workbook, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, validate.RequiredError(FieldFile, "Not a readable .xlsx workbook")
	}
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, validate.RequiredError(FieldFile, "The workbook has no sheets")
	}

	// Raw values keep dates as serial numbers instead of locale-formatted text.
	sheetRows, err := workbook.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("batch: read sheet %q: %w", sheets[0], err)
	}
	if len(sheetRows) == 0 {
		return nil, nil, validate.RequiredError(FieldFile, "The first sheet is empty")
	}

	// 2. Map the header
	columns, err := mapHeader(sheetRows[0])
	if err != nil {
		return nil, nil, err
	}

	// 3. Convert the body
	var (
		rows     []Row
		rejected []RowError
		seen     = make(map[string]int)
	)

	for index, cells := range sheetRows[1:] {
		rowNumber := index + 2
		cell := func(field string) string {
			position, found := columns[field]
			if !found || position >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[position])
		}

		if isBlank(cells) {
			continue
		}

		row := Row{
			Row:              rowNumber,
			CaseNumber:       strings.ToUpper(cell(FieldCaseNumber)),
			Title:            cell(FieldTitle),
			Plaintiff:        cell(FieldPlaintiff),
			Defendant:        cell(FieldDefendant),
			RelationshipCode: cell(FieldRelationshipCode),
		}

		rowErrors := validateRow(&row, cell(FieldAcceptedDate))
		if first, duplicate := seen[row.CaseNumber]; duplicate && row.CaseNumber != "" {
			rowErrors = append(rowErrors, RowError{
				Row:     rowNumber,
				Field:   FieldCaseNumber,
				Message: "Duplicate of row " + strconv.Itoa(first),
			})
		}

		if len(rowErrors) > 0 {
			rejected = append(rejected, rowErrors...)
			continue
		}

		seen[row.CaseNumber] = rowNumber
		rows = append(rows, row)
	}

	return rows, rejected, nil
}

// mapHeader resolves each known column to its index.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(Columns))
	for position, text := range header {
		field, known := headerAliases[slug.Key(text)]
		if !known {
			continue
		}
		if _, taken := columns[field]; taken {
			return nil, validate.RequiredError(FieldFile, fmt.Sprintf("Column %q appears twice", text))
		}
		columns[field] = position
	}

	validator := &validate.Validator{}
	for _, required := range []string{FieldCaseNumber, FieldTitle} {
		_, found := columns[required]
		validator.Custom(FieldFile, !found, "Missing column "+required)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return columns, nil
}

// validateRow checks one row and fills its normalised date.
func validateRow(row *Row, rawDate string) []RowError {
	validator := &validate.Validator{}
	validator.Required(FieldCaseNumber, row.CaseNumber)
	if row.CaseNumber != "" {
		validator.CaseNumber(FieldCaseNumber, row.CaseNumber)
	}
	validator.Required(FieldTitle, row.Title).MaxLen(FieldTitle, row.Title, 500)
	validator.MaxLen(FieldPlaintiff, row.Plaintiff, 255)
	validator.MaxLen(FieldDefendant, row.Defendant, 255)

	date, ok := parseDate(rawDate)
	validator.Custom(FieldAcceptedDate, !ok, "Must be a date (YYYY-MM-DD or DD/MM/YYYY)")
	row.AcceptedDate = date

	appError := apperr.As(validator.Err())
	if appError == nil {
		return nil
	}

	rowErrors := make([]RowError, 0, len(appError.Details))
	for _, detail := range appError.Details {
		rowErrors = append(rowErrors, RowError{Row: row.Row, Field: detail.Field, Message: detail.Message})
	}
	return rowErrors
}

// parseDate accepts an Excel serial date or one of [dateLayouts].
func parseDate(raw string) (string, bool) {
	if raw == "" {
		return "", true
	}

	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		date, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return "", false
		}
		return date.Format(validate.DateLayout), true
	}

	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, raw); err == nil {
			return date.Format(validate.DateLayout), true
		}
	}
	return "", false
}

func isBlank(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// # Template

// templateSheet is the sheet name excelize gives a new workbook.
const templateSheet = "Sheet1"

// WriteTemplate writes an empty import workbook with the header row.
func WriteTemplate(writer io.Writer) error {
	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()

	header := make([]any, len(Columns))
	for i, column := range Columns {
		header[i] = column
	}

	if err := workbook.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("batch: write template header: %w", err)
	}
	if err := workbook.SetColWidth(templateSheet, "A", "F", 24); err != nil {
		return fmt.Errorf("batch: size template columns: %w", err)
	}

	return workbook.Write(writer)
}
