// Package xlsx reads and writes grids as Excel workbooks.
package xlsx

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bjaus/gridconv"
)

// MIMEType is the content type of .xlsx files.
const MIMEType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultSheet names the sheet written by WriteGrid when none is given.
const DefaultSheet = "Sheet1"

// ErrNoSheet is returned when a workbook has no sheet of the requested name.
var ErrNoSheet = errors.New("sheet not found")

// ReadGrid returns the cells of sheet, or of the first sheet when sheet is
// empty. Values are read unformatted. Trailing empty cells of a row are
// dropped, so rows may be ragged.
func ReadGrid(r io.Reader, sheet string) (gridconv.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoSheet, sheet)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	g := make(gridconv.Grid, 0, len(rows))
	for _, row := range rows {
		g = append(g, row)
	}
	for len(g) > 0 && len(g[len(g)-1]) == 0 {
		g = g[:len(g)-1]
	}
	return g, nil
}

// WriteGrid writes g to w as a workbook with one sheet. The header row is
// bold and numeric cells are stored as numbers when that keeps their text.
func WriteGrid(w io.Writer, g gridconv.Grid, sheet string) error {
	if sheet == "" {
		sheet = DefaultSheet
	}
	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}
	for r, row := range g {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		values := make([]any, len(row))
		for c, v := range row {
			values[c] = cellValue(v)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if len(g) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, 1, 1, style); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func cellValue(s string) any {
	v, ok := gridconv.ParseNumber(s)
	if !ok || strconv.FormatFloat(v, 'f', -1, 64) != strings.TrimSpace(s) || s != strings.TrimSpace(s) {
		return s
	}
	return v
}
