package output

import (
	"encoding/csv"
	"fmt"
	"github.com/xuri/excelize/v2"
	"io"
	"strconv"
)

// SheetName is the worksheet the XLSX export writes to
const SheetName = "Results"

// WriteCSV writes a header and one line per element corner. The element
// position is prepended as column "element".
func WriteCSV(w io.Writer, recs [][]Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"element"}, Header...)); err != nil {
		return err
	}
	for k, corners := range recs {
		for _, r := range corners {
			line := []string{strconv.Itoa(k + 1)}
			for _, v := range r.row() {
				line = append(line, fmt.Sprint(v))
			}
			if err := cw.Write(line); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX saves the records to a workbook, one row per element corner
func WriteXLSX(path string, recs [][]Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	header := []interface{}{"element"}
	for _, h := range Header {
		header = append(header, h)
	}
	if err = sw.SetRow("A1", header); err != nil {
		return err
	}

	row := 2
	for k, corners := range recs {
		for _, r := range corners {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			if err = sw.SetRow(cell, append([]interface{}{k + 1}, r.row()...)); err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
			row++
		}
	}
	if err = sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
