package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ai-timetable/api/internal/timetable"
)

const SheetName = "Timetable"

var header = []string{"Day", "Start", "End", "Subject", "Room", "Professor"}

// XLSX writes one row per class in timetable order.
func XLSX(d timetable.Data) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	f.SetColWidth(SheetName, "A", "A", 8)
	f.SetColWidth(SheetName, "B", "C", 12)
	f.SetColWidth(SheetName, "D", "F", 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	for i, h := range header {
		c, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetName, c, h)
	}
	f.SetCellStyle(SheetName, "A1", "F1", headerStyle)

	row := 2
	for _, day := range d.Days {
		for _, c := range day.Classes {
			vals := []any{day.Day, c.StartTime, c.EndTime, c.Subject, deref(c.Room), deref(c.Professor)}
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
