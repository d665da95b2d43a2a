package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export formats understood by the export endpoints.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// dailyTable flattens a daily report into header + rows with the
// human-readable column names the exports promise.
func dailyTable(rep DailyReport) [][]string {
	table := [][]string{{"Roll Number", "First Name", "Last Name", "Batch", "Course", "Status", "Remarks"}}
	for _, row := range rep.Students {
		table = append(table, []string{
			row.RollNumber, row.FirstName, row.LastName,
			deref(row.Batch), deref(row.Course), row.Status, deref(row.Remarks),
		})
	}
	return table
}

// monthlyTable flattens a monthly report.
func monthlyTable(rep MonthlyReport) [][]string {
	table := [][]string{{"Roll Number", "First Name", "Last Name", "Batch", "Course", "Total Days", "Present", "Absent", "Attendance %"}}
	for _, st := range rep.Students {
		table = append(table, []string{
			st.RollNumber, st.FirstName, st.LastName,
			deref(st.Batch), deref(st.Course),
			fmt.Sprint(st.TotalDays), fmt.Sprint(st.PresentDays), fmt.Sprint(st.AbsentDays),
			fmt.Sprint(st.Percentage),
		})
	}
	return table
}

func writeCSV(w io.Writer, table [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(table); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSX(w io.Writer, sheet string, table [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	for i, row := range table {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// WriteDaily serializes a daily report as CSV or XLSX.
func WriteDaily(w io.Writer, rep DailyReport, format string) error {
	if format == FormatXLSX {
		return writeXLSX(w, "Daily Attendance", dailyTable(rep))
	}
	return writeCSV(w, dailyTable(rep))
}

// WriteMonthly serializes a monthly report as CSV or XLSX.
func WriteMonthly(w io.Writer, rep MonthlyReport, format string) error {
	if format == FormatXLSX {
		return writeXLSX(w, "Monthly Attendance", monthlyTable(rep))
	}
	return writeCSV(w, monthlyTable(rep))
}
