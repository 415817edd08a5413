// handlers/report_export.go
package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"p9e.in/fuelpos/models"
)

func sendAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func stamp() string {
	return time.Now().Format("20060102_150405")
}

// ---- PDF ----

func pdfHeader(pdf *gofpdf.Fpdf, title, subtitle string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, subtitle, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func pdfSummary(pdf *gofpdf.Fpdf, summary models.SalesSummary) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)

	rows := []struct {
		label string
		value string
	}{
		{"Total sales", strconv.Itoa(summary.TotalSales)},
		{"Total litres", fmt.Sprintf("%.2f", summary.TotalLitres)},
		{"Total amount", fmt.Sprintf("%.2f", summary.TotalAmount)},
		{"Cash", fmt.Sprintf("%.2f", summary.CashAmount)},
		{"Card", fmt.Sprintf("%.2f", summary.CardAmount)},
		{"Credit", fmt.Sprintf("%.2f", summary.CreditAmount)},
	}
	for _, row := range rows {
		pdf.CellFormat(50, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, row.value, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	if len(summary.SalesByFuelType) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "By Fuel Type", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for fuel, bucket := range summary.SalesByFuelType {
			pdf.CellFormat(50, 6, fuel, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.2f L", bucket.Litres), "1", 0, "R", false, 0, "")
			pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", bucket.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}
}

func pdfSalesTable(pdf *gofpdf.Fpdf, sales []models.Sale) {
	pdf.SetFont("Arial", "B", 10)
	headers := []struct {
		label string
		width float64
	}{
		{"Time", 28}, {"Pump", 20}, {"Fuel", 30}, {"Litres", 25}, {"Price/L", 25}, {"Amount", 30}, {"Payment", 25},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, sale := range sales {
		pdf.CellFormat(28, 6, sale.CreatedAt.Format("02 Jan 15:04"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, sale.Nozzle.Pump.PumpNumber, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, sale.Nozzle.FuelType.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", sale.LitresDispensed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, fmt.Sprintf("%.2f", sale.PricePerLitre), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%.2f", sale.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 6, sale.PaymentMethod, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func renderShiftReportPDF(report *shiftReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdfHeader(pdf, "Shift Report",
		fmt.Sprintf("Attendant: %s    Date: %s", report.Shift.User.FullName,
			report.Shift.ShiftDate.Format("2006-01-02")))

	if len(report.Readings) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Meter Readings", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(30, 7, "Pump", "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 7, "Fuel", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Opening", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Closing", "1", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, pair := range report.Readings {
			pdf.CellFormat(30, 6, pair.Pump, "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 6, pair.FuelType, "1", 0, "L", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", pair.Opening), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", pair.Closing), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	pdfSalesTable(pdf, report.Sales)
	pdfSummary(pdf, report.Totals)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderDailySalesPDF(report *dailySalesReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdfHeader(pdf, "Daily Sales Report",
		fmt.Sprintf("Date: %s    Shifts: %d", report.Date, len(report.Shifts)))
	pdfSalesTable(pdf, report.Sales)
	pdfSummary(pdf, report.Summary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderMonthlySalesPDF(report *monthlySalesReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdfHeader(pdf, "Monthly Sales Report",
		fmt.Sprintf("Month: %04d-%02d    Shifts: %d", report.Year, report.Month, len(report.Shifts)))

	if len(report.ByDay) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Daily Breakdown", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 7, "Date", "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, "Sales", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Litres", "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 7, "Amount", "1", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, day := range report.ByDay {
			pdf.CellFormat(35, 6, day.Date, "1", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, strconv.Itoa(day.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", day.Litres), "1", 0, "R", false, 0, "")
			pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", day.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}
	pdfSummary(pdf, report.Summary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ---- Excel / CSV ----

var salesExportHeaders = []string{"Time", "Pump", "Fuel Type", "Litres", "Price/Litre", "Amount", "Payment"}

func salesExportRow(sale models.Sale) []interface{} {
	return []interface{}{
		sale.CreatedAt.Format("2006-01-02 15:04"),
		sale.Nozzle.Pump.PumpNumber,
		sale.Nozzle.FuelType.Name,
		sale.LitresDispensed,
		sale.PricePerLitre,
		sale.TotalAmount,
		sale.PaymentMethod,
	}
}

func createDailySalesExcel(report *dailySalesReport) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Daily Sales"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	f.SetCellValue(sheetName, "A1", "Daily Sales Report "+report.Date)
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")))

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})
	for colIdx, header := range salesExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 4)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, sale := range report.Sales {
		for colIdx, value := range salesExportRow(sale) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	summaryRow := len(report.Sales) + 7
	summaryStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	cell, _ := excelize.CoordinatesToCellName(1, summaryRow)
	f.SetCellValue(sheetName, cell, "Summary")
	f.SetCellStyle(sheetName, cell, cell, summaryStyle)

	summary := [][]interface{}{
		{"Total sales", report.Summary.TotalSales},
		{"Total litres", report.Summary.TotalLitres},
		{"Total amount", report.Summary.TotalAmount},
		{"Cash", report.Summary.CashAmount},
		{"Card", report.Summary.CardAmount},
		{"Credit", report.Summary.CreditAmount},
	}
	for i, pair := range summary {
		keyCell, _ := excelize.CoordinatesToCellName(1, summaryRow+1+i)
		valueCell, _ := excelize.CoordinatesToCellName(2, summaryRow+1+i)
		f.SetCellValue(sheetName, keyCell, pair[0])
		f.SetCellValue(sheetName, valueCell, pair[1])
	}

	return f, nil
}

func createDailySalesCSV(report *dailySalesReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(salesExportHeaders); err != nil {
		return nil, err
	}
	for _, sale := range report.Sales {
		record := make([]string, 0, len(salesExportHeaders))
		for _, value := range salesExportRow(sale) {
			record = append(record, fmt.Sprintf("%v", value))
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// ---- Handlers ----

// ExportShiftReportPDF exports one shift's report as PDF.
func ExportShiftReportPDF(w http.ResponseWriter, r *http.Request) {
	shift, ok := loadShiftForReport(w, r)
	if !ok {
		return
	}
	report, err := buildShiftReport(shift)
	if err != nil {
		log.Printf("Export shift report error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate PDF file")
		return
	}
	data, err := renderShiftReportPDF(report)
	if err != nil {
		log.Printf("Export shift report error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate PDF file")
		return
	}
	sendAttachment(w, "application/pdf", fmt.Sprintf("shift_report_%s.pdf", stamp()), data)
}

// ExportDailySalesPDF exports the daily sales report as PDF.
func ExportDailySalesPDF(w http.ResponseWriter, r *http.Request) {
	report, err := buildDailySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid date filter")
		return
	}
	data, err := renderDailySalesPDF(report)
	if err != nil {
		log.Printf("Export daily sales error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate PDF file")
		return
	}
	sendAttachment(w, "application/pdf", fmt.Sprintf("daily_sales_%s.pdf", stamp()), data)
}

// ExportMonthlySalesPDF exports the monthly sales report as PDF.
func ExportMonthlySalesPDF(w http.ResponseWriter, r *http.Request) {
	report, err := buildMonthlySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid year or month")
		return
	}
	data, err := renderMonthlySalesPDF(report)
	if err != nil {
		log.Printf("Export monthly sales error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate PDF file")
		return
	}
	sendAttachment(w, "application/pdf", fmt.Sprintf("monthly_sales_%s.pdf", stamp()), data)
}

// ExportDailySalesExcel exports the daily sales report as a spreadsheet.
func ExportDailySalesExcel(w http.ResponseWriter, r *http.Request) {
	report, err := buildDailySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid date filter")
		return
	}
	f, err := createDailySalesExcel(report)
	if err != nil {
		log.Printf("Export daily sales excel error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}
	buffer, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("Export daily sales excel error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}
	sendAttachment(w, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		fmt.Sprintf("daily_sales_%s.xlsx", stamp()), buffer.Bytes())
}

// ExportDailySalesCSV exports the daily sales report as CSV.
func ExportDailySalesCSV(w http.ResponseWriter, r *http.Request) {
	report, err := buildDailySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid date filter")
		return
	}
	data, err := createDailySalesCSV(report)
	if err != nil {
		log.Printf("Export daily sales csv error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate CSV file")
		return
	}
	sendAttachment(w, "text/csv", fmt.Sprintf("daily_sales_%s.csv", stamp()), data)
}
