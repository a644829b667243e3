package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

const (
	summarySheet = "Summary"
	clientsSheet = "Best clients"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the earnings report as a workbook with a summary sheet and
// a ranked list of clients.
func (g *Generator) Generate(report model.EarningsReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	sheet := sanitizeSheetName(clientsSheet)
	if _, err := file.NewSheet(sheet); err != nil {
		return nil, err
	}
	if err := g.writeClients(file, sheet, report.BestClients); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.EarningsReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Period start")
	set("B1", formatDateTime(report.PeriodStart))
	set("A2", "Period end")
	set("B2", formatDateTime(report.PeriodEnd))

	set("A4", "Best profession")
	set("A5", "Total earned")
	if report.BestProfession != nil {
		set("B4", report.BestProfession.Profession)
		set("B5", formatAmount(report.BestProfession.TotalEarned))
	} else {
		set("B4", "no data")
	}

	set("A7", "Clients ranked")
	set("B7", len(report.BestClients))
	set("A8", "Paid by ranked clients")
	set("B8", formatAmount(sumPaid(report.BestClients)))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeClients(file *excelize.File, sheet string, clients []model.BestClient) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{"Rank", "Client ID", "Full name", "Total paid"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, client := range clients {
		row := i + 2
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), client.ClientID)
		set(fmt.Sprintf("C%d", row), client.FullName)
		set(fmt.Sprintf("D%d", row), formatAmount(client.TotalPaid))
	}

	_ = file.SetColWidth(sheet, "A", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 32)
	_ = file.SetColWidth(sheet, "D", "D", 16)
	return nil
}

func sanitizeSheetName(value string) string {
	value = strings.TrimSpace(value)
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Sheet"
	}
	if len(value) > 31 {
		value = value[:31]
	}
	return value
}

func sumPaid(clients []model.BestClient) decimal.Decimal {
	total := decimal.Zero
	for _, client := range clients {
		total = total.Add(client.TotalPaid)
	}
	return total
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
