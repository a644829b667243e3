package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/freelance-backoffice/internal/model"
)

func TestGenerate(t *testing.T) {
	report := model.EarningsReport{
		PeriodStart: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
		BestProfession: &model.BestProfession{
			Profession:  "Programmer",
			TotalEarned: decimal.RequireFromString("2683"),
		},
		BestClients: []model.BestClient{
			{ClientID: 4, FullName: "Ash Kethcum", TotalPaid: decimal.RequireFromString("2020")},
			{ClientID: 2, FullName: "Mr Robot", TotalPaid: decimal.RequireFromString("442.5")},
		},
	}

	content, err := NewGenerator().Generate(report)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) != 2 || sheets[0] != summarySheet || sheets[1] != clientsSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	checks := map[string]string{
		"B1": "2023-01-01 00:00:00",
		"B4": "Programmer",
		"B5": "2683.00",
		"B8": "2462.50",
	}
	for cell, want := range checks {
		got, err := file.GetCellValue(summarySheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue %s: %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	rows, err := file.GetRows(clientsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[1][2] != "Ash Kethcum" || rows[1][3] != "2020.00" {
		t.Errorf("first client row = %v", rows[1])
	}
}

func TestGenerateWithoutProfession(t *testing.T) {
	content, err := NewGenerator().Generate(model.EarningsReport{
		BestClients: []model.BestClient{{ClientID: 1, FullName: "Harry Potter", TotalPaid: decimal.NewFromInt(10)}},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	file, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer file.Close()

	got, _ := file.GetCellValue(summarySheet, "B4")
	if got != "no data" {
		t.Errorf("B4 = %q", got)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  ", "Sheet"},
		{"a/b:c", "a-b-c"},
		{strings.Repeat("x", 40), strings.Repeat("x", 31)},
	}
	for _, tt := range tests {
		if got := sanitizeSheetName(tt.in); got != tt.want {
			t.Errorf("sanitizeSheetName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
