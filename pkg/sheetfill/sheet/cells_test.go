package sheet

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestRow(t *testing.T) {
	// Create a temporary Excel file for testing
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Sheet1"
	// Set some test data
	f.SetCellValue(sheetName, "A1", " Change ID ")
	f.SetCellValue(sheetName, "B1", "Count")
	f.SetCellValue(sheetName, "C1", "Ratio")
	f.SetCellValue(sheetName, "A2", "CR-001")
	f.SetCellValue(sheetName, "B2", 100)
	f.SetCellValue(sheetName, "C2", 200.5)
	f.SetCellValue(sheetName, "A3", "CR-002")

	// Save to temp file
	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	d, err := Open(tmpFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	if d.Len() != 2 {
		t.Errorf("Expected 2 data rows, got %d", d.Len())
	}
	if !d.HasColumn("Change ID") {
		t.Errorf("Expected trimmed header 'Change ID', got %v", d.Headers())
	}

	row, err := d.Row(0)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if row.R != 2 {
		t.Errorf("Expected row 2, got %d", row.R)
	}
	if row.C["Change ID"] != "CR-001" {
		t.Errorf("Expected 'CR-001', got %v", row.C["Change ID"])
	}

	// Check numeric values
	if row.C["Count"] != int64(100) {
		t.Errorf("Expected int64(100), got %v (type: %T)", row.C["Count"], row.C["Count"])
	}
	if row.C["Ratio"] != 200.5 {
		t.Errorf("Expected 200.5, got %v", row.C["Ratio"])
	}

	row, err = d.Row(1)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	if _, ok := row.C["Count"]; ok {
		t.Errorf("Expected empty cell to be omitted, got %v", row.C["Count"])
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"123", int64(123)},
		{"123.45", 123.45},
		{"-100", int64(-100)},
		{"CR-2024-001", "CR-2024-001"},
		{"", ""},
		{"007", "007"},
		{"1.50", "1.50"},
		{"+5", "+5"},
		{"1e3", "1e3"},
	}

	for _, tt := range tests {
		result := parseValue(tt.input)
		if result != tt.expected {
			t.Errorf("parseValue(%q) = %v (type: %T), expected %v (type: %T)",
				tt.input, result, result, tt.expected, tt.expected)
		}
	}
}

func TestRow_KeepsNumericLookingText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "Change ID")
	f.SetCellValue("Sheet1", "B1", "Release ID")
	f.SetCellStr("Sheet1", "A2", "00123")
	f.SetCellStr("Sheet1", "B2", "2.10")

	tmpFile := filepath.Join(t.TempDir(), "test.xlsx")
	if err := f.SaveAs(tmpFile); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}

	d, err := Open(tmpFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	row, err := d.Row(0)
	if err != nil {
		t.Fatalf("Row failed: %v", err)
	}
	for column, want := range map[string]string{"Change ID": "00123", "Release ID": "2.10"} {
		v, err := d.Value(0, column)
		if err != nil {
			t.Fatalf("Value failed: %v", err)
		}
		if got := row.String(column); got != want || got != v {
			t.Errorf("%s: Row gave %q, Value gave %q, expected %q", column, got, v, want)
		}
	}
}

func TestCountDataRows(t *testing.T) {
	tests := []struct {
		name     string
		rows     [][]string
		expected int
	}{
		{"header only", [][]string{{"A", "B"}}, 0},
		{"two rows", [][]string{{"A"}, {"1"}, {"2"}}, 2},
		{"trailing blank rows", [][]string{{"A"}, {"1"}, {""}, {}}, 1},
		{"gap inside", [][]string{{"A"}, {""}, {"x"}}, 2},
		{"empty", nil, 0},
		{"wide last row", [][]string{{"A"}, {"1"}, {"", "", "z"}, {"", ""}}, 2},
		{"blank header", [][]string{{""}, {""}}, 0},
	}

	for _, tt := range tests {
		if got := countDataRows(tt.rows); got != tt.expected {
			t.Errorf("%s: countDataRows = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}
