package catalog

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/lapbot/internal/models"
)

var sampleHeader = []string{" Company ", "Processor", "Memory", "Price", "RAM", "Rating", "No_of_ratings", "ImgURL", "Product Link"}

var sampleRows = [][]string{
	{"hp", "Intel Core i5", "512 GB SSD", "650", "8", "4.5", "1200", "https://img/1.jpg", "https://www.amazon.com/dp/1"},
	{"DELL", "Intel Core i7", "1 TB SSD", "abc", "16", "4.1", "", "", ""},
	{"", "Ryzen 5", "", "720.5", "", "N/A", "87", "", "https://example.com/x"},
}

func writeCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "laptops.csv")
	content := "\ufeff Company ,Processor,Memory,Price,RAM,Rating,No_of_ratings,ImgURL,Product Link\n" +
		"hp,Intel Core i5,512 GB SSD,650,8,4.5,1200,https://img/1.jpg,https://www.amazon.com/dp/1\n" +
		"DELL,Intel Core i7,1 TB SSD,abc,16,4.1,,,\n" +
		",Ryzen 5,,720.5,,N/A,87,,https://example.com/x\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeXLSX(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "laptops.xlsx")
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	put := func(row int, values []string) {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			t.Fatal(err)
		}
		vals := make([]interface{}, len(values))
		for i, v := range values {
			vals[i] = v
		}
		if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
			t.Fatal(err)
		}
	}
	put(1, sampleHeader)
	for i, r := range sampleRows {
		put(i+2, r)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeSQLite(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "laptops.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	_, err = db.Exec(`CREATE TABLE laptops (
		"Company" TEXT, "Processor" TEXT, "Memory" TEXT, "Price" TEXT, "RAM" TEXT,
		"Rating" TEXT, "No_of_ratings" TEXT, "ImgURL" TEXT, "Product Link" TEXT)`)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range sampleRows {
		args := make([]any, len(r))
		for i, v := range r {
			if v == "" {
				args[i] = nil
			} else {
				args[i] = v
			}
		}
		if _, err := db.Exec(`INSERT INTO laptops VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

func strp(s string) *string { return &s }
func fp(f float64) *float64 { return &f }

func wantListings() []*models.Listing {
	return []*models.Listing{
		{
			Row: 0, Company: strp("hp"), Processor: strp("Intel Core i5"), Memory: strp("512 GB SSD"),
			Price: fp(650), RAM: fp(8), Rating: strp("4.5"), ReviewCount: strp("1200"),
			ImageURL: strp("https://img/1.jpg"), ProductURL: strp("https://www.amazon.com/dp/1"),
		},
		{
			Row: 1, Company: strp("DELL"), Processor: strp("Intel Core i7"), Memory: strp("1 TB SSD"),
			RAM: fp(16), Rating: strp("4.1"),
		},
		{
			Row: 2, Processor: strp("Ryzen 5"), Price: fp(720.5), ReviewCount: strp("87"),
			ProductURL: strp("https://example.com/x"),
		},
	}
}

func TestOpen_formats(t *testing.T) {
	dir := t.TempDir()
	sources := map[string]string{
		"csv":    writeCSV(t, dir),
		"xlsx":   writeXLSX(t, dir),
		"sqlite": writeSQLite(t, dir),
	}
	for name, path := range sources {
		t.Run(name, func(t *testing.T) {
			s := Open(path)
			if err := s.Err(); err != nil {
				t.Fatalf("Open(%s): %v", path, err)
			}
			if diff := cmp.Diff(wantListings(), s.Listings()); diff != "" {
				t.Errorf("listings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_xlsxNumericCells(t *testing.T) {
	path := filepath.Join(t.TempDir(), "numeric.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"Company", "Processor", "Memory", "Price", "RAM", "Rating"}
	row := []interface{}{"hp", "Intel Core i5", "512 GB SSD", 1299.5, 8, 4.5}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatal(err)
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sheet, "D2", "E2", style); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	s := Open(path)
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	working := s.Working()
	if len(working) != 1 {
		t.Fatalf("working: got %d, want 1", len(working))
	}
	l := working[0]
	if l.Price == nil || *l.Price != 1299.5 {
		t.Errorf("price: got %v, want 1299.5", l.Price)
	}
	if l.RAM == nil || *l.RAM != 8 {
		t.Errorf("ram: got %v, want 8", l.RAM)
	}
}

func TestStore_Working(t *testing.T) {
	s := Open(writeCSV(t, t.TempDir()))
	if err := s.Err(); err != nil {
		t.Fatal(err)
	}
	if len(s.Listings()) != 3 {
		t.Fatalf("listings: got %d, want 3", len(s.Listings()))
	}
	working := s.Working()
	if len(working) != 2 {
		t.Fatalf("working: got %d, want 2 (row with non-numeric price excluded)", len(working))
	}
	if working[0].Row != 0 || working[1].Row != 2 {
		t.Errorf("working set should keep natural order, got rows %d, %d", working[0].Row, working[1].Row)
	}
}

func TestOpen_missingColumns(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.csv")
	if err := os.WriteFile(path, []byte("Company,Processor,Price\nhp,i5,100\n"), 0600); err != nil {
		t.Fatal(err)
	}
	s := Open(path)
	err := s.Err()
	if err == nil {
		t.Fatal("expected load error")
	}
	if !errors.Is(err, ErrDataLoad) {
		t.Errorf("error should match ErrDataLoad: %v", err)
	}
	var le *LoadError
	if !errors.As(err, &le) || le.Path != path {
		t.Errorf("expected *LoadError for %s, got %v", path, err)
	}
	if len(s.Listings()) != 0 || len(s.Working()) != 0 {
		t.Error("failed store should expose no listings")
	}
}

func TestOpen_errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0600); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		path string
		opts []Option
	}{
		{"missing file", filepath.Join(dir, "nope.csv"), nil},
		{"empty csv", empty, nil},
		{"unsupported", filepath.Join(dir, "laptops.json"), nil},
		{"missing database", filepath.Join(dir, "nope.db"), nil},
		{"bad table name", writeSQLite(t, dir), []Option{WithTable("x; DROP")}},
		{"unknown table", writeSQLite(t, t.TempDir()), []Option{WithTable("other")}},
		{"unknown sheet", writeXLSX(t, dir), []Option{WithSheet("Nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Open(tt.path, tt.opts...)
			if !errors.Is(s.Err(), ErrDataLoad) {
				t.Errorf("expected ErrDataLoad, got %v", s.Err())
			}
		})
	}
}

func TestStore_Stale(t *testing.T) {
	s := FromListings(nil)
	if s.Stale() {
		t.Fatal("new store should not be stale")
	}
	s.MarkStale()
	if !s.Stale() {
		t.Error("MarkStale should set Stale")
	}
}

func TestManufacturers(t *testing.T) {
	ls := []*models.Listing{
		{Company: strp("hp")},
		{Company: strp("Dell")},
		{Company: strp("HP")},
		{},
		{Company: strp("dell")},
	}
	got := Manufacturers(ls)
	want := []string{"Hp", "Dell", "Unknown"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Manufacturers mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Summary(t *testing.T) {
	dir := t.TempDir()
	s := Open(writeCSV(t, dir))
	got := s.Summary()
	want := Summary{
		Source:        filepath.Join(dir, "laptops.csv"),
		Listings:      3,
		Working:       2,
		Manufacturers: []string{"Hp", "Unknown"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	broken := Open(filepath.Join(dir, "missing.csv")).Summary()
	if broken.LoadError == "" || broken.Listings != 0 {
		t.Errorf("broken summary = %+v", broken)
	}
}
