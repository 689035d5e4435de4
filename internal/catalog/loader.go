package catalog

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/lapbot/internal/models"
	"github.com/hyperjump/lapbot/pkg/utils"
)

// Source column names, compared after trimming header whitespace.
const (
	ColCompany     = "Company"
	ColProcessor   = "Processor"
	ColMemory      = "Memory"
	ColPrice       = "Price"
	ColRAM         = "RAM"
	ColRating      = "Rating"
	ColReviewCount = "No_of_ratings"
	ColImageURL    = "ImgURL"
	ColProductURL  = "Product Link"
)

// RequiredColumns must all be present for a table to load.
var RequiredColumns = []string{ColCompany, ColProcessor, ColMemory, ColPrice, ColRAM}

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// table is a header row plus data rows, all as raw text.
type table struct {
	header []string
	rows   [][]string
}

func (s *Store) load() ([]*models.Listing, error) {
	t, err := s.readTable()
	if err != nil {
		return nil, err
	}
	return normalize(t)
}

func (s *Store) readTable() (*table, error) {
	switch ext := strings.ToLower(filepath.Ext(s.path)); ext {
	case ".csv", ".txt":
		return readCSV(s.path)
	case ".xlsx":
		return readExcel(s.path, s.sheet)
	case ".db", ".sqlite", ".sqlite3":
		return readSQLite(s.path, s.table)
	default:
		return nil, fmt.Errorf("unsupported source format %q", ext)
	}
}

func readCSV(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("csv has no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &table{header: header}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

func readExcel(path, sheet string) (*table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return &table{header: rows[0], rows: rows[1:]}, nil
}

func readSQLite(path, name string) (*table, error) {
	if !tableNameRe.MatchString(name) {
		return nil, fmt.Errorf("invalid table name %q", name)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT * FROM "` + name + `" ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query table %q: %w", name, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	t := &table{header: cols}
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				rec[i] = v.String
			}
		}
		t.rows = append(t.rows, rec)
	}
	return t, rows.Err()
}

// normalize maps raw rows onto Listings. Numeric columns that do not parse become nil.
func normalize(t *table) ([]*models.Listing, error) {
	idx := make(map[string]int, len(t.header))
	for i, h := range t.header {
		h = strings.TrimSpace(h)
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	cell := func(rec []string, col string) (string, bool) {
		i, ok := idx[col]
		if !ok || i >= len(rec) || utils.IsNA(rec[i]) {
			return "", false
		}
		return rec[i], true
	}
	text := func(rec []string, col string) *string {
		if v, ok := cell(rec, col); ok {
			return &v
		}
		return nil
	}
	number := func(rec []string, col string) *float64 {
		v, ok := cell(rec, col)
		if !ok {
			return nil
		}
		return parseNumber(v)
	}

	listings := make([]*models.Listing, 0, len(t.rows))
	for n, rec := range t.rows {
		listings = append(listings, &models.Listing{
			Row:         n,
			Company:     text(rec, ColCompany),
			Processor:   text(rec, ColProcessor),
			Memory:      text(rec, ColMemory),
			Price:       number(rec, ColPrice),
			RAM:         number(rec, ColRAM),
			Rating:      text(rec, ColRating),
			ReviewCount: text(rec, ColReviewCount),
			ImageURL:    text(rec, ColImageURL),
			ProductURL:  text(rec, ColProductURL),
		})
	}
	return listings, nil
}

func parseNumber(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return nil
	}
	return &v
}
