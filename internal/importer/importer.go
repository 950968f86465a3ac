package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront-api/internal/domain"
	"storefront-api/internal/money"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog exports and inserts/updates products.
// Prices in the export are display strings ("2,490 ฿"); they are
// normalized to satang here so formatted text never reaches storage.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	ID     int64
	Name   string
	NameTH string
	Cents  int64
	Image  string
	Colors []string
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.ID == 0 || row.Name == "" || row.Cents == 0 {
		return fmt.Errorf("invalid product row (missing required fields) for id %d", row.ID)
	}

	p := domain.Product{
		ID:         row.ID,
		Name:       row.Name,
		NameTH:     row.NameTH,
		PriceCents: row.Cents,
		Image:      row.Image,
		Colors:     row.Colors,
	}

	_, err := i.productRepo.Upsert(ctx, p)
	if err != nil {
		return fmt.Errorf("upsert product %d: %w", row.ID, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	idStr := pick(record, index, "id")
	if idStr == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid id %q", idStr)
	}

	row := &csvRow{
		ID:     id,
		Name:   pick(record, index, "name"),
		NameTH: pick(record, index, "name_th"),
		Cents:  money.Parse(pick(record, index, "price")),
		Image:  pick(record, index, "image"),
	}

	// Colors arrive semicolon separated ("black;white;navy").
	if colors := pick(record, index, "colors"); colors != "" {
		for _, c := range strings.Split(colors, ";") {
			if c = strings.TrimSpace(c); c != "" {
				row.Colors = append(row.Colors, c)
			}
		}
	}

	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
