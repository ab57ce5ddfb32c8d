package prices

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	colTruckstopID = "OPIS Truckstop ID"
	colName        = "Truckstop Name"
	colAddress     = "Address"
	colCity        = "City"
	colState       = "State"
	colRackID      = "Rack ID"
	colRetailPrice = "Retail Price"
)

// LoadCSVFile reads a price table from a CSV file on disk.
func LoadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening price file: %w", err)
	}
	defer f.Close()

	return LoadCSV(f)
}

// LoadCSV reads a price table from CSV. The header must contain the Address
// and Retail Price columns; the other known columns are optional and any
// unknown column is ignored. Rows with a blank price are skipped.
func LoadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyTable
		}
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{colAddress, colRetailPrice} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, required)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", line, err)
		}

		raw := field(rec, colRetailPrice)
		if raw == "" {
			continue
		}
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("error parsing retail price %q on line %d: %w", raw, line, err)
		}

		rows = append(rows, Row{
			TruckstopID: field(rec, colTruckstopID),
			Name:        field(rec, colName),
			Address:     field(rec, colAddress),
			City:        field(rec, colCity),
			State:       field(rec, colState),
			RackID:      field(rec, colRackID),
			RetailPrice: price,
		})
	}

	return NewTable(rows)
}
