package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// RateColumn is the CSV column carrying the emissions rate in both tables.
const RateColumn = "rate_lb_per_mwh"

// ZipColumn is the CSV column carrying the 5-digit zone code in the zip table.
const ZipColumn = "ZIP5"

// RateRow is one row of a grid rate table. Rate is NaN when the cell was
// empty or unparseable; the resolver treats NaN like a missing row.
type RateRow struct {
	Key  string
	Rate float64
}

// RateTable is an ordered rate lookup table. Keys are not guaranteed unique;
// lookups take the first match.
type RateTable struct {
	Rows []RateRow
}

// ParseRateTable reads a rate CSV whose header names the key column (keyCol)
// and the rate column. Rows shorter than the header are padded with empty
// cells, matching the permissive parser the datasets were authored against.
// For tables without a meaningful key (the subregion table), keyCol may name
// any column; only the rates matter downstream.
func ParseRateTable(r io.Reader, keyCol string) (*RateTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading rate table header: %w", err)
	}

	keyIdx, rateIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case keyCol:
			keyIdx = i
		case RateColumn:
			rateIdx = i
		}
	}
	if rateIdx < 0 {
		return nil, fmt.Errorf("rate table missing %q column", RateColumn)
	}

	table := &RateTable{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading rate table row: %w", err)
		}

		row := RateRow{Rate: math.NaN()}
		if keyIdx >= 0 && keyIdx < len(record) {
			row.Key = strings.TrimSpace(record[keyIdx])
		}
		if rateIdx < len(record) {
			if v, perr := strconv.ParseFloat(strings.TrimSpace(record[rateIdx]), 64); perr == nil {
				row.Rate = v
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// LoadRateTable reads and parses the rate CSV at path.
func LoadRateTable(path, keyCol string) (*RateTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading rate table: %w", err)
	}
	defer f.Close()
	return ParseRateTable(f, keyCol)
}
