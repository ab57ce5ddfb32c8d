// Package prices loads the retail fuel price table and answers the regional
// mean-price queries used by the cost estimator.
package prices

import (
	"errors"
	"strings"
)

var (
	ErrEmptyTable    = errors.New("price table has no rows")
	ErrMissingColumn = errors.New("required column missing")
)

// Row is one truck stop entry of the price table.
type Row struct {
	TruckstopID string  `json:"truckstop_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	Address     string  `json:"address"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	RackID      string  `json:"rack_id,omitempty"`
	RetailPrice float64 `json:"retail_price"`
}

// Table is an immutable price table. It is safe for concurrent reads.
type Table struct {
	rows      []Row
	addresses []string
	mean      float64
}

// NewTable builds a table from rows and precomputes the table-wide mean.
func NewTable(rows []Row) (*Table, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		rows:      make([]Row, len(rows)),
		addresses: make([]string, len(rows)),
	}
	copy(t.rows, rows)

	sum := 0.0
	for i, r := range t.rows {
		t.addresses[i] = strings.ToLower(r.Address)
		sum += r.RetailPrice
	}
	t.mean = sum / float64(len(t.rows))

	return t, nil
}

func (t *Table) MeanPrice() float64 {
	return t.mean
}

// MatchMean returns the mean retail price of the rows whose address
// contains token, ignoring case.
func (t *Table) MatchMean(token string) (float64, bool) {
	n, sum := t.match(token)
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// Matches counts the rows whose address contains token, ignoring case.
func (t *Table) Matches(token string) int {
	n, _ := t.match(token)
	return n
}

func (t *Table) match(token string) (n int, sum float64) {
	token = strings.ToLower(token)
	for i, addr := range t.addresses {
		if strings.Contains(addr, token) {
			n++
			sum += t.rows[i].RetailPrice
		}
	}
	return n, sum
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns a copy of the table rows.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	copy(out, t.rows)
	return out
}
