// Package export produces the shop's CSV files. The format is fixed by the
// documents accountants already import: a ";"-prefixed header row of quoted
// titles, comma-separated cells, currency as "R$ 1234,56" and dates as
// DD/MM/YYYY. The header prefix and comma-decimal currencies do not fit
// encoding/csv quoting rules, so rows are assembled by hand.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/goelzer/oficina/internal/models"
)

// Format selects how a cell value is rendered.
type Format int

const (
	Text Format = iota
	Currency
	Date
	Percent
)

// Column maps a record to one CSV cell. Value may look related records up
// in the snapshot (e.g. a vehicle's customer name).
type Column struct {
	Title  string
	Format Format
	Value  func(rec models.Record, snap *models.Snapshot) any
}

// Table renders records into the CSV format, one row per record in input
// order.
func Table(records []models.Record, snap *models.Snapshot, cols []Column) string {
	var b strings.Builder

	b.WriteString(";")
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = `"` + c.Title + `"`
	}
	b.WriteString(strings.Join(titles, ","))
	b.WriteString("\n")

	for _, rec := range records {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = formatCell(c, rec, snap)
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func formatCell(c Column, rec models.Record, snap *models.Snapshot) string {
	raw := c.Value(rec, snap)
	var cell string
	switch c.Format {
	case Currency:
		cell = FormatCurrency(toFloat(raw))
	case Date:
		cell = FormatDate(fmt.Sprintf("%v", raw))
	case Percent:
		cell = FormatPercent(toFloat(raw))
	default:
		cell = fmt.Sprintf("%v", raw)
	}
	if strings.ContainsAny(cell, `,"`) {
		cell = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
	}
	return cell
}

// FormatCurrency renders a value as "R$ 1234,56".
func FormatCurrency(v float64) string {
	return "R$ " + strings.ReplaceAll(fmt.Sprintf("%.2f", v), ".", ",")
}

// FormatPercent renders a percentage as "50,0%".
func FormatPercent(v float64) string {
	return strings.ReplaceAll(fmt.Sprintf("%.1f", v), ".", ",") + "%"
}

// FormatDate converts an ISO date to DD/MM/YYYY, passing through values it
// cannot parse.
func FormatDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
