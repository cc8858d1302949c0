// Package dashboard derives summary metrics from a snapshot. Everything
// here is a pure function of the snapshot and the reference time.
package dashboard

import (
	"strings"
	"time"

	"github.com/goelzer/oficina/internal/models"
)

// Summary mirrors the /api/dashboard payload.
type Summary struct {
	TotalCustomers int     `json:"totalClientes"`
	TotalVehicles  int     `json:"totalVeiculos"`
	OpenWorkOrders int     `json:"osAbertas"`
	MonthlyRevenue float64 `json:"receitaMensal"`
	MonthlyExpense float64 `json:"despesaMensal"`
	MonthlyProfit  float64 `json:"lucroMensal"`
}

// Summarize computes the dashboard numbers for the month containing now.
// General expenses count toward the monthly expense alongside expense
// movements.
func Summarize(snap *models.Snapshot, now time.Time) Summary {
	s := Summary{}
	if snap == nil {
		return s
	}
	s.TotalCustomers = len(snap.Customers)
	s.TotalVehicles = len(snap.Vehicles)
	for _, o := range snap.WorkOrders {
		if o.Open() {
			s.OpenWorkOrders++
		}
	}

	month := now.Format("2006-01")
	for _, m := range snap.Movements {
		if !strings.HasPrefix(m.Date, month) {
			continue
		}
		switch m.Type {
		case models.MovementRevenue:
			s.MonthlyRevenue += m.Value
		case models.MovementExpense:
			s.MonthlyExpense += m.Value
		}
	}
	for _, e := range snap.Expenses {
		if strings.HasPrefix(e.Date, month) {
			s.MonthlyExpense += e.Value
		}
	}
	s.MonthlyProfit = s.MonthlyRevenue - s.MonthlyExpense
	return s
}

// LowStock returns every part at or below its minimum stock threshold, in
// snapshot order. Low stock is an alert, never an error.
func LowStock(snap *models.Snapshot) []*models.Part {
	if snap == nil {
		return nil
	}
	var out []*models.Part
	for _, p := range snap.Parts {
		if p.LowStock() {
			out = append(out, p)
		}
	}
	return out
}

// AnnualReport aggregates revenue and expense for one calendar year.
type AnnualReport struct {
	Year    int     `json:"ano"`
	Revenue float64 `json:"receitaAnual"`
	Expense float64 `json:"despesaAnual"`
	Profit  float64 `json:"lucroAnual"`
}

// Annual computes the financial report for a year, including general
// expenses.
func Annual(snap *models.Snapshot, year int) AnnualReport {
	r := AnnualReport{Year: year}
	if snap == nil {
		return r
	}
	prefix := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	for _, m := range snap.Movements {
		if !strings.HasPrefix(m.Date, prefix) {
			continue
		}
		switch m.Type {
		case models.MovementRevenue:
			r.Revenue += m.Value
		case models.MovementExpense:
			r.Expense += m.Value
		}
	}
	for _, e := range snap.Expenses {
		if strings.HasPrefix(e.Date, prefix) {
			r.Expense += e.Value
		}
	}
	r.Profit = r.Revenue - r.Expense
	return r
}
