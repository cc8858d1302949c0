package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goelzer/oficina/internal/models"
)

func refTime(t *testing.T) time.Time {
	t.Helper()
	ref, err := time.Parse("2006-01-02", "2026-03-15")
	require.NoError(t, err)
	return ref
}

func TestSummarize(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Customers = []*models.Customer{{ID: 1}, {ID: 2}}
	snap.Vehicles = []*models.Vehicle{{ID: 1}, {ID: 2}, {ID: 3}}
	snap.WorkOrders = []*models.WorkOrder{
		{ID: 1, Status: models.OrderOpen},
		{ID: 2, Status: models.OrderInProgress},
		{ID: 3, Status: models.OrderAwaitingParts},
		{ID: 4, Status: models.OrderCompleted},
		{ID: 5, Status: models.OrderCancelled},
	}
	snap.Movements = []*models.FinancialMovement{
		{Date: "2026-03-01", Type: models.MovementRevenue, Value: 100},
		{Date: "2026-03-20", Type: models.MovementExpense, Value: 30},
		// Outside the reference month, must be ignored.
		{Date: "2026-02-28", Type: models.MovementRevenue, Value: 500},
		{Date: "2025-03-10", Type: models.MovementExpense, Value: 500},
	}
	snap.Expenses = []*models.GeneralExpense{
		{Date: "2026-03-05", Value: 10},
		{Date: "2026-04-05", Value: 99},
	}

	s := Summarize(snap, refTime(t))
	assert.Equal(t, 2, s.TotalCustomers)
	assert.Equal(t, 3, s.TotalVehicles)
	assert.Equal(t, 3, s.OpenWorkOrders)
	assert.InDelta(t, 100.0, s.MonthlyRevenue, 0.001)
	assert.InDelta(t, 40.0, s.MonthlyExpense, 0.001)
	assert.InDelta(t, 60.0, s.MonthlyProfit, 0.001)
}

func TestSummarizeEmptySnapshot(t *testing.T) {
	s := Summarize(models.NewSnapshot(), refTime(t))
	assert.Equal(t, Summary{}, s)
}

func TestSummarizeNilSnapshot(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil, refTime(t)))
}

func TestLowStock(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Parts = []*models.Part{
		{ID: 1, Description: "Filtro", StockQuantity: 5, MinStockQuantity: 5},
		{ID: 2, Description: "Vela", StockQuantity: 4, MinStockQuantity: 5},
		{ID: 3, Description: "Correia", StockQuantity: 6, MinStockQuantity: 5},
	}

	low := LowStock(snap)
	require.Len(t, low, 2)
	assert.Equal(t, int64(1), low[0].ID)
	assert.Equal(t, int64(2), low[1].ID)
}

func TestAnnual(t *testing.T) {
	snap := models.NewSnapshot()
	snap.Movements = []*models.FinancialMovement{
		{Date: "2026-01-10", Type: models.MovementRevenue, Value: 1000},
		{Date: "2026-12-31", Type: models.MovementRevenue, Value: 500},
		{Date: "2026-06-15", Type: models.MovementExpense, Value: 200},
		{Date: "2025-06-15", Type: models.MovementRevenue, Value: 9999},
	}
	snap.Expenses = []*models.GeneralExpense{
		{Date: "2026-07-01", Value: 100},
		{Date: "2024-07-01", Value: 9999},
	}

	r := Annual(snap, 2026)
	assert.Equal(t, 2026, r.Year)
	assert.InDelta(t, 1500.0, r.Revenue, 0.001)
	assert.InDelta(t, 300.0, r.Expense, 0.001)
	assert.InDelta(t, 1200.0, r.Profit, 0.001)
}
