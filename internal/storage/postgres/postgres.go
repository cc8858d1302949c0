// Package postgres is the database-backed storage.Repository. SQL follows
// the $n placeholder style with RETURNING for id assignment; ids are
// BIGSERIAL, so creation order matches id order.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/goelzer/oficina/internal/models"
	"github.com/goelzer/oficina/internal/storage"
)

// Repo implements storage.Repository on top of *sql.DB (lib/pq).
type Repo struct{ db *sql.DB }

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repo { return &Repo{db: db} }

var tables = map[models.Kind]string{
	models.KindCustomer:    "customers",
	models.KindVehicle:     "vehicles",
	models.KindService:     "services",
	models.KindPart:        "parts",
	models.KindTool:        "tools",
	models.KindAppointment: "appointments",
	models.KindWorkOrder:   "work_orders",
	models.KindPurchase:    "purchases",
	models.KindMovement:    "financial_movements",
	models.KindExpense:     "general_expenses",
}

// List implements storage.Repository.
func (r *Repo) List(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	switch kind {
	case models.KindCustomer:
		return r.listCustomers(ctx)
	case models.KindVehicle:
		return r.listVehicles(ctx)
	case models.KindService:
		return r.listServices(ctx)
	case models.KindPart:
		return r.listParts(ctx)
	case models.KindTool:
		return r.listTools(ctx)
	case models.KindAppointment:
		return r.listAppointments(ctx)
	case models.KindWorkOrder:
		return r.listWorkOrders(ctx)
	case models.KindPurchase:
		return r.listPurchases(ctx)
	case models.KindMovement:
		return r.listMovements(ctx)
	case models.KindExpense:
		return r.listExpenses(ctx)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// Get implements storage.Repository.
func (r *Repo) Get(ctx context.Context, kind models.Kind, id int64) (models.Record, error) {
	switch kind {
	case models.KindCustomer:
		return r.getCustomer(ctx, id)
	case models.KindVehicle:
		return r.getVehicle(ctx, id)
	case models.KindService:
		return r.getService(ctx, id)
	case models.KindPart:
		return r.getPart(ctx, id)
	case models.KindTool:
		return r.getTool(ctx, id)
	case models.KindAppointment:
		return r.getAppointment(ctx, id)
	case models.KindWorkOrder:
		return r.getWorkOrder(ctx, id)
	case models.KindPurchase:
		return r.getPurchase(ctx, id)
	case models.KindMovement:
		return r.getMovement(ctx, id)
	case models.KindExpense:
		return r.getExpense(ctx, id)
	}
	return nil, fmt.Errorf("unknown kind %q", kind)
}

// Create implements storage.Repository.
func (r *Repo) Create(ctx context.Context, kind models.Kind, rec models.Record) (models.Record, error) {
	switch v := rec.(type) {
	case *models.Customer:
		return r.createCustomer(ctx, v)
	case *models.Vehicle:
		return r.createVehicle(ctx, v)
	case *models.Service:
		return r.createService(ctx, v)
	case *models.Part:
		return r.createPart(ctx, v)
	case *models.Tool:
		return r.createTool(ctx, v)
	case *models.Appointment:
		return r.createAppointment(ctx, v)
	case *models.WorkOrder:
		return r.createWorkOrder(ctx, v)
	case *models.Purchase:
		return r.createPurchase(ctx, v)
	case *models.FinancialMovement:
		return r.createMovement(ctx, v)
	case *models.GeneralExpense:
		return r.createExpense(ctx, v)
	}
	return nil, fmt.Errorf("record type does not match kind %q", kind)
}

// Update implements storage.Repository.
func (r *Repo) Update(ctx context.Context, kind models.Kind, id int64, rec models.Record) (models.Record, error) {
	rec.SetRecordID(id)
	switch v := rec.(type) {
	case *models.Customer:
		return v, r.updateCustomer(ctx, v)
	case *models.Vehicle:
		return v, r.updateVehicle(ctx, v)
	case *models.Service:
		return v, r.updateService(ctx, v)
	case *models.Part:
		return v, r.updatePart(ctx, v)
	case *models.Tool:
		return v, r.updateTool(ctx, v)
	case *models.Appointment:
		return v, r.updateAppointment(ctx, v)
	case *models.WorkOrder:
		return v, r.updateWorkOrder(ctx, v)
	case *models.Purchase:
		return v, r.updatePurchase(ctx, v)
	case *models.FinancialMovement:
		return v, r.updateMovement(ctx, v)
	case *models.GeneralExpense:
		return v, r.updateExpense(ctx, v)
	}
	return nil, fmt.Errorf("record type does not match kind %q", kind)
}

// Delete implements storage.Repository. Work-order line items cascade.
func (r *Repo) Delete(ctx context.Context, kind models.Kind, id int64) error {
	table, ok := tables[kind]
	if !ok {
		return fmt.Errorf("unknown kind %q", kind)
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, table), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// Snapshot implements storage.Repository.
func (r *Repo) Snapshot(ctx context.Context) (*models.Snapshot, error) {
	snap := models.NewSnapshot()
	for _, kind := range models.Kinds() {
		recs, err := r.List(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", kind, err)
		}
		snap.Replace(kind, recs)
	}
	return snap, nil
}

func notFoundOn(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanErr(err error) error {
	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	return err
}
