package postgres

import (
	"context"
	"database/sql"

	"github.com/goelzer/oficina/internal/models"
)

func (r *Repo) listWorkOrders(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,customer_id,vehicle_id,opened_at,closed_at,status,discount,total_value
		FROM work_orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*models.WorkOrder
	for rows.Next() {
		o := &models.WorkOrder{}
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.VehicleID, &o.OpenedAt,
			&o.ClosedAt, &o.Status, &o.Discount, &o.TotalValue); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Record, 0, len(orders))
	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *Repo) getWorkOrder(ctx context.Context, id int64) (models.Record, error) {
	o := &models.WorkOrder{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,customer_id,vehicle_id,opened_at,closed_at,status,discount,total_value
		FROM work_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.CustomerID, &o.VehicleID, &o.OpenedAt,
			&o.ClosedAt, &o.Status, &o.Discount, &o.TotalValue)
	if err != nil {
		return nil, scanErr(err)
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) createWorkOrder(ctx context.Context, o *models.WorkOrder) (models.Record, error) {
	o.TotalValue = o.ComputeTotal()
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO work_orders (customer_id,vehicle_id,opened_at,closed_at,status,discount,total_value)
			VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
			o.CustomerID, o.VehicleID, o.OpenedAt, o.ClosedAt, o.Status,
			o.Discount, o.TotalValue).Scan(&o.ID)
		if err != nil {
			return err
		}
		return insertItems(ctx, tx, o)
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *Repo) updateWorkOrder(ctx context.Context, o *models.WorkOrder) error {
	o.TotalValue = o.ComputeTotal()
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE work_orders SET customer_id=$1,vehicle_id=$2,opened_at=$3,closed_at=$4,
				status=$5,discount=$6,total_value=$7
			WHERE id=$8`,
			o.CustomerID, o.VehicleID, o.OpenedAt, o.ClosedAt, o.Status,
			o.Discount, o.TotalValue, o.ID)
		if err := notFoundOn(res, err); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_order_services WHERE work_order_id=$1`, o.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM work_order_parts WHERE work_order_id=$1`, o.ID); err != nil {
			return err
		}
		return insertItems(ctx, tx, o)
	})
}

func (r *Repo) loadItems(ctx context.Context, o *models.WorkOrder) error {
	o.Services = []models.WorkOrderService{}
	o.Parts = []models.WorkOrderPart{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT service_id,value FROM work_order_services
		WHERE work_order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var item models.WorkOrderService
		if err := rows.Scan(&item.ServiceID, &item.Value); err != nil {
			return err
		}
		o.Services = append(o.Services, item)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	prows, err := r.db.QueryContext(ctx, `
		SELECT part_id,quantity,unit_value FROM work_order_parts
		WHERE work_order_id=$1 ORDER BY position`, o.ID)
	if err != nil {
		return err
	}
	defer prows.Close()
	for prows.Next() {
		var item models.WorkOrderPart
		if err := prows.Scan(&item.PartID, &item.Quantity, &item.UnitValue); err != nil {
			return err
		}
		o.Parts = append(o.Parts, item)
	}
	return prows.Err()
}

func insertItems(ctx context.Context, tx *sql.Tx, o *models.WorkOrder) error {
	for i, item := range o.Services {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO work_order_services (work_order_id,position,service_id,value)
			VALUES ($1,$2,$3,$4)`, o.ID, i, item.ServiceID, item.Value); err != nil {
			return err
		}
	}
	for i, item := range o.Parts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO work_order_parts (work_order_id,position,part_id,quantity,unit_value)
			VALUES ($1,$2,$3,$4,$5)`, o.ID, i, item.PartID, item.Quantity, item.UnitValue); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
