package postgres

import (
	"context"

	"github.com/goelzer/oficina/internal/models"
)

func (r *Repo) listAppointments(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,customer_id,vehicle_id,date,time,services_text,status
		FROM appointments ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		a := &models.Appointment{}
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.VehicleID, &a.Date,
			&a.Time, &a.ServicesText, &a.Status); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *Repo) getAppointment(ctx context.Context, id int64) (models.Record, error) {
	a := &models.Appointment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,customer_id,vehicle_id,date,time,services_text,status
		FROM appointments WHERE id=$1`, id).
		Scan(&a.ID, &a.CustomerID, &a.VehicleID, &a.Date, &a.Time, &a.ServicesText, &a.Status)
	if err != nil {
		return nil, scanErr(err)
	}
	return a, nil
}

func (r *Repo) createAppointment(ctx context.Context, a *models.Appointment) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO appointments (customer_id,vehicle_id,date,time,services_text,status)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		a.CustomerID, a.VehicleID, a.Date, a.Time, a.ServicesText, a.Status).Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *Repo) updateAppointment(ctx context.Context, a *models.Appointment) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE appointments SET customer_id=$1,vehicle_id=$2,date=$3,time=$4,services_text=$5,status=$6
		WHERE id=$7`,
		a.CustomerID, a.VehicleID, a.Date, a.Time, a.ServicesText, a.Status, a.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listPurchases(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,part_id,supplier,quantity,unit_cost,date FROM purchases ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		p := &models.Purchase{}
		if err := rows.Scan(&p.ID, &p.PartID, &p.Supplier, &p.Quantity, &p.UnitCost, &p.Date); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) getPurchase(ctx context.Context, id int64) (models.Record, error) {
	p := &models.Purchase{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,part_id,supplier,quantity,unit_cost,date FROM purchases WHERE id=$1`, id).
		Scan(&p.ID, &p.PartID, &p.Supplier, &p.Quantity, &p.UnitCost, &p.Date)
	if err != nil {
		return nil, scanErr(err)
	}
	return p, nil
}

func (r *Repo) createPurchase(ctx context.Context, p *models.Purchase) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO purchases (part_id,supplier,quantity,unit_cost,date)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		p.PartID, p.Supplier, p.Quantity, p.UnitCost, p.Date).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) updatePurchase(ctx context.Context, p *models.Purchase) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE purchases SET part_id=$1,supplier=$2,quantity=$3,unit_cost=$4,date=$5 WHERE id=$6`,
		p.PartID, p.Supplier, p.Quantity, p.UnitCost, p.Date, p.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listMovements(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,date,type,category,description,value FROM financial_movements ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		m := &models.FinancialMovement{}
		if err := rows.Scan(&m.ID, &m.Date, &m.Type, &m.Category, &m.Description, &m.Value); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) getMovement(ctx context.Context, id int64) (models.Record, error) {
	m := &models.FinancialMovement{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,date,type,category,description,value FROM financial_movements WHERE id=$1`, id).
		Scan(&m.ID, &m.Date, &m.Type, &m.Category, &m.Description, &m.Value)
	if err != nil {
		return nil, scanErr(err)
	}
	return m, nil
}

func (r *Repo) createMovement(ctx context.Context, m *models.FinancialMovement) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO financial_movements (date,type,category,description,value)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		m.Date, m.Type, m.Category, m.Description, m.Value).Scan(&m.ID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Repo) updateMovement(ctx context.Context, m *models.FinancialMovement) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE financial_movements SET date=$1,type=$2,category=$3,description=$4,value=$5 WHERE id=$6`,
		m.Date, m.Type, m.Category, m.Description, m.Value, m.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listExpenses(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,date,category,description,value FROM general_expenses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		e := &models.GeneralExpense{}
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) getExpense(ctx context.Context, id int64) (models.Record, error) {
	e := &models.GeneralExpense{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,date,category,description,value FROM general_expenses WHERE id=$1`, id).
		Scan(&e.ID, &e.Date, &e.Category, &e.Description, &e.Value)
	if err != nil {
		return nil, scanErr(err)
	}
	return e, nil
}

func (r *Repo) createExpense(ctx context.Context, e *models.GeneralExpense) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO general_expenses (date,category,description,value)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		e.Date, e.Category, e.Description, e.Value).Scan(&e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *Repo) updateExpense(ctx context.Context, e *models.GeneralExpense) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE general_expenses SET date=$1,category=$2,description=$3,value=$4 WHERE id=$5`,
		e.Date, e.Category, e.Description, e.Value, e.ID)
	return notFoundOn(res, err)
}
