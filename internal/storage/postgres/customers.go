package postgres

import (
	"context"

	"github.com/goelzer/oficina/internal/models"
)

func (r *Repo) listCustomers(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,name,tax_id,phone,email,address FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		c := &models.Customer{}
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Address); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) getCustomer(ctx context.Context, id int64) (models.Record, error) {
	c := &models.Customer{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,name,tax_id,phone,email,address FROM customers WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.TaxID, &c.Phone, &c.Email, &c.Address)
	if err != nil {
		return nil, scanErr(err)
	}
	return c, nil
}

func (r *Repo) createCustomer(ctx context.Context, c *models.Customer) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO customers (name,tax_id,phone,email,address)
		VALUES ($1,$2,$3,$4,$5) RETURNING id`,
		c.Name, c.TaxID, c.Phone, c.Email, c.Address).Scan(&c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *Repo) updateCustomer(ctx context.Context, c *models.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET name=$1,tax_id=$2,phone=$3,email=$4,address=$5 WHERE id=$6`,
		c.Name, c.TaxID, c.Phone, c.Email, c.Address, c.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listVehicles(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,customer_id,plate,brand,model,year,color,odometer FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		v := &models.Vehicle{}
		if err := rows.Scan(&v.ID, &v.CustomerID, &v.Plate, &v.Brand, &v.Model,
			&v.Year, &v.Color, &v.Odometer); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) getVehicle(ctx context.Context, id int64) (models.Record, error) {
	v := &models.Vehicle{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,customer_id,plate,brand,model,year,color,odometer FROM vehicles WHERE id=$1`, id).
		Scan(&v.ID, &v.CustomerID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.Color, &v.Odometer)
	if err != nil {
		return nil, scanErr(err)
	}
	return v, nil
}

func (r *Repo) createVehicle(ctx context.Context, v *models.Vehicle) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vehicles (customer_id,plate,brand,model,year,color,odometer)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		v.CustomerID, v.Plate, v.Brand, v.Model, v.Year, v.Color, v.Odometer).Scan(&v.ID)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Repo) updateVehicle(ctx context.Context, v *models.Vehicle) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE vehicles SET customer_id=$1,plate=$2,brand=$3,model=$4,year=$5,color=$6,odometer=$7
		WHERE id=$8`,
		v.CustomerID, v.Plate, v.Brand, v.Model, v.Year, v.Color, v.Odometer, v.ID)
	return notFoundOn(res, err)
}
