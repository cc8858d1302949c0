package postgres

import (
	"context"

	"github.com/goelzer/oficina/internal/models"
)

func (r *Repo) listServices(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,description,category,labor_value,estimated_time FROM services ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		s := &models.Service{}
		if err := rows.Scan(&s.ID, &s.Description, &s.Category, &s.LaborValue, &s.EstimatedTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) getService(ctx context.Context, id int64) (models.Record, error) {
	s := &models.Service{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,description,category,labor_value,estimated_time FROM services WHERE id=$1`, id).
		Scan(&s.ID, &s.Description, &s.Category, &s.LaborValue, &s.EstimatedTime)
	if err != nil {
		return nil, scanErr(err)
	}
	return s, nil
}

func (r *Repo) createService(ctx context.Context, s *models.Service) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO services (description,category,labor_value,estimated_time)
		VALUES ($1,$2,$3,$4) RETURNING id`,
		s.Description, s.Category, s.LaborValue, s.EstimatedTime).Scan(&s.ID)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repo) updateService(ctx context.Context, s *models.Service) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE services SET description=$1,category=$2,labor_value=$3,estimated_time=$4 WHERE id=$5`,
		s.Description, s.Category, s.LaborValue, s.EstimatedTime, s.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listParts(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,code,description,supplier,unit_cost,sale_price,stock_quantity,min_stock_quantity
		FROM parts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		p := &models.Part{}
		if err := rows.Scan(&p.ID, &p.Code, &p.Description, &p.Supplier,
			&p.UnitCost, &p.SalePrice, &p.StockQuantity, &p.MinStockQuantity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) getPart(ctx context.Context, id int64) (models.Record, error) {
	p := &models.Part{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,code,description,supplier,unit_cost,sale_price,stock_quantity,min_stock_quantity
		FROM parts WHERE id=$1`, id).
		Scan(&p.ID, &p.Code, &p.Description, &p.Supplier,
			&p.UnitCost, &p.SalePrice, &p.StockQuantity, &p.MinStockQuantity)
	if err != nil {
		return nil, scanErr(err)
	}
	return p, nil
}

func (r *Repo) createPart(ctx context.Context, p *models.Part) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO parts (code,description,supplier,unit_cost,sale_price,stock_quantity,min_stock_quantity)
		VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id`,
		p.Code, p.Description, p.Supplier, p.UnitCost, p.SalePrice,
		p.StockQuantity, p.MinStockQuantity).Scan(&p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repo) updatePart(ctx context.Context, p *models.Part) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE parts SET code=$1,description=$2,supplier=$3,unit_cost=$4,sale_price=$5,
			stock_quantity=$6,min_stock_quantity=$7
		WHERE id=$8`,
		p.Code, p.Description, p.Supplier, p.UnitCost, p.SalePrice,
		p.StockQuantity, p.MinStockQuantity, p.ID)
	return notFoundOn(res, err)
}

func (r *Repo) listTools(ctx context.Context) ([]models.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,description,brand,serial_number,acquisition_date,acquisition_value,status
		FROM tools ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Record
	for rows.Next() {
		t := &models.Tool{}
		if err := rows.Scan(&t.ID, &t.Description, &t.Brand, &t.SerialNumber,
			&t.AcquisitionDate, &t.AcquisitionValue, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) getTool(ctx context.Context, id int64) (models.Record, error) {
	t := &models.Tool{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id,description,brand,serial_number,acquisition_date,acquisition_value,status
		FROM tools WHERE id=$1`, id).
		Scan(&t.ID, &t.Description, &t.Brand, &t.SerialNumber,
			&t.AcquisitionDate, &t.AcquisitionValue, &t.Status)
	if err != nil {
		return nil, scanErr(err)
	}
	return t, nil
}

func (r *Repo) createTool(ctx context.Context, t *models.Tool) (models.Record, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tools (description,brand,serial_number,acquisition_date,acquisition_value,status)
		VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		t.Description, t.Brand, t.SerialNumber, t.AcquisitionDate,
		t.AcquisitionValue, t.Status).Scan(&t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *Repo) updateTool(ctx context.Context, t *models.Tool) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tools SET description=$1,brand=$2,serial_number=$3,acquisition_date=$4,
			acquisition_value=$5,status=$6
		WHERE id=$7`,
		t.Description, t.Brand, t.SerialNumber, t.AcquisitionDate,
		t.AcquisitionValue, t.Status, t.ID)
	return notFoundOn(res, err)
}
