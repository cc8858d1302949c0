package postgres

import "context"

// Migrate creates the schema when it does not exist yet. Optional string
// fields default to '' rather than NULL so scans stay simple; dates are ISO
// text, matching the wire format.
func (r *Repo) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			tax_id TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS vehicles (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			plate TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			year INT NOT NULL DEFAULT 0,
			color TEXT NOT NULL DEFAULT '',
			odometer BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS services (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			labor_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			estimated_time TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS parts (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			supplier TEXT NOT NULL DEFAULT '',
			unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			sale_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock_quantity INT NOT NULL DEFAULT 0,
			min_stock_quantity INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS tools (
			id BIGSERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			brand TEXT NOT NULL DEFAULT '',
			serial_number TEXT NOT NULL DEFAULT '',
			acquisition_date TEXT NOT NULL DEFAULT '',
			acquisition_value DOUBLE PRECISION NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'available'
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			vehicle_id BIGINT NOT NULL,
			date TEXT NOT NULL,
			time TEXT NOT NULL DEFAULT '',
			services_text TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'scheduled'
		)`,
		`CREATE TABLE IF NOT EXISTS work_orders (
			id BIGSERIAL PRIMARY KEY,
			customer_id BIGINT NOT NULL,
			vehicle_id BIGINT NOT NULL,
			opened_at TEXT NOT NULL,
			closed_at TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'open',
			discount DOUBLE PRECISION NOT NULL DEFAULT 0,
			total_value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS work_order_services (
			work_order_id BIGINT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			service_id BIGINT NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS work_order_parts (
			work_order_id BIGINT NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
			position INT NOT NULL,
			part_id BIGINT NOT NULL,
			quantity INT NOT NULL DEFAULT 1,
			unit_value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS purchases (
			id BIGSERIAL PRIMARY KEY,
			part_id BIGINT NOT NULL,
			supplier TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 0,
			unit_cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			date TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS financial_movements (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			type TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS general_expenses (
			id BIGSERIAL PRIMARY KEY,
			date TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			value DOUBLE PRECISION NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
