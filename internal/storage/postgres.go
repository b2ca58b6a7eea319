package storage

import (
	"context"
	"database/sql"
	"fmt"

	"warung-orders/internal/domain"
	"warung-orders/internal/tenant"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) TenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	var t domain.Tenant
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, slug, name, COALESCE(currency, 'IDR'), COALESCE(phone_country_code, '62'), created_at
		FROM tenants
		WHERE slug = $1`, slug).
		Scan(&t.ID, &t.Slug, &t.Name, &t.Currency, &t.PhoneCountryCode, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, tenant.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepository) EnabledMethods(ctx context.Context, tenantID int) ([]domain.PaymentMethod, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tenant_id, code, label, is_enabled
		FROM payment_methods
		WHERE tenant_id = $1 AND is_enabled = TRUE
		ORDER BY id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.TenantID, &m.Code, &m.Label, &m.IsEnabled); err != nil {
			continue
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id SERIAL PRIMARY KEY,
			slug TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			currency TEXT DEFAULT 'IDR',
			phone_country_code TEXT DEFAULT '62',
			created_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			name TEXT NOT NULL,
			position INT DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS menu_discounts (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			type TEXT NOT NULL,
			value BIGINT NOT NULL,
			is_active BOOLEAN DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_items (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			category_id INT REFERENCES categories(id),
			name TEXT NOT NULL,
			description TEXT,
			base_price BIGINT NOT NULL DEFAULT 0,
			price BIGINT,
			discount_id INT REFERENCES menu_discounts(id),
			photo_url TEXT,
			is_available BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMPTZ DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS menu_options (
			id SERIAL PRIMARY KEY,
			menu_item_id INT NOT NULL REFERENCES menu_items(id),
			label TEXT NOT NULL,
			selection_type TEXT NOT NULL,
			max_selections INT DEFAULT 0,
			is_required BOOLEAN DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS menu_option_items (
			id SERIAL PRIMARY KEY,
			option_id INT NOT NULL REFERENCES menu_options(id),
			label TEXT NOT NULL,
			additional_price BIGINT NOT NULL DEFAULT 0,
			is_available BOOLEAN DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS payment_methods (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			code TEXT NOT NULL,
			label TEXT NOT NULL,
			is_enabled BOOLEAN DEFAULT TRUE,
			UNIQUE (tenant_id, code)
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			tenant_id INT NOT NULL REFERENCES tenants(id),
			order_code TEXT NOT NULL,
			customer_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			pickup_date TIMESTAMPTZ,
			payment_method TEXT NOT NULL,
			status TEXT NOT NULL,
			subtotal BIGINT NOT NULL,
			discount BIGINT NOT NULL DEFAULT 0,
			service_fee BIGINT NOT NULL DEFAULT 0,
			total BIGINT NOT NULL,
			notes TEXT,
			qr_code BYTEA,
			created_at TIMESTAMPTZ DEFAULT now(),
			UNIQUE (tenant_id, order_code)
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id SERIAL PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			menu_item_id INT,
			name_snapshot TEXT NOT NULL,
			options_snapshot TEXT,
			price_snapshot BIGINT NOT NULL,
			qty INT NOT NULL,
			line_total BIGINT NOT NULL,
			note TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
