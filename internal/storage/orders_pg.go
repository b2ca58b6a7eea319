package storage

import (
	"context"
	"database/sql"
	"errors"

	"warung-orders/internal/checkout"
	"warung-orders/internal/domain"

	"github.com/lib/pq"
)

var ErrOrderNotFound = errors.New("order not found")

func (r *PostgresRepository) InsertOrder(ctx context.Context, order *domain.Order) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO orders (tenant_id, order_code, customer_name, phone, pickup_date,
			payment_method, status, subtotal, discount, service_fee, total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		order.TenantID, order.OrderCode, order.CustomerName, order.Phone, order.PickupDate,
		order.PaymentMethod, order.Status, order.Subtotal, order.Discount, order.ServiceFee,
		order.Total, order.Notes).
		Scan(&order.ID, &order.CreatedAt)

	// the only unique constraint on orders is (tenant_id, order_code)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return checkout.ErrDuplicateOrderCode
	}
	return err
}

// InsertOrderItems writes all line snapshots for an order in one
// transaction: either every item lands or none do, so a failure leaves a
// cleanly deletable header rather than a half-written item set.
func (r *PostgresRepository) InsertOrderItems(ctx context.Context, orderID int, items []domain.OrderItem) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range items {
		if err := tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name_snapshot, options_snapshot,
				price_snapshot, qty, line_total, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			orderID, items[i].MenuItemID, items[i].NameSnapshot, items[i].OptionsSnapshot,
			items[i].PriceSnapshot, items[i].Qty, items[i].LineTotal, items[i].Note).
			Scan(&items[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) DeleteOrder(ctx context.Context, orderID int) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	return err
}

func (r *PostgresRepository) SaveOrderQR(ctx context.Context, orderID int, qr []byte) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE orders SET qr_code = $1 WHERE id = $2", qr, orderID)
	return err
}

const orderColumns = `id, tenant_id, order_code, customer_name, phone, pickup_date,
	payment_method, status, subtotal, discount, service_fee, total, COALESCE(notes, ''), created_at`

func scanOrder(scanner interface{ Scan(...any) error }) (domain.Order, error) {
	var o domain.Order
	err := scanner.Scan(&o.ID, &o.TenantID, &o.OrderCode, &o.CustomerName, &o.Phone, &o.PickupDate,
		&o.PaymentMethod, &o.Status, &o.Subtotal, &o.Discount, &o.ServiceFee, &o.Total, &o.Notes, &o.CreatedAt)
	return o, err
}

func (r *PostgresRepository) OrderByCode(ctx context.Context, tenantID int, code string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE tenant_id = $1 AND order_code = $2`, tenantID, code))
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, order_id, COALESCE(menu_item_id, 0), name_snapshot, COALESCE(options_snapshot, ''),
			price_snapshot, qty, line_total, COALESCE(note, '')
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, order.ID)
	if err != nil {
		return &order, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.NameSnapshot,
			&item.OptionsSnapshot, &item.PriceSnapshot, &item.Qty, &item.LineTotal, &item.Note); err != nil {
			continue
		}
		order.Items = append(order.Items, item)
	}
	return &order, rows.Err()
}

func (r *PostgresRepository) OrderQRByCode(ctx context.Context, tenantID int, code string) ([]byte, error) {
	var qr []byte
	err := r.DB.QueryRowContext(ctx,
		"SELECT qr_code FROM orders WHERE tenant_id = $1 AND order_code = $2", tenantID, code).
		Scan(&qr)
	if err == sql.ErrNoRows {
		return nil, ErrOrderNotFound
	}
	return qr, err
}

func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, tenantID int, code, status, notes string) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET status = $1, notes = COALESCE(NULLIF($2, ''), notes)
		WHERE tenant_id = $3 AND order_code = $4`, status, notes, tenantID, code)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// OrphanedOrders lists headers with no items, the reconciliation target
// when a compensating delete after a failed items write also failed.
func (r *PostgresRepository) OrphanedOrders(ctx context.Context, tenantID int) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders o
		WHERE o.tenant_id = $1
		  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = o.id)
		ORDER BY o.created_at DESC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
