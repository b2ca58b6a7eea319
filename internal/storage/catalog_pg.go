package storage

import (
	"context"
	"database/sql"

	"warung-orders/internal/catalog"
	"warung-orders/internal/domain"
)

func (r *PostgresRepository) ListCategories(ctx context.Context, tenantID int) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, tenant_id, name, position
		FROM categories
		WHERE tenant_id = $1
		ORDER BY position, id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Position); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

const menuItemColumns = `id, tenant_id, COALESCE(category_id, 0), name, COALESCE(description, ''),
	base_price, price, discount_id, COALESCE(photo_url, ''), is_available, created_at`

func scanMenuItem(scanner interface{ Scan(...any) error }) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := scanner.Scan(&item.ID, &item.TenantID, &item.CategoryID, &item.Name, &item.Description,
		&item.BasePrice, &item.Price, &item.DiscountID, &item.PhotoURL, &item.IsAvailable, &item.CreatedAt)
	return item, err
}

func (r *PostgresRepository) ListMenuItems(ctx context.Context, tenantID int) ([]domain.MenuItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE tenant_id = $1 AND is_available = TRUE
		ORDER BY category_id, id`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) MenuItemByID(ctx context.Context, tenantID, itemID int) (*domain.MenuItem, error) {
	item, err := scanMenuItem(r.DB.QueryRowContext(ctx, `
		SELECT `+menuItemColumns+`
		FROM menu_items
		WHERE id = $1 AND tenant_id = $2`, itemID, tenantID))
	if err == sql.ErrNoRows {
		return nil, catalog.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) DiscountByID(ctx context.Context, tenantID, discountID int) (*domain.Discount, error) {
	var d domain.Discount
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, tenant_id, type, value, is_active
		FROM menu_discounts
		WHERE id = $1 AND tenant_id = $2`, discountID, tenantID).
		Scan(&d.ID, &d.TenantID, &d.Type, &d.Value, &d.IsActive)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// OptionsForItem loads an item's option groups with their option items
// attached, in catalog order.
func (r *PostgresRepository) OptionsForItem(ctx context.Context, tenantID, itemID int) ([]domain.MenuOption, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT o.id, o.menu_item_id, o.label, o.selection_type, o.max_selections, o.is_required
		FROM menu_options o
		JOIN menu_items mi ON mi.id = o.menu_item_id
		WHERE o.menu_item_id = $1 AND mi.tenant_id = $2
		ORDER BY o.id`, itemID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var opts []domain.MenuOption
	index := map[int]int{}
	for rows.Next() {
		var opt domain.MenuOption
		if err := rows.Scan(&opt.ID, &opt.MenuItemID, &opt.Label, &opt.SelectionType, &opt.MaxSelections, &opt.IsRequired); err != nil {
			continue
		}
		index[opt.ID] = len(opts)
		opts = append(opts, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, nil
	}

	itemRows, err := r.DB.QueryContext(ctx, `
		SELECT oi.id, oi.option_id, oi.label, oi.additional_price, oi.is_available
		FROM menu_option_items oi
		JOIN menu_options o ON o.id = oi.option_id
		WHERE o.menu_item_id = $1
		ORDER BY oi.id`, itemID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var optItem domain.MenuOptionItem
		if err := itemRows.Scan(&optItem.ID, &optItem.OptionID, &optItem.Label, &optItem.AdditionalPrice, &optItem.IsAvailable); err != nil {
			continue
		}
		if i, ok := index[optItem.OptionID]; ok {
			opts[i].Items = append(opts[i].Items, optItem)
		}
	}
	return opts, itemRows.Err()
}
