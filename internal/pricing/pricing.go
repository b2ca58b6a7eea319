package pricing

import "warung-orders/internal/domain"

// EffectiveUnitPrice applies the item's discount, if any, to its base price.
// With no usable discount the cached post-discount price wins over a zero
// base price (catalogs imported without a base/discount split only carry
// the cached value).
func EffectiveUnitPrice(item domain.MenuItem, discount *domain.Discount) domain.Money {
	base := item.BasePrice
	if base == 0 && item.Price != nil {
		base = *item.Price
	}

	if discount == nil || !discount.IsActive {
		return base
	}

	var price domain.Money
	switch discount.Type {
	case domain.DiscountPercentage:
		value := discount.Value
		if value > 100 {
			value = 100
		}
		if value < 0 {
			value = 0
		}
		price = base * (100 - value) / 100
	case domain.DiscountFixed:
		price = base - discount.Value
	default:
		price = base
	}

	if price < 0 {
		price = 0
	}
	return price
}

// LineUnitPrice adds the additional price of every selected option item to
// the effective unit price. Selections referencing unknown options or items
// contribute nothing.
func LineUnitPrice(effective domain.Money, selections map[int][]int, options []domain.MenuOption) domain.Money {
	price := effective
	for _, opt := range options {
		chosen, ok := selections[opt.ID]
		if !ok {
			continue
		}
		for _, itemID := range chosen {
			for _, optItem := range opt.Items {
				if optItem.ID == itemID {
					price += optItem.AdditionalPrice
					break
				}
			}
		}
	}
	return price
}

func LineTotal(unitPrice domain.Money, quantity int) domain.Money {
	return unitPrice * domain.Money(quantity)
}

// CartTotals sums quantities and line totals over all lines.
func CartTotals(lines []domain.CartLine) (totalItems int, totalAmount domain.Money) {
	for _, line := range lines {
		totalItems += line.Quantity
		totalAmount += line.UnitPrice * domain.Money(line.Quantity)
	}
	return totalItems, totalAmount
}
