package pricing_test

import (
	"testing"

	"warung-orders/internal/domain"
	"warung-orders/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveUnitPrice(t *testing.T) {
	cached := domain.Money(17500)

	tests := []struct {
		name     string
		item     domain.MenuItem
		discount *domain.Discount
		want     domain.Money
	}{
		{
			name: "no discount returns base price",
			item: domain.MenuItem{BasePrice: 20000},
			want: 20000,
		},
		{
			name:     "inactive discount ignored",
			item:     domain.MenuItem{BasePrice: 20000},
			discount: &domain.Discount{Type: domain.DiscountPercentage, Value: 50, IsActive: false},
			want:     20000,
		},
		{
			name:     "percentage discount",
			item:     domain.MenuItem{BasePrice: 20000},
			discount: &domain.Discount{Type: domain.DiscountPercentage, Value: 10, IsActive: true},
			want:     18000,
		},
		{
			name:     "fixed discount",
			item:     domain.MenuItem{BasePrice: 20000},
			discount: &domain.Discount{Type: domain.DiscountFixed, Value: 5000, IsActive: true},
			want:     15000,
		},
		{
			name:     "fixed discount larger than price clamps at zero",
			item:     domain.MenuItem{BasePrice: 20000},
			discount: &domain.Discount{Type: domain.DiscountFixed, Value: 99999, IsActive: true},
			want:     0,
		},
		{
			name:     "percentage over 100 clamps at zero",
			item:     domain.MenuItem{BasePrice: 20000},
			discount: &domain.Discount{Type: domain.DiscountPercentage, Value: 250, IsActive: true},
			want:     0,
		},
		{
			name: "cached price used when no base price",
			item: domain.MenuItem{Price: &cached},
			want: 17500,
		},
		{
			name:     "unknown discount type falls back to base",
			item:     domain.MenuItem{BasePrice: 12000},
			discount: &domain.Discount{Type: "loyalty", Value: 10, IsActive: true},
			want:     12000,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := pricing.EffectiveUnitPrice(testCase.item, testCase.discount)
			assert.Equal(t, testCase.want, got)
			assert.GreaterOrEqual(t, got, domain.Money(0))
		})
	}
}

func TestLineUnitPrice(t *testing.T) {
	options := []domain.MenuOption{
		{
			ID: 1,
			Items: []domain.MenuOptionItem{
				{ID: 10, AdditionalPrice: 2000, IsAvailable: true},
				{ID: 11, AdditionalPrice: 3000, IsAvailable: true},
			},
		},
		{
			ID: 2,
			Items: []domain.MenuOptionItem{
				{ID: 20, AdditionalPrice: 500, IsAvailable: true},
			},
		},
	}

	t.Run("sums selected option items", func(t *testing.T) {
		got := pricing.LineUnitPrice(18000, map[int][]int{1: {10}, 2: {20}}, options)
		assert.Equal(t, domain.Money(20500), got)
	})

	t.Run("no selections keeps effective price", func(t *testing.T) {
		got := pricing.LineUnitPrice(18000, nil, options)
		assert.Equal(t, domain.Money(18000), got)
	})

	t.Run("unknown ids contribute nothing", func(t *testing.T) {
		got := pricing.LineUnitPrice(18000, map[int][]int{1: {999}, 7: {1}}, options)
		assert.Equal(t, domain.Money(18000), got)
	})
}

// Scenario from the storefront: base 20000, 10% discount, one 2000 option,
// quantity 3.
func TestDiscountedOptionLineScenario(t *testing.T) {
	item := domain.MenuItem{ID: 5, BasePrice: 20000}
	discount := &domain.Discount{Type: domain.DiscountPercentage, Value: 10, IsActive: true}
	options := []domain.MenuOption{
		{ID: 1, Items: []domain.MenuOptionItem{{ID: 10, AdditionalPrice: 2000, IsAvailable: true}}},
	}

	effective := pricing.EffectiveUnitPrice(item, discount)
	assert.Equal(t, domain.Money(18000), effective)

	unit := pricing.LineUnitPrice(effective, map[int][]int{1: {10}}, options)
	assert.Equal(t, domain.Money(20000), unit)

	assert.Equal(t, domain.Money(60000), pricing.LineTotal(unit, 3))
}

func TestCartTotals(t *testing.T) {
	lines := []domain.CartLine{
		{MenuItemID: 1, Name: "A", UnitPrice: 15000, Quantity: 2},
		{MenuItemID: 2, Name: "B", UnitPrice: 10000, Quantity: 1},
	}

	items, amount := pricing.CartTotals(lines)
	assert.Equal(t, 3, items)
	assert.Equal(t, domain.Money(40000), amount)

	items, amount = pricing.CartTotals(nil)
	assert.Equal(t, 0, items)
	assert.Equal(t, domain.Money(0), amount)
}
