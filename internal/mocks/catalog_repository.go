package mocks

import (
	"context"

	"warung-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogRepository) ListCategories(ctx context.Context, tenantID int) ([]domain.Category, error) {
	args := m.Called(ctx, tenantID)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

func (m *CatalogRepository) ListMenuItems(ctx context.Context, tenantID int) ([]domain.MenuItem, error) {
	args := m.Called(ctx, tenantID)
	var items []domain.MenuItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.MenuItem)
	}
	return items, args.Error(1)
}

func (m *CatalogRepository) MenuItemByID(ctx context.Context, tenantID, itemID int) (*domain.MenuItem, error) {
	args := m.Called(ctx, tenantID, itemID)
	var item *domain.MenuItem
	if args.Get(0) != nil {
		item = args.Get(0).(*domain.MenuItem)
	}
	return item, args.Error(1)
}

func (m *CatalogRepository) DiscountByID(ctx context.Context, tenantID, discountID int) (*domain.Discount, error) {
	args := m.Called(ctx, tenantID, discountID)
	var discount *domain.Discount
	if args.Get(0) != nil {
		discount = args.Get(0).(*domain.Discount)
	}
	return discount, args.Error(1)
}

func (m *CatalogRepository) OptionsForItem(ctx context.Context, tenantID, itemID int) ([]domain.MenuOption, error) {
	args := m.Called(ctx, tenantID, itemID)
	var opts []domain.MenuOption
	if args.Get(0) != nil {
		opts = args.Get(0).([]domain.MenuOption)
	}
	return opts, args.Error(1)
}
