package mocks

import (
	"context"

	"warung-orders/internal/catalog"
	"warung-orders/internal/checkout"
	"warung-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type TenantResolver struct {
	mock.Mock
}

func NewTenantResolver(t interface {
	mock.TestingT
	Cleanup(func())
}) *TenantResolver {
	m := &TenantResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TenantResolver) Resolve(ctx context.Context, raw string) (*domain.Tenant, error) {
	args := m.Called(ctx, raw)
	var t *domain.Tenant
	if args.Get(0) != nil {
		t = args.Get(0).(*domain.Tenant)
	}
	return t, args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func NewCatalogService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogService {
	m := &CatalogService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CatalogService) Menu(ctx context.Context, tenantID int) (*catalog.Menu, error) {
	args := m.Called(ctx, tenantID)
	var menu *catalog.Menu
	if args.Get(0) != nil {
		menu = args.Get(0).(*catalog.Menu)
	}
	return menu, args.Error(1)
}

func (m *CatalogService) BuildLine(ctx context.Context, tenantID, itemID int, selections map[int][]int, note string, qty int) (*domain.CartLine, error) {
	args := m.Called(ctx, tenantID, itemID, selections, note, qty)
	var line *domain.CartLine
	if args.Get(0) != nil {
		line = args.Get(0).(*domain.CartLine)
	}
	return line, args.Error(1)
}

type CheckoutService struct {
	mock.Mock
}

func NewCheckoutService(t interface {
	mock.TestingT
	Cleanup(func())
}) *CheckoutService {
	m := &CheckoutService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CheckoutService) Submit(ctx context.Context, t *domain.Tenant, req checkout.Request, cartStore checkout.CartStore) (*domain.Order, error) {
	args := m.Called(ctx, t, req, cartStore)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *CheckoutService) OrphanedOrders(ctx context.Context, tenantID int) ([]domain.Order, error) {
	args := m.Called(ctx, tenantID)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

type OrderDirectory struct {
	mock.Mock
}

func NewOrderDirectory(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderDirectory {
	m := &OrderDirectory{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderDirectory) OrderByCode(ctx context.Context, tenantID int, code string) (*domain.Order, error) {
	args := m.Called(ctx, tenantID, code)
	var order *domain.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*domain.Order)
	}
	return order, args.Error(1)
}

func (m *OrderDirectory) OrderQRByCode(ctx context.Context, tenantID int, code string) ([]byte, error) {
	args := m.Called(ctx, tenantID, code)
	var qr []byte
	if args.Get(0) != nil {
		qr = args.Get(0).([]byte)
	}
	return qr, args.Error(1)
}

func (m *OrderDirectory) UpdateOrderStatus(ctx context.Context, tenantID int, code, status, notes string) error {
	args := m.Called(ctx, tenantID, code, status, notes)
	return args.Error(0)
}
