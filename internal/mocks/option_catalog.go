package mocks

import (
	"context"

	"warung-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OptionCatalog struct {
	mock.Mock
}

func NewOptionCatalog(t interface {
	mock.TestingT
	Cleanup(func())
}) *OptionCatalog {
	m := &OptionCatalog{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OptionCatalog) OptionsForItem(ctx context.Context, tenantID, itemID int) ([]domain.MenuOption, error) {
	args := m.Called(ctx, tenantID, itemID)
	var opts []domain.MenuOption
	if args.Get(0) != nil {
		opts = args.Get(0).([]domain.MenuOption)
	}
	return opts, args.Error(1)
}
