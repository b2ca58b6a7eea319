package mocks

import (
	"context"

	"warung-orders/internal/domain"

	"github.com/stretchr/testify/mock"
)

type PaymentMethodRepository struct {
	mock.Mock
}

func NewPaymentMethodRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *PaymentMethodRepository {
	m := &PaymentMethodRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PaymentMethodRepository) EnabledMethods(ctx context.Context, tenantID int) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, tenantID)
	var methods []domain.PaymentMethod
	if args.Get(0) != nil {
		methods = args.Get(0).([]domain.PaymentMethod)
	}
	return methods, args.Error(1)
}
