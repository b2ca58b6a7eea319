package catalog_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"warung-orders/internal/catalog"
	"warung-orders/internal/domain"
	"warung-orders/internal/mocks"
	"warung-orders/internal/options"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type memoryTTLKV struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryTTLKV() *memoryTTLKV { return &memoryTTLKV{values: map[string]string{}} }

func (m *memoryTTLKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memoryTTLKV) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func discountID(id int) *int { return &id }

func itemOptions() []domain.MenuOption {
	return []domain.MenuOption{
		{
			ID: 1, MenuItemID: 5, Label: "Size", SelectionType: domain.SelectionSingleRequired, IsRequired: true,
			Items: []domain.MenuOptionItem{
				{ID: 10, OptionID: 1, Label: "Regular", IsAvailable: true},
				{ID: 11, OptionID: 1, Label: "Large", AdditionalPrice: 2000, IsAvailable: true},
			},
		},
	}
}

func TestMenu_AssemblesAndCaches(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	kv := newMemoryTTLKV()
	svc := catalog.NewService(repo, kv)

	repo.On("ListCategories", mock.Anything, 7).
		Return([]domain.Category{{ID: 1, TenantID: 7, Name: "Mains"}}, nil).Once()
	repo.On("ListMenuItems", mock.Anything, 7).
		Return([]domain.MenuItem{{ID: 5, TenantID: 7, CategoryID: 1, Name: "Nasi Goreng", BasePrice: 20000, DiscountID: discountID(3), IsAvailable: true}}, nil).Once()
	repo.On("DiscountByID", mock.Anything, 7, 3).
		Return(&domain.Discount{ID: 3, TenantID: 7, Type: domain.DiscountPercentage, Value: 10, IsActive: true}, nil).Once()
	repo.On("OptionsForItem", mock.Anything, 7, 5).Return(itemOptions(), nil).Once()

	menu, err := svc.Menu(ctx, 7)
	assert.NoError(t, err)
	assert.Len(t, menu.Categories, 1)
	assert.Len(t, menu.Items, 1)
	assert.Equal(t, domain.Money(18000), menu.Items[0].EffectivePrice)
	assert.Len(t, menu.Items[0].Options, 1)

	// second read comes from cache; all repo expectations are Once
	cached, err := svc.Menu(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, menu.Items[0].EffectivePrice, cached.Items[0].EffectivePrice)
}

func TestBuildLine_PricesSelections(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	svc := catalog.NewService(repo, newMemoryTTLKV())

	repo.On("MenuItemByID", mock.Anything, 7, 5).
		Return(&domain.MenuItem{ID: 5, TenantID: 7, Name: "Nasi Goreng", BasePrice: 20000, DiscountID: discountID(3), IsAvailable: true, PhotoURL: "https://img/5.jpg"}, nil).Once()
	repo.On("OptionsForItem", mock.Anything, 7, 5).Return(itemOptions(), nil).Once()
	repo.On("DiscountByID", mock.Anything, 7, 3).
		Return(&domain.Discount{ID: 3, Type: domain.DiscountPercentage, Value: 10, IsActive: true}, nil).Once()

	line, err := svc.BuildLine(ctx, 7, 5, map[int][]int{1: {11}}, "extra sambal", 3)
	assert.NoError(t, err)
	assert.Equal(t, 5, line.MenuItemID)
	assert.Equal(t, "Nasi Goreng", line.Name)
	assert.Equal(t, domain.Money(20000), line.UnitPrice) // 18000 discounted + 2000 option
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, map[int][]int{1: {11}}, line.Selections)
	assert.Equal(t, "extra sambal", line.Note)
	assert.Equal(t, "https://img/5.jpg", line.PhotoURL)
}

func TestBuildLine_MissingRequiredOptionRejected(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	svc := catalog.NewService(repo, newMemoryTTLKV())

	repo.On("MenuItemByID", mock.Anything, 7, 5).
		Return(&domain.MenuItem{ID: 5, TenantID: 7, Name: "Nasi Goreng", BasePrice: 20000, IsAvailable: true}, nil).Once()
	repo.On("OptionsForItem", mock.Anything, 7, 5).Return(itemOptions(), nil).Once()

	_, err := svc.BuildLine(ctx, 7, 5, nil, "", 1)

	var incomplete *options.IncompleteError
	assert.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"Size"}, incomplete.Missing)
}

func TestBuildLine_InvalidSelectionRejected(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	svc := catalog.NewService(repo, newMemoryTTLKV())

	repo.On("MenuItemByID", mock.Anything, 7, 5).
		Return(&domain.MenuItem{ID: 5, TenantID: 7, Name: "Nasi Goreng", BasePrice: 20000, IsAvailable: true}, nil).Once()
	repo.On("OptionsForItem", mock.Anything, 7, 5).Return(itemOptions(), nil).Once()

	_, err := svc.BuildLine(ctx, 7, 5, map[int][]int{1: {999}}, "", 1)
	assert.ErrorIs(t, err, options.ErrUnknownOptionItem)
}

func TestBuildLine_UnavailableItemRejected(t *testing.T) {
	ctx := context.Background()
	repo := mocks.NewCatalogRepository(t)
	svc := catalog.NewService(repo, newMemoryTTLKV())

	repo.On("MenuItemByID", mock.Anything, 7, 5).
		Return(&domain.MenuItem{ID: 5, TenantID: 7, Name: "Sold Out", BasePrice: 20000, IsAvailable: false}, nil).Once()

	_, err := svc.BuildLine(ctx, 7, 5, nil, "", 1)
	assert.ErrorIs(t, err, catalog.ErrItemUnavailable)
}
