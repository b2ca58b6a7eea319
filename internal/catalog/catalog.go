package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warung-orders/internal/domain"
	"warung-orders/internal/options"
	"warung-orders/internal/pricing"
	"warung-orders/internal/tenant"
)

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrItemUnavailable = errors.New("menu item is not available")
)

type Repository interface {
	ListCategories(ctx context.Context, tenantID int) ([]domain.Category, error)
	ListMenuItems(ctx context.Context, tenantID int) ([]domain.MenuItem, error)
	MenuItemByID(ctx context.Context, tenantID, itemID int) (*domain.MenuItem, error)
	DiscountByID(ctx context.Context, tenantID, discountID int) (*domain.Discount, error)
	OptionsForItem(ctx context.Context, tenantID, itemID int) ([]domain.MenuOption, error)
}

// KV caches assembled menu listings; entries expire after the given TTL.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type MenuItemView struct {
	domain.MenuItem
	EffectivePrice domain.Money        `json:"effective_price"`
	Options        []domain.MenuOption `json:"options"`
}

type Menu struct {
	Categories []domain.Category `json:"categories"`
	Items      []MenuItemView    `json:"items"`
}

type Service struct {
	repo  Repository
	cache KV
}

func NewService(repo Repository, cache KV) *Service {
	return &Service{repo: repo, cache: cache}
}

func menuCacheKey(tenantID int) string {
	return fmt.Sprintf("warung:menu:%d", tenantID)
}

// Menu assembles the storefront listing for a tenant: categories plus every
// menu item with its effective price and option groups. Listings are cached
// for tenant.MenuTTL.
func (s *Service) Menu(ctx context.Context, tenantID int) (*Menu, error) {
	key := menuCacheKey(tenantID)
	if cached, err := s.cache.Get(ctx, key); err == nil && cached != "" {
		var menu Menu
		if err := json.Unmarshal([]byte(cached), &menu); err == nil {
			return &menu, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	items, err := s.repo.ListMenuItems(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}

	menu := &Menu{Categories: categories, Items: make([]MenuItemView, 0, len(items))}
	for _, item := range items {
		discount, err := s.discountFor(ctx, tenantID, item)
		if err != nil {
			return nil, err
		}
		opts, err := s.repo.OptionsForItem(ctx, tenantID, item.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load options for item %d: %w", item.ID, err)
		}
		menu.Items = append(menu.Items, MenuItemView{
			MenuItem:       item,
			EffectivePrice: pricing.EffectiveUnitPrice(item, discount),
			Options:        opts,
		})
	}

	if payload, err := json.Marshal(menu); err == nil {
		_ = s.cache.Set(ctx, key, string(payload), tenant.MenuTTL)
	}
	return menu, nil
}

// BuildLine validates a customization request against the catalog and turns
// it into a priced cart line. Selection rule violations and unmet required
// options are rejected here, before anything touches the cart.
func (s *Service) BuildLine(ctx context.Context, tenantID, itemID int, selections map[int][]int, note string, qty int) (*domain.CartLine, error) {
	item, err := s.repo.MenuItemByID(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}

	opts, err := s.repo.OptionsForItem(ctx, tenantID, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load options for item %d: %w", itemID, err)
	}

	session := options.NewSession(opts)
	for optionID, itemIDs := range selections {
		for _, optionItemID := range itemIDs {
			if err := session.Select(optionID, optionItemID); err != nil {
				return nil, err
			}
		}
	}
	if incomplete := session.Incomplete(); incomplete != nil {
		return nil, incomplete
	}

	discount, err := s.discountFor(ctx, tenantID, *item)
	if err != nil {
		return nil, err
	}
	effective := pricing.EffectiveUnitPrice(*item, discount)
	unitPrice := pricing.LineUnitPrice(effective, session.Selections(), opts)

	if qty < 1 {
		qty = 1
	}
	return &domain.CartLine{
		MenuItemID: item.ID,
		Name:       item.Name,
		UnitPrice:  unitPrice,
		Quantity:   qty,
		Selections: session.Selections(),
		Note:       note,
		PhotoURL:   item.PhotoURL,
	}, nil
}

func (s *Service) discountFor(ctx context.Context, tenantID int, item domain.MenuItem) (*domain.Discount, error) {
	if item.DiscountID == nil {
		return nil, nil
	}
	discount, err := s.repo.DiscountByID(ctx, tenantID, *item.DiscountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load discount %d: %w", *item.DiscountID, err)
	}
	return discount, nil
}
