package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"warung-orders/internal/domain"
	"warung-orders/internal/options"
	"warung-orders/internal/pricing"
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrMissingName             = errors.New("customer name is required")
	ErrMissingPhone            = errors.New("customer phone is required")
	ErrInvalidPhone            = errors.New("customer phone is not a valid number")
	ErrPaymentMethodNotAllowed = errors.New("payment method is not enabled for this tenant")

	// ErrPartialOrder marks the one state operators must reconcile by hand:
	// the header was written, the items were not, and the compensating
	// delete failed too.
	ErrPartialOrder = errors.New("order partially written: header exists without items")

	// ErrDuplicateOrderCode is returned by repositories when the generated
	// code collides with an existing order for the tenant. Submit retries
	// once with a fresh code before giving up.
	ErrDuplicateOrderCode = errors.New("order code already exists")
)

type OrderRepository interface {
	InsertOrder(ctx context.Context, order *domain.Order) error
	InsertOrderItems(ctx context.Context, orderID int, items []domain.OrderItem) error
	DeleteOrder(ctx context.Context, orderID int) error
	SaveOrderQR(ctx context.Context, orderID int, qr []byte) error
	OrphanedOrders(ctx context.Context, tenantID int) ([]domain.Order, error)
}

type PaymentMethodRepository interface {
	EnabledMethods(ctx context.Context, tenantID int) ([]domain.PaymentMethod, error)
}

// OptionCatalog supplies option definitions for required-option validation
// and label snapshotting.
type OptionCatalog interface {
	OptionsForItem(ctx context.Context, tenantID, itemID int) ([]domain.MenuOption, error)
}

type CartStore interface {
	Lines() []domain.CartLine
	Totals() (int, domain.Money)
	Clear(ctx context.Context) error
}

// Notifier carries the completed order to an external spreadsheet webhook.
// Failures are logged and swallowed; they never affect the order.
type Notifier interface {
	NotifyOrder(ctx context.Context, order *domain.Order) error
}

// Publisher emits the order.created event.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
}

type QRGenerator interface {
	Generate(orderCode string) ([]byte, error)
}

type Request struct {
	CustomerName  string    `json:"customer_name"`
	Phone         string    `json:"phone"`
	PickupDate    time.Time `json:"pickup_date"`
	PaymentMethod string    `json:"payment_method"`
	Notes         string    `json:"notes"`
}

type Service struct {
	repo      OrderRepository
	payments  PaymentMethodRepository
	catalog   OptionCatalog
	notifier  Notifier
	publisher Publisher
	qr        QRGenerator
}

func NewService(repo OrderRepository, payments PaymentMethodRepository, catalog OptionCatalog, notifier Notifier, publisher Publisher, qr QRGenerator) *Service {
	return &Service{
		repo:      repo,
		payments:  payments,
		catalog:   catalog,
		notifier:  notifier,
		publisher: publisher,
		qr:        qr,
	}
}

const defaultCountryCode = "62"

const orderCodeCharset = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

func generateOrderCode(now time.Time) string {
	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = orderCodeCharset[rand.Intn(len(orderCodeCharset))]
	}
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), suffix)
}

// Submit turns the cart plus customer fields into a persisted order. All
// validation happens before the first repository call, so a rejected
// submission leaves nothing to clean up. The header/items write is
// compensated: if the items insert fails the header is deleted again, and
// only a failed compensation surfaces as ErrPartialOrder. The cart is
// cleared only on full success.
func (s *Service) Submit(ctx context.Context, tenant *domain.Tenant, req Request, cartStore CartStore) (*domain.Order, error) {
	if strings.TrimSpace(req.CustomerName) == "" {
		return nil, ErrMissingName
	}
	countryCode := tenant.PhoneCountryCode
	if countryCode == "" {
		countryCode = defaultCountryCode
	}
	phone, err := NormalizePhone(req.Phone, countryCode)
	if err != nil {
		return nil, err
	}
	if err := s.validatePaymentMethod(ctx, tenant.ID, req.PaymentMethod); err != nil {
		return nil, err
	}

	lines := cartStore.Lines()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// required-option completeness comes before any price is final
	optionSnapshots := make([]string, len(lines))
	for i, line := range lines {
		opts, err := s.catalog.OptionsForItem(ctx, tenant.ID, line.MenuItemID)
		if err != nil {
			return nil, fmt.Errorf("failed to load options for item %d: %w", line.MenuItemID, err)
		}
		session := options.Restore(opts, line.Selections)
		if incomplete := session.Incomplete(); incomplete != nil {
			return nil, incomplete
		}
		optionSnapshots[i] = strings.Join(options.Labels(opts, line.Selections), "; ")
	}

	_, subtotal := pricing.CartTotals(lines)
	var discount, serviceFee domain.Money // reserved, always 0 for now

	order := &domain.Order{
		TenantID:      tenant.ID,
		OrderCode:     generateOrderCode(time.Now()),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Phone:         phone,
		PickupDate:    req.PickupDate,
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderStatusPendingPayment,
		Subtotal:      subtotal,
		Discount:      discount,
		ServiceFee:    serviceFee,
		Total:         subtotal - discount + serviceFee,
		Notes:         req.Notes,
	}

	if err := s.repo.InsertOrder(ctx, order); err != nil {
		if !errors.Is(err, ErrDuplicateOrderCode) {
			return nil, fmt.Errorf("failed to insert order: %w", err)
		}
		order.OrderCode = generateOrderCode(time.Now())
		if err := s.repo.InsertOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("failed to insert order: %w", err)
		}
	}

	items := make([]domain.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = domain.OrderItem{
			OrderID:         order.ID,
			MenuItemID:      line.MenuItemID,
			NameSnapshot:    line.Name,
			OptionsSnapshot: optionSnapshots[i],
			PriceSnapshot:   line.UnitPrice,
			Qty:             line.Quantity,
			LineTotal:       pricing.LineTotal(line.UnitPrice, line.Quantity),
			Note:            line.Note,
		}
	}

	if err := s.repo.InsertOrderItems(ctx, order.ID, items); err != nil {
		if delErr := s.repo.DeleteOrder(ctx, order.ID); delErr != nil {
			log.Printf("Orphaned order %s (id %d): items failed (%v), compensation failed (%v)", order.OrderCode, order.ID, err, delErr)
			return nil, fmt.Errorf("%w: %s", ErrPartialOrder, order.OrderCode)
		}
		return nil, fmt.Errorf("failed to insert order items: %w", err)
	}
	order.Items = items

	if s.qr != nil {
		if qr, err := s.qr.Generate(order.OrderCode); err == nil {
			if err := s.repo.SaveOrderQR(ctx, order.ID, qr); err != nil {
				log.Printf("Failed to save QR for order %s: %v", order.OrderCode, err)
			} else {
				order.QRCode = qr
			}
		}
	}

	if err := cartStore.Clear(ctx); err != nil {
		log.Printf("Failed to clear cart after order %s: %v", order.OrderCode, err)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyOrder(ctx, order); err != nil {
			log.Printf("Order webhook failed for %s: %v", order.OrderCode, err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			log.Printf("Order event publish failed for %s: %v", order.OrderCode, err)
		}
	}

	return order, nil
}

func (s *Service) validatePaymentMethod(ctx context.Context, tenantID int, code string) error {
	if code == "" {
		return ErrPaymentMethodNotAllowed
	}
	methods, err := s.payments.EnabledMethods(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to load payment methods: %w", err)
	}
	for _, method := range methods {
		if method.Code == code && method.IsEnabled {
			return nil
		}
	}
	return ErrPaymentMethodNotAllowed
}

// OrphanedOrders lists headers without items for operator reconciliation.
func (s *Service) OrphanedOrders(ctx context.Context, tenantID int) ([]domain.Order, error) {
	return s.repo.OrphanedOrders(ctx, tenantID)
}
