package domain

import "time"

// Money is a currency amount in the tenant's minor-less display currency.
// All price arithmetic stays on integers; binary floats drift on repeated
// percentage discounts.
type Money = int64

type Tenant struct {
	ID               int       `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Currency         string    `json:"currency"`
	PhoneCountryCode string    `json:"phone_country_code"`
	CreatedAt        time.Time `json:"created_at"`
}

type Category struct {
	ID       int    `json:"id"`
	TenantID int    `json:"tenant_id"`
	Name     string `json:"name"`
	Position int    `json:"position"`
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Discount struct {
	ID       int    `json:"id"`
	TenantID int    `json:"tenant_id"`
	Type     string `json:"type"`
	Value    int64  `json:"value"`
	IsActive bool   `json:"is_active"`
}

type MenuItem struct {
	ID          int       `json:"id"`
	TenantID    int       `json:"tenant_id"`
	CategoryID  int       `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	BasePrice   Money     `json:"base_price"`
	Price       *Money    `json:"price,omitempty"` // cached post-discount value, optional
	DiscountID  *int      `json:"discount_id,omitempty"`
	PhotoURL    string    `json:"photo_url"`
	IsAvailable bool      `json:"is_available"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	SelectionSingleRequired = "single_required"
	SelectionSingleOptional = "single_optional"
	SelectionMultiple       = "multiple"
)

type MenuOption struct {
	ID            int              `json:"id"`
	MenuItemID    int              `json:"menu_item_id"`
	Label         string           `json:"label"`
	SelectionType string           `json:"selection_type"`
	MaxSelections int              `json:"max_selections"` // only meaningful for "multiple"
	IsRequired    bool             `json:"is_required"`
	Items         []MenuOptionItem `json:"items"`
}

type MenuOptionItem struct {
	ID              int    `json:"id"`
	OptionID        int    `json:"option_id"`
	Label           string `json:"label"`
	AdditionalPrice Money  `json:"additional_price"`
	IsAvailable     bool   `json:"is_available"`
}

type PaymentMethod struct {
	ID        int    `json:"id"`
	TenantID  int    `json:"tenant_id"`
	Code      string `json:"code"`
	Label     string `json:"label"`
	IsEnabled bool   `json:"is_enabled"`
}

// CartLine is one distinct purchasable unit prior to checkout. Selections
// maps option id -> chosen option item ids; Note is free customer text.
type CartLine struct {
	MenuItemID int           `json:"menu_item_id"`
	Name       string        `json:"name"`
	UnitPrice  Money         `json:"unit_price"` // already option/discount-adjusted
	Quantity   int           `json:"quantity"`
	Selections map[int][]int `json:"selections,omitempty"`
	Note       string        `json:"note,omitempty"`
	PhotoURL   string        `json:"photo_url,omitempty"`
}

const (
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusPaid           = "paid"
	OrderStatusPreparing      = "preparing"
	OrderStatusReady          = "ready"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

type Order struct {
	ID            int         `json:"id"`
	TenantID      int         `json:"tenant_id"`
	OrderCode     string      `json:"order_code"`
	CustomerName  string      `json:"customer_name"`
	Phone         string      `json:"phone"`
	PickupDate    time.Time   `json:"pickup_date"`
	PaymentMethod string      `json:"payment_method"`
	Status        string      `json:"status"`
	Subtotal      Money       `json:"subtotal"`
	Discount      Money       `json:"discount"`
	ServiceFee    Money       `json:"service_fee"`
	Total         Money       `json:"total"`
	Notes         string      `json:"notes"`
	QRCode        []byte      `json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem snapshots name, price and resolved option labels at checkout
// time so later catalog edits never change what a receipt shows.
type OrderItem struct {
	ID              int    `json:"id"`
	OrderID         int    `json:"order_id"`
	MenuItemID      int    `json:"menu_item_id"`
	NameSnapshot    string `json:"name_snapshot"`
	OptionsSnapshot string `json:"options_snapshot,omitempty"`
	PriceSnapshot   Money  `json:"price_snapshot"`
	Qty             int    `json:"qty"`
	LineTotal       Money  `json:"line_total"`
	Note            string `json:"note,omitempty"`
}
