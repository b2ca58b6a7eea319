package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"warung-orders/internal/cart"
	"warung-orders/internal/catalog"
	"warung-orders/internal/checkout"
	"warung-orders/internal/domain"
	"warung-orders/internal/options"
	"warung-orders/internal/tenant"

	"github.com/gorilla/mux"
)

type TenantResolver interface {
	Resolve(ctx context.Context, raw string) (*domain.Tenant, error)
}

type CatalogService interface {
	Menu(ctx context.Context, tenantID int) (*catalog.Menu, error)
	BuildLine(ctx context.Context, tenantID, itemID int, selections map[int][]int, note string, qty int) (*domain.CartLine, error)
}

type CheckoutService interface {
	Submit(ctx context.Context, t *domain.Tenant, req checkout.Request, cartStore checkout.CartStore) (*domain.Order, error)
	OrphanedOrders(ctx context.Context, tenantID int) ([]domain.Order, error)
}

type OrderDirectory interface {
	OrderByCode(ctx context.Context, tenantID int, code string) (*domain.Order, error)
	OrderQRByCode(ctx context.Context, tenantID int, code string) ([]byte, error)
	UpdateOrderStatus(ctx context.Context, tenantID int, code, status, notes string) error
}

type PaymentMethodLister interface {
	EnabledMethods(ctx context.Context, tenantID int) ([]domain.PaymentMethod, error)
}

type Handler struct {
	Tenants  TenantResolver
	Catalog  CatalogService
	Checkout CheckoutService
	Orders   OrderDirectory
	Payments PaymentMethodLister
	Carts    *cart.Sessions
}

func NewHandler(tenants TenantResolver, catalogSvc CatalogService, checkoutSvc CheckoutService, orders OrderDirectory, payments PaymentMethodLister, carts *cart.Sessions) *Handler {
	return &Handler{
		Tenants:  tenants,
		Catalog:  catalogSvc,
		Checkout: checkoutSvc,
		Orders:   orders,
		Payments: payments,
		Carts:    carts,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/{tenant}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/{tenant}/payment-methods", h.getPaymentMethods).Methods("GET")

	r.HandleFunc("/api/{tenant}/cart", h.getCart).Methods("GET")
	r.HandleFunc("/api/{tenant}/cart/items", h.addCartItem).Methods("POST")
	r.HandleFunc("/api/{tenant}/cart/items", h.updateCartItem).Methods("PATCH")
	r.HandleFunc("/api/{tenant}/cart/items/{itemId}", h.removeCartItem).Methods("DELETE")

	r.HandleFunc("/api/{tenant}/checkout", h.submitOrder).Methods("POST")

	r.HandleFunc("/api/{tenant}/orders/orphaned", h.getOrphanedOrders).Methods("GET")
	r.HandleFunc("/api/{tenant}/orders/{code}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/{tenant}/orders/{code}/qrcode", h.getOrderQRCode).Methods("GET")
	r.HandleFunc("/api/{tenant}/orders/{code}/status", h.updateOrderStatus).Methods("PATCH")
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "warung-orders",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// resolveTenant maps the slug path segment to a tenant, writing the error
// response itself on failure.
func (h *Handler) resolveTenant(w http.ResponseWriter, r *http.Request) *domain.Tenant {
	t, err := h.Tenants.Resolve(r.Context(), mux.Vars(r)["tenant"])
	switch {
	case err == nil:
		return t
	case errors.Is(err, tenant.ErrInvalidSlug):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, tenant.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	return nil
}

// sessionID identifies the caller's cart. Sessions are opaque keys supplied
// by the storefront client; auth is out of scope here.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	session := r.Header.Get("X-Session-ID")
	if session == "" {
		http.Error(w, "X-Session-ID header is required", http.StatusBadRequest)
	}
	return session
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	menu, err := h.Catalog.Menu(r.Context(), t.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) getPaymentMethods(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	methods, err := h.Payments.EnabledMethods(r.Context(), t.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, methods)
}

type cartView struct {
	Lines       []domain.CartLine `json:"lines"`
	TotalItems  int               `json:"total_items"`
	TotalAmount domain.Money      `json:"total_amount"`
}

func viewOf(store *cart.Store) cartView {
	items, amount := store.Totals()
	return cartView{Lines: store.Lines(), TotalItems: items, TotalAmount: amount}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	if t := h.resolveTenant(w, r); t == nil {
		return
	}
	session := sessionID(w, r)
	if session == "" {
		return
	}

	var view cartView
	if err := h.Carts.With(r.Context(), session, func(store *cart.Store) error {
		view = viewOf(store)
		return nil
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}
	session := sessionID(w, r)
	if session == "" {
		return
	}

	var payload struct {
		MenuItemID int           `json:"menu_item_id"`
		Quantity   int           `json:"quantity"`
		Note       string        `json:"note"`
		Selections map[int][]int `json:"selections"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	line, err := h.Catalog.BuildLine(r.Context(), t.ID, payload.MenuItemID, payload.Selections, payload.Note, payload.Quantity)
	if err != nil {
		h.writeCatalogError(w, err)
		return
	}

	var view cartView
	if err := h.Carts.With(r.Context(), session, func(store *cart.Store) error {
		if err := store.AddLine(r.Context(), *line); err != nil {
			return err
		}
		view = viewOf(store)
		return nil
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) writeCatalogError(w http.ResponseWriter, err error) {
	var incomplete *options.IncompleteError
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, catalog.ErrItemUnavailable),
		errors.Is(err, options.ErrUnknownOption),
		errors.Is(err, options.ErrUnknownOptionItem),
		errors.Is(err, options.ErrItemUnavailable),
		errors.As(err, &incomplete):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	if t := h.resolveTenant(w, r); t == nil {
		return
	}
	session := sessionID(w, r)
	if session == "" {
		return
	}

	var payload struct {
		MenuItemID  int           `json:"menu_item_id"`
		Fingerprint *string       `json:"fingerprint"`
		Selections  map[int][]int `json:"selections"`
		Note        string        `json:"note"`
		Quantity    int           `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fingerprint := cart.Fingerprint(payload.Selections, payload.Note)
	if payload.Fingerprint != nil {
		fingerprint = *payload.Fingerprint
	}
	key := cart.LineKey{MenuItemID: payload.MenuItemID, Fingerprint: fingerprint}

	var view cartView
	if err := h.Carts.With(r.Context(), session, func(store *cart.Store) error {
		if err := store.UpdateQuantity(r.Context(), key, payload.Quantity); err != nil {
			return err
		}
		view = viewOf(store)
		return nil
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	if t := h.resolveTenant(w, r); t == nil {
		return
	}
	session := sessionID(w, r)
	if session == "" {
		return
	}

	menuItemID, err := strconv.Atoi(mux.Vars(r)["itemId"])
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var view cartView
	if err := h.Carts.With(r.Context(), session, func(store *cart.Store) error {
		var err error
		if r.URL.Query().Get("all_variants") == "true" {
			err = store.RemoveAllVariants(r.Context(), menuItemID)
		} else {
			key := cart.LineKey{MenuItemID: menuItemID, Fingerprint: r.URL.Query().Get("fingerprint")}
			err = store.Remove(r.Context(), key)
		}
		if err != nil {
			return err
		}
		view = viewOf(store)
		return nil
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}
	session := sessionID(w, r)
	if session == "" {
		return
	}

	var payload struct {
		CustomerName  string `json:"customer_name"`
		Phone         string `json:"phone"`
		PickupDate    string `json:"pickup_date"`
		PaymentMethod string `json:"payment_method"`
		Notes         string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req := checkout.Request{
		CustomerName:  payload.CustomerName,
		Phone:         payload.Phone,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	}
	if payload.PickupDate != "" {
		pickup, err := time.Parse("2006-01-02", payload.PickupDate)
		if err != nil {
			http.Error(w, "pickup_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		req.PickupDate = pickup
	}

	// the session lock is held through the whole submission, so a cart
	// mutation racing the checkout cannot slip between validation and clear
	var order *domain.Order
	err := h.Carts.With(r.Context(), session, func(store *cart.Store) error {
		var err error
		order, err = h.Checkout.Submit(r.Context(), t, req, store)
		return err
	})
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	var incomplete *options.IncompleteError
	switch {
	case errors.Is(err, checkout.ErrMissingName),
		errors.Is(err, checkout.ErrMissingPhone),
		errors.Is(err, checkout.ErrInvalidPhone),
		errors.Is(err, checkout.ErrPaymentMethodNotAllowed),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.As(err, &incomplete):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, checkout.ErrPartialOrder):
		// distinct from plain write failures so operators can reconcile
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	order, err := h.Orders.OrderByCode(r.Context(), t.ID, mux.Vars(r)["code"])
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	qr, err := h.Orders.OrderQRByCode(r.Context(), t.ID, mux.Vars(r)["code"])
	if err != nil || len(qr) == 0 {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

var allowedStatuses = map[string]bool{
	domain.OrderStatusPendingPayment: true,
	domain.OrderStatusPaid:           true,
	domain.OrderStatusPreparing:      true,
	domain.OrderStatusReady:          true,
	domain.OrderStatusCompleted:      true,
	domain.OrderStatusCancelled:      true,
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	var payload struct {
		Status string `json:"status"`
		Notes  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !allowedStatuses[payload.Status] {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	if err := h.Orders.UpdateOrderStatus(r.Context(), t.ID, mux.Vars(r)["code"], payload.Status, payload.Notes); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getOrphanedOrders(w http.ResponseWriter, r *http.Request) {
	t := h.resolveTenant(w, r)
	if t == nil {
		return
	}

	orders, err := h.Checkout.OrphanedOrders(r.Context(), t.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}
