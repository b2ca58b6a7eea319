package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"warung-orders/internal/domain"
)

// SheetWebhook POSTs a flattened order summary to a spreadsheet webhook.
// It is strictly best-effort: the caller logs and swallows any error.
type SheetWebhook struct {
	URL    string
	Client *http.Client
}

func NewSheetWebhook(url string) *SheetWebhook {
	return &SheetWebhook{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

type webhookPayload struct {
	OrderCode     string   `json:"order_code"`
	CustomerName  string   `json:"customer_name"`
	Phone         string   `json:"phone"`
	PickupDate    string   `json:"pickup_date"`
	PaymentMethod string   `json:"payment_method"`
	Status        string   `json:"status"`
	Subtotal      int64    `json:"subtotal"`
	Total         int64    `json:"total"`
	Notes         string   `json:"notes,omitempty"`
	Items         []string `json:"items"`
}

func (w *SheetWebhook) NotifyOrder(ctx context.Context, order *domain.Order) error {
	if w.URL == "" {
		return nil
	}

	payload := webhookPayload{
		OrderCode:     order.OrderCode,
		CustomerName:  order.CustomerName,
		Phone:         order.Phone,
		PickupDate:    order.PickupDate.Format("2006-01-02"),
		PaymentMethod: order.PaymentMethod,
		Status:        order.Status,
		Subtotal:      order.Subtotal,
		Total:         order.Total,
		Notes:         order.Notes,
		Items:         make([]string, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		summary := fmt.Sprintf("%dx %s @%d", item.Qty, item.NameSnapshot, item.PriceSnapshot)
		if item.OptionsSnapshot != "" {
			summary += " (" + item.OptionsSnapshot + ")"
		}
		payload.Items = append(payload.Items, summary)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
