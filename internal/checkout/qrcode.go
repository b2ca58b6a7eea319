package checkout

import "github.com/skip2/go-qrcode"

// OrderCodeQR encodes the customer-facing order code as a QR image, shown
// on the receipt and scanned at pickup.
type OrderCodeQR struct{}

func (OrderCodeQR) Generate(orderCode string) ([]byte, error) {
	return qrcode.Encode(orderCode, qrcode.Medium, 256)
}
