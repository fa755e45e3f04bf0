package payment

import (
	"context"
)

// RefundProvider settles refunds for cancelled bookings through an external
// gateway. Collection of the original payment (cash, UPI on site) is out of
// band, only refunds flow through here.
type RefundProvider interface {
	RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error)
}

type RefundRequest struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reason        string  `json:"reason"`
	Receipt       string  `json:"receipt"`
}

type RefundResponse struct {
	RefundID  string  `json:"refund_id"`
	Status    string  `json:"status"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	CreatedAt int64   `json:"created_at"`
}
