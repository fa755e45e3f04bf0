package payment

import (
	"context"
	"fmt"

	"github.com/razorpay/razorpay-go"
)

type RazorpayProvider struct {
	client *razorpay.Client
}

func NewRazorpayProvider(keyID, keySecret string) *RazorpayProvider {
	client := razorpay.NewClient(keyID, keySecret)

	return &RazorpayProvider{
		client: client,
	}
}

func (r *RazorpayProvider) RefundPayment(ctx context.Context, request *RefundRequest) (*RefundResponse, error) {
	amount := int(request.Amount * 100) // paise

	refundData := map[string]interface{}{
		"amount": amount,
		"notes": map[string]interface{}{
			"reason":  request.Reason,
			"receipt": request.Receipt,
		},
	}

	refund, err := r.client.Payment.Refund(request.TransactionID, amount, refundData, map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return refundResponseFrom(refund)
}

// refundResponseFrom decodes the gateway payload. Numeric fields arrive as
// float64, the JSON default for numbers in an untyped map.
func refundResponseFrom(refund map[string]interface{}) (*RefundResponse, error) {
	id, ok := refund["id"].(string)
	if !ok {
		return nil, fmt.Errorf("refund response has no id: %v", refund)
	}

	status, _ := refund["status"].(string)
	currency, _ := refund["currency"].(string)
	amountPaise, _ := refund["amount"].(float64)
	createdAt, _ := refund["created_at"].(float64)

	return &RefundResponse{
		RefundID:  id,
		Status:    status,
		Amount:    amountPaise / 100,
		Currency:  currency,
		CreatedAt: int64(createdAt),
	}, nil
}
