package payment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundResponseFromGatewayPayload(t *testing.T) {
	// Decoded the way the gateway client hands payloads over: numbers land
	// as float64 in the untyped map.
	body := `{
		"id": "rfnd_FP8QHiV938haTz",
		"status": "processed",
		"amount": 50000,
		"currency": "INR",
		"created_at": 1756700000
	}`
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	resp, err := refundResponseFrom(payload)
	require.NoError(t, err)

	assert.Equal(t, "rfnd_FP8QHiV938haTz", resp.RefundID)
	assert.Equal(t, "processed", resp.Status)
	assert.Equal(t, 500.0, resp.Amount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, int64(1756700000), resp.CreatedAt)
}

func TestRefundResponseFromMissingID(t *testing.T) {
	_, err := refundResponseFrom(map[string]interface{}{"status": "processed"})
	assert.Error(t, err)
}
