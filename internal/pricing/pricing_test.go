package pricing

import (
	"testing"

	"mechseva/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateNonEmergency(t *testing.T) {
	rate := models.RateCard{BaseFee: 100, PerKmCharge: 10, EmergencyMultiplier: 1.5}

	p := Estimate(5, false, rate)

	assert.Equal(t, 100.0, p.Breakdown.ServiceFee)
	assert.Equal(t, 50.0, p.Breakdown.TravelFee)
	assert.Equal(t, 0.0, p.Breakdown.EmergencyCharge)
	assert.Equal(t, 27.0, p.Breakdown.Tax) // round(0.18 * 150)
	assert.Equal(t, 177.0, p.EstimatedCost)
	assert.Equal(t, "INR", p.Currency)
}

func TestEstimateEmergency(t *testing.T) {
	rate := models.RateCard{BaseFee: 100, PerKmCharge: 10, EmergencyMultiplier: 1.5}

	p := Estimate(5, true, rate)

	// 150 * 1.5 = 225 subtotal, surcharge is the extra 75.
	assert.Equal(t, 75.0, p.Breakdown.EmergencyCharge)
	assert.Equal(t, 41.0, p.Breakdown.Tax) // round(0.18 * 225)
	assert.Equal(t, 266.0, p.EstimatedCost)

	// The breakdown lines sum to the estimate.
	b := p.Breakdown
	sum := b.ServiceFee + b.TravelFee + b.EmergencyCharge + b.Tax
	assert.InDelta(t, p.EstimatedCost, sum, 0.5)
}

func TestEstimateZeroRateCardFallsBackToDefaults(t *testing.T) {
	p := Estimate(0, false, models.RateCard{})

	assert.Equal(t, 100.0, p.Breakdown.ServiceFee)
	assert.Equal(t, 0.0, p.Breakdown.TravelFee)
	assert.Equal(t, 18.0, p.Breakdown.Tax)
	assert.Equal(t, 118.0, p.EstimatedCost)
}

func TestFinalCostIsSumOfBreakdown(t *testing.T) {
	rate := models.RateCard{BaseFee: 100, PerKmCharge: 10, HourlyRate: 200, EmergencyMultiplier: 1.5}
	p := Estimate(5, true, rate)

	ApplyParts(&p, []models.Part{
		{Name: "Clutch cable", Quantity: 1, UnitPrice: 350, TotalPrice: 350},
		{Name: "Spark plug", Quantity: 2, UnitPrice: 120, TotalPrice: 240},
	})
	ApplyLabor(&p, 1.5, rate)
	ApplyDiscount(&p, 50)

	require.Equal(t, 590.0, p.Breakdown.PartsCost)
	require.Equal(t, 300.0, p.Breakdown.LaborCost)

	b := p.Breakdown
	expected := b.ServiceFee + b.TravelFee + b.PartsCost + b.LaborCost + b.EmergencyCharge + b.Tax - b.Discount
	assert.Equal(t, expected, p.FinalCost)

	// Post-estimate charges diverge the settlement from the estimate.
	assert.NotEqual(t, p.EstimatedCost, p.FinalCost)
}

func TestApplyLaborDefaultsHourlyRate(t *testing.T) {
	p := Estimate(0, false, models.RateCard{})
	ApplyLabor(&p, 2, models.RateCard{})
	assert.Equal(t, 400.0, p.Breakdown.LaborCost)
}

func TestApplyDiscountReducesFinalCostOnly(t *testing.T) {
	p := Estimate(5, false, models.RateCard{BaseFee: 100, PerKmCharge: 10})
	before := p.EstimatedCost

	ApplyDiscount(&p, 30)

	assert.Equal(t, before, p.EstimatedCost)
	assert.Equal(t, before-30, p.FinalCost)
}
