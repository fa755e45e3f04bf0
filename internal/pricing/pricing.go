// Package pricing derives estimated and final costs from a mechanic's rate
// card and a request's distance and urgency.
package pricing

import (
	"math"

	"mechseva/internal/models"
	"mechseva/internal/utils"
)

// Estimate computes the upfront cost breakdown. The emergency multiplier
// applies to base plus travel, not base alone, and tax is 18% of the
// post-multiplier subtotal.
func Estimate(distanceKM float64, isEmergency bool, rate models.RateCard) models.Pricing {
	baseFee := rate.BaseFee
	if baseFee == 0 {
		baseFee = utils.DefaultBaseFee
	}
	perKm := rate.PerKmCharge
	if perKm == 0 {
		perKm = utils.DefaultPerKmCharge
	}
	multiplier := rate.EmergencyMultiplier
	if multiplier == 0 {
		multiplier = utils.DefaultEmergencyMultiplier
	}

	travelFee := distanceKM * perKm
	subtotal := baseFee + travelFee

	emergencyCharge := 0.0
	if isEmergency {
		emergencyCharge = subtotal * (multiplier - 1)
		subtotal *= multiplier
	}

	tax := math.Round(subtotal * utils.TaxRate)

	pricing := models.Pricing{
		EstimatedCost: math.Round(subtotal + tax),
		Breakdown: models.CostBreakdown{
			ServiceFee:      baseFee,
			TravelFee:       travelFee,
			EmergencyCharge: emergencyCharge,
			Tax:             tax,
		},
		Currency: utils.DefaultCurrency,
	}

	RecomputeFinalCost(&pricing)
	return pricing
}

// RecomputeFinalCost rederives the settlement figure as the literal sum of
// breakdown line items minus discount. It deliberately does not copy the
// estimate, so parts and discounts added after service diverge from it.
func RecomputeFinalCost(p *models.Pricing) {
	b := p.Breakdown
	p.FinalCost = b.ServiceFee + b.TravelFee + b.PartsCost + b.LaborCost + b.EmergencyCharge + b.Tax - b.Discount
}

// ApplyParts folds a parts list into the breakdown and recomputes the
// final cost. Line totals come from the caller untouched.
func ApplyParts(p *models.Pricing, parts []models.Part) {
	total := 0.0
	for i := range parts {
		total += parts[i].TotalPrice
	}

	p.Breakdown.PartsCost = total
	RecomputeFinalCost(p)
}

// ApplyLabor sets the labor charge from hours worked at the mechanic's
// hourly rate.
func ApplyLabor(p *models.Pricing, hours float64, rate models.RateCard) {
	hourly := rate.HourlyRate
	if hourly == 0 {
		hourly = utils.DefaultHourlyRate
	}

	p.Breakdown.LaborCost = math.Round(hours * hourly)
	RecomputeFinalCost(p)
}

// ApplyDiscount records a settlement discount and recomputes the final
// cost.
func ApplyDiscount(p *models.Pricing, amount float64) {
	p.Breakdown.Discount = amount
	RecomputeFinalCost(p)
}
