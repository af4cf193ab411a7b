package costing

import (
	"math"

	"github.com/hammamikhairi/ottocost/internal/domain"
)

// UnitPrice returns the price of one purchase unit of the supply. A missing
// or non-positive purchase quantity means the price is already per unit.
// No rounding is applied.
func UnitPrice(s domain.SupplyItem) float64 {
	qty := s.PurchaseQuantity
	if !(qty > 0) || math.IsInf(qty, 0) {
		qty = 1
	}
	return s.PurchasePrice / qty
}

// ResolveCost costs a single requirement against an already matched supply.
// A nil requirement or supply yields a zero-cost line carrying an Issue;
// it never fails. Quantities are not validated: zero or negative amounts
// propagate into the cost as-is.
func (c *Calculator) ResolveCost(req *domain.IngredientRequirement, supply *domain.SupplyItem) domain.LineCost {
	if req == nil {
		return domain.LineCost{Issue: domain.IssueMissingRequirement}
	}

	line := domain.LineCost{Requirement: *req}
	if supply == nil {
		line.Issue = domain.IssueSupplyNotFound
		return line
	}

	line.SupplyFound = true
	line.SupplyID = supply.ID
	line.SupplyName = supply.Name
	line.PurchaseUnit = supply.Unit()
	line.UnitPrice = UnitPrice(*supply)

	from := req.Unit
	if from == "" {
		from = line.PurchaseUnit
	}
	conv := c.conv.Convert(req.Quantity, from, line.PurchaseUnit)
	if conv.Assumed {
		line.Warning = conv.Warning
		c.log.Debug("%s: %s", req.Label(), conv.Warning)
	}

	line.ConvertedQuantity = conv.Quantity
	line.Cost = conv.Quantity * line.UnitPrice
	return line
}
