package domain

// DefaultPurchaseUnit is assumed when a supply carries no purchase unit.
const DefaultPurchaseUnit = "unit"

// SupplyItem is a purchasable ingredient as stocked by the inventory.
// PurchasePrice buys PurchaseQuantity of PurchaseUnit. A non-positive
// PurchaseQuantity means PurchasePrice is already a per-unit price.
type SupplyItem struct {
	ID               string  `yaml:"id" json:"id"`
	Name             string  `yaml:"name" json:"name"`
	PurchasePrice    float64 `yaml:"purchase_price" json:"purchase_price"`
	PurchaseQuantity float64 `yaml:"purchase_quantity,omitempty" json:"purchase_quantity,omitempty"`
	PurchaseUnit     string  `yaml:"purchase_unit,omitempty" json:"purchase_unit,omitempty"`
}

// Unit returns the purchase unit, defaulting to DefaultPurchaseUnit.
func (s SupplyItem) Unit() string {
	if s.PurchaseUnit == "" {
		return DefaultPurchaseUnit
	}
	return s.PurchaseUnit
}
