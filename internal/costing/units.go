package costing

import (
	"fmt"
	"strings"
)

// Unit is a measurement unit the converter knows about.
type Unit int

const (
	UnitUnknown Unit = iota
	Gram
	Kilogram
	Milliliter
	Liter
	Piece
	Maple // a 30-egg tray
)

// String returns the canonical symbol of the unit.
func (u Unit) String() string {
	switch u {
	case Gram:
		return "g"
	case Kilogram:
		return "kg"
	case Milliliter:
		return "ml"
	case Liter:
		return "l"
	case Piece:
		return "unit"
	case Maple:
		return "maple"
	default:
		return "unknown"
	}
}

var unitAliases = map[string]Unit{
	"g":         Gram,
	"gr":        Gram,
	"grs":       Gram,
	"gramo":     Gram,
	"gramos":    Gram,
	"gram":      Gram,
	"grams":     Gram,
	"kg":        Kilogram,
	"kilo":      Kilogram,
	"kilos":     Kilogram,
	"kilogramo": Kilogram,
	"kilogram":  Kilogram,
	"ml":        Milliliter,
	"cc":        Milliliter,
	"mililitro": Milliliter,
	"l":         Liter,
	"lt":        Liter,
	"lts":       Liter,
	"litro":     Liter,
	"litros":    Liter,
	"liter":     Liter,
	"u":         Piece,
	"un":        Piece,
	"unit":      Piece,
	"units":     Piece,
	"unidad":    Piece,
	"unidades":  Piece,
	"pieces":    Piece,
	"maple":     Maple,
	"maples":    Maple,
}

// ParseUnit maps a unit symbol to a Unit. Unrecognised symbols yield
// UnitUnknown.
func ParseUnit(s string) Unit {
	return unitAliases[strings.ToLower(strings.TrimSpace(s))]
}

// Family is a pair of units convertible by a fixed factor:
// 1 Large == Factor Small.
type Family struct {
	Name   string
	Small  Unit
	Large  Unit
	Factor float64
}

// DefaultFamilies returns the built-in conversion table, in lookup order.
func DefaultFamilies() []Family {
	return []Family{
		{Name: "mass", Small: Gram, Large: Kilogram, Factor: 1000},
		{Name: "volume", Small: Milliliter, Large: Liter, Factor: 1000},
		{Name: "count", Small: Piece, Large: Maple, Factor: 30},
	}
}

// Conversion is the result of converting a quantity. When no table entry
// exists for the unit pair, Quantity is the input unchanged, Assumed is true
// and Warning explains the 1:1 assumption.
type Conversion struct {
	Quantity float64
	Assumed  bool
	Warning  string
}

type unitPair struct{ from, to Unit }

type step struct {
	factor float64
	divide bool
}

func (s step) apply(q float64) float64 {
	if s.divide {
		return q / s.factor
	}
	return q * s.factor
}

// Converter converts quantities between units using a table of families.
// It is immutable after construction and safe for concurrent use.
type Converter struct {
	families []Family
	steps    map[unitPair]step
}

// NewConverter compiles the given families into a lookup table. With no
// arguments it uses DefaultFamilies. When two families cover the same unit
// pair the earlier one wins; entries with a non-positive factor or unknown
// units are ignored.
func NewConverter(families ...Family) *Converter {
	if len(families) == 0 {
		families = DefaultFamilies()
	}

	c := &Converter{
		families: append([]Family(nil), families...),
		steps:    make(map[unitPair]step, 2*len(families)),
	}
	for _, f := range families {
		if f.Factor <= 0 || f.Small == UnitUnknown || f.Large == UnitUnknown || f.Small == f.Large {
			continue
		}
		c.add(unitPair{f.Large, f.Small}, step{factor: f.Factor})
		c.add(unitPair{f.Small, f.Large}, step{factor: f.Factor, divide: true})
	}
	return c
}

func (c *Converter) add(p unitPair, s step) {
	if _, ok := c.steps[p]; ok {
		return
	}
	c.steps[p] = s
}

// Families returns a copy of the table the converter was built from.
func (c *Converter) Families() []Family {
	return append([]Family(nil), c.families...)
}

// Convert expresses quantity, given in fromUnit, in toUnit. It never fails:
// an unmapped pair passes the quantity through 1:1 and flags it.
func (c *Converter) Convert(quantity float64, fromUnit, toUnit string) Conversion {
	if sameSymbol(fromUnit, toUnit) {
		return Conversion{Quantity: quantity}
	}

	from, to := ParseUnit(fromUnit), ParseUnit(toUnit)
	if from != UnitUnknown && from == to {
		return Conversion{Quantity: quantity}
	}

	if s, ok := c.steps[unitPair{from, to}]; ok {
		return Conversion{Quantity: s.apply(quantity)}
	}

	return Conversion{
		Quantity: quantity,
		Assumed:  true,
		Warning:  fmt.Sprintf("unknown conversion %q -> %q, assumed 1:1", fromUnit, toUnit),
	}
}

func sameSymbol(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
