// Package costing computes what a recipe costs to produce from the prices
// of the supplies it uses. Everything here is a pure function of its
// arguments: the calculator keeps no state between calls and never mutates
// the recipes or catalogs it is given.
package costing

import (
	"fmt"
	"math"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Option configures the calculator.
type Option func(*Calculator)

// WithConverter replaces the default unit conversion table.
func WithConverter(conv *Converter) Option {
	return func(c *Calculator) {
		c.conv = conv
	}
}

// Calculator costs recipes against a supply catalog snapshot.
type Calculator struct {
	conv *Converter
	log  *logger.Logger
}

// New creates a calculator using the default conversion table unless an
// option overrides it.
func New(log *logger.Logger, opts ...Option) *Calculator {
	c := &Calculator{
		conv: NewConverter(),
		log:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Converter returns the unit converter in use.
func (c *Calculator) Converter() *Converter { return c.conv }

const emptyRecipeSummary = "recipe has no ingredients, nothing to cost"

// CostRecipe costs every requirement of the recipe against the catalog.
//
// Unmatched requirements stay in the breakdown with SupplyFound=false and a
// zero cost, and are listed in Errors; the remaining lines are still costed.
// Only a nil recipe is an error.
func (c *Calculator) CostRecipe(recipe *domain.Recipe, catalog []domain.SupplyItem) (*domain.CostBreakdown, error) {
	if recipe == nil {
		return nil, domain.ErrNilRecipe
	}

	b := &domain.CostBreakdown{
		RecipeID:      recipe.ID,
		RecipeName:    recipe.Name,
		YieldQuantity: 1,
		Lines:         []domain.LineCost{},
	}
	if recipe.Yield != nil {
		b.YieldQuantity = recipe.Yield.Quantity
		b.YieldUnit = recipe.Yield.Unit
		if !isFinite(b.YieldQuantity) {
			b.YieldQuantity = 0
			b.Warnings = append(b.Warnings, "yield is not a finite number, treated as zero")
		}
	}

	if len(recipe.Ingredients) == 0 {
		b.Summary = emptyRecipeSummary
		return b, nil
	}

	b.Lines = make([]domain.LineCost, 0, len(recipe.Ingredients))
	var total float64
	matched := 0
	for i := range recipe.Ingredients {
		req := &recipe.Ingredients[i]
		line := c.ResolveCost(req, MatchSupply(*req, catalog))

		if zeroNonFinite(&line) {
			line.Warning = joinWarnings(line.Warning, "non-finite value treated as zero")
		}

		if line.Issue != domain.IssueNone {
			b.Errors = append(b.Errors, fmt.Sprintf("%s: %s", req.Label(), line.Issue))
		} else {
			matched++
		}
		if line.Warning != "" {
			b.Warnings = append(b.Warnings, fmt.Sprintf("%s: %s", req.Label(), line.Warning))
		}

		total += line.Cost
		b.Lines = append(b.Lines, line)
	}

	if !isFinite(total) {
		b.Warnings = append(b.Warnings, "total is out of range, reported as zero")
		total = 0
	}
	b.TotalCost = total
	b.CostPerYieldUnit = perYieldUnit(total, b.YieldQuantity)
	b.Summary = fmt.Sprintf("%d of %d ingredients costed", matched, len(recipe.Ingredients))

	c.log.Debug("costed recipe %s: total=%.4f lines=%d unmatched=%d warnings=%d",
		recipe.ID, total, len(b.Lines), len(b.Errors), len(b.Warnings))
	return b, nil
}

// MatchSupply finds the supply a requirement refers to: the first item whose
// ID equals SupplyID, else the first whose Name equals Name, else the first
// whose Name equals AltName. Empty keys never match. Returns nil when nothing
// matches. The returned item is a copy.
func MatchSupply(req domain.IngredientRequirement, catalog []domain.SupplyItem) *domain.SupplyItem {
	keys := []struct {
		value string
		byID  bool
	}{
		{req.SupplyID, true},
		{req.Name, false},
		{req.AltName, false},
	}

	for _, k := range keys {
		if k.value == "" {
			continue
		}
		for i := range catalog {
			field := catalog[i].Name
			if k.byID {
				field = catalog[i].ID
			}
			if field == k.value {
				item := catalog[i]
				return &item
			}
		}
	}
	return nil
}

// perYieldUnit divides total by the yield, defining the result as zero for
// non-positive yields.
func perYieldUnit(total, yield float64) float64 {
	if !(yield > 0) {
		return 0
	}
	v := total / yield
	if !isFinite(v) {
		return 0
	}
	return v
}

// zeroNonFinite replaces NaN and infinite numbers on the line with zero and
// drops the line's cost. It reports whether anything was replaced.
func zeroNonFinite(line *domain.LineCost) bool {
	fields := []*float64{
		&line.Requirement.Quantity,
		&line.UnitPrice,
		&line.ConvertedQuantity,
		&line.Cost,
	}
	replaced := false
	for _, f := range fields {
		if !isFinite(*f) {
			*f = 0
			replaced = true
		}
	}
	if replaced {
		line.Cost = 0
	}
	return replaced
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func joinWarnings(a, b string) string {
	if a == "" {
		return b
	}
	return a + "; " + b
}
