// Package display renders costing results for the terminal.
//
// A [Printer] writes styled text to any io.Writer. Colour is decided by
// lipgloss from the process's stdout, so output piped to a file or
// captured in tests is plain text. On a terminal the Printer writes
// through a [UI], the Bubble Tea prompt.
package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hammamikhairi/ottocost/internal/costing"
	"github.com/hammamikhairi/ottocost/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// Soft mint for recipe headers.
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0")).
			Bold(true)

	// Light zinc for primary text.
	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	// Dimmed zinc for hints and metadata.
	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	// Soft amber for money.
	moneyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	// Soft coral for unmatched lines and errors.
	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fdba74"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// Printer writes styled output. Safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print writes s without a trailing newline.
func (p *Printer) Print(s string) {
	p.write(s)
}

// Println prints a line.
func (p *Printer) Println(a ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, a...)
}

// Printf prints formatted text on its own line.
func (p *Printer) Printf(format string, a ...any) {
	p.Println(fmt.Sprintf(format, a...))
}

// ── Styled print helpers ─────────────────────────────────────────

// PrintInfo prints primary text.
func (p *Printer) PrintInfo(text string) {
	p.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints dimmed secondary text.
func (p *Printer) PrintHint(text string) {
	p.Println(secondaryStyle.Render("  " + text))
}

// PrintError prints an error line.
func (p *Printer) PrintError(text string) {
	p.Println(urgentStyle.Render("  " + text))
}

// Prompt returns the interactive prompt string.
func Prompt() string {
	return promptStyle.Render("ottocost") + secondaryStyle.Render("> ")
}

// PrintInput echoes an entered command into the scrollback.
func (p *Printer) PrintInput(text string) {
	p.Println(Prompt() + inputEchoStyle.Render(text))
}

// ── Recipes ──────────────────────────────────────────────────────

// PrintRecipeList prints numbered recipe summaries. The numbers are the
// positions the prompt accepts in place of an ID.
func (p *Printer) PrintRecipeList(recipes []domain.RecipeSummary) {
	if len(recipes) == 0 {
		p.PrintHint("no recipes")
		return
	}
	var b strings.Builder
	for i, r := range recipes {
		fmt.Fprintf(&b, "  %s %s %s\n",
			secondaryStyle.Render(fmt.Sprintf("%2d.", i+1)),
			titleStyle.Render(r.Name),
			secondaryStyle.Render("("+r.ID+")"))
		if r.Description != "" {
			b.WriteString(secondaryStyle.Render("      "+r.Description) + "\n")
		}
	}
	p.write(b.String())
}

// PrintRecipe prints a recipe's yield and ingredient requirements.
func (p *Printer) PrintRecipe(r *domain.Recipe) {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(r.Name) + " " + secondaryStyle.Render("("+r.ID+")") + "\n")
	if r.Description != "" {
		b.WriteString(primaryStyle.Render("  "+r.Description) + "\n")
	}
	if r.ScaledFrom != "" {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  scaled x%s from %s", quantity(r.ScaleFactor), r.ScaledFrom)) + "\n")
	}
	if r.Yield != nil {
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  yields %s %s", quantity(r.Yield.Quantity), r.Yield.Unit)) + "\n")
	}
	if len(r.Tags) > 0 {
		b.WriteString(secondaryStyle.Render("  tags: "+strings.Join(r.Tags, ", ")) + "\n")
	}

	t := newTable("Ingredient", "Qty", "Unit", "Supply")
	for _, ing := range r.Ingredients {
		ref := ing.SupplyID
		if ref == "" {
			ref = "-"
		}
		t.Row(ing.Label(), quantity(ing.Quantity), ing.Unit, ref)
	}
	b.WriteString(t.String() + "\n")
	p.write(b.String())
}

// ── Costing ──────────────────────────────────────────────────────

// PrintBreakdown prints a per-line cost table followed by totals, errors
// and warnings. Line and total amounts use the detailed format; the
// summary line uses the compact one.
func (p *Printer) PrintBreakdown(cb *domain.CostBreakdown) {
	var b strings.Builder
	b.WriteString("  " + titleStyle.Render(cb.RecipeName) + " " + secondaryStyle.Render("("+cb.RecipeID+")") + "\n")

	t := newTable("Ingredient", "Qty", "Supply", "Unit price", "Cost")
	unmatched := make(map[int]bool)
	warned := make(map[int]bool)
	for i, l := range cb.Lines {
		qty := "-"
		supply := "not found"
		price := "-"
		if l.SupplyFound {
			qty = fmt.Sprintf("%s %s", quantity(l.ConvertedQuantity), l.PurchaseUnit)
			supply = l.SupplyName
			price = costing.FormatCurrencyDetailed(l.UnitPrice) + "/" + l.PurchaseUnit
		} else {
			unmatched[i] = true
			qty = fmt.Sprintf("%s %s", quantity(l.Requirement.Quantity), l.Requirement.Unit)
		}
		if l.Warning != "" {
			warned[i] = true
		}
		t.Row(l.Requirement.Label(), qty, supply, price, costing.FormatCurrencyDetailed(l.Cost))
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case unmatched[row]:
			return cellStyle.Foreground(urgentStyle.GetForeground())
		case warned[row]:
			return cellStyle.Foreground(warnStyle.GetForeground())
		case col == 4:
			return cellStyle.Foreground(moneyStyle.GetForeground())
		}
		return cellStyle
	})
	b.WriteString(t.String() + "\n")

	b.WriteString(fmt.Sprintf("  %s %s\n",
		primaryStyle.Render("Total:"),
		moneyStyle.Render(costing.FormatCurrencyDetailed(cb.TotalCost))))
	perUnit := "unit"
	if cb.YieldUnit != "" {
		perUnit = cb.YieldUnit
	}
	b.WriteString(fmt.Sprintf("  %s %s\n",
		primaryStyle.Render(fmt.Sprintf("Per %s (yield %s):", perUnit, quantity(cb.YieldQuantity))),
		moneyStyle.Render(costing.FormatCurrencyDetailed(cb.CostPerYieldUnit))))
	b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %s · %s total", cb.Summary, costing.FormatCurrency(cb.TotalCost, false))) + "\n")

	for _, e := range cb.Errors {
		b.WriteString(urgentStyle.Render("  ✗ "+e) + "\n")
	}
	for _, w := range cb.Warnings {
		b.WriteString(warnStyle.Render("  ! "+w) + "\n")
	}
	p.write(b.String())
}

// PrintReport prints one row per costed recipe.
func (p *Printer) PrintReport(breakdowns []*domain.CostBreakdown) {
	if len(breakdowns) == 0 {
		p.PrintHint("no recipes to report")
		return
	}
	t := newTable("Recipe", "Total", "Yield", "Per unit", "Status")
	incomplete := make(map[int]bool)
	var grand float64
	for i, cb := range breakdowns {
		status := "ok"
		if !cb.Complete() {
			status = fmt.Sprintf("%d unmatched", len(cb.Errors))
			incomplete[i] = true
		}
		yield := quantity(cb.YieldQuantity)
		if cb.YieldUnit != "" {
			yield += " " + cb.YieldUnit
		}
		t.Row(cb.RecipeName,
			costing.FormatCurrency(cb.TotalCost, true),
			yield,
			costing.FormatCurrency(cb.CostPerYieldUnit, true),
			status)
		grand += cb.TotalCost
	}
	t.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case col == 4 && incomplete[row]:
			return cellStyle.Foreground(urgentStyle.GetForeground())
		}
		return cellStyle
	})

	p.write(t.String() + "\n" + secondaryStyle.Render(fmt.Sprintf("  %d recipes · %s combined",
		len(breakdowns), costing.FormatCurrencyDetailed(grand))) + "\n")
}

// ── Catalog ──────────────────────────────────────────────────────

// PrintSupplies prints the supply catalog in catalog order.
func (p *Printer) PrintSupplies(items []domain.SupplyItem) {
	if len(items) == 0 {
		p.PrintHint("catalog is empty")
		return
	}
	t := newTable("ID", "Name", "Price", "Per", "Unit price")
	for _, it := range items {
		per := it.Unit()
		if it.PurchaseQuantity > 0 {
			per = quantity(it.PurchaseQuantity) + " " + per
		}
		t.Row(it.ID, it.Name,
			costing.FormatCurrencyDetailed(it.PurchasePrice),
			per,
			costing.FormatCurrencyDetailed(costing.UnitPrice(it))+"/"+it.Unit())
	}
	p.write(t.String() + "\n")
}

// PrintHelp prints the prompt commands.
func (p *Printer) PrintHelp() {
	lines := [][2]string{
		{"list", "show available recipes"},
		{"search <text>", "find recipes by name, description or tag"},
		{"show <recipe>", "show a recipe's ingredients"},
		{"cost <recipe>", "cost a recipe against the catalog"},
		{"scale <recipe> <factor>", "cost a scaled copy (1,5 or 1.5)"},
		{"yield <recipe> <target>", "cost a copy scaled to a target yield"},
		{"supplies", "show the supply catalog"},
		{"price <supply> <amount>", "change a supply's purchase price"},
		{"report", "cost every recipe"},
		{"quit", "exit"},
	}
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, "  %s %s\n", primaryStyle.Render(fmt.Sprintf("%-24s", l[0])), secondaryStyle.Render(l[1]))
	}
	b.WriteString(secondaryStyle.Render("  <recipe> is an ID or a number from list") + "\n")
	p.write(b.String())
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(p.out, s)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func quantity(v float64) string { return costing.FormatQuantity(v) }
