package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hammamikhairi/ottocost/internal/command"
	"github.com/hammamikhairi/ottocost/internal/costing"
	"github.com/hammamikhairi/ottocost/internal/display"
	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/engine"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

type cliApp struct {
	engine *engine.Engine
	parser *command.Parser
	out    *display.Printer
	log    *logger.Logger
}

// errQuit ends the prompt loop.
var errQuit = errors.New("quit")

// run reads commands from in until EOF, quit or ctx is done. It is used
// when stdin is not a terminal.
func (a *cliApp) run(ctx context.Context, in io.Reader) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	a.loop(ctx, lines, false)
}

// runUI drives the Bubble Tea prompt until the user quits or ctx is done.
func (a *cliApp) runUI(ctx context.Context, ui *display.UI) error {
	errCh := make(chan error, 1)
	go func() { errCh <- ui.Run() }()

	select {
	case <-ui.Ready():
	case err := <-errCh:
		return err
	}

	a.loop(ctx, ui.Lines(), true)
	ui.Quit()
	return <-errCh
}

// loop executes lines until the channel closes, a quit command or ctx is
// done. The Bubble Tea prompt draws its own input line, so with tty set
// each line is echoed instead of printing a prompt before it.
func (a *cliApp) loop(ctx context.Context, lines <-chan string, tty bool) {
	for {
		if !tty {
			a.out.Print(display.Prompt())
		}

		var input string
		var ok bool
		select {
		case <-ctx.Done():
			a.out.Println()
			return
		case input, ok = <-lines:
			if !ok {
				a.out.Println()
				return
			}
		}
		if tty {
			a.out.PrintInput(input)
		}

		if err := a.execute(ctx, input); errors.Is(err, errQuit) {
			return
		} else if err != nil {
			a.out.PrintError(err.Error())
		}
	}
}

// runOnce executes a single command and returns the process exit code.
func (a *cliApp) runOnce(ctx context.Context, input string) int {
	if err := a.execute(ctx, input); err != nil && !errors.Is(err, errQuit) {
		a.out.PrintError(err.Error())
		return 1
	}
	return 0
}

// execute parses and dispatches one line.
func (a *cliApp) execute(ctx context.Context, input string) error {
	cmd, err := a.parser.Parse(input)
	if err != nil {
		return err
	}
	a.log.Debug("command: %s (target=%q, number=%v)", cmd.Kind, cmd.Target, cmd.Number)
	return a.handle(ctx, cmd)
}

func (a *cliApp) handle(ctx context.Context, cmd *command.Command) error {
	switch cmd.Kind {
	case command.Help:
		a.out.PrintHelp()
	case command.Quit:
		return errQuit
	case command.List:
		return a.showRecipes(ctx)
	case command.Search:
		return a.search(ctx, cmd.Target)
	case command.Show:
		return a.showRecipe(ctx, cmd.Target)
	case command.Cost:
		return a.cost(ctx, cmd.Target)
	case command.Scale:
		return a.scale(ctx, cmd.Target, cmd.Number)
	case command.Yield:
		return a.yield(ctx, cmd.Target, cmd.Number)
	case command.Supplies:
		return a.supplies(ctx)
	case command.Price:
		return a.price(ctx, cmd.Target, cmd.Number)
	case command.Report:
		return a.report(ctx)
	case command.Unknown:
		if cmd.Raw != "" {
			a.out.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", cmd.Raw))
		}
	}
	return nil
}

func (a *cliApp) showRecipes(ctx context.Context) error {
	recipes, err := a.engine.ListRecipes(ctx)
	if err != nil {
		return fmt.Errorf("loading recipes: %w", err)
	}
	a.out.PrintRecipeList(recipes)
	return nil
}

func (a *cliApp) search(ctx context.Context, query string) error {
	recipes, err := a.engine.SearchRecipes(ctx, query)
	if err != nil {
		return fmt.Errorf("searching recipes: %w", err)
	}
	if len(recipes) == 0 {
		a.out.PrintHint(fmt.Sprintf("No recipes match %q.", query))
		return nil
	}
	a.out.PrintRecipeList(recipes)
	return nil
}

func (a *cliApp) showRecipe(ctx context.Context, target string) error {
	id, err := a.resolve(ctx, target)
	if err != nil {
		return err
	}
	r, err := a.engine.GetRecipe(ctx, id)
	if err != nil {
		return a.recipeErr(target, err)
	}
	a.out.PrintRecipe(r)
	return nil
}

func (a *cliApp) cost(ctx context.Context, target string) error {
	id, err := a.resolve(ctx, target)
	if err != nil {
		return err
	}
	b, err := a.engine.CostRecipe(ctx, id)
	if err != nil {
		return a.recipeErr(target, err)
	}
	a.out.PrintBreakdown(b)
	return nil
}

func (a *cliApp) scale(ctx context.Context, target string, factor float64) error {
	id, err := a.resolve(ctx, target)
	if err != nil {
		return err
	}
	scaled, b, err := a.engine.CostScaled(ctx, id, factor)
	if err != nil {
		return a.recipeErr(target, err)
	}
	a.out.PrintRecipe(scaled)
	a.out.PrintBreakdown(b)
	return nil
}

func (a *cliApp) yield(ctx context.Context, target string, want float64) error {
	id, err := a.resolve(ctx, target)
	if err != nil {
		return err
	}
	scaled, b, err := a.engine.ScaleToYield(ctx, id, want)
	if err != nil {
		return a.recipeErr(target, err)
	}
	a.out.PrintRecipe(scaled)
	a.out.PrintBreakdown(b)
	return nil
}

func (a *cliApp) supplies(ctx context.Context) error {
	items, err := a.engine.Supplies(ctx)
	if err != nil {
		return fmt.Errorf("loading supplies: %w", err)
	}
	a.out.PrintSupplies(items)
	return nil
}

func (a *cliApp) price(ctx context.Context, id string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("price must not be negative")
	}
	item, err := a.engine.SetSupplyPrice(ctx, id, amount)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no supply %q. Type 'supplies' to see the catalog", id)
	}
	if err != nil {
		return err
	}
	a.out.PrintInfo(fmt.Sprintf("%s now costs %s.", item.Name, displayPrice(item)))
	return nil
}

func (a *cliApp) report(ctx context.Context) error {
	all, err := a.engine.CostAll(ctx)
	if err != nil {
		return fmt.Errorf("costing recipes: %w", err)
	}
	a.out.PrintReport(all)
	return nil
}

// resolve maps a 1-based list position to a recipe ID. Anything else is
// taken as an ID.
func (a *cliApp) resolve(ctx context.Context, target string) (string, error) {
	n, err := strconv.Atoi(target)
	if err != nil {
		return target, nil
	}
	recipes, err := a.engine.ListRecipes(ctx)
	if err != nil {
		return "", fmt.Errorf("loading recipes: %w", err)
	}
	if n < 1 || n > len(recipes) {
		return "", fmt.Errorf("no recipe number %d. Type 'list' to see recipes", n)
	}
	return recipes[n-1].ID, nil
}

func (a *cliApp) recipeErr(target string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("no recipe %q. Type 'list' to see recipes", target)
	case errors.Is(err, domain.ErrInvalidScale):
		return fmt.Errorf("scale must be a positive number")
	case errors.Is(err, domain.ErrNoYield):
		return fmt.Errorf("recipe %q has no yield to scale to", target)
	}
	return err
}

func displayPrice(item *domain.SupplyItem) string {
	per := item.Unit()
	if item.PurchaseQuantity > 0 && item.PurchaseQuantity != 1 {
		per = costing.FormatQuantity(item.PurchaseQuantity) + " " + per
	}
	return fmt.Sprintf("%s per %s", costing.FormatCurrencyDetailed(item.PurchasePrice), per)
}
