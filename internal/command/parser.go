// Package command turns prompt input into costing commands.
package command

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Kind classifies what the user wants to do.
type Kind int

const (
	Unknown Kind = iota
	List
	Search
	Show
	Cost
	Scale
	Yield
	Supplies
	Price
	Report
	Help
	Quit
)

// String returns a human-readable command kind.
func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case Search:
		return "search"
	case Show:
		return "show"
	case Cost:
		return "cost"
	case Scale:
		return "scale"
	case Yield:
		return "yield"
	case Supplies:
		return "supplies"
	case Price:
		return "price"
	case Report:
		return "report"
	case Help:
		return "help"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// ErrUsage is returned when a command is recognised but its arguments are
// missing or malformed.
var ErrUsage = errors.New("usage")

// Command is a parsed line of input.
type Command struct {
	Kind Kind
	// Target is a recipe ID, a 1-based list position, a supply ID or a
	// search query, depending on Kind.
	Target string
	// Number is the scale factor, target yield or price.
	Number float64
	// Raw is the trimmed input.
	Raw string
}

type rule struct {
	regex *regexp.Regexp
	kind  Kind
	args  int // 0: none, 1: target, 2: target + number
}

// Parser matches input lines to commands using keywords.
type Parser struct {
	log   *logger.Logger
	rules []rule
}

// NewParser creates a keyword-based command parser.
func NewParser(log *logger.Logger) *Parser {
	p := &Parser{log: log}
	p.rules = []rule{
		{regexp.MustCompile(`(?i)^(list|recipes|ls|recetas)$`), List, 0},
		{regexp.MustCompile(`(?i)^(search|find|buscar)\b`), Search, 1},
		{regexp.MustCompile(`(?i)^(show|recipe|ver)\b`), Show, 1},
		{regexp.MustCompile(`(?i)^(cost|costo)\b`), Cost, 1},
		{regexp.MustCompile(`(?i)^(scale|escalar|double|halve)\b`), Scale, 2},
		{regexp.MustCompile(`(?i)^(yield|rinde|make)\b`), Yield, 2},
		{regexp.MustCompile(`(?i)^(supplies|catalog|inventory|insumos)$`), Supplies, 0},
		{regexp.MustCompile(`(?i)^(price|precio)\b`), Price, 2},
		{regexp.MustCompile(`(?i)^(report|all|reporte)$`), Report, 0},
		{regexp.MustCompile(`(?i)^(help|h|\?|ayuda)$`), Help, 0},
		{regexp.MustCompile(`(?i)^(quit|exit|q|salir)$`), Quit, 0},
	}
	return p
}

// Parse converts one line of input into a command. Unrecognised input
// yields Kind Unknown with no error; recognised commands with bad
// arguments return an error wrapping ErrUsage.
func (p *Parser) Parse(input string) (*Command, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return &Command{Kind: Unknown}, nil
	}

	p.log.Debug("parsing input: %q", trimmed)

	// A bare list position shows that recipe.
	if len(trimmed) <= 3 && isDigits(trimmed) {
		return &Command{Kind: Show, Target: trimmed, Raw: trimmed}, nil
	}

	for _, r := range p.rules {
		if !r.regex.MatchString(trimmed) {
			continue
		}
		p.log.Debug("matched command: %s", r.kind)

		fields := strings.Fields(trimmed)
		verb := strings.ToLower(fields[0])
		rest := fields[1:]
		cmd := &Command{Kind: r.kind, Raw: trimmed}

		switch r.args {
		case 1:
			if len(rest) == 0 {
				return nil, usage(r.kind)
			}
			cmd.Target = strings.Join(rest, " ")
			if r.kind != Search && len(rest) > 1 {
				return nil, usage(r.kind)
			}
		case 2:
			// "double <id>" and "halve <id>" carry their factor in the verb.
			if verb == "double" || verb == "halve" {
				if len(rest) != 1 {
					return nil, usage(r.kind)
				}
				cmd.Target = rest[0]
				cmd.Number = 2
				if verb == "halve" {
					cmd.Number = 0.5
				}
				return cmd, nil
			}
			if len(rest) != 2 {
				return nil, usage(r.kind)
			}
			n, err := ParseNumber(rest[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %v", ErrUsage, r.kind, err)
			}
			cmd.Target = rest[0]
			cmd.Number = n
		}
		return cmd, nil
	}

	p.log.Debug("no match, returning unknown command")
	return &Command{Kind: Unknown, Raw: trimmed}, nil
}

var usages = map[Kind]string{
	Search: "search <text>",
	Show:   "show <recipe>",
	Cost:   "cost <recipe>",
	Scale:  "scale <recipe> <factor>",
	Yield:  "yield <recipe> <target>",
	Price:  "price <supply> <amount>",
}

// Usage returns the argument synopsis for k, or "" if it takes none.
func Usage(k Kind) string { return usages[k] }

func usage(k Kind) error {
	return fmt.Errorf("%w: %s", ErrUsage, usages[k])
}

// ParseNumber reads a decimal written with either "," or "." as the decimal
// separator. A leading "x" (as in "x2") is accepted. Thousands separators
// are not.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "x"), "X")
	if strings.Count(s, ",")+strings.Count(s, ".") > 1 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
