// OttoCost: recipe costing for a kitchen back office.
//
// Usage:
//
//	ottocost [flags]                 interactive prompt
//	ottocost [flags] <command> ...   run one command and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/hammamikhairi/ottocost/internal/command"
	"github.com/hammamikhairi/ottocost/internal/config"
	"github.com/hammamikhairi/ottocost/internal/costing"
	"github.com/hammamikhairi/ottocost/internal/display"
	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/engine"
	"github.com/hammamikhairi/ottocost/internal/inventory"
	"github.com/hammamikhairi/ottocost/internal/logger"
	"github.com/hammamikhairi/ottocost/internal/recipe"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".ottocost-logs/ottocost.log", "file to write logs to (use \"stderr\" to log to console)")
	storageType := flag.String("storage", cfg.Storage.Type, "supply catalog backend: memory, sqlite or postgresql")
	sqlitePath := flag.String("sqlite-path", cfg.Storage.SQLite.Path, "SQLite database file")
	postgresURL := flag.String("postgres-url", cfg.Storage.PostgreSQL.URL, "PostgreSQL connection string")
	recipesFile := flag.String("recipes", cfg.RecipesFile, "YAML recipe book (default: built-in recipes)")
	suppliesFile := flag.String("supplies", cfg.SuppliesFile, "YAML supply catalog to load into the backend")
	seed := flag.Bool("seed", false, "load the built-in supply catalog into the backend")
	workers := flag.Int("workers", cfg.Workers, "recipes costed concurrently by report (0 = one per CPU)")
	noBanner := flag.Bool("no-banner", false, "skip the startup banner")
	flag.Parse()

	cfg.Storage.Type = strings.ToLower(*storageType)
	cfg.Storage.SQLite.Path = *sqlitePath
	cfg.Storage.PostgreSQL.URL = *postgresURL
	cfg.RecipesFile = *recipesFile
	cfg.SuppliesFile = *suppliesFile
	cfg.Workers = *workers
	if *verbose {
		cfg.LogLevel = logger.LevelVerbose
	}
	if *quiet {
		cfg.LogLevel = logger.LevelOff
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	// Logs go to a file by default so the prompt stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}
	log := logger.New(cfg.LogLevel, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Wire dependencies.
	catalog, err := inventory.Open(ctx, cfg.Storage, log)
	if err != nil {
		log.Error("opening supply catalog: %v", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer catalog.Close()

	if err := loadSupplies(ctx, catalog, cfg, *seed, log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}

	var recipes domain.RecipeSource
	if cfg.RecipesFile != "" {
		src, err := recipe.LoadFile(cfg.RecipesFile, log)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		recipes = src
	} else {
		recipes = recipe.NewMemorySource(log)
	}

	calc := costing.New(log.With("component", "costing"))
	eng := engine.New(recipes, catalog, calc, log, engine.WithWorkers(cfg.Workers))

	app := &cliApp{
		engine: eng,
		parser: command.NewParser(log),
		out:    display.New(os.Stdout),
		log:    log,
	}

	log.Info("ottocost starting (storage=%s, recipes=%s)", cfg.Storage.Type, describeRecipes(cfg.RecipesFile))

	if flag.NArg() > 0 {
		return app.runOnce(ctx, strings.Join(flag.Args(), " "))
	}

	if !*noBanner {
		app.out.PrintBanner("recipe costing")
		app.out.PrintHint("Type 'help' for commands, 'quit' to exit.")
		app.out.Println()
	}
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		ui := display.NewUI(os.Stdout)
		app.out = display.New(ui)
		if err := app.runUI(ctx, ui); err != nil {
			log.Error("prompt: %v", err)
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}
	app.run(ctx, os.Stdin)
	return 0
}

// loadSupplies fills the catalog from the built-in list and/or a YAML file.
// The memory backend already starts with the built-in list.
func loadSupplies(ctx context.Context, catalog inventory.Catalog, cfg *config.Config, seed bool, log *logger.Logger) error {
	if seed && cfg.Storage.Type != inventory.TypeMemory {
		items := inventory.DefaultSupplies()
		if err := inventory.Seed(ctx, catalog, items); err != nil {
			return err
		}
		log.Info("seeded %d built-in supplies", len(items))
	}
	if cfg.SuppliesFile != "" {
		items, err := inventory.LoadYAML(cfg.SuppliesFile)
		if err != nil {
			return err
		}
		if err := inventory.Seed(ctx, catalog, items); err != nil {
			return err
		}
		log.Info("loaded %d supplies from %s", len(items), cfg.SuppliesFile)
	}
	return nil
}

func describeRecipes(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
