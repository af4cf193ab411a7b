// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptySource(log)
	src.seed()
	return src
}

// NewEmptySource creates a recipe source with no recipes.
func NewEmptySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
}

// List returns summaries of all available recipes, sorted by name.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, r.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a copy of the recipe with the given ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return clone(r), nil
}

// Add stores a new recipe. Returns ErrAlreadyExists if the ID is taken.
func (s *MemorySource) Add(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[recipe.ID]; ok {
		return domain.ErrAlreadyExists
	}
	if recipe.Version == 0 {
		recipe.Version = 1
	}
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Debug("recipe added: %s", recipe.ID)
	return nil
}

// Update replaces a recipe in the source. The recipe ID must already exist.
func (s *MemorySource) Update(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.recipes[recipe.ID]
	if !ok {
		return domain.ErrNotFound
	}
	recipe.Version = old.Version + 1
	s.recipes[recipe.ID] = clone(recipe)
	s.log.Info("recipe updated: %s (v%d)", recipe.Name, recipe.Version)
	return nil
}

// Search returns recipes whose name, description or tags contain the query.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if matches(r, q) {
			out = append(out, r.Summary())
		}
	}
	sortSummaries(out)
	return out, nil
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortSummaries(out []domain.RecipeSummary) {
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
}

// clone deep-copies a recipe so callers never share slices with the store.
func clone(r *domain.Recipe) *domain.Recipe {
	c := *r
	c.Ingredients = append([]domain.IngredientRequirement(nil), r.Ingredients...)
	c.Tags = append([]string(nil), r.Tags...)
	if r.Yield != nil {
		y := *r.Yield
		c.Yield = &y
	}
	return &c
}

// seed populates the source with built-in recipes.
func (s *MemorySource) seed() {
	recipes := []*domain.Recipe{
		empanadas(),
		flan(),
		pizzaDough(),
	}
	for _, r := range recipes {
		s.recipes[r.ID] = r
	}
	s.log.Debug("seeded %d recipes", len(recipes))
}

func empanadas() *domain.Recipe {
	return &domain.Recipe{
		ID:          "empanadas-carne",
		Name:        "Empanadas de carne",
		Description: "Beef empanadas, baked. A dozen per batch.",
		Tags:        []string{"salado", "horno", "carne"},
		Yield:       &domain.Yield{Quantity: 12, Unit: "empanadas"},
		Ingredients: []domain.IngredientRequirement{
			{SupplyID: "tapas-empanada", Name: "Tapas de empanada", Quantity: 12, Unit: "unit"},
			{SupplyID: "carne-picada", Name: "Carne picada", Quantity: 500, Unit: "g"},
			{SupplyID: "cebolla", Name: "Cebolla", Quantity: 300, Unit: "g"},
			{SupplyID: "huevos", Name: "Huevos", Quantity: 3, Unit: "unit"},
			{Name: "Aceitunas", AltName: "Aceitunas verdes", Quantity: 100, Unit: "g"},
			{Name: "Comino", Quantity: 5, Unit: "g"},
		},
		Version: 1,
	}
}

func flan() *domain.Recipe {
	return &domain.Recipe{
		ID:          "flan-casero",
		Name:        "Flan casero",
		Description: "Classic caramel flan, ten portions.",
		Tags:        []string{"postre", "dulce"},
		Yield:       &domain.Yield{Quantity: 10, Unit: "porciones"},
		Ingredients: []domain.IngredientRequirement{
			{SupplyID: "leche", Name: "Leche", Quantity: 1, Unit: "l"},
			{SupplyID: "huevos", Name: "Huevos", Quantity: 0.2, Unit: "maple"},
			{SupplyID: "azucar", Name: "Azúcar", Quantity: 250, Unit: "g"},
			{Name: "Esencia de vainilla", Quantity: 5, Unit: "ml"},
		},
		Version: 1,
	}
}

func pizzaDough() *domain.Recipe {
	return &domain.Recipe{
		ID:          "masa-pizza",
		Name:        "Masa de pizza",
		Description: "Dough for four medium pizzas.",
		Tags:        []string{"salado", "masa", "horno"},
		Yield:       &domain.Yield{Quantity: 4, Unit: "pizzas"},
		Ingredients: []domain.IngredientRequirement{
			{SupplyID: "harina-000", Name: "Harina 000", Quantity: 1, Unit: "kg"},
			{SupplyID: "levadura", Name: "Levadura", Quantity: 50, Unit: "g"},
			{SupplyID: "aceite", Name: "Aceite de oliva", Quantity: 60, Unit: "ml"},
			{Name: "Sal", Quantity: 20, Unit: "g"},
			{Name: "Agua", Quantity: 600, Unit: "ml"},
		},
		Version: 1,
	}
}
