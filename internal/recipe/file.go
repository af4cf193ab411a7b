package recipe

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottocost/internal/domain"
	"github.com/hammamikhairi/ottocost/internal/logger"
)

// Book is the on-disk layout of a recipe file.
type Book struct {
	Recipes []*domain.Recipe `yaml:"recipes"`
}

// LoadFile reads a YAML recipe book into a new MemorySource. Recipes without
// an ID or with a duplicate ID are rejected.
func LoadFile(path string, log *logger.Logger) (*MemorySource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}
	return Parse(data, log)
}

// Parse decodes a YAML recipe book into a new MemorySource.
func Parse(data []byte, log *logger.Logger) (*MemorySource, error) {
	var book Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, fmt.Errorf("parsing recipe file: %w", err)
	}

	src := NewEmptySource(log)
	ctx := context.Background()
	for i, r := range book.Recipes {
		if r == nil || r.ID == "" {
			return nil, fmt.Errorf("recipe %d: missing id", i+1)
		}
		if err := src.Add(ctx, r); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
	}

	log.Info("loaded %d recipes from file", len(book.Recipes))
	return src, nil
}
