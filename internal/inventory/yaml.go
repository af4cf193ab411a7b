package inventory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottocost/internal/domain"
)

type supplyFile struct {
	Supplies []domain.SupplyItem `yaml:"supplies"`
}

// LoadYAML reads a supply catalog file. Items keep their file order.
func LoadYAML(path string) ([]domain.SupplyItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading supplies file: %w", err)
	}
	var f supplyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing supplies file: %w", err)
	}
	for i, it := range f.Supplies {
		if it.ID == "" {
			return nil, fmt.Errorf("supply %d: %w", i+1, errMissingID)
		}
	}
	return f.Supplies, nil
}

// Seed upserts items into w in order. It stops at the first failure.
func Seed(ctx context.Context, w domain.SupplyWriter, items []domain.SupplyItem) error {
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.Upsert(ctx, it); err != nil {
			return fmt.Errorf("seeding supply %s: %w", it.ID, err)
		}
	}
	return nil
}
