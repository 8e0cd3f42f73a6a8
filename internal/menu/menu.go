// Package menu loads the menu definition from a JSON file.
package menu

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonnyb/group-order/internal/models"
)

// Load reads the menu definition and backfills a missing type field with
// the default. When any item was backfilled the augmented definition is
// written back to keep the file in sync; this is the only place the menu
// is ever mutated.
func Load(path string) ([]models.MenuItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file: %w", err)
	}

	var items []models.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu file: %w", err)
	}

	updated := false
	for i := range items {
		if items[i].Type == "" {
			items[i].Type = models.DefaultMenuType
			updated = true
		}
	}

	if updated {
		if err := save(path, items); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// Find returns the menu item with the given name, or false when absent.
func Find(items []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return models.MenuItem{}, false
}

func save(path string, items []models.MenuItem) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal menu: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write menu file: %w", err)
	}
	return nil
}
