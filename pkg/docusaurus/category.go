package docusaurus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CategoryFile mirrors Docusaurus' _category_.json sidebar metadata.
type CategoryFile struct {
	Label     string       `json:"label"`
	Position  int          `json:"position"`
	Link      CategoryLink `json:"link"`
	Collapsed bool         `json:"collapsed"`
}

type CategoryLink struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// WriteCategoryFile ensures the category directory exists and writes its
// _category_.json with a generated-index link.
func WriteCategoryFile(dir, label string, position int, description string, collapsed bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create category directory %s: %w", dir, err)
	}

	category := CategoryFile{
		Label:    label,
		Position: position,
		Link: CategoryLink{
			Type:        "generated-index",
			Description: description,
		},
		Collapsed: collapsed,
	}

	data, err := json.MarshalIndent(category, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	path := filepath.Join(dir, "_category_.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
