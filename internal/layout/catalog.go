package layout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tany002/bhkinterior.com/internal/models"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog file lists no templates.
var ErrEmptyCatalog = errors.New("catalog has no templates")

// Catalog is the ordered furniture palette offered for insertion.
type Catalog struct {
	templates []models.FurnitureTemplate
}

// DefaultCatalog returns the built-in palette.
func DefaultCatalog() *Catalog {
	return &Catalog{templates: []models.FurnitureTemplate{
		{Label: "Sofa", WidthM: 2.2, DepthM: 0.9, Category: "Seating"},
		{Label: "Armchair", WidthM: 0.8, DepthM: 0.8, Category: "Seating"},
		{Label: "Coffee Table", WidthM: 1.2, DepthM: 0.6, Category: "Table"},
		{Label: "Bed (Queen)", WidthM: 1.6, DepthM: 2.0, Category: "Bed"},
		{Label: "Nightstand", WidthM: 0.5, DepthM: 0.4, Category: "Storage"},
		{Label: "Dining Table", WidthM: 1.5, DepthM: 0.9, Category: "Table"},
		{Label: "Chair", WidthM: 0.5, DepthM: 0.5, Category: "Seating"},
		{Label: "TV Unit", WidthM: 1.8, DepthM: 0.4, Category: "Storage"},
		{Label: "Wardrobe", WidthM: 1.0, DepthM: 0.6, Category: "Storage"},
		{Label: "Rug", WidthM: 2.0, DepthM: 1.5, Category: "Decor"},
		{Label: "Plant", WidthM: 0.4, DepthM: 0.4, Category: "Decor"},
	}}
}

// NewCatalog validates templates and builds a catalog from them.
func NewCatalog(templates []models.FurnitureTemplate) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, ErrEmptyCatalog
	}
	seen := make(map[string]struct{}, len(templates))
	for i, t := range templates {
		if strings.TrimSpace(t.Label) == "" {
			return nil, fmt.Errorf("template %d: label is required", i)
		}
		if t.WidthM <= 0 || t.DepthM <= 0 {
			return nil, fmt.Errorf("template %q: dimensions must be positive", t.Label)
		}
		key := strings.ToLower(t.Label)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("template %q: duplicate label", t.Label)
		}
		seen[key] = struct{}{}
	}
	return &Catalog{templates: append([]models.FurnitureTemplate(nil), templates...)}, nil
}

// Templates returns a copy of the palette in display order.
func (c *Catalog) Templates() []models.FurnitureTemplate {
	return append([]models.FurnitureTemplate(nil), c.templates...)
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}

// Lookup finds a template by label, case-insensitively.
func (c *Catalog) Lookup(label string) (models.FurnitureTemplate, bool) {
	for _, t := range c.templates {
		if strings.EqualFold(t.Label, strings.TrimSpace(label)) {
			return t, true
		}
	}
	return models.FurnitureTemplate{}, false
}

// ParseCatalog loads a YAML catalog file.
func ParseCatalog(filePath string) (*Catalog, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ParseCatalogFromReader(file)
}

// ParseCatalogFromReader parses a YAML catalog from an io.Reader.
func ParseCatalogFromReader(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var raw models.CatalogFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing catalog yaml: %w", err)
	}

	return NewCatalog(raw.Templates)
}

// LoadCatalogOrDefault loads filePath when it exists and falls back to the
// built-in palette otherwise.
func LoadCatalogOrDefault(filePath string) (*Catalog, error) {
	if filePath == "" {
		return DefaultCatalog(), nil
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}
	return ParseCatalog(filePath)
}
