package manifest

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/see/internal/domain"
)

// Config represents the complete manifest
type Config struct {
	Templates []domain.Template `yaml:"templates" json:"templates"`
	Options   Options           `yaml:"options,omitempty" json:"options,omitempty"`
}

// Options represents global manifest options
type Options struct {
	// SkipExisting keeps stored URLs for names that are already registered
	SkipExisting bool `yaml:"skip_existing,omitempty" json:"skip_existing,omitempty"`
}

// Validate validates the manifest
func (c *Config) Validate() error {
	if len(c.Templates) == 0 {
		return ErrNoTemplates
	}
	seen := make(map[string]int, len(c.Templates))
	for i, tpl := range c.Templates {
		if strings.TrimSpace(tpl.URL) == "" {
			return fmt.Errorf("template %d: %w", i, ErrEmptyURL)
		}
		if tpl.Name == "" {
			continue
		}
		if first, ok := seen[tpl.Name]; ok {
			return fmt.Errorf("templates %d and %d: %w: %s", first, i, ErrDuplicateName, tpl.Name)
		}
		seen[tpl.Name] = i
	}
	return nil
}

// FromTemplates builds a manifest holding templates in order
func FromTemplates(templates []domain.Template) *Config {
	out := make([]domain.Template, len(templates))
	copy(out, templates)
	return &Config{Templates: out}
}
