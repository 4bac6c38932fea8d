package app

import (
	"fmt"

	"github.com/quantmind-br/see/internal/domain"
	"github.com/quantmind-br/see/internal/manifest"
)

// ImportResult summarizes an ImportTemplates call
type ImportResult struct {
	Added   []string
	Updated []string
	Skipped []string
}

// Total returns the number of templates written to the store
func (r ImportResult) Total() int {
	return len(r.Added) + len(r.Updated)
}

// ImportTemplates loads a template manifest and merges it into the store.
// Every entry is resolved first; one bad reference rejects the whole file.
func (r *Runner) ImportTemplates(path string) (*ImportResult, error) {
	cfg, err := manifest.NewLoader().Load(path)
	if err != nil {
		return nil, err
	}

	r.logger.Info().
		Str("path", path).
		Int("templates", len(cfg.Templates)).
		Bool("skip_existing", cfg.Options.SkipExisting).
		Msg("Importing templates")

	incoming := make([]domain.Template, 0, len(cfg.Templates))
	seen := make(map[string]bool, len(cfg.Templates))
	for i, tpl := range cfg.Templates {
		ref, err := r.resolver.Resolve(tpl.URL)
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i, err)
		}
		if tpl.Name == "" {
			tpl.Name = ref.Name
		}
		if seen[tpl.Name] {
			return nil, fmt.Errorf("template %d: %w: %s", i, manifest.ErrDuplicateName, tpl.Name)
		}
		seen[tpl.Name] = true
		incoming = append(incoming, tpl)
	}

	existing, err := r.store.Templates()
	if err != nil {
		return nil, err
	}
	stored := make(map[string]string, len(existing))
	for _, t := range existing {
		stored[t.Name] = t.URL
	}

	result := &ImportResult{}
	toWrite := make([]domain.Template, 0, len(incoming))
	for _, tpl := range incoming {
		url, ok := stored[tpl.Name]
		switch {
		case !ok:
			result.Added = append(result.Added, tpl.Name)
		case cfg.Options.SkipExisting || url == tpl.URL:
			result.Skipped = append(result.Skipped, tpl.Name)
			continue
		default:
			result.Updated = append(result.Updated, tpl.Name)
		}
		toWrite = append(toWrite, tpl)
	}

	if len(toWrite) > 0 {
		if err := r.store.Put(domain.KeyList, toWrite); err != nil {
			return nil, err
		}
	}

	r.logger.Info().
		Int("added", len(result.Added)).
		Int("updated", len(result.Updated)).
		Int("skipped", len(result.Skipped)).
		Msg("Import completed")

	return result, nil
}

// ExportTemplates writes the stored templates to a manifest at path
func (r *Runner) ExportTemplates(path string) (int, error) {
	templates, err := r.store.Templates()
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		return 0, domain.ErrNoTemplates
	}

	if err := manifest.Write(manifest.FromTemplates(templates), path); err != nil {
		return 0, err
	}

	r.logger.Info().Str("path", path).Int("templates", len(templates)).Msg("Templates exported")
	return len(templates), nil
}
