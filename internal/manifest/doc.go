// Package manifest loads and writes template manifests. A manifest is a
// portable list of named template references that can be imported into the
// template store or exported from it.
//
// # Manifest Format
//
// Manifests can be written in YAML or JSON format:
//
//	templates:
//	  - name: starter
//	    url: octo/starter#main
//	  - url: gitlab:grp/proj
//	options:
//	  skip_existing: true
//
// A template without a name is named after its repository when imported.
//
// # Usage
//
//	loader := manifest.NewLoader()
//	cfg, err := loader.Load("templates.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, tpl := range cfg.Templates {
//	    // Register each template
//	}
//
// # Error Handling
//
// The package defines sentinel errors for common failure cases:
//   - ErrNoTemplates: manifest has no templates defined
//   - ErrEmptyURL: template is missing required URL field
//   - ErrDuplicateName: two templates share a name
//   - ErrInvalidFormat: file is not valid YAML/JSON
//   - ErrFileNotFound: manifest file does not exist
//   - ErrUnsupportedExt: unsupported file extension
package manifest
