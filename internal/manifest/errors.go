package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoTemplates indicates the manifest has no templates defined
	ErrNoTemplates = errors.New("manifest must contain at least one template")

	// ErrEmptyURL indicates a template is missing the required URL field
	ErrEmptyURL = errors.New("template URL cannot be empty")

	// ErrDuplicateName indicates two templates in one manifest share a name
	ErrDuplicateName = errors.New("duplicate template name")

	// ErrInvalidFormat indicates the manifest file is not valid YAML or JSON
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, or .json)")
)
