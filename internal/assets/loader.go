package assets

// AssetLoader loads styles and templates by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	LoadStyle(name string) (string, error)

	// LoadTemplate loads an HTML template by name (without .html extension).
	LoadTemplate(name string) (string, error)

	// StyleNames lists the styles this loader can provide, sorted.
	StyleNames() []string
}
