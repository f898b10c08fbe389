package assets

// Built-in asset names.
const (
	DefaultStyleName = "default"
	PageTemplateName = "page"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads an embedded HTML template by name.
func LoadTemplate(name string) (string, error) {
	return defaultLoader.LoadTemplate(name)
}

// StyleNames lists the embedded styles.
func StyleNames() []string {
	return defaultLoader.StyleNames()
}
