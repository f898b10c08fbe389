// Package assets provides the CSS styles and page template used for
// standalone HTML output.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles and templates (go:embed)
//	    ├── FilesystemLoader  - a user directory on disk
//	    └── AssetResolver     - directory first, embedded fallback
//
// A user directory only needs the files it overrides:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # e.g. default.css, site.css
//	└── templates/
//	    └── page.html       # page wrapper, see PageData in the pipeline
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
