package assets

import (
	"slices"
	"sort"
)

// AssetResolver loads from a user directory first and falls back to the
// embedded assets when a file is missing there.
type AssetResolver struct {
	custom   AssetLoader // nil without a user directory
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver. An empty customBasePath
// serves embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(customBasePath)
		if err != nil {
			return nil, err
		}
		r.custom = fsLoader
	}
	return r, nil
}

// LoadStyle loads a CSS style by name.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadStyle(name)
	})
}

// LoadTemplate loads an HTML template by name.
func (r *AssetResolver) LoadTemplate(name string) (string, error) {
	return r.loadWithFallback(func(l AssetLoader) (string, error) {
		return l.LoadTemplate(name)
	})
}

// StyleNames merges the user and embedded style names.
func (r *AssetResolver) StyleNames() []string {
	names := r.embedded.StyleNames()
	if r.custom != nil {
		names = append(names, r.custom.StyleNames()...)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

// Only not-found errors fall back; validation and I/O errors surface.
func (r *AssetResolver) loadWithFallback(load func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return load(r.embedded)
	}
	content, err := load(r.custom)
	if err == nil {
		return content, nil
	}
	if !isNotFound(err) {
		return "", err
	}
	return load(r.embedded)
}

// HasCustomLoader reports whether a user directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

var _ AssetLoader = (*AssetResolver)(nil)
