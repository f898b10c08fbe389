package rst2html

import (
	"errors"

	"github.com/alnah/go-rst2html/internal/assets"
	"github.com/alnah/go-rst2html/internal/inventory"
	"github.com/alnah/go-rst2html/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrConversion        = errors.New("conversion failed")

	// TOC validation errors.
	ErrInvalidTOCDepth = errors.New("invalid TOC depth")

	// Asset loading errors.
	ErrStyleNotFound    = assets.ErrStyleNotFound
	ErrInvalidAssetPath = errors.New("invalid asset path")

	// Page and link errors.
	ErrPageRender     = pipeline.ErrPageRender
	ErrInvalidBaseURL = pipeline.ErrInvalidBaseURL
	ErrFrontMatter    = pipeline.ErrFrontMatter

	// Highlighting errors.
	ErrUnknownLanguage       = pipeline.ErrUnknownLanguage
	ErrUnknownHighlightStyle = pipeline.ErrUnknownHighlightStyle

	// Role resolution errors.
	ErrInventory = inventory.ErrInventory
)
