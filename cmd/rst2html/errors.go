package main

import (
	"errors"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/assets"
	"github.com/alnah/go-rst2html/internal/config"
	"github.com/alnah/go-rst2html/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrNoSources          = errors.New("no source files found")
	ErrUnsupportedInput   = errors.New("unsupported input file")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrReadSource         = errors.New("failed to read source file")
	ErrWriteHTML          = errors.New("failed to write HTML file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrConversionsFailed  = errors.New("conversions failed")
	ErrInvalidTreeFormat  = errors.New("invalid tree format")
)

// hintFor returns an actionable hint for err, or "".
func hintFor(err error) string {
	var notFound *config.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return hints.ForConfigNotFound(notFound.Paths)
	case errors.Is(err, rst2html.ErrStyleNotFound):
		return hints.ForStyleNotFound(assets.StyleNames())
	case errors.Is(err, rst2html.ErrUnknownHighlightStyle):
		return hints.ForHighlightStyle()
	case errors.Is(err, rst2html.ErrUnknownLanguage):
		return hints.ForHighlightLanguage()
	case errors.Is(err, rst2html.ErrInventory):
		return hints.ForInventory()
	case errors.Is(err, ErrUnsupportedInput):
		return hints.ForUnsupportedInput(rst2html.SourceExtensions())
	case errors.Is(err, ErrWriteHTML), errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
