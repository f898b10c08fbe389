package main

import (
	"errors"
	"os"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/config"
)

// Exit codes for the rst2html CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error, including failed conversions
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrInvalidTreeFormat) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, rst2html.ErrUnsupportedFormat) ||
		errors.Is(err, rst2html.ErrInvalidTOCDepth) ||
		errors.Is(err, rst2html.ErrStyleNotFound) ||
		errors.Is(err, rst2html.ErrInvalidAssetPath) ||
		errors.Is(err, rst2html.ErrUnknownLanguage) ||
		errors.Is(err, rst2html.ErrUnknownHighlightStyle) ||
		errors.Is(err, rst2html.ErrInvalidBaseURL) ||
		errors.Is(err, rst2html.ErrInventory) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoSources) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrWriteHTML) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}
