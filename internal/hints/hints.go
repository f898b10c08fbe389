// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when one was searched, the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, "go-rst2html"+string(os.PathSeparator)) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the available styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForHighlightStyle points at the chroma style gallery.
func ForHighlightStyle() string {
	return format("see https://xyproto.github.io/splash/docs/ for style names")
}

// ForHighlightLanguage suggests leaving the language empty for detection.
func ForHighlightLanguage() string {
	return format("use a chroma lexer name such as python or go, or omit it to detect per block")
}

// ForInventory describes the expected link table layout.
func ForInventory() string {
	return formatHints([]string{
		"inventory is YAML with 'templates' (role: url with {value})",
		"'entries' (role, name, href, text)",
	})
}

// ForUnsupportedInput lists the accepted source extensions.
func ForUnsupportedInput(exts []string) string {
	if len(exts) == 0 {
		return ""
	}
	return format("supported extensions: " + strings.Join(exts, ", "))
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, " and "))
}
