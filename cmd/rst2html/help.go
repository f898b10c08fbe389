package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rst2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert reStructuredText or Markdown files to HTML")
	fmt.Fprintln(w, "  tree       Print the document tree of a source file")
	fmt.Fprintln(w, "  styles     List available page or highlight styles")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rst2html help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rst2html convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert source files to HTML fragments or standalone pages.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    File or directory (optional if config has input.defaultDir)")
	fmt.Fprintln(w, "           Files: .rst .rest .txt .md .markdown (directories skip .txt)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -f, --format <s>          Force source format: rst, markdown")
	fmt.Fprintln(w, "      --no-front-matter     Keep a leading --- block as text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -s, --standalone          Write complete HTML pages")
	fmt.Fprintln(w, "      --title <s>           Page title (\"\" = front matter or first heading)")
	fmt.Fprintln(w, "      --lang <s>            Page language (default: en)")
	fmt.Fprintln(w, "      --heading-ids         Add id attributes to headings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents:")
	fmt.Fprintln(w, "      --toc                 Insert a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text")
	fmt.Fprintln(w, "      --toc-min-depth <n>   Min heading depth (1-6, default: 2)")
	fmt.Fprintln(w, "      --toc-max-depth <n>   Max heading depth (1-6, default: 3)")
	fmt.Fprintln(w, "      --no-toc              Disable table of contents")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Roles:")
	fmt.Fprintln(w, "  -i, --inventory <path>    YAML link table for :role:`target` references")
	fmt.Fprintln(w, "      --link-base <url>     Base URL for relative links")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Styling:")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file (standalone pages)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles/ and templates/ directory")
	fmt.Fprintln(w, "      --no-style            Disable CSS styling")
	fmt.Fprintln(w, "      --highlight[=lang]    Highlight literal blocks (detect or force lexer)")
	fmt.Fprintln(w, "      --highlight-style <s> Chroma style (default: github)")
	fmt.Fprintln(w, "      --no-highlight        Disable highlighting")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RST2HTML_CONFIG, RST2HTML_STYLE, RST2HTML_INPUT_DIR, RST2HTML_OUTPUT_DIR,")
	fmt.Fprintln(w, "  RST2HTML_WORKERS, RST2HTML_INVENTORY, RST2HTML_LINK_BASE,")
	fmt.Fprintln(w, "  RST2HTML_HIGHLIGHT_STYLE, RST2HTML_ASSET_PATH")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}

// printTreeUsage prints usage for the tree command.
func printTreeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rst2html tree <file> [flags]")
	fmt.Fprintln(w, "       rst2html tree --schema")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the parsed document tree of a reStructuredText file.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: yaml, json (default: yaml)")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (default: stdout)")
	fmt.Fprintln(w, "      --no-front-matter     Keep a leading --- block as text")
	fmt.Fprintln(w, "      --schema              Print the JSON schema of the tree and exit")
}

// printStylesUsage prints usage for the styles command.
func printStylesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rst2html styles [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List page styles accepted by --style.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --asset-path <dir>    Include styles from a custom asset directory")
	fmt.Fprintln(w, "      --highlight           List highlight styles instead")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "tree":
		printTreeUsage(env.Stdout)
	case "styles":
		printStylesUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: rst2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: rst2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
