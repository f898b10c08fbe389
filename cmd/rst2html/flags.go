package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// highlightAuto is the --highlight value given without "=lang".
const highlightAuto = "auto"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// documentFlags holds per-document page flags.
type documentFlags struct {
	format     string // force rst or markdown
	standalone bool
	title      string
	lang       string
	noFront    bool
}

// styleFlags holds page styling flags.
type styleFlags struct {
	style     string // Name or path for CSS
	assetPath string // Override asset directory
	disabled  bool
}

// highlightFlags holds syntax highlighting flags.
type highlightFlags struct {
	language string // "auto" detects per block
	style    string
	disabled bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	minDepth int
	maxDepth int
	disabled bool
}

// roleFlags holds cross-reference flags.
type roleFlags struct {
	inventory string
	linkBase  string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common     commonFlags
	output     string
	workers    int
	document   documentFlags
	style      styleFlags
	highlight  highlightFlags
	headingIDs bool
	toc        tocFlags
	roles      roleFlags
}

// treeFlags holds flags for the tree command.
type treeFlags struct {
	format  string
	output  string
	noFront bool
	schema  bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addDocumentFlags adds page flags to a FlagSet.
func addDocumentFlags(fs *flag.FlagSet, f *documentFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "source format: rst, markdown (default: from extension)")
	fs.BoolVarP(&f.standalone, "standalone", "s", false, "write complete HTML pages")
	fs.StringVar(&f.title, "title", "", "page title (\"\" = front matter or first heading)")
	fs.StringVar(&f.lang, "lang", "", "page language (default: front matter or en)")
	fs.BoolVar(&f.noFront, "no-front-matter", false, "keep a leading --- block as text")
}

// addStyleFlags adds styling flags to a FlagSet.
func addStyleFlags(fs *flag.FlagSet, f *styleFlags) {
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.disabled, "no-style", false, "disable CSS styling")
}

// addHighlightFlags adds highlighting flags to a FlagSet.
func addHighlightFlags(fs *flag.FlagSet, f *highlightFlags) {
	fs.StringVar(&f.language, "highlight", "", "highlight literal blocks (=lang to force a lexer)")
	fs.Lookup("highlight").NoOptDefVal = highlightAuto
	fs.StringVar(&f.style, "highlight-style", "", "chroma style name")
	fs.BoolVar(&f.disabled, "no-highlight", false, "disable highlighting")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "insert a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.minDepth, "toc-min-depth", 0, "min heading depth for TOC (1-6, default: 2)")
	fs.IntVar(&f.maxDepth, "toc-max-depth", 0, "max heading depth for TOC (1-6, default: 3)")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addRoleFlags adds role resolution flags to a FlagSet.
func addRoleFlags(fs *flag.FlagSet, f *roleFlags) {
	fs.StringVarP(&f.inventory, "inventory", "i", "", "YAML link table for roles")
	fs.StringVar(&f.linkBase, "link-base", "", "base URL for relative links")
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.headingIDs, "heading-ids", false, "add id attributes to headings")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addDocumentFlags(fs, &f.document)
	addStyleFlags(fs, &f.style)
	addHighlightFlags(fs, &f.highlight)
	addTOCFlags(fs, &f.toc)
	addRoleFlags(fs, &f.roles)

	if err := parse(fs, args, stderr, printConvertUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseTreeFlags parses tree command flags and returns positional args.
func parseTreeFlags(args []string, stderr io.Writer) (*treeFlags, []string, error) {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	f := &treeFlags{}

	fs.StringVarP(&f.format, "format", "f", "yaml", "output format: yaml, json")
	fs.StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	fs.BoolVar(&f.noFront, "no-front-matter", false, "keep a leading --- block as text")
	fs.BoolVar(&f.schema, "schema", false, "print the JSON schema of the tree and exit")

	if err := parse(fs, args, stderr, printTreeUsage); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// stylesFlags holds flags for the styles command.
type stylesFlags struct {
	assetPath string
	highlight bool
}

// parseStylesFlags parses styles command flags.
func parseStylesFlags(args []string, stderr io.Writer) (*stylesFlags, error) {
	fs := flag.NewFlagSet("styles", flag.ContinueOnError)
	f := &stylesFlags{}

	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.BoolVar(&f.highlight, "highlight", false, "list highlight styles instead")

	if err := parse(fs, args, stderr, printStylesUsage); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrUsage, fs.Arg(0))
	}
	return f, nil
}

// parse runs fs and wraps parse failures in ErrUsage. --help prints usage
// and returns flag.ErrHelp.
func parse(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) error {
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(stderr) }

	err := fs.Parse(args)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, flag.ErrHelp):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
}
