package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/fileutil"
	"github.com/alnah/go-rst2html/internal/pipeline"
	"github.com/alnah/go-rst2html/internal/treeschema"
	"github.com/alnah/go-rst2html/internal/yamlutil"
)

// Tree output formats.
const (
	treeFormatYAML = "yaml"
	treeFormatJSON = "json"
)

// runTreeCmd parses flags and runs the tree command.
func runTreeCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseTreeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if flags.schema {
		_, err := env.Stdout.Write(treeschema.Source())
		return err
	}
	switch len(positional) {
	case 0:
		return ErrNoInput
	case 1:
	default:
		return fmt.Errorf("%w: expected one input, got %d", ErrUsage, len(positional))
	}
	return runTree(ctx, positional[0], flags, env)
}

// runTree parses one source file and writes its document tree.
func runTree(ctx context.Context, inputPath string, flags *treeFlags, env *Environment) error {
	format := strings.ToLower(flags.format)
	if format != treeFormatYAML && format != treeFormatJSON {
		return fmt.Errorf("%w: %q (use yaml or json)", ErrInvalidTreeFormat, flags.format)
	}

	if f, ok := rst2html.FormatForPath(inputPath); ok && f != rst2html.FormatRST {
		return fmt.Errorf("%w: %s has no document tree (reStructuredText only)", ErrUnsupportedInput, inputPath)
	}

	content, err := os.ReadFile(inputPath) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	pre := &pipeline.TextPreprocessor{FrontMatter: !flags.noFront}
	src, err := pre.Preprocess(ctx, string(content))
	if err != nil {
		return err
	}
	doc := rst2html.Parse(src.Body)

	out, err := encodeTree(doc, format)
	if err != nil {
		return err
	}

	if flags.output == "" {
		_, err := env.Stdout.Write(out)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(flags.output), dirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	if err := fileutil.WriteAtomic(flags.output, out, filePermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// encodeTree serializes doc. JSON output is checked against the tree schema
// so consumers can rely on it.
func encodeTree(doc *rst2html.Document, format string) ([]byte, error) {
	if format == treeFormatYAML {
		return yamlutil.Marshal(pipeline.EncodeTree(doc))
	}

	if err := treeschema.ValidateDocument(doc); err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding tree: %w", err)
	}
	return append(out, '\n'), nil
}
