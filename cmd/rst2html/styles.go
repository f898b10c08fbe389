package main

import (
	"fmt"

	"github.com/alecthomas/chroma/v2/styles"

	rst2html "github.com/alnah/go-rst2html"
)

// runStylesCmd lists the page styles, or the highlight styles with --highlight.
func runStylesCmd(args []string, env *Environment) error {
	flags, err := parseStylesFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	if flags.highlight {
		for _, name := range styles.Names() {
			fmt.Fprintln(env.Stdout, name)
		}
		return nil
	}

	opts := []rst2html.Option{rst2html.WithStyle("")}
	if flags.assetPath != "" {
		opts = append(opts, rst2html.WithAssetPath(flags.assetPath))
	}
	conv, err := rst2html.NewConverter(opts...)
	if err != nil {
		return err
	}
	for _, name := range conv.StyleNames() {
		fmt.Fprintln(env.Stdout, name)
	}
	return nil
}
