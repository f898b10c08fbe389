package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Color  bool // colorize error lines written to Stderr
}

// DefaultEnv returns the production environment. Colors are enabled when
// stderr is a terminal and NO_COLOR is unset.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Color:  isTerminal(os.Stderr) && os.Getenv("NO_COLOR") == "",
	}
}

// isTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// painter returns a color for env. fatih/color decides on its own from
// stdout, so the decision for stderr is forced either way.
func (env *Environment) painter(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if env.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// printError writes "error: <err>" followed by any hint for err.
func printError(env *Environment, err error) {
	label := env.painter(color.FgRed, color.Bold).Sprint("error:")
	fmt.Fprintf(env.Stderr, "%s %v%s\n", label, err, hintFor(err))
}

// printFailure writes a per-file failure line.
func printFailure(env *Environment, path string, err error) {
	label := env.painter(color.FgRed).Sprint("FAILED")
	fmt.Fprintf(env.Stderr, "%s %s: %v\n", label, path, err)
}

// printWarning writes a warning line.
func printWarning(env *Environment, format string, args ...any) {
	label := env.painter(color.FgYellow).Sprint("warning:")
	fmt.Fprintf(env.Stderr, "%s %s\n", label, fmt.Sprintf(format, args...))
}
