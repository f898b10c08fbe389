package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/fileutil"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// htmlConverter is the part of rst2html.Converter the batch needs.
type htmlConverter interface {
	Convert(ctx context.Context, input rst2html.Input) (*rst2html.Result, error)
}

// Compile-time interface implementation check.
var _ htmlConverter = (*rst2html.Converter)(nil)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	format     rst2html.Format // "" = from extension
	standalone bool
	title      string
	lang       string
	toc        *rst2html.TOC
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Bytes      int
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently with a fixed number of workers
// sharing one converter. Results keep the order of files.
func convertBatch(ctx context.Context, conv htmlConverter, files []FileToConvert, params *conversionParams, workers int, now func() time.Time) []ConversionResult {
	if len(files) == 0 {
		return nil
	}
	workers = max(min(workers, len(files)), 1)

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params, now)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv htmlConverter, f FileToConvert, params *conversionParams, now func() time.Time) ConversionResult {
	start := now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = now().Sub(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadSource, err))
	}

	format := params.format
	if format == "" {
		format, _ = rst2html.FormatForPath(f.InputPath)
	}

	converted, err := conv.Convert(ctx, rst2html.Input{
		Source:     string(content),
		Format:     format,
		Title:      params.title,
		Lang:       params.lang,
		Standalone: params.standalone,
		TOC:        params.toc,
	})
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteHTML, err))
	}
	if err := fileutil.WriteAtomic(f.OutputPath, converted.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteHTML, err))
	}

	result.Bytes = len(converted.HTML)
	result.Duration = now().Sub(start)
	return result
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
	Bytes     int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		summary.Bytes += r.Bytes
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the number
// of failures. Failures are always printed.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, elapsed time.Duration, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			printFailure(env, r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %v)\n", r.InputPath, r.OutputPath,
				humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if quiet {
		return summary.Failed
	}
	if len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}
	if verbose {
		fmt.Fprintf(env.Stdout, "Wrote %s to %s file(s) in %v\n",
			humanize.Bytes(uint64(summary.Bytes)), humanize.Comma(int64(summary.Succeeded)),
			elapsed.Round(time.Millisecond))
	}

	return summary.Failed
}
