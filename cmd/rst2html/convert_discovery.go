package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	rst2html "github.com/alnah/go-rst2html"
	"github.com/alnah/go-rst2html/internal/fileutil"
)

// htmlExtension is the extension of every output file.
const htmlExtension = ".html"

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds the source files to convert. A file argument must
// have a source extension; a directory is walked recursively, skipping
// hidden directories and .txt files.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if _, ok := rst2html.FormatForPath(inputPath); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, inputPath)
		}
		outPath := resolveOutputPath(inputPath, outputDir, "")
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isDirectorySource(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})

	return files, err
}

// isDirectorySource reports whether a file found while walking a directory
// is converted. Plain .txt files are only converted when named explicitly.
func isDirectorySource(path string) bool {
	if fileutil.HasExtension(path, ".txt") {
		return false
	}
	_, ok := rst2html.FormatForPath(path)
	return ok
}

// resolveOutputPath determines the HTML output path for a source file.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+htmlExtension)
	}

	if baseInputDir == "" && fileutil.HasExtension(outputDir, htmlExtension) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+htmlExtension)
		}
	}

	return filepath.Join(outputDir, base+htmlExtension)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > rst2html.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, rst2html.MaxWorkers)
	}
	return nil
}
