// Package treeschema validates serialized document trees against an
// embedded JSON Schema.
package treeschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/alnah/go-rst2html/internal/pipeline"
)

const schemaURL = "tree.schema.json"

//go:embed tree.schema.json
var schemaSource []byte

// ErrTreeInvalid indicates a tree does not conform to the schema.
var ErrTreeInvalid = errors.New("document tree does not match schema")

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every violation found in a tree.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "/"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return ErrTreeInvalid.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrTreeInvalid
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaSource)); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = compiler.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Source returns the schema document.
func Source() []byte {
	return bytes.Clone(schemaSource)
}

// Validate checks v, a tree decoded from JSON with encoding/json, against
// the schema. Violations are returned as a *ValidationError.
func Validate(v any) error {
	s, err := schema()
	if err != nil {
		return fmt.Errorf("compiling tree schema: %w", err)
	}
	if err := s.Validate(v); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &ValidationError{Issues: collectIssues(verr)}
		}
		return fmt.Errorf("%w: %v", ErrTreeInvalid, err)
	}
	return nil
}

// ValidateJSON decodes data and validates it.
func ValidateJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("%w: %v", ErrTreeInvalid, err)
	}
	return Validate(v)
}

// ValidateDocument serializes doc to JSON and validates the result.
func ValidateDocument(doc *pipeline.Document) error {
	data, err := json.Marshal(pipeline.EncodeTree(doc))
	if err != nil {
		return fmt.Errorf("encoding tree: %w", err)
	}
	return ValidateJSON(data)
}

// collectIssues flattens the error tree to its leaves.
func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
