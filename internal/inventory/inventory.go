// Package inventory resolves cross-reference roles against a YAML link table.
//
// A table maps role references to URLs in two ways: explicit entries for
// individual names and per-role URL templates:
//
//	templates:
//	  class: https://docs.example.com/api/{value}.html
//	entries:
//	  - role: func
//	    name: load
//	    href: https://docs.example.com/api/io.html#load
//	    text: load()
//
// References follow the usual docstring conventions. A domain prefix such
// as "py:class" falls back to the bare role "class". A value starting with
// "~" is labelled with its last dotted component only, and a value starting
// with "!" is never linked.
package inventory

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/alnah/go-rst2html/internal/pipeline"
	"github.com/alnah/go-rst2html/internal/yamlutil"
)

// Placeholder is replaced by the role value in templates.
const Placeholder = "{value}"

// ErrInventory indicates a link table could not be loaded or is invalid.
var ErrInventory = errors.New("invalid role inventory")

var roleName = regexp.MustCompile(`^[\w:]+$`)

func init() {
	validation.ErrorTag = "yaml"
}

// Entry links one role value to a URL.
type Entry struct {
	Role string `yaml:"role"`
	Name string `yaml:"name"`
	Href string `yaml:"href"`
	Text string `yaml:"text,omitempty"`
}

// Validate implements validation.Validatable.
func (e Entry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Role, validation.Required, validation.Match(roleName)),
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Href, validation.Required),
	)
}

// Inventory is a link table. It implements pipeline.RoleResolver and is
// safe for concurrent use once loaded.
type Inventory struct {
	Templates map[string]string `yaml:"templates"`
	Entries   []Entry           `yaml:"entries"`

	index map[string]Entry
}

// Validate checks every entry and template.
func (inv *Inventory) Validate() error {
	err := validation.ValidateStruct(inv,
		validation.Field(&inv.Entries),
		validation.Field(&inv.Templates, validation.Each(validation.Required, validation.By(hasPlaceholder))),
	)
	errs := validation.Errors{}
	if err != nil {
		var ve validation.Errors
		if !errors.As(err, &ve) {
			return err
		}
		errs = ve
	}
	for role := range inv.Templates {
		if !roleName.MatchString(role) {
			errs["templates."+role] = validation.NewError("inventory.template_role_invalid", "role names may only contain letters, digits, '_' and ':'")
		}
	}
	seen := make(map[string]bool, len(inv.Entries))
	for i, e := range inv.Entries {
		k := key(e.Role, e.Name)
		if seen[k] {
			errs[fmt.Sprintf("entries.%d", i)] = validation.NewError("inventory.entry_duplicate", fmt.Sprintf("duplicate entry %s:%s", e.Role, e.Name))
		}
		seen[k] = true
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func hasPlaceholder(value any) error {
	s, _ := value.(string)
	if !strings.Contains(s, Placeholder) {
		return validation.NewError("inventory.template_placeholder", "template must contain "+Placeholder)
	}
	return nil
}

// New builds an inventory from in-memory data.
func New(templates map[string]string, entries []Entry) (*Inventory, error) {
	inv := &Inventory{Templates: templates, Entries: entries}
	if err := inv.prepare(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Parse decodes a YAML link table.
func Parse(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yamlutil.UnmarshalStrict(data, &inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInventory, err)
	}
	if err := inv.prepare(); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Load reads and parses the link table at path.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided inventory path
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInventory, path, err)
	}
	inv, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return inv, nil
}

func (inv *Inventory) prepare() error {
	if err := inv.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInventory, err)
	}
	inv.index = make(map[string]Entry, len(inv.Entries))
	for _, e := range inv.Entries {
		inv.index[key(e.Role, e.Name)] = e
	}
	return nil
}

// Len returns the number of explicit entries.
func (inv *Inventory) Len() int {
	return len(inv.Entries)
}

// ResolveRole implements pipeline.RoleResolver.
func (inv *Inventory) ResolveRole(role, value string) *pipeline.RoleTarget {
	ref := parseReference(value)
	if ref.name == "" {
		return nil
	}
	if ref.suppress {
		return &pipeline.RoleTarget{Text: ref.label}
	}

	roles := candidateRoles(role)
	for _, r := range roles {
		if e, ok := inv.index[key(r, ref.name)]; ok {
			text := e.Text
			if text == "" || ref.short {
				text = ref.label
			}
			return &pipeline.RoleTarget{Href: e.Href, Text: text}
		}
	}
	for _, r := range roles {
		if tmpl, ok := inv.Templates[r]; ok {
			href := strings.ReplaceAll(tmpl, Placeholder, url.PathEscape(ref.name))
			return &pipeline.RoleTarget{Href: href, Text: ref.label}
		}
	}
	return nil
}

type reference struct {
	name     string
	label    string
	short    bool
	suppress bool
}

// parseReference strips the "~" and "!" markers from value.
func parseReference(value string) reference {
	var ref reference
	for value != "" && (value[0] == '!' || value[0] == '~') {
		if value[0] == '!' {
			ref.suppress = true
		} else {
			ref.short = true
		}
		value = value[1:]
	}
	ref.name = value
	ref.label = value
	if ref.short {
		if i := strings.LastIndex(value, "."); i >= 0 && i < len(value)-1 {
			ref.label = value[i+1:]
		}
	}
	return ref
}

// candidateRoles returns role followed by its name without a domain prefix.
func candidateRoles(role string) []string {
	if i := strings.LastIndex(role, ":"); i >= 0 && i < len(role)-1 {
		return []string{role, role[i+1:]}
	}
	return []string{role}
}

func key(role, name string) string {
	return role + "\x00" + name
}
