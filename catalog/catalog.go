// Package catalog describes the columns a report can show. Fields name source
// columns, concepts group fields under one formatter per format, and
// perspectives order concepts into a report. A perspective compiles into the
// instructions the formatting engine consumes.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bjaus/colfmt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalid  = errors.New("invalid catalog")
	ErrNotFound = errors.New("not found")
)

// Category groups fields and concepts for display.
type Category struct {
	Name  string  `yaml:"name"`
	Order float64 `yaml:"order"`
}

// Field describes one source column, identified by app, model and column.
type Field struct {
	App         string `yaml:"app"`
	Model       string `yaml:"model"`
	Column      string `yaml:"column"`
	Name        string `yaml:"name,omitempty"`
	NamePlural  string `yaml:"name_plural,omitempty"`
	Description string `yaml:"description,omitempty"`
	Category    string `yaml:"category,omitempty"`
}

// ID returns "app.model.column".
func (f Field) ID() string {
	return f.App + "." + f.Model + "." + f.Column
}

// Concept is a reportable column made of one or more fields. Formatters maps
// a format name to the formatter applied to the concept's fields; formats
// without an entry use Pass.
type Concept struct {
	ID          string            `yaml:"id"`
	Name        string            `yaml:"name,omitempty"`
	Description string            `yaml:"description,omitempty"`
	Category    string            `yaml:"category,omitempty"`
	Fields      []string          `yaml:"fields"`
	Formatters  map[string]string `yaml:"formatters,omitempty"`
	Labels      []string          `yaml:"labels,omitempty"`
}

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Column places a concept in a perspective.
type Column struct {
	Concept string `yaml:"concept"`
	Sort    string `yaml:"sort,omitempty"`
}

// Perspective is an ordered selection of concepts.
type Perspective struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Columns     []Column `yaml:"columns"`
}

// Catalog holds the report metadata. Use Load or LoadFile to build one; the
// zero value is empty.
type Catalog struct {
	Categories   []Category    `yaml:"categories,omitempty"`
	Fields       []Field       `yaml:"fields"`
	Concepts     []Concept     `yaml:"concepts"`
	Perspectives []Perspective `yaml:"perspectives,omitempty"`

	fields       map[string]*Field
	concepts     map[string]*Concept
	perspectives map[string]*Perspective
}

// Load decodes a YAML catalog, fills in default field names and validates it.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile loads the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DefaultName turns a column name such as "first_name" into "First Name".
func DefaultName(column string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(column))
	// Casers are stateful.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

func (c *Catalog) applyDefaults() {
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Name == "" {
			f.Name = DefaultName(f.Column)
		}
		if f.NamePlural == "" {
			f.NamePlural = f.Name + "s"
		}
	}
	for i := range c.Concepts {
		if c.Concepts[i].Name == "" {
			c.Concepts[i].Name = DefaultName(c.Concepts[i].ID)
		}
	}
}

// Validate checks the catalog for duplicate identifiers and dangling
// references, and indexes it. Every problem found is reported.
func (c *Catalog) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			invalid("category without a name")
			continue
		}
		if categories[cat.Name] {
			invalid("duplicate category %q", cat.Name)
		}
		categories[cat.Name] = true
	}
	checkCategory := func(kind, id, name string) {
		if name != "" && !categories[name] {
			invalid("%s %q: unknown category %q", kind, id, name)
		}
	}

	c.fields = make(map[string]*Field, len(c.Fields))
	for i := range c.Fields {
		f := &c.Fields[i]
		if f.App == "" || f.Model == "" || f.Column == "" {
			invalid("field %q: app, model and column are required", f.ID())
			continue
		}
		if _, ok := c.fields[f.ID()]; ok {
			invalid("duplicate field %q", f.ID())
		}
		c.fields[f.ID()] = f
		checkCategory("field", f.ID(), f.Category)
	}

	c.concepts = make(map[string]*Concept, len(c.Concepts))
	for i := range c.Concepts {
		cn := &c.Concepts[i]
		if cn.ID == "" {
			invalid("concept without an id")
			continue
		}
		if _, ok := c.concepts[cn.ID]; ok {
			invalid("duplicate concept %q", cn.ID)
		}
		c.concepts[cn.ID] = cn
		checkCategory("concept", cn.ID, cn.Category)
		if len(cn.Fields) == 0 {
			invalid("concept %q has no fields", cn.ID)
		}
		for _, id := range cn.Fields {
			if _, ok := c.fields[id]; !ok {
				invalid("concept %q: unknown field %q", cn.ID, id)
			}
		}
		for format, name := range cn.Formatters {
			if _, err := colfmt.ParseFormat(format); err != nil {
				invalid("concept %q: %s", cn.ID, err)
			}
			if strings.TrimSpace(name) == "" {
				invalid("concept %q: empty formatter for %q", cn.ID, format)
			}
		}
	}

	c.perspectives = make(map[string]*Perspective, len(c.Perspectives))
	for i := range c.Perspectives {
		p := &c.Perspectives[i]
		if p.Name == "" {
			invalid("perspective without a name")
			continue
		}
		if _, ok := c.perspectives[p.Name]; ok {
			invalid("duplicate perspective %q", p.Name)
		}
		c.perspectives[p.Name] = p
		if len(p.Columns) == 0 {
			invalid("perspective %q has no columns", p.Name)
		}
		var fields []Field
		for _, col := range p.Columns {
			cn, ok := c.concepts[col.Concept]
			if !ok {
				invalid("perspective %q: unknown concept %q", p.Name, col.Concept)
			} else {
				for _, id := range cn.Fields {
					if f, ok := c.fields[id]; ok {
						fields = append(fields, *f)
					}
				}
			}
			switch col.Sort {
			case "", Asc, Desc:
			default:
				invalid("perspective %q: concept %q: sort must be %q or %q, got %q", p.Name, col.Concept, Asc, Desc, col.Sort)
			}
		}
		if err := checkColumns(fields); err != nil {
			errs = append(errs, fmt.Errorf("perspective %q: %w", p.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Field returns the field with the given id.
func (c *Catalog) Field(id string) (Field, bool) {
	f, ok := c.fields[id]
	if !ok {
		return Field{}, false
	}
	return *f, true
}

// Concept returns the concept with the given id.
func (c *Catalog) Concept(id string) (Concept, bool) {
	cn, ok := c.concepts[id]
	if !ok {
		return Concept{}, false
	}
	return *cn, true
}

// Perspective returns the perspective with the given name.
func (c *Catalog) Perspective(name string) (Perspective, bool) {
	p, ok := c.perspectives[name]
	if !ok {
		return Perspective{}, false
	}
	return *p, true
}

// SortedCategories returns the categories ordered by Order, then Name.
func (c *Catalog) SortedCategories() []Category {
	out := make([]Category, len(c.Categories))
	copy(out, c.Categories)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}
