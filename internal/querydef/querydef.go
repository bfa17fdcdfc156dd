// Package querydef loads YAML query definitions and compiles them into
// frames.
//
// A definition names a source table and a list of steps, each applying one
// frame operation:
//
//	name: adults
//	vars:
//	  min_age: 18
//	from: db.users
//	steps:
//	  - where: col("age").ge(vars["min_age"])
//	  - select: [id, name]
//	  - order_by: [name]
//	  - limit: 10
//
// Items that are valid column names are used as names, digits are
// positions, and anything else is a Starlark expression evaluated with the
// builder bindings.
package querydef

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is one query definition.
type Document struct {
	Name string         `yaml:"name"`
	Vars map[string]any `yaml:"vars,omitempty"`
	// From is the source table. Exactly one of From and Query is set.
	From string `yaml:"from,omitempty"`
	// Query is a nested definition used as the source.
	Query *Document `yaml:"query,omitempty"`
	Alias string    `yaml:"alias,omitempty"`
	Steps []Step    `yaml:"steps,omitempty"`
}

// Step applies one frame operation. Limit may come with Offset and
// GroupBy must come with Agg; otherwise exactly one field is set.
type Step struct {
	Select     []string    `yaml:"select,omitempty"`
	Distinct   bool        `yaml:"distinct,omitempty"`
	Where      string      `yaml:"where,omitempty"`
	GroupBy    []string    `yaml:"group_by,omitempty"`
	Agg        []string    `yaml:"agg,omitempty"`
	Having     string      `yaml:"having,omitempty"`
	Qualify    string      `yaml:"qualify,omitempty"`
	OrderBy    []string    `yaml:"order_by,omitempty"`
	Limit      int         `yaml:"limit,omitempty"`
	Offset     int         `yaml:"offset,omitempty"`
	WithColumn *WithColumn `yaml:"with_column,omitempty"`
	Join       *Join       `yaml:"join,omitempty"`
	Alias      string      `yaml:"alias,omitempty"`

	UnionAll          *Document `yaml:"union_all,omitempty"`
	UnionDistinct     *Document `yaml:"union_distinct,omitempty"`
	IntersectDistinct *Document `yaml:"intersect_distinct,omitempty"`
	ExceptDistinct    *Document `yaml:"except_distinct,omitempty"`
}

// WithColumn adds a computed column.
type WithColumn struct {
	Name string `yaml:"name"`
	Expr string `yaml:"expr"`
}

// Join joins another definition. How defaults to inner.
type Join struct {
	With *Document `yaml:"with"`
	On   string    `yaml:"on,omitempty"`
	How  string    `yaml:"how,omitempty"`
}

// Parse decodes a definition, rejecting unknown fields.
func Parse(data []byte) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query definition: %w", err)
	}
	return &doc, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading user-specified query files
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if doc.Name == "" {
		doc.Name = path
	}
	return doc, nil
}

// Validate checks the shape of d and its nested definitions.
func (d *Document) Validate() error {
	switch {
	case d.From == "" && d.Query == nil:
		return errors.New("one of from or query is required")
	case d.From != "" && d.Query != nil:
		return errors.New("from and query can't both be set")
	}
	if d.Query != nil {
		if err := d.Query.Validate(); err != nil {
			return fmt.Errorf("query: %w", err)
		}
	}
	for i := range d.Steps {
		if err := d.Steps[i].validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	ops := s.operations()
	switch len(ops) {
	case 0:
		return errors.New("no operation")
	case 1:
	default:
		return fmt.Errorf("only one operation per step, got %v", ops)
	}
	if s.Offset != 0 && s.Limit == 0 {
		return errors.New("offset requires limit")
	}
	if s.WithColumn != nil && (s.WithColumn.Name == "" || s.WithColumn.Expr == "") {
		return errors.New("with_column requires name and expr")
	}
	if s.Join != nil {
		if s.Join.With == nil {
			return errors.New("join requires with")
		}
		if err := s.Join.With.Validate(); err != nil {
			return fmt.Errorf("join: %w", err)
		}
	}
	for name, other := range s.setOps() {
		if err := other.Validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// operations names the operations a step sets. group_by and agg count as one.
func (s *Step) operations() []string {
	var ops []string
	add := func(set bool, name string) {
		if set {
			ops = append(ops, name)
		}
	}
	add(len(s.Select) > 0, "select")
	add(s.Distinct, "distinct")
	add(s.Where != "", "where")
	add(len(s.GroupBy) > 0 || len(s.Agg) > 0, "group_by")
	add(s.Having != "", "having")
	add(s.Qualify != "", "qualify")
	add(len(s.OrderBy) > 0, "order_by")
	add(s.Limit != 0, "limit")
	add(s.WithColumn != nil, "with_column")
	add(s.Join != nil, "join")
	add(s.Alias != "", "alias")
	for name := range s.setOps() {
		add(true, name)
	}
	return ops
}

func (s *Step) setOps() map[string]*Document {
	out := make(map[string]*Document)
	if s.UnionAll != nil {
		out["union_all"] = s.UnionAll
	}
	if s.UnionDistinct != nil {
		out["union_distinct"] = s.UnionDistinct
	}
	if s.IntersectDistinct != nil {
		out["intersect_distinct"] = s.IntersectDistinct
	}
	if s.ExceptDistinct != nil {
		out["except_distinct"] = s.ExceptDistinct
	}
	return out
}
