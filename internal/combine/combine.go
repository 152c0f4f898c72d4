// internal/combine/combine.go
// Package combine parses the combination specification mapping output table
// names to the annotation columns their counts are grouped by. The reserved
// name "taxonomy" carries a nested form with a list of ranks and optional
// sub-combinations. YAML and the original inline-JSON flow syntax both parse.
package combine

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultLevels is used when a taxonomy request omits its "levels" list.
var DefaultLevels = []string{"species"}

// Request is one named aggregation request; it is either a Simple or a
// Taxonomy value.
type Request interface {
	TableName() string
}

// Simple groups counts by a flat list of annotation columns.
type Simple struct {
	Name    string
	Columns []string
}

func (s Simple) TableName() string { return s.Name }

// Taxonomy groups counts by truncated lineage, once per requested rank, with
// optional sub-combinations pairing other columns with the lineage.
type Taxonomy struct {
	Name   string
	Levels []string
	Subs   []Simple
}

func (t Taxonomy) TableName() string { return t.Name }

// Spec is the parsed combination specification, in request order.
type Spec struct {
	Requests []Request
}

// Load reads a spec from arg: "@path" loads the named file, anything else is
// parsed as an inline document.
func Load(arg string) (Spec, error) {
	data := []byte(arg)
	if strings.HasPrefix(arg, "@") {
		var err error
		data, err = os.ReadFile(arg[1:])
		if err != nil {
			return Spec{}, errors.Wrap(err, "combinations spec")
		}
	}
	return Parse(data)
}

// Parse decodes a combination document. Any structural problem is an error:
// there is nothing to aggregate without a valid spec.
func Parse(data []byte) (Spec, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Spec{}, errors.Wrap(err, "combinations spec is not valid JSON/YAML")
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Spec{}, errors.New("combinations spec is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Spec{}, errors.New("combinations spec must map table names to column lists")
	}

	var spec Spec
	for i := 0; i < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		name := k.Value
		if strings.EqualFold(name, "taxonomy") {
			req, err := parseTaxonomy(name, v)
			if err != nil {
				return Spec{}, err
			}
			spec.Requests = append(spec.Requests, req)
			continue
		}
		cols, err := stringList(v)
		if err != nil {
			return Spec{}, errors.Wrapf(err, "combination %q", name)
		}
		spec.Requests = append(spec.Requests, Simple{Name: name, Columns: cols})
	}
	return spec, nil
}

func parseTaxonomy(name string, v *yaml.Node) (Taxonomy, error) {
	if v.Kind != yaml.MappingNode {
		return Taxonomy{}, errors.Errorf("combination %q must be a mapping with a %q list", name, "levels")
	}
	req := Taxonomy{Name: name}
	for i := 0; i < len(v.Content); i += 2 {
		k, sub := v.Content[i], v.Content[i+1]
		if strings.EqualFold(k.Value, "levels") {
			levels, err := stringList(sub)
			if err != nil {
				return Taxonomy{}, errors.Wrapf(err, "%s levels", name)
			}
			req.Levels = levels
			continue
		}
		cols, err := stringList(sub)
		if err != nil {
			return Taxonomy{}, errors.Wrapf(err, "sub-combination %q", k.Value)
		}
		req.Subs = append(req.Subs, Simple{Name: k.Value, Columns: cols})
	}
	if len(req.Levels) == 0 {
		req.Levels = append([]string(nil), DefaultLevels...)
	}
	return req, nil
}

func stringList(v *yaml.Node) ([]string, error) {
	if v.Kind != yaml.SequenceNode {
		return nil, errors.New("expected a list of column names")
	}
	var out []string
	if err := v.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
