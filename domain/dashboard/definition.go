package dashboard

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"hrpulse/domain/core"
	"hrpulse/domain/dataset"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Kind selects the aggregation behind a chart
type Kind string

const (
	KindPie              Kind = "pie"
	KindCount            Kind = "count"
	KindHistogram        Kind = "histogram"
	KindProportion       Kind = "proportion"
	KindConditionalCount Kind = "conditional_count"
	KindBreakdown        Kind = "breakdown"
	KindBox              Kind = "box"
	KindViolin           Kind = "violin"
	KindGroupedBars      Kind = "grouped_bars"
	KindHeatmap          Kind = "heatmap"
	KindScatter          Kind = "scatter"
)

// Predicate restricts a conditional chart to rows where Field equals Equals
type Predicate struct {
	Field  dataset.Field `yaml:"field" json:"field"`
	Equals string        `yaml:"equals" json:"equals"`
}

// Chart declares one panel. Which field roles are used depends on Kind.
type Chart struct {
	ID      core.ChartID `yaml:"id" json:"id"`
	Title   string       `yaml:"title" json:"title"`
	Caption string       `yaml:"caption" json:"caption"`
	Kind    Kind         `yaml:"kind" json:"kind"`

	Field     dataset.Field   `yaml:"field,omitempty" json:"field,omitempty"`
	Group     dataset.Field   `yaml:"group,omitempty" json:"group,omitempty"`
	Outcome   dataset.Field   `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Primary   dataset.Field   `yaml:"primary,omitempty" json:"primary,omitempty"`
	Secondary dataset.Field   `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Value     dataset.Field   `yaml:"value,omitempty" json:"value,omitempty"`
	Color     dataset.Field   `yaml:"color,omitempty" json:"color,omitempty"`
	X         dataset.Field   `yaml:"x,omitempty" json:"x,omitempty"`
	Y         dataset.Field   `yaml:"y,omitempty" json:"y,omitempty"`
	Exclude   []dataset.Field `yaml:"exclude,omitempty" json:"exclude,omitempty"`
	Where     *Predicate      `yaml:"where,omitempty" json:"where,omitempty"`
	Bins      int             `yaml:"bins,omitempty" json:"bins,omitempty"`
	Trend     bool            `yaml:"trend,omitempty" json:"trend,omitempty"`
}

// Tab groups charts under a heading
type Tab struct {
	Name   string  `yaml:"name" json:"name"`
	Charts []Chart `yaml:"charts" json:"charts"`
}

// Definition is the full chart battery
type Definition struct {
	Title  string `yaml:"title" json:"title"`
	Intro  string `yaml:"intro" json:"intro"`
	Footer string `yaml:"footer" json:"footer"`
	Tabs   []Tab  `yaml:"tabs" json:"tabs"`
}

// Default returns the built-in dashboard
func Default() *Definition {
	def, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("dashboard: embedded definition: %v", err))
	}
	return def
}

// Load reads a definition from path, or the built-in one when path is empty
func Load(path string) (*Definition, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML definition
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidChart, err)
	}
	return &def, nil
}

// Charts lists every chart in tab order
func (d *Definition) Charts() []Chart {
	var out []Chart
	for _, tab := range d.Tabs {
		out = append(out, tab.Charts...)
	}
	return out
}

// Chart finds a chart by ID
func (d *Definition) Chart(id core.ChartID) (Chart, bool) {
	for _, tab := range d.Tabs {
		for _, c := range tab.Charts {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Chart{}, false
}

// Validate checks every chart against the schema: IDs are unique, each kind
// has the field roles it needs and every field exists with the right kind.
func (d *Definition) Validate(schema dataset.Schema) error {
	if len(d.Tabs) == 0 {
		return fmt.Errorf("%w: no tabs", core.ErrInvalidChart)
	}
	seen := make(map[core.ChartID]bool)
	var errs []error
	for _, tab := range d.Tabs {
		for _, c := range tab.Charts {
			if c.ID == "" {
				errs = append(errs, fmt.Errorf("%w: chart %q in tab %q has no id", core.ErrInvalidChart, c.Title, tab.Name))
				continue
			}
			if seen[c.ID] {
				errs = append(errs, fmt.Errorf("%w: duplicate chart id %s", core.ErrInvalidChart, c.ID))
			}
			seen[c.ID] = true
			if err := c.validate(schema); err != nil {
				errs = append(errs, fmt.Errorf("chart %s: %w", c.ID, err))
			}
		}
	}
	return errors.Join(errs...)
}

type role struct {
	name  string
	field dataset.Field
	kind  dataset.Kind
}

func (c Chart) roles() ([]role, error) {
	cat, num := dataset.KindCategorical, dataset.KindNumeric
	switch c.Kind {
	case KindPie, KindCount:
		return []role{{"field", c.Field, cat}}, nil
	case KindHistogram:
		return []role{{"field", c.Field, num}}, nil
	case KindProportion:
		return []role{{"group", c.Group, cat}, {"outcome", c.Outcome, cat}}, nil
	case KindConditionalCount:
		return []role{{"field", c.Field, cat}}, nil
	case KindBreakdown:
		return []role{{"primary", c.Primary, cat}, {"secondary", c.Secondary, cat}}, nil
	case KindBox, KindViolin:
		return []role{{"value", c.Value, num}, {"group", c.Group, cat}, {"secondary", c.Secondary, cat}}, nil
	case KindGroupedBars:
		return []role{{"value", c.Value, num}, {"color", c.Color, cat}}, nil
	case KindHeatmap:
		return nil, nil
	case KindScatter:
		roles := []role{{"x", c.X, num}, {"y", c.Y, num}}
		if c.Color != "" {
			roles = append(roles, role{"color", c.Color, cat})
		}
		return roles, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", core.ErrInvalidChart, c.Kind)
}

func (c Chart) validate(schema dataset.Schema) error {
	roles, err := c.roles()
	if err != nil {
		return err
	}
	switch c.Kind {
	case KindConditionalCount, KindBreakdown:
		if c.Where == nil {
			return fmt.Errorf("%w: %s needs a where predicate", core.ErrInvalidChart, c.Kind)
		}
		roles = append(roles, role{"where", c.Where.Field, dataset.KindCategorical})
	}
	if c.Bins < 0 {
		return fmt.Errorf("%w: negative bins", core.ErrInvalidChart)
	}

	for _, r := range roles {
		if r.field == "" {
			return fmt.Errorf("%w: %s needs %s", core.ErrInvalidChart, c.Kind, r.name)
		}
		col, ok := schema.Lookup(r.field)
		if !ok {
			return core.NewFieldError(core.ErrUnknownField, string(r.field))
		}
		if col.Kind != r.kind {
			return core.NewFieldError(core.ErrKindMismatch, fmt.Sprintf("%s (%s)", r.field, r.name))
		}
	}
	for _, f := range c.Exclude {
		if _, ok := schema.Lookup(f); !ok {
			return core.NewFieldError(core.ErrUnknownField, string(f))
		}
	}
	return nil
}
