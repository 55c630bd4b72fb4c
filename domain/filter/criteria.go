package filter

import (
	"math"
	"sort"
	"strconv"

	"hrpulse/domain/core"
	"hrpulse/domain/dataset"
)

// Range is an inclusive numeric interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether x lies in [Min, Max]
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// Inverted reports a range that can match nothing
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

// Criteria is the set of active predicates, combined with AND. A field that
// has no entry is unconstrained; a categorical entry with no allowed values
// matches nothing.
type Criteria struct {
	Categories map[dataset.Field][]string `json:"categories,omitempty"`
	Ranges     map[dataset.Field]Range    `json:"ranges,omitempty"`
}

// New returns criteria with no constraints
func New() Criteria {
	return Criteria{
		Categories: make(map[dataset.Field][]string),
		Ranges:     make(map[dataset.Field]Range),
	}
}

// WithCategories returns a copy constrained to the allowed values of field
func (c Criteria) WithCategories(field dataset.Field, allowed ...string) Criteria {
	out := c.clone()
	values := make([]string, len(allowed))
	copy(values, allowed)
	out.Categories[field] = values
	return out
}

// WithRange returns a copy constrained to [lo, hi] on field
func (c Criteria) WithRange(field dataset.Field, lo, hi float64) Criteria {
	out := c.clone()
	out.Ranges[field] = Range{Min: lo, Max: hi}
	return out
}

func (c Criteria) clone() Criteria {
	out := New()
	for f, v := range c.Categories {
		out.Categories[f] = v
	}
	for f, r := range c.Ranges {
		out.Ranges[f] = r
	}
	return out
}

// IsEmpty reports whether no predicate is active
func (c Criteria) IsEmpty() bool {
	return len(c.Categories) == 0 && len(c.Ranges) == 0
}

// Validate checks every predicate against the schema
func (c Criteria) Validate(schema dataset.Schema) error {
	for field := range c.Categories {
		col, ok := schema.Lookup(field)
		if !ok {
			return core.NewFieldError(core.ErrUnknownField, string(field))
		}
		if col.Kind != dataset.KindCategorical {
			return core.NewFieldError(core.ErrKindMismatch, string(field)+" is not categorical")
		}
	}
	for field, r := range c.Ranges {
		col, ok := schema.Lookup(field)
		if !ok {
			return core.NewFieldError(core.ErrUnknownField, string(field))
		}
		if col.Kind != dataset.KindNumeric {
			return core.NewFieldError(core.ErrKindMismatch, string(field)+" is not numeric")
		}
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) {
			return core.NewFieldError(core.ErrInvalidRange, string(field))
		}
	}
	return nil
}

// Fingerprint is a deterministic hash of the criteria. Allowed-value order
// and duplicates do not change it.
func (c Criteria) Fingerprint() core.Hash {
	parts := make(map[string][]string, len(c.Categories)+len(c.Ranges))
	for field, allowed := range c.Categories {
		set := make(map[string]bool, len(allowed))
		values := make([]string, 0, len(allowed))
		for _, v := range allowed {
			if !set[v] {
				set[v] = true
				values = append(values, v)
			}
		}
		sort.Strings(values)
		parts["in:"+string(field)] = values
	}
	for field, r := range c.Ranges {
		parts["range:"+string(field)] = []string{
			strconv.FormatFloat(r.Min, 'g', -1, 64),
			strconv.FormatFloat(r.Max, 'g', -1, 64),
		}
	}
	return core.ComputeKeyedHash(parts)
}

// Apply returns the stable subsequence of table records satisfying every
// criterion. It never fails: an empty allowed set, an inverted range or a
// predicate on a field the table lacks all produce an empty view.
func Apply(t *dataset.Table, c Criteria) dataset.View {
	all := t.All()
	if c.IsEmpty() {
		return all
	}

	sets := make(map[dataset.Field]map[string]bool, len(c.Categories))
	for field, allowed := range c.Categories {
		if kind, ok := t.Kind(field); !ok || kind != dataset.KindCategorical || len(allowed) == 0 {
			return dataset.NewView(t, nil)
		}
		set := make(map[string]bool, len(allowed))
		for _, v := range allowed {
			set[v] = true
		}
		sets[field] = set
	}
	for field, r := range c.Ranges {
		if kind, ok := t.Kind(field); !ok || kind != dataset.KindNumeric || r.Inverted() {
			return dataset.NewView(t, nil)
		}
	}

	return all.Where(func(rec dataset.Record) bool {
		for field, set := range sets {
			if !set[rec.Categorical(field)] {
				return false
			}
		}
		for field, r := range c.Ranges {
			if !r.Contains(rec.Numeric(field)) {
				return false
			}
		}
		return true
	})
}
