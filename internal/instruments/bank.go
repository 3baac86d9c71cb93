package instruments

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed bank/*.yaml
var bankFS embed.FS

// Registry holds the loaded item banks. It is built once and passed to the
// components that need it; there is no package-level instance.
type Registry struct {
	byID map[ID]*Instrument
}

// NewRegistry loads and validates every embedded item bank.
func NewRegistry() (*Registry, error) {
	r := &Registry{byID: make(map[ID]*Instrument, len(Order))}

	for _, id := range Order {
		data, err := bankFS.ReadFile("bank/" + string(id) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("reading item bank %s: %w", id, err)
		}

		var in Instrument
		if err := yaml.Unmarshal(data, &in); err != nil {
			return nil, fmt.Errorf("parsing item bank %s: %w", id, err)
		}
		if in.ID != id {
			return nil, fmt.Errorf("item bank %s declares id %q", id, in.ID)
		}
		if err := validateInstrument(&in); err != nil {
			return nil, fmt.Errorf("item bank %s: %w", id, err)
		}
		r.byID[id] = &in
	}

	return r, nil
}

// Get returns the instrument with the given id.
func (r *Registry) Get(id ID) (*Instrument, error) {
	in, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, id)
	}
	return in, nil
}

// All returns every instrument in canonical order.
func (r *Registry) All() []*Instrument {
	out := make([]*Instrument, 0, len(Order))
	for _, id := range Order {
		if in, ok := r.byID[id]; ok {
			out = append(out, in)
		}
	}
	return out
}

// validateInstrument checks the structural rules every bank must satisfy:
// a sane scale, a neutral default inside it, unique item ids and every
// item tagged with a declared tag.
func validateInstrument(in *Instrument) error {
	if in.ScaleMin < 1 || in.ScaleMax <= in.ScaleMin {
		return fmt.Errorf("invalid scale [%d, %d]", in.ScaleMin, in.ScaleMax)
	}
	if in.Neutral < float64(in.ScaleMin) || in.Neutral > float64(in.ScaleMax) {
		return fmt.Errorf("neutral default %.2f outside scale [%d, %d]", in.Neutral, in.ScaleMin, in.ScaleMax)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("no items")
	}

	declared := make(map[Tag]bool, len(in.Tags))
	for _, t := range in.Tags {
		declared[t] = true
	}

	seen := make(map[string]bool, len(in.Items))
	used := make(map[Tag]bool, len(in.Tags))
	for _, it := range in.Items {
		if it.ID == "" {
			return fmt.Errorf("item with empty id")
		}
		if seen[it.ID] {
			return fmt.Errorf("duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if !declared[it.Tag] {
			return fmt.Errorf("item %s uses undeclared tag %q", it.ID, it.Tag)
		}
		used[it.Tag] = true
	}

	var unused []string
	for _, t := range in.Tags {
		if !used[t] {
			unused = append(unused, string(t))
		}
	}
	if len(unused) > 0 {
		sort.Strings(unused)
		return fmt.Errorf("declared tags without items: %v", unused)
	}
	return nil
}
