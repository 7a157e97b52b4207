package cstruct

import "github.com/creachadair/mds/mapset"

// Schema records the field names a Struct or Union knows about, and
// validates that a pack() input map names only those fields. Per-field
// value shape and range checks are left to each slot's own descriptor,
// which runs with validation enabled exactly once, at the top of the
// outermost pack call.
type Schema struct {
	known mapset.Set[string]
	order []string
}

func newSchema(names []string) *Schema {
	return &Schema{
		known: mapset.New(names...),
		order: append([]string(nil), names...),
	}
}

// Names returns the schema's field names in declaration order.
func (sc *Schema) Names() []string { return append([]string(nil), sc.order...) }

// Validate rejects any key in value that isn't one of the schema's
// known names.
func (sc *Schema) Validate(value map[string]any) error {
	for k := range value {
		if !sc.known.Has(k) {
			return &UnknownKeyError{Key: k}
		}
	}
	return nil
}
