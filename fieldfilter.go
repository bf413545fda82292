package dmodel

// FieldFilter decides whether a field participates in an encode pass.
// Returning false skips the field entirely, as if it held no data.
type FieldFilter func(f *Field) bool

// Combine ANDs filters together; a nil result (no filters) always
// passes everything.
func (f FieldFilter) Combine(other FieldFilter) FieldFilter {
	if f == nil {
		return other
	}
	if other == nil {
		return f
	}
	return func(fld *Field) bool { return f(fld) && other(fld) }
}

func (f FieldFilter) allows(fld *Field) bool {
	return f == nil || f(fld)
}

// excludeByName builds a filter that drops a single named field; used to
// suppress a child's oid field when it is encoded as an IdMap key.
func excludeByName(name string) FieldFilter {
	return func(f *Field) bool { return f.Name != name }
}

// fieldsSubset builds a filter admitting only the named fields; used by
// Pack's top-level "fields" option.
func fieldsSubset(names []string) FieldFilter {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(f *Field) bool { _, ok := set[f.Name]; return ok }
}
