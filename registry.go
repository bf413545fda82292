package dmodel

// RecordBuilder assembles a record type's FieldsDefine at package-init
// time, the explicit build-time stand-in for the source's metaclass
// registration (spec §9 "Metaclass-driven schema → build-time
// registrar").
type RecordBuilder struct {
	name      string
	own       []*Field
	ancestors []*FieldsDefine
	strict    bool
}

// NewRecordBuilder starts a builder for a record type named name (used
// in error messages and as the default debug label).
func NewRecordBuilder(name string) *RecordBuilder {
	return &RecordBuilder{name: name}
}

// Extend merges in the field table of a parent record type, depth-first
// first-match-wins on name collisions (spec §4.2 step 1).
func (b *RecordBuilder) Extend(parent *FieldsDefine) *RecordBuilder {
	b.ancestors = append(b.ancestors, parent)
	return b
}

// Field adds one field declaration, typically built with ScalarField /
// ArrayField / MapField / IdMapField / RefField.
func (b *RecordBuilder) Field(f *Field) *RecordBuilder {
	b.own = append(b.own, f)
	return b
}

// StrictSetData makes this record type's Instance.SetData reject unknown
// field names with a KindNoField error, instead of the default lenient
// behavior of silently ignoring them.
func (b *RecordBuilder) StrictSetData() *RecordBuilder {
	b.strict = true
	return b
}

// Build validates and compiles the accumulated declarations into a
// FieldsDefine. Panics with a *Error{Kind: KindDefine} on a duplicate
// field name or index, matching the source's raise-during-class-body
// behavior; per-field checks already panic in ScalarField and the other
// field constructors.
func (b *RecordBuilder) Build() *FieldsDefine {
	fd := newFieldsDefine(b.name, b.own, b.ancestors...)
	fd.strictSetData = b.strict
	return fd
}

// NewRecord default-constructs r: binds its schema and gives it an empty
// values map and DirtySet. Call once from each record type's exported
// constructor, e.g.:
//
//	func NewPoint() *Point {
//	    p := &Point{}
//	    dmodel.NewRecord(p)
//	    return p
//	}
func NewRecord(r Record) {
	*r.inst() = newInstance(r.FieldsDefine())
}
