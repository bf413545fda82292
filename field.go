package dmodel

import "fmt"

// maxFieldIndex is the largest index a field may declare: 65535, the
// largest value of the uint16 field-index prefix.
const maxFieldIndex = 1<<16 - 1

// Protocol is implemented by every generated record type, binding it to
// its compiled field table. Each record type implements it by returning
// a package-level *FieldsDefine built once at package-init time with
// RecordBuilder, mirroring the original's metaclass registration.
type Protocol interface {
	FieldsDefine() *FieldsDefine
}

// Field is the immutable, precomputed metadata for one declared field of
// a record type (spec §4.2). It never changes after registration.
type Field struct {
	Index     FieldIndex
	Name      string
	Key       string // storage slot name, "_" + Name
	Kind      ValueKind
	Container ContainerKind
	KeyKind   ValueKind // key kind for map fields; id_map keys use the element's oid kind

	Default     any
	MinValue    *int64
	Arithm      bool
	Unsigned    bool
	Ref         bool
	SkipChanged bool

	// RefTarget is the Protocol of the record type this ref field (or
	// this container's ref elements) points to; its oid field supplies
	// the ref codec. Also set on id_map fields, where the element type's
	// oid field supplies the key codec. Nil for all other fields.
	RefTarget Protocol

	// Create holds the factory given with WithCreate. The decoders do
	// not call it: they always build new sub-records with NewElem.
	Create func(map[string]any) any

	// NewElem constructs a fresh zero-value Record for this field (or,
	// for a container field, one element of it) when the decoder needs
	// to build a new instance in place of the source's default
	// construction. Set for sub-record, array/map-of-record, and
	// id_map fields; unused for ref fields (which decode only an oid)
	// and scalar fields.
	NewElem func() Record

	Desc  string
	Extra map[string]any // unrecognized options, retained verbatim
}

// FieldOption configures a Field at declaration time, passed to
// ScalarField and the other field constructors.
type FieldOption func(*Field)

func WithDefault(v any) FieldOption { return func(f *Field) { f.Default = v } }

func WithMinValue(v int64) FieldOption {
	return func(f *Field) { f.MinValue = &v }
}

func WithArithm() FieldOption { return func(f *Field) { f.Arithm = true } }

func WithRef(target Protocol) FieldOption {
	return func(f *Field) {
		f.Ref = true
		f.RefTarget = target
	}
}

func WithSkipChanged() FieldOption { return func(f *Field) { f.SkipChanged = true } }

func WithCreate(fn func(map[string]any) any) FieldOption {
	return func(f *Field) { f.Create = fn }
}

func WithDesc(s string) FieldOption { return func(f *Field) { f.Desc = s } }

func WithExtra(key string, v any) FieldOption {
	return func(f *Field) {
		if f.Extra == nil {
			f.Extra = map[string]any{}
		}
		f.Extra[key] = v
	}
}

// newField builds and validates one Field per spec §4.2 step 2-3.
func newField(record, name string, index FieldIndex, kind ValueKind, container ContainerKind, keyKind ValueKind, opts ...FieldOption) *Field {
	if index == 0 || int(index) > maxFieldIndex {
		panic(defineErrf(record, name, "field index %d out of range (0, %d]", index, maxFieldIndex))
	}
	if container == ContainerMap && keyKind == KindInvalid {
		panic(defineErrf(record, name, "map field requires a key type"))
	}
	f := &Field{
		Index:     index,
		Name:      name,
		Key:       "_" + name,
		Kind:      kind,
		Container: container,
		KeyKind:   keyKind,
		Unsigned:  kind.IsUnsigned(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.Default == nil && container == ContainerNone && !f.Ref {
		f.Default = kind.ZeroValue()
	}
	if f.Ref && f.RefTarget == nil {
		panic(defineErrf(record, name, "ref field requires a target record type"))
	}
	if f.Ref && container == ContainerNone && kind != KindInvalid {
		panic(defineErrf(record, name, "ref field must not also declare a scalar kind"))
	}
	if f.Arithm && !kind.IsInteger() {
		panic(defineErrf(record, name, "arithm requires an integer type, got %s", kind))
	}
	if f.MinValue != nil && !kind.IsInteger() {
		panic(defineErrf(record, name, "min_value requires an integer type, got %s", kind))
	}
	return f
}

// ScalarField declares a plain value field of the given primitive kind.
func ScalarField(record, name string, index FieldIndex, kind ValueKind, opts ...FieldOption) *Field {
	return newField(record, name, index, kind, ContainerNone, KindInvalid, opts...)
}

// RefField declares a non-owning reference to another record, encoded as
// the target's oid.
func RefField(record, name string, index FieldIndex, target Protocol, opts ...FieldOption) *Field {
	opts = append([]FieldOption{WithRef(target)}, opts...)
	return newField(record, name, index, KindInvalid, ContainerNone, KindInvalid, opts...)
}

// RecordField declares a nested, owned sub-record field (not a ref):
// the value is always fully encoded in place, factory constructs a
// fresh instance when the decoder needs one.
func RecordField(record, name string, index FieldIndex, factory func() Record, opts ...FieldOption) *Field {
	f := newField(record, name, index, KindInvalid, ContainerNone, KindInvalid, opts...)
	f.NewElem = factory
	return f
}

// ArrayField declares an ordered-sequence field of the given primitive
// element kind — use ArrayOfRecordsField / ArrayOfRefsField for
// record/ref elements.
func ArrayField(record, name string, index FieldIndex, elemKind ValueKind, opts ...FieldOption) *Field {
	return newField(record, name, index, elemKind, ContainerArray, KindInvalid, opts...)
}

// ArrayOfRecordsField declares an ordered sequence of owned sub-records.
func ArrayOfRecordsField(record, name string, index FieldIndex, factory func() Record, opts ...FieldOption) *Field {
	f := newField(record, name, index, KindInvalid, ContainerArray, KindInvalid, opts...)
	f.NewElem = factory
	return f
}

// ArrayOfRefsField declares an ordered sequence of non-owning references
// to target, encoded/decoded via target's oid field.
func ArrayOfRefsField(record, name string, index FieldIndex, target Protocol, opts ...FieldOption) *Field {
	opts = append([]FieldOption{WithRef(target)}, opts...)
	return newField(record, name, index, KindInvalid, ContainerArray, KindInvalid, opts...)
}

// MapField declares a string/primitive-keyed mapping field.
func MapField(record, name string, index FieldIndex, keyKind, elemKind ValueKind, opts ...FieldOption) *Field {
	return newField(record, name, index, elemKind, ContainerMap, keyKind, opts...)
}

// MapOfRecordsField declares a primitive-keyed mapping of owned sub-records.
func MapOfRecordsField(record, name string, index FieldIndex, keyKind ValueKind, factory func() Record, opts ...FieldOption) *Field {
	f := newField(record, name, index, KindInvalid, ContainerMap, keyKind, opts...)
	f.NewElem = factory
	return f
}

// IdMapField declares a mapping keyed by the element record's own oid
// field; elemTarget supplies that oid field's codec, factory builds a
// fresh element during decode.
func IdMapField(record, name string, index FieldIndex, elemTarget Protocol, factory func() Record, opts ...FieldOption) *Field {
	f := newField(record, name, index, KindInvalid, ContainerIdMap, KindInvalid, opts...)
	f.RefTarget = elemTarget
	f.NewElem = factory
	return f
}

func (f *Field) String() string {
	return fmt.Sprintf("Field{%d %s %s}", f.Index, f.Name, f.Kind)
}
