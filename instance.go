package dmodel

// Record is implemented by every generated record type. Protocol binds
// the type to its compiled schema; inst exposes the per-instance state
// that the codec and change-tracking engine operate on.
type Record interface {
	Protocol
	inst() *Instance
}

// Instance is the per-object state backing a Record: field values keyed
// by index (the explicit, schema-addressed layout called for by the
// "dynamic attribute storage → explicit record layouts" design note),
// plus the DirtySet tracking which of them changed since the last clear.
type Instance struct {
	fd     *FieldsDefine
	values map[FieldIndex]any
	dirty  dirtySet
}

// Base is embedded by every generated record struct to supply storage
// and satisfy the inst() half of Record. The embedding type still must
// implement FieldsDefine() itself, returning its own package-level
// *FieldsDefine.
type Base struct {
	Instance
}

func (b *Base) inst() *Instance { return &b.Instance }

func newInstance(fd *FieldsDefine) Instance {
	return Instance{fd: fd, values: map[FieldIndex]any{}}
}

// InitRecord binds r to its schema and gives it a values map if it has
// none, keeping any values and dirty state it already holds. Record
// constructors normally call NewRecord instead.
func InitRecord(r Record) {
	r.inst().fd = r.FieldsDefine()
	if r.inst().values == nil {
		r.inst().values = map[FieldIndex]any{}
	}
}

func (i *Instance) FieldsDefine() *FieldsDefine { return i.fd }

// get returns the field's stored value, or its declared default/zero
// container if absent.
func (i *Instance) get(f *Field) any {
	if v, ok := i.values[f.Index]; ok {
		return v
	}
	switch f.Container {
	case ContainerArray:
		a := NewArray()
		i.values[f.Index] = a
		return a
	case ContainerMap:
		m := NewMap()
		i.values[f.Index] = m
		return m
	case ContainerIdMap:
		m := NewIdMap()
		i.values[f.Index] = m
		return m
	default:
		return f.Default
	}
}

// GetByName looks up a field by declared name and returns its current
// value (or default), raising NoField if absent from the schema.
func (i *Instance) GetByName(name string) any {
	return i.get(i.fd.mustByName(name))
}

// IsDefaultValue reports whether name's storage slot is unset, i.e. a
// read would currently return its declared default rather than an
// explicitly stored value.
func (i *Instance) IsDefaultValue(name string) (bool, error) {
	f, ok := i.fd.ByName(name)
	if !ok {
		return false, noFieldErrf(i.fd.RecordName, name)
	}
	_, has := i.values[f.Index]
	return !has, nil
}

// set stores v under f, marking f dirty iff v differs from the current
// value (spec §4.3) and f is not skip_changed. Container fields are
// always marked dirty on assignment (container identity changed).
func (i *Instance) set(f *Field, v any) {
	if f.Container != ContainerNone {
		if items, ok := v.([]any); ok && f.Container == ContainerArray {
			v = NewArrayFrom(items)
		}
		i.values[f.Index] = v
		if !f.SkipChanged {
			i.dirty.setDirty(f.Index)
		}
		return
	}
	if i.get(f) == v {
		return
	}
	i.values[f.Index] = v
	if !f.SkipChanged {
		i.dirty.setDirty(f.Index)
	}
}

// SetByName assigns a scalar/ref field by name, applying the same
// change-tracking rule as a generated setter.
func (i *Instance) SetByName(name string, v any) {
	i.set(i.fd.mustByName(name), v)
}

// setRaw stores v without touching the DirtySet; used by decoders.
func (i *Instance) setRaw(f *Field, v any) {
	i.values[f.Index] = v
}

// DeleteByName drops the storage slot for a scalar field and marks it
// dirty. Container fields cannot be deleted (spec §4.2).
func (i *Instance) DeleteByName(name string) {
	f := i.fd.mustByName(name)
	if f.Container != ContainerNone {
		panic(operateErrf(i.fd.RecordName, name, "cannot delete a container field"))
	}
	delete(i.values, f.Index)
	if !f.SkipChanged {
		i.dirty.setDirty(f.Index)
	}
}

// AddInt performs a checked addition on an arithm integer field, storing
// and marking dirty the new value, and returns (delta, newValue). Errors
// (field not declared arithm) are returned, never panicked, matching the
// propagation policy of every other runtime data error in this package.
func (i *Instance) AddInt(name string, delta int64) (int64, int64, error) {
	f := i.fd.mustByName(name)
	if !f.Arithm {
		return 0, 0, operateErrf(i.fd.RecordName, name, "field is not declared arithm")
	}
	old := asInt64(i.get(f))
	nv := old + delta
	i.set(f, fromInt64(f.Kind, nv))
	return delta, nv, nil
}

// SubInt performs a checked subtraction on an arithm integer field,
// returning an OverflowLower error if the result would cross the
// field's floor (min_value if declared, else 0 for unsigned fields).
// Errors are returned, never panicked.
func (i *Instance) SubInt(name string, delta int64) (int64, int64, error) {
	f := i.fd.mustByName(name)
	if !f.Arithm {
		return 0, 0, operateErrf(i.fd.RecordName, name, "field is not declared arithm")
	}
	old := asInt64(i.get(f))
	nv := old - delta
	floor := int64(0)
	hasFloor := f.Unsigned
	if f.MinValue != nil {
		floor = *f.MinValue
		hasFloor = true
	}
	if hasFloor && nv < floor {
		return 0, 0, overflowLowerErrf(i.fd.RecordName, name, old, delta, floor)
	}
	i.set(f, fromInt64(f.Kind, nv))
	return delta, nv, nil
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int8:
		return int64(n)
	case uint8:
		return int64(n)
	case int16:
		return int64(n)
	case uint16:
		return int64(n)
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case int64:
		return n
	case uint64:
		return int64(n)
	default:
		return 0
	}
}

func fromInt64(k ValueKind, v int64) any {
	switch k {
	case KindInt8:
		return int8(v)
	case KindUint8:
		return uint8(v)
	case KindInt16:
		return int16(v)
	case KindUint16:
		return uint16(v)
	case KindInt32:
		return int32(v)
	case KindUint32:
		return uint32(v)
	case KindInt64:
		return v
	case KindUint64:
		return uint64(v)
	default:
		return v
	}
}

// HasChanged reports whether the named field is dirty, or, if name is
// empty, whether any field on this instance is dirty. With recursive,
// also descends into sub-records and containers (spec §4.3).
func (i *Instance) HasChanged(name string, recursive bool) bool {
	if name != "" {
		f := i.fd.mustByName(name)
		if f.SkipChanged {
			return false
		}
		if i.dirty.isDirty(f.Index) {
			return true
		}
		if recursive {
			return valueHasChanged(i.get(f))
		}
		return false
	}
	if i.dirty.hasAnyDirty() {
		return true
	}
	if recursive {
		for _, f := range i.fd.Fields() {
			if f.SkipChanged {
				continue
			}
			if valueHasChanged(i.values[f.Index]) {
				return true
			}
		}
	}
	return false
}

func valueHasChanged(v any) bool {
	switch c := v.(type) {
	case Record:
		return c.inst().HasChanged("", true)
	case *Array:
		if c.Changed() {
			return true
		}
		for _, e := range c.items {
			if valueHasChanged(e) {
				return true
			}
		}
		return false
	case *IdMap:
		if c.Changed() {
			return true
		}
		for _, e := range c.items {
			if valueHasChanged(e) {
				return true
			}
		}
		return false
	case *Map:
		if c.Changed() {
			return true
		}
		for _, e := range c.items {
			if valueHasChanged(e) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ClearChanged clears the DirtySet for the named fields (or all fields
// if none given), and, for any of those fields holding a container,
// always clears that container's own `changed` flag (and a Map's
// `removed` tombstone set) in the same pass. With recursive (the
// default per spec), it additionally descends into the container's
// elements and any sub-record's own DirtySet; non-recursive leaves them
// untouched.
func (i *Instance) ClearChanged(recursive bool, names ...string) {
	targets := i.fd.Fields()
	if len(names) > 0 {
		targets = make([]*Field, 0, len(names))
		for _, n := range names {
			targets = append(targets, i.fd.mustByName(n))
		}
	}
	for _, f := range targets {
		i.dirty.clearDirty(f.Index)
		v := i.values[f.Index]
		if recursive {
			clearValueChanged(v)
		} else {
			clearOwnContainerFlag(v)
		}
	}
}

// clearOwnContainerFlag clears v's own `changed`/`removed` bookkeeping
// without descending into its elements or sub-records.
func clearOwnContainerFlag(v any) {
	switch c := v.(type) {
	case *Array:
		c.ClearChanged()
	case *IdMap:
		c.ClearChanged()
	case *Map:
		c.ClearChanged()
	}
}

func clearValueChanged(v any) {
	switch c := v.(type) {
	case Record:
		c.inst().ClearChanged(true)
	case *Array:
		c.ClearChanged()
		for _, e := range c.items {
			clearValueChanged(e)
		}
	case *IdMap:
		c.ClearChanged()
		for _, e := range c.items {
			clearValueChanged(e)
		}
	case *Map:
		c.ClearChanged()
		for _, e := range c.items {
			clearValueChanged(e)
		}
	}
}

// SetChanged marks the named fields dirty (or all fields if none
// given); skip_changed fields are left untouched.
func (i *Instance) SetChanged(names ...string) {
	targets := i.fd.Fields()
	if len(names) > 0 {
		targets = make([]*Field, 0, len(names))
		for _, n := range names {
			targets = append(targets, i.fd.mustByName(n))
		}
	}
	for _, f := range targets {
		if !f.SkipChanged {
			i.dirty.setDirty(f.Index)
		}
	}
}

// ClearData drops every schema field slot from the instance, as if
// freshly constructed, and clears dirty state.
func (i *Instance) ClearData() {
	i.values = map[FieldIndex]any{}
	i.dirty.clearAll()
}

// SetData bulk-assigns fields by name without marking anything dirty;
// used by callers restoring a snapshot outside the change-tracked path.
// Unknown names are silently ignored unless the record type was built
// with RecordBuilder.StrictSetData, in which case they return a
// KindNoField error.
func (i *Instance) SetData(kv map[string]any) error {
	for name, v := range kv {
		f, ok := i.fd.ByName(name)
		if !ok {
			if i.fd.strictSetData {
				return noFieldErrf(i.fd.RecordName, name)
			}
			continue
		}
		i.values[f.Index] = v
	}
	return nil
}
