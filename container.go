package dmodel

// Array, Map and IdMap are the three container shapes a field may hold
// (spec §3 "Container entities"). Elements are stored as `any`; the
// owning Field's Kind/Container/RefTarget drive (de)serialization, since
// Go's static generics cannot be parameterized by a schema resolved at
// runtime the way the source's duck-typed containers were.
//
// Public mutators mark `changed`; the decoder uses the raw variants
// (rawAppend, rawSet) to populate containers without flagging dirtiness.

// Array is an ordered sequence of values (primitives, records, or refs).
type Array struct {
	items   []any
	changed bool
}

func NewArray() *Array { return &Array{} }

// NewArrayFrom copies elements out of an existing slice; used when a
// setter is handed a plain Go slice instead of an *Array.
func NewArrayFrom(items []any) *Array {
	a := &Array{items: append([]any(nil), items...)}
	return a
}

func (a *Array) Len() int { return len(a.items) }

func (a *Array) Get(i int) any { return a.items[i] }

func (a *Array) Set(i int, v any) {
	a.items[i] = v
	a.changed = true
}

func (a *Array) Append(v any) {
	a.items = append(a.items, v)
	a.changed = true
}

func (a *Array) Clear() {
	a.items = nil
	a.changed = true
}

func (a *Array) Items() []any { return a.items }

func (a *Array) Changed() bool { return a.changed }

func (a *Array) ClearChanged() { a.changed = false }

// rawAppend bypasses the changed flag; used only by decoders.
func (a *Array) rawAppend(v any) { a.items = append(a.items, v) }

// Map is an unordered mapping from a primitive key to a value, with a
// removed-key set for delta tombstone emission.
type Map struct {
	items   map[any]any
	removed map[any]struct{}
	changed bool
}

func NewMap() *Map { return &Map{items: map[any]any{}} }

func (m *Map) Len() int { return len(m.items) }

func (m *Map) Get(k any) (any, bool) { v, ok := m.items[k]; return v, ok }

func (m *Map) Set(k, v any) {
	if m.items == nil {
		m.items = map[any]any{}
	}
	m.items[k] = v
	delete(m.removed, k)
	m.changed = true
}

func (m *Map) Delete(k any) {
	if _, ok := m.items[k]; !ok {
		return
	}
	delete(m.items, k)
	if m.removed == nil {
		m.removed = map[any]struct{}{}
	}
	m.removed[k] = struct{}{}
	m.changed = true
}

func (m *Map) Items() map[any]any { return m.items }

func (m *Map) Removed() map[any]struct{} { return m.removed }

func (m *Map) Changed() bool { return m.changed }

func (m *Map) ClearChanged() {
	m.changed = false
	m.removed = nil
}

// rawSet bypasses the changed flag; used only by decoders.
func (m *Map) rawSet(k, v any) {
	if m.items == nil {
		m.items = map[any]any{}
	}
	m.items[k] = v
}

// rawDelete bypasses the changed/removed bookkeeping; used by sync-mode
// decode to drop a key without recording a tombstone for a delete it
// just read off the wire.
func (m *Map) rawDelete(k any) { delete(m.items, k) }

// IdMap is keyed by the element record's own oid field value. On
// encode, the oid field is suppressed from each element's body since it
// is already the map key.
type IdMap struct {
	Map
}

func NewIdMap() *IdMap { return &IdMap{Map: Map{items: map[any]any{}}} }

// Add inserts obj keyed by the value of its oid field, looked up via fd.
func (im *IdMap) Add(fd *FieldsDefine, obj Record) {
	oid := fd.OidField()
	if oid == nil {
		panic(operateErrf(fd.RecordName, "oid", "id_map element type has no oid field"))
	}
	key := obj.inst().get(oid)
	im.Set(key, obj)
}

func (im *IdMap) Remove(fd *FieldsDefine, obj Record) {
	oid := fd.OidField()
	key := obj.inst().get(oid)
	im.Delete(key)
}

func (im *IdMap) Has(fd *FieldsDefine, obj Record) bool {
	oid := fd.OidField()
	key := obj.inst().get(oid)
	_, ok := im.Get(key)
	return ok
}
