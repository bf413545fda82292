package dmodel

import "fmt"

type dictEncodeOpts struct {
	onlyChanged bool
	fieldFilter FieldFilter
}

// encodeRecordDict walks r's field table in index order, producing the
// structural ("dict") form (spec §4.4). nonEmpty is false when the
// record produced no keys — the internal SkipFromPack signal a parent
// encoder uses to elide this field entirely under only_changed.
func encodeRecordDict(r Record, opts dictEncodeOpts) (map[string]any, bool) {
	i := r.inst()
	out := map[string]any{}
	nonEmpty := false
	for _, f := range i.fd.Fields() {
		if !opts.fieldFilter.allows(f) {
			continue
		}
		v, has := i.values[f.Index]
		if !has {
			continue
		}
		if opts.onlyChanged && !fieldIsChangedForEncode(i, f) {
			continue
		}
		enc, skip := encodeFieldDict(f, v, opts)
		if skip {
			continue
		}
		out[f.Name] = enc
		nonEmpty = true
	}
	return out, nonEmpty
}

// fieldIsChangedForEncode reports whether f should be considered
// "changed" for only_changed gating: either its own DirtySet bit is set
// (scalar/ref assignment, or whole-container replacement), or its
// current value's subtree reports a change (sub-record mutation, or
// in-place container mutation that never touched the parent DirtySet).
func fieldIsChangedForEncode(i *Instance, f *Field) bool {
	if f.SkipChanged {
		return false
	}
	if i.dirty.isDirty(f.Index) {
		return true
	}
	return valueHasChanged(i.values[f.Index])
}

func encodeFieldDict(f *Field, v any, opts dictEncodeOpts) (any, bool) {
	switch {
	case f.Ref:
		return encodeRefDict(v), false
	case f.Container == ContainerArray:
		return encodeArrayDict(f, v.(*Array), opts)
	case f.Container == ContainerMap:
		return encodeMapDict(f, v.(*Map), opts, nil)
	case f.Container == ContainerIdMap:
		return encodeIdMapDict(f, v.(*IdMap), opts)
	case f.Kind == KindInvalid:
		return encodeRecordValueDict(f, v, opts)
	default:
		return v, false
	}
}

func encodeRefDict(v any) any {
	if v == nil {
		return nil
	}
	r := v.(Record)
	oid := r.FieldsDefine().OidField()
	return r.inst().get(oid)
}

func encodeRecordValueDict(f *Field, v any, opts dictEncodeOpts) (any, bool) {
	r, ok := v.(Record)
	if !ok {
		return v, false
	}
	m, nonEmpty := encodeRecordDict(r, opts)
	if opts.onlyChanged && !nonEmpty {
		return nil, true
	}
	return m, false
}

// encodeArrayDict always emits every element, even under only_changed,
// to preserve index alignment (spec §4.4-note).
func encodeArrayDict(f *Field, a *Array, opts dictEncodeOpts) (any, bool) {
	out := make([]any, 0, a.Len())
	for _, v := range a.Items() {
		enc, skip := encodeElementDict(f, v, opts, nil)
		if skip {
			enc = nil
		}
		out = append(out, enc)
	}
	return out, false
}

// encodeMapDict writes live keys followed by tombstones for the removed
// set. Under only_changed, a sub-record value whose subtree has no
// changes is skipped; scalar and ref values are always written, since
// the map keeps no per-key change record.
func encodeMapDict(f *Field, m *Map, opts dictEncodeOpts, filter FieldFilter) (any, bool) {
	out := map[string]any{}
	for k, v := range m.Items() {
		enc, skip := encodeElementDict(f, v, opts, filter)
		if skip {
			continue
		}
		out[stringifyKey(f.KeyKind, k)] = enc
	}
	for k := range m.Removed() {
		out[stringifyKey(f.KeyKind, k)] = nil
	}
	return out, false
}

func encodeIdMapDict(f *Field, m *IdMap, opts dictEncodeOpts) (any, bool) {
	return encodeMapDict(f, &m.Map, opts, excludeOidFilter(f))
}

func excludeOidFilter(f *Field) FieldFilter {
	if f.RefTarget == nil {
		return nil
	}
	oid := f.RefTarget.FieldsDefine().OidField()
	if oid == nil {
		return nil
	}
	return excludeByName(oid.Name)
}

// encodeElementDict encodes one array/map element of field f: an oid
// for ref elements, a fully nested (optionally filtered) record for
// owned sub-record elements, or the natural scalar value otherwise.
func encodeElementDict(f *Field, v any, opts dictEncodeOpts, filter FieldFilter) (any, bool) {
	if f.Ref {
		return encodeRefDict(v), false
	}
	if r, ok := v.(Record); ok {
		innerOpts := opts
		if filter != nil {
			innerOpts.fieldFilter = opts.fieldFilter.Combine(filter)
		}
		m, nonEmpty := encodeRecordDict(r, innerOpts)
		if opts.onlyChanged && !nonEmpty {
			return nil, true
		}
		return m, false
	}
	return v, false
}

func stringifyKey(k ValueKind, v any) string {
	switch k {
	case KindString:
		return v.(string)
	default:
		return fmt.Sprintf("%v", v)
	}
}
