package dmodel

// decodeRecordDict walks r's schema (not the input map) and installs
// values present in src (spec §4.5). A nil-valued key at the top level
// of a record is treated as "no data" and skipped; null's meaning as a
// map-key delete only applies inside a Map/IdMap under sync mode.
func decodeRecordDict(ctx *DecodeContext, r Record, src map[string]any) {
	i := r.inst()
	for _, f := range i.fd.Fields() {
		raw, present := src[f.Name]
		if !present || raw == nil {
			continue
		}
		decodeFieldDict(ctx, i, f, raw)
		if ctx.MarkChange && !f.SkipChanged {
			i.dirty.setDirty(f.Index)
		}
	}
	ctx.noteKnown(r)
}

func decodeFieldDict(ctx *DecodeContext, i *Instance, f *Field, raw any) {
	switch {
	case f.Ref:
		i.setRaw(f, nil)
		slotField := f
		ctx.deferRef(raw, func(obj Record) { i.setRaw(slotField, obj) })
	case f.Container == ContainerArray:
		i.setRaw(f, decodeArrayDict(ctx, f, raw))
	case f.Container == ContainerMap:
		existing, _ := i.values[f.Index].(*Map)
		i.setRaw(f, decodeMapDict(ctx, f, raw, existing))
	case f.Container == ContainerIdMap:
		existing, _ := i.values[f.Index].(*IdMap)
		m := decodeMapDict(ctx, f, raw, mapOrNil(existing))
		im := &IdMap{Map: *m}
		i.setRaw(f, im)
	case f.Kind == KindInvalid:
		i.setRaw(f, decodeRecordValueDict(ctx, f, raw, i.values[f.Index]))
	default:
		i.setRaw(f, decodeScalarDict(f.Kind, raw))
	}
}

func mapOrNil(im *IdMap) *Map {
	if im == nil {
		return nil
	}
	return &im.Map
}

func decodeScalarDict(k ValueKind, raw any) any {
	switch k {
	case KindInt8:
		return int8(asFloat(raw))
	case KindUint8:
		return uint8(asFloat(raw))
	case KindInt16:
		return int16(asFloat(raw))
	case KindUint16:
		return uint16(asFloat(raw))
	case KindInt32:
		return int32(asFloat(raw))
	case KindUint32:
		return uint32(asFloat(raw))
	case KindInt64:
		return int64(asFloat(raw))
	case KindUint64:
		return uint64(asFloat(raw))
	case KindFloat:
		return float32(asFloat(raw))
	case KindDouble:
		return asFloat(raw)
	case KindBool:
		b, _ := raw.(bool)
		return b
	case KindString:
		s, _ := raw.(string)
		return s
	default:
		return raw
	}
}

// asFloat coerces a decoded scalar (normally float64 from JSON-like
// sources, but accepted in any Go numeric form for direct map[string]any
// construction in tests) to float64 for narrowing.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case uint8:
		return float64(n)
	case int16:
		return float64(n)
	case uint16:
		return float64(n)
	case int32:
		return float64(n)
	case uint32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		panic(unpackErrf("", "", 0, nil, "cannot coerce %T to a number", v))
	}
}

func decodeRecordValueDict(ctx *DecodeContext, f *Field, raw any, existing any) Record {
	m, ok := raw.(map[string]any)
	if !ok {
		panic(unpackErrf(f.Key, f.Name, 0, nil, "expected a nested map for field %q, got %T", f.Name, raw))
	}
	var target Record
	if ctx.Mode == ModeSync {
		if e, ok := existing.(Record); ok {
			target = e
		}
	}
	if target == nil {
		target = f.NewElem()
	}
	decodeRecordDict(ctx, target, m)
	return target
}

func decodeArrayDict(ctx *DecodeContext, f *Field, raw any) *Array {
	list, ok := raw.([]any)
	if !ok {
		panic(unpackErrf(f.Key, f.Name, 0, nil, "expected a list for field %q, got %T", f.Name, raw))
	}
	a := NewArray()
	for idx, v := range list {
		if v == nil {
			continue // override-mode semantics: null element is absent data
		}
		decodeArrayElem(ctx, f, a, idx, v)
	}
	return a
}

func decodeArrayElem(ctx *DecodeContext, f *Field, a *Array, idx int, v any) {
	if f.Ref {
		pos := a.Len()
		a.rawAppend(nil)
		arr := a
		ctx.deferRef(v, func(obj Record) { arr.items[pos] = obj })
		return
	}
	if f.NewElem != nil {
		m, ok := v.(map[string]any)
		if !ok {
			panic(unpackErrf(f.Key, f.Name, 0, nil, "expected a nested map at index %d of field %q", idx, f.Name))
		}
		rec := f.NewElem()
		decodeRecordDict(ctx, rec, m)
		a.rawAppend(rec)
		return
	}
	a.rawAppend(decodeScalarDict(f.Kind, v))
}

// decodeMapDict decodes a structural map payload. In ModeOverride a
// fresh Map is built (ignoring existing); in ModeSync existing is
// reused and a null value deletes the key.
func decodeMapDict(ctx *DecodeContext, f *Field, raw any, existing *Map) *Map {
	src, ok := raw.(map[string]any)
	if !ok {
		panic(unpackErrf(f.Key, f.Name, 0, nil, "expected a map for field %q, got %T", f.Name, raw))
	}
	var m *Map
	if ctx.Mode == ModeSync && existing != nil {
		m = existing
	} else {
		m = NewMap()
	}
	for ks, v := range src {
		key, err := parseKey(f.KeyKind, ks)
		if err != nil {
			panic(unpackErrf(f.Key, f.Name, 0, err, "cannot parse map key %q", ks))
		}
		if v == nil {
			if ctx.Mode == ModeSync {
				m.rawDelete(key)
			}
			continue
		}
		decodeMapElem(ctx, f, m, key, v)
	}
	return m
}

func decodeMapElem(ctx *DecodeContext, f *Field, m *Map, key any, v any) {
	if f.Ref {
		m.rawSet(key, nil)
		ctx.deferRef(v, func(obj Record) { m.rawSet(key, obj) })
		return
	}
	if f.NewElem != nil {
		src, ok := v.(map[string]any)
		if !ok {
			panic(unpackErrf(f.Key, f.Name, 0, nil, "expected a nested map for key in field %q", f.Name))
		}
		var target Record
		if ctx.Mode == ModeSync {
			if cur, ok := m.Get(key); ok {
				if rec, ok := cur.(Record); ok {
					target = rec
				}
			}
		}
		if target == nil {
			target = f.NewElem()
			if f.Container == ContainerIdMap {
				oid := f.RefTarget.FieldsDefine().OidField()
				if oid != nil {
					target.inst().setRaw(oid, decodeScalarOid(oid.Kind, key))
				}
			}
		}
		decodeRecordDict(ctx, target, src)
		m.rawSet(key, target)
		return
	}
	m.rawSet(key, decodeScalarDict(f.Kind, v))
}

func decodeScalarOid(k ValueKind, key any) any {
	if k == KindString {
		if s, ok := key.(string); ok {
			return s
		}
	}
	return decodeScalarDict(k, key)
}
