package dmodel

// decodeRecordBin reads a <field-index, payload> stream until the
// 0x0000 terminator (spec §4.7). An index absent from the schema is a
// fatal Pack error; unlike the structural format, binary carries no
// per-field null sentinel — a written field is always present data.
func decodeRecordBin(ctx *DecodeContext, r *wireReader, rec Record) error {
	i := rec.inst()
	for {
		idx, err := r.ReadFieldIndex()
		if err != nil {
			return err
		}
		if idx == FieldIndex(endOfRecord) {
			break
		}
		f, ok := i.fd.ByIndex(idx)
		if !ok {
			return packErrf("unknown field index %d decoding %s", idx, i.fd.RecordName)
		}
		if err := decodeFieldBin(ctx, r, i, f); err != nil {
			return err
		}
		if ctx.MarkChange && !f.SkipChanged {
			i.dirty.setDirty(f.Index)
		}
	}
	ctx.noteKnown(rec)
	return nil
}

func decodeFieldBin(ctx *DecodeContext, r *wireReader, i *Instance, f *Field) error {
	switch {
	case f.Ref:
		oid, err := decodeScalarBinValue(r, refOidKind(f))
		if err != nil {
			return err
		}
		slotField := f
		i.setRaw(f, nil)
		ctx.deferRef(oid, func(obj Record) { i.setRaw(slotField, obj) })
		return nil
	case f.Container == ContainerArray:
		a, err := decodeArrayBin(ctx, r, f)
		if err != nil {
			return err
		}
		i.setRaw(f, a)
		return nil
	case f.Container == ContainerMap:
		existing, _ := i.values[f.Index].(*Map)
		m, err := decodeMapBin(ctx, r, f, existing)
		if err != nil {
			return err
		}
		i.setRaw(f, m)
		return nil
	case f.Container == ContainerIdMap:
		existing, _ := i.values[f.Index].(*IdMap)
		m, err := decodeMapBin(ctx, r, f, mapOrNil(existing))
		if err != nil {
			return err
		}
		i.setRaw(f, &IdMap{Map: *m})
		return nil
	case f.Kind == KindInvalid:
		var existing Record
		if ctx.Mode == ModeSync {
			existing, _ = i.values[f.Index].(Record)
		}
		target := existing
		if target == nil {
			target = f.NewElem()
		}
		if err := decodeRecordBin(ctx, r, target); err != nil {
			return err
		}
		i.setRaw(f, target)
		return nil
	default:
		v, err := decodeScalarBinValue(r, f.Kind)
		if err != nil {
			return err
		}
		i.setRaw(f, v)
		return nil
	}
}

func refOidKind(f *Field) ValueKind {
	if f.RefTarget == nil {
		return KindInvalid
	}
	oid := f.RefTarget.FieldsDefine().OidField()
	if oid == nil {
		return KindInvalid
	}
	return oid.Kind
}

func decodeScalarBinValue(r *wireReader, k ValueKind) (any, error) {
	switch k {
	case KindInt8:
		return r.ReadInt8()
	case KindUint8:
		return r.ReadUint8()
	case KindInt16:
		return r.ReadInt16()
	case KindUint16:
		return r.ReadUint16()
	case KindInt32:
		return r.ReadInt32()
	case KindUint32:
		return r.ReadUint32()
	case KindInt64:
		return r.ReadInt64()
	case KindUint64:
		return r.ReadUint64()
	case KindFloat:
		return r.ReadFloat32()
	case KindDouble:
		return r.ReadFloat64()
	case KindBool:
		return r.ReadBool()
	case KindString:
		return r.ReadString()
	default:
		return nil, packErrf("cannot binary-decode value of kind %s", k)
	}
}

func decodeArrayBin(ctx *DecodeContext, r *wireReader, f *Field) (*Array, error) {
	n, err := r.ReadArrayHead()
	if err != nil {
		return nil, err
	}
	a := NewArray()
	for idx := 0; idx < n; idx++ {
		if err := decodeArrayElemBin(ctx, r, f, a, idx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func decodeArrayElemBin(ctx *DecodeContext, r *wireReader, f *Field, a *Array, idx int) error {
	if f.Ref {
		oid, err := decodeScalarBinValue(r, refOidKind(f))
		if err != nil {
			return err
		}
		pos := a.Len()
		a.rawAppend(nil)
		arr := a
		ctx.deferRef(oid, func(obj Record) { arr.items[pos] = obj })
		return nil
	}
	if f.NewElem != nil {
		rec := f.NewElem()
		if err := decodeRecordBin(ctx, r, rec); err != nil {
			return err
		}
		a.rawAppend(rec)
		return nil
	}
	v, err := decodeScalarBinValue(r, f.Kind)
	if err != nil {
		return err
	}
	a.rawAppend(v)
	return nil
}

func decodeMapBin(ctx *DecodeContext, r *wireReader, f *Field, existing *Map) (*Map, error) {
	var n int
	var err error
	if f.Container == ContainerIdMap {
		n, err = r.ReadIdMapHead()
	} else {
		n, err = r.ReadMapHead()
	}
	if err != nil {
		return nil, err
	}
	var m *Map
	if ctx.Mode == ModeSync && existing != nil {
		m = existing
	} else {
		m = NewMap()
	}
	keyKind := f.KeyKind
	if f.Container == ContainerIdMap {
		keyKind = refOidKind(f)
	}
	for idx := 0; idx < n; idx++ {
		key, err := decodeScalarBinValue(r, keyKind)
		if err != nil {
			return nil, err
		}
		if err := decodeMapElemBin(ctx, r, f, m, key); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func decodeMapElemBin(ctx *DecodeContext, r *wireReader, f *Field, m *Map, key any) error {
	if f.Ref {
		oid, err := decodeScalarBinValue(r, refOidKind(f))
		if err != nil {
			return err
		}
		m.rawSet(key, nil)
		ctx.deferRef(oid, func(obj Record) { m.rawSet(key, obj) })
		return nil
	}
	if f.NewElem != nil {
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
					target.inst().setRaw(oid, key)
				}
			}
		}
		if err := decodeRecordBin(ctx, r, target); err != nil {
			return err
		}
		m.rawSet(key, target)
		return nil
	}
	v, err := decodeScalarBinValue(r, f.Kind)
	if err != nil {
		return err
	}
	m.rawSet(key, v)
	return nil
}
