package dmodel

type binEncodeOpts struct {
	onlyChanged bool
	fieldFilter FieldFilter
}

// encodeRecordBin writes r's body in field-index order terminated by
// the 0x0000 sentinel (spec §4.6). Errors (e.g. StringTooLong) abort
// the whole call; there is no partial-write recovery.
func encodeRecordBin(w *wireWriter, r Record, opts binEncodeOpts) error {
	i := r.inst()
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
		w.AppendFieldIndex(f.Index)
		if err := encodeFieldBin(w, f, v, opts); err != nil {
			return err
		}
	}
	w.AppendFieldIndex(FieldIndex(endOfRecord))
	return nil
}

func encodeFieldBin(w *wireWriter, f *Field, v any, opts binEncodeOpts) error {
	switch {
	case f.Ref:
		return encodeRefBin(w, v)
	case f.Container == ContainerArray:
		return encodeArrayBin(w, f, v.(*Array), opts)
	case f.Container == ContainerMap:
		return encodeMapBin(w, f, v.(*Map), opts, nil)
	case f.Container == ContainerIdMap:
		return encodeIdMapBin(w, f, v.(*IdMap), opts)
	case f.Kind == KindInvalid:
		r, ok := v.(Record)
		if !ok {
			return nil
		}
		return encodeRecordBin(w, r, opts)
	default:
		return encodeScalarBin(w, f, v)
	}
}

func encodeRefBin(w *wireWriter, v any) error {
	if v == nil {
		return packErrf("cannot encode a nil ref")
	}
	r := v.(Record)
	oid := r.FieldsDefine().OidField()
	return encodeScalarBinValue(w, oid.Kind, "", oid.Name, r.inst().get(oid))
}

func encodeScalarBin(w *wireWriter, f *Field, v any) error {
	return encodeScalarBinValue(w, f.Kind, f.Key, f.Name, v)
}

func encodeScalarBinValue(w *wireWriter, k ValueKind, record, field string, v any) error {
	switch k {
	case KindInt8:
		w.AppendInt8(v.(int8))
	case KindUint8:
		w.AppendUint8(v.(uint8))
	case KindInt16:
		w.AppendInt16(v.(int16))
	case KindUint16:
		w.AppendUint16(v.(uint16))
	case KindInt32:
		w.AppendInt32(v.(int32))
	case KindUint32:
		w.AppendUint32(v.(uint32))
	case KindInt64:
		w.AppendInt64(v.(int64))
	case KindUint64:
		w.AppendUint64(v.(uint64))
	case KindFloat:
		w.AppendFloat32(v.(float32))
	case KindDouble:
		w.AppendFloat64(v.(float64))
	case KindBool:
		w.AppendBool(v.(bool))
	case KindString:
		return w.AppendString(record, field, v.(string))
	default:
		return packErrf("cannot binary-encode value of kind %s", k)
	}
	return nil
}

func encodeArrayBin(w *wireWriter, f *Field, a *Array, opts binEncodeOpts) error {
	w.AppendArrayHead(a.Len())
	for _, v := range a.Items() {
		if err := encodeElementBin(w, f, v, opts, nil); err != nil {
			return err
		}
	}
	return nil
}

func encodeMapBin(w *wireWriter, f *Field, m *Map, opts binEncodeOpts, filter FieldFilter) error {
	w.AppendMapHead(m.Len())
	for k, v := range m.Items() {
		if err := encodeScalarBinValue(w, f.KeyKind, f.Key, f.Name, k); err != nil {
			return err
		}
		if err := encodeElementBin(w, f, v, opts, filter); err != nil {
			return err
		}
	}
	return nil
}

func encodeIdMapBin(w *wireWriter, f *Field, m *IdMap, opts binEncodeOpts) error {
	w.AppendIdMapHead(m.Len())
	filter := excludeOidFilter(f)
	for k, v := range m.Items() {
		oid := f.RefTarget.FieldsDefine().OidField()
		if err := encodeScalarBinValue(w, oid.Kind, f.Key, f.Name, k); err != nil {
			return err
		}
		if err := encodeElementBin(w, f, v, opts, filter); err != nil {
			return err
		}
	}
	return nil
}

func encodeElementBin(w *wireWriter, f *Field, v any, opts binEncodeOpts, filter FieldFilter) error {
	if f.Ref {
		return encodeRefBin(w, v)
	}
	if r, ok := v.(Record); ok {
		innerOpts := opts
		if filter != nil {
			innerOpts.fieldFilter = opts.fieldFilter.Combine(filter)
		}
		return encodeRecordBin(w, r, innerOpts)
	}
	return encodeScalarBinValue(w, f.Kind, f.Key, f.Name, v)
}
