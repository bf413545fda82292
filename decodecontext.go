package dmodel

import "strconv"

// DecodeMode selects how a decode merges into its target (spec §4.5).
type DecodeMode int

const (
	// ModeOverride rebuilds arrays and maps from scratch; a null element
	// inside them is silently skipped rather than deleting anything.
	ModeOverride DecodeMode = iota
	// ModeSync updates maps in place (arrays are still rebuilt); a null
	// map value means "delete this key", and existing sub-records decode
	// in place instead of being replaced.
	ModeSync
)

// refSite is one deferred reference: an oid read off the wire plus the
// setter that installs the resolved target once known.
type refSite struct {
	oid any
	set func(Record)
}

// DecodeContext accumulates known objects (by oid) and pending reference
// sites across one unpack call, then resolves them in a second pass
// (spec §4.5 "Two-phase reference resolution").
type DecodeContext struct {
	Mode        DecodeMode
	MarkChange  bool
	ResolveRef  func(oid any) (Record, bool)
	known       map[any]Record
	pending     []refSite
}

func NewDecodeContext(mode DecodeMode, markChange bool, resolveRef func(any) (Record, bool)) *DecodeContext {
	return &DecodeContext{Mode: mode, MarkChange: markChange, ResolveRef: resolveRef, known: map[any]Record{}}
}

// noteKnown registers r as resolvable by its oid, if it declares one.
func (c *DecodeContext) noteKnown(r Record) {
	oid := r.FieldsDefine().OidField()
	if oid == nil {
		return
	}
	v := r.inst().get(oid)
	if v == nil {
		return
	}
	c.known[v] = r
}

func (c *DecodeContext) deferRef(oid any, set func(Record)) {
	c.pending = append(c.pending, refSite{oid: oid, set: set})
}

// Resolve runs the second pass: for each deferred site, either asks the
// caller-supplied resolver or consults the known-objects index built up
// during decode. Unresolved oids come back true in the returned map
// (never an error — spec §7).
func (c *DecodeContext) Resolve() map[any]bool {
	unsolved := map[any]bool{}
	for _, site := range c.pending {
		var obj Record
		var ok bool
		if c.ResolveRef != nil {
			obj, ok = c.ResolveRef(site.oid)
		} else {
			obj, ok = c.known[site.oid]
		}
		if ok {
			site.set(obj)
		} else {
			unsolved[site.oid] = true
		}
	}
	return unsolved
}

// parseKey converts a structural-format string map key back to its
// natural primitive value, the inverse of stringifyKey.
func parseKey(k ValueKind, s string) (any, error) {
	switch k {
	case KindString:
		return s, nil
	case KindBool:
		return s == "true", nil
	case KindFloat:
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	case KindDouble:
		v, err := strconv.ParseFloat(s, 64)
		return v, err
	case KindInt8:
		v, err := strconv.ParseInt(s, 10, 8)
		return int8(v), err
	case KindUint8:
		v, err := strconv.ParseUint(s, 10, 8)
		return uint8(v), err
	case KindInt16:
		v, err := strconv.ParseInt(s, 10, 16)
		return int16(v), err
	case KindUint16:
		v, err := strconv.ParseUint(s, 10, 16)
		return uint16(v), err
	case KindInt32:
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	case KindUint32:
		v, err := strconv.ParseUint(s, 10, 32)
		return uint32(v), err
	case KindInt64:
		return strconv.ParseInt(s, 10, 64)
	case KindUint64:
		return strconv.ParseUint(s, 10, 64)
	default:
		return s, nil
	}
}
