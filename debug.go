package dmodel

import (
	"fmt"
	"sort"
	"strings"
)

var (
	dumpSep1 = strings.Repeat("=", 80)
	dumpSep2 = strings.Repeat("-", 60)

	indentStep = "  "
)

// Dump renders r and its subtree as a human-readable tree: one line per
// field, a "*" marker on currently-dirty fields, and nested indentation
// for sub-records and container elements. Intended for tests and ad hoc
// debugging, not a stable wire format.
func Dump(r Record) string {
	var buf strings.Builder
	fmt.Fprintln(&buf, dumpSep1)
	fmt.Fprintf(&buf, "%s\n", rpadf('=', "%s", r.FieldsDefine().RecordName))
	dumpRecord(&buf, r, "")
	return buf.String()
}

func dumpRecord(w *strings.Builder, r Record, indent string) {
	i := r.inst()
	for _, f := range i.fd.Fields() {
		v, has := i.values[f.Index]
		mark := " "
		if i.dirty.isDirty(f.Index) {
			mark = "*"
		}
		if !has {
			continue
		}
		dumpField(w, indent, mark, f, v)
	}
}

func dumpField(w *strings.Builder, indent, mark string, f *Field, v any) {
	switch {
	case f.Ref:
		fmt.Fprintf(w, "%s%s%s (ref) = %s\n", indent, mark, f.Name, dumpRefSummary(v))
	case f.Container == ContainerArray:
		a := v.(*Array)
		changedMark := mark
		if a.Changed() {
			changedMark = "*"
		}
		fmt.Fprintf(w, "%s%s%s [array, %d elems]\n", indent, changedMark, f.Name, a.Len())
		for idx, e := range a.Items() {
			dumpElem(w, indent+indentStep, fmt.Sprintf("[%d]", idx), e)
		}
	case f.Container == ContainerMap, f.Container == ContainerIdMap:
		m := containerAsMap(v)
		changedMark := mark
		if m.Changed() {
			changedMark = "*"
		}
		fmt.Fprintf(w, "%s%s%s [%s, %d keys]\n", indent, changedMark, f.Name, f.Container, m.Len())
		for _, k := range sortedMapKeys(m) {
			val, _ := m.Get(k)
			dumpElem(w, indent+indentStep, fmt.Sprintf("%v", k), val)
		}
		for k := range m.Removed() {
			fmt.Fprintf(w, "%s%s%v = <removed>\n", indent+indentStep, " ", k)
		}
	case f.Kind == KindInvalid:
		if rec, ok := v.(Record); ok {
			fmt.Fprintf(w, "%s%s%s:\n", indent, mark, f.Name)
			dumpRecord(w, rec, indent+indentStep)
		}
	default:
		fmt.Fprintf(w, "%s%s%s = %v\n", indent, mark, f.Name, v)
	}
}

func dumpElem(w *strings.Builder, indent, label string, v any) {
	if rec, ok := v.(Record); ok {
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		dumpRecord(w, rec, indent+indentStep)
		return
	}
	fmt.Fprintf(w, "%s%s = %v\n", indent, label, v)
}

func dumpRefSummary(v any) string {
	if v == nil {
		return "<nil>"
	}
	r := v.(Record)
	oid := r.FieldsDefine().OidField()
	if oid == nil {
		return r.FieldsDefine().RecordName
	}
	return fmt.Sprintf("%s(%v)", r.FieldsDefine().RecordName, r.inst().get(oid))
}

func containerAsMap(v any) *Map {
	switch c := v.(type) {
	case *Map:
		return c
	case *IdMap:
		return &c.Map
	default:
		return nil
	}
}

func sortedMapKeys(m *Map) []any {
	keys := make([]any, 0, m.Len())
	for k := range m.Items() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j]) })
	return keys
}

func rpadf(pad rune, format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	return rpad(s, 80, pad)
}

// String renders a short, single-line summary: the record name followed
// by up to 4 non-container fields that have an explicitly stored value,
// e.g. "Point(x=3, y=-4)". Intended for logs, not a stable format.
func (i *Instance) String() string {
	var parts []string
	for _, f := range i.fd.Fields() {
		if len(parts) == 4 {
			break
		}
		if f.Container != ContainerNone {
			continue
		}
		v, has := i.values[f.Index]
		if !has {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", f.Name, v))
	}
	return fmt.Sprintf("%s(%s)", i.fd.RecordName, strings.Join(parts, ", "))
}
