package dmodel

import "sort"

// FieldsDefine is the compiled, sorted field table for one record type,
// including fields merged in from ancestor record types (spec §4.2).
type FieldsDefine struct {
	RecordName string
	fields     []*Field
	byIndex    map[FieldIndex]*Field
	byName     map[string]*Field
	byKey      map[string]*Field
	oidField   *Field
	strictSetData bool
}

// newFieldsDefine builds a FieldsDefine from this type's own fields plus
// zero or more ancestor FieldsDefines, depth-first first-match-wins,
// detecting duplicate name/index conflicts across definition sites.
func newFieldsDefine(recordName string, own []*Field, ancestors ...*FieldsDefine) *FieldsDefine {
	fd := &FieldsDefine{
		RecordName: recordName,
		byIndex:    map[FieldIndex]*Field{},
		byName:     map[string]*Field{},
		byKey:      map[string]*Field{},
	}
	add := func(f *Field) {
		if existing, ok := fd.byIndex[f.Index]; ok && existing != f {
			panic(defineErrf(recordName, f.Name, "duplicate field index %d (also used by %q)", f.Index, existing.Name))
		}
		if existing, ok := fd.byName[f.Name]; ok && existing != f {
			panic(defineErrf(recordName, f.Name, "duplicate field name %q (index %d)", f.Name, existing.Index))
		}
		fd.fields = append(fd.fields, f)
		fd.byIndex[f.Index] = f
		fd.byName[f.Name] = f
		fd.byKey[f.Key] = f
		if f.Name == "oid" {
			fd.oidField = f
		}
	}
	for _, f := range own {
		add(f)
	}
	for _, anc := range ancestors {
		for _, f := range anc.fields {
			if _, ok := fd.byName[f.Name]; ok {
				continue // first match wins
			}
			add(f)
		}
	}
	sort.Slice(fd.fields, func(i, j int) bool { return fd.fields[i].Index < fd.fields[j].Index })
	return fd
}

func (fd *FieldsDefine) ByIndex(idx FieldIndex) (*Field, bool) {
	f, ok := fd.byIndex[idx]
	return f, ok
}

func (fd *FieldsDefine) ByName(name string) (*Field, bool) {
	f, ok := fd.byName[name]
	return f, ok
}

func (fd *FieldsDefine) ByKey(key string) (*Field, bool) {
	f, ok := fd.byKey[key]
	return f, ok
}

// OidField returns the field named "oid" declared on this record type,
// or nil if it has none.
func (fd *FieldsDefine) OidField() *Field { return fd.oidField }

// Fields returns the field table in ascending index order.
func (fd *FieldsDefine) Fields() []*Field { return fd.fields }

func (fd *FieldsDefine) mustByName(name string) *Field {
	f, ok := fd.byName[name]
	if !ok {
		panic(noFieldErrf(fd.RecordName, name))
	}
	return f
}
