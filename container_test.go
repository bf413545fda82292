package dmodel

import "testing"

func TestArrayChangedFlag(t *testing.T) {
	a := NewArray()
	if a.Changed() {
		t.Fatal("fresh array should not be changed")
	}
	a.Append("x")
	if !a.Changed() {
		t.Fatal("append should mark changed")
	}
	a.ClearChanged()
	if a.Changed() {
		t.Fatal("expected clean after ClearChanged")
	}
}

func TestArrayRawAppendDoesNotMarkChanged(t *testing.T) {
	a := NewArray()
	a.rawAppend("x")
	if a.Changed() {
		t.Fatal("rawAppend must not mark changed (decoder path)")
	}
	if a.Len() != 1 || a.Get(0) != "x" {
		t.Fatalf("rawAppend did not store element: %v", a.Items())
	}
}

func TestMapRemovedSetAndTombstones(t *testing.T) {
	m := NewMap()
	m.Set("a", 1)
	m.Set("b", 2)
	m.ClearChanged()
	m.Delete("b")
	if !m.Changed() {
		t.Fatal("delete should mark changed")
	}
	if _, ok := m.Removed()["b"]; !ok {
		t.Fatal("expected b in removed set")
	}
	if _, ok := m.Get("b"); ok {
		t.Fatal("b should no longer be retrievable")
	}
	m.Set("b", 3)
	if _, ok := m.Removed()["b"]; ok {
		t.Fatal("re-adding a key should clear its removed-tombstone")
	}
}

func TestIdMapAddRemoveHas(t *testing.T) {
	im := NewIdMap()
	n := NewNode()
	n.SetOid("x1")
	im.Add(nodeFD, n)
	if !im.Has(nodeFD, n) {
		t.Fatal("expected Has true after Add")
	}
	v, ok := im.Get("x1")
	if !ok || v.(*Node) != n {
		t.Fatal("expected to retrieve n by its oid key")
	}
	im.Remove(nodeFD, n)
	if im.Has(nodeFD, n) {
		t.Fatal("expected Has false after Remove")
	}
}
