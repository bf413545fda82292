package dmodel

import "testing"

func TestDirtySetBaseBits(t *testing.T) {
	var d dirtySet
	if d.hasAnyDirty() {
		t.Fatal("fresh dirtySet should not be dirty")
	}
	d.setDirty(3)
	d.setDirty(5)
	if !d.isDirty(3) || !d.isDirty(5) {
		t.Fatal("expected 3 and 5 dirty")
	}
	if d.isDirty(4) {
		t.Fatal("4 should not be dirty")
	}
	if !d.hasAnyDirty() {
		t.Fatal("expected hasAnyDirty true")
	}
	d.clearDirty(3)
	if d.isDirty(3) {
		t.Fatal("3 should be cleared")
	}
	if !d.hasAnyDirty() {
		t.Fatal("5 still dirty, hasAnyDirty should be true")
	}
	d.clearDirty(5)
	if d.hasAnyDirty() {
		t.Fatal("expected clean after clearing all")
	}
}

func TestDirtySetOverflow(t *testing.T) {
	var d dirtySet
	big := FieldIndex(500)
	d.setDirty(big)
	if !d.isDirty(big) {
		t.Fatal("overflow index should be dirty")
	}
	if !d.hasAnyDirty() {
		t.Fatal("expected hasAnyDirty true for overflow")
	}
	d.clearDirty(big)
	if d.isDirty(big) || d.hasAnyDirty() {
		t.Fatal("expected clean after clearing overflow index")
	}
}

func TestDirtySetClearAll(t *testing.T) {
	var d dirtySet
	d.setDirty(1)
	d.setDirty(200)
	d.clearAll()
	if d.hasAnyDirty() || d.isDirty(1) || d.isDirty(200) {
		t.Fatal("expected all clear after clearAll")
	}
}

func TestDirtySetDoubleSetIsIdempotent(t *testing.T) {
	var d dirtySet
	d.setDirty(10)
	d.setDirty(10)
	if d.dirtyCt != 1 {
		t.Fatalf("dirtyCt = %d, wanted 1 (idempotent set)", d.dirtyCt)
	}
}

func TestDirtySetForEach(t *testing.T) {
	var d dirtySet
	d.setDirty(2)
	d.setDirty(70)
	d.setDirty(300)
	got := map[FieldIndex]bool{}
	d.forEach(func(idx FieldIndex) { got[idx] = true })
	for _, want := range []FieldIndex{2, 70, 300} {
		if !got[want] {
			t.Fatalf("forEach missed index %d", want)
		}
	}
	if len(got) != 3 {
		t.Fatalf("forEach produced %d entries, wanted 3", len(got))
	}
}
