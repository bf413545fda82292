package boltstore

import (
	"path/filepath"
	"testing"

	"github.com/deltapack/dmodel"
)

// sample is a minimal dmodel record used to exercise Store without
// depending on the main package's test-only fixtures.
var sampleFD = dmodel.NewRecordBuilder("Sample").
	Field(dmodel.ScalarField("Sample", "n", 1, dmodel.KindInt32)).
	Build()

type sample struct {
	dmodel.Base
}

func (s *sample) FieldsDefine() *dmodel.FieldsDefine { return sampleFD }

func newSample() *sample {
	s := &sample{}
	dmodel.NewRecord(s)
	return s
}

func (s *sample) N() int32     { return s.GetByName("n").(int32) }
func (s *sample) SetN(v int32) { s.SetByName("n", v) }

func TestPutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), "samples")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := newSample()
	p.SetN(3)
	if err := s.Put("p1", p); err != nil {
		t.Fatal(err)
	}

	p2 := newSample()
	found, err := s.Get("p1", p2)
	if err != nil {
		t.Fatal(err)
	}
	if !found {
		t.Fatal("expected to find p1")
	}
	if p2.N() != 3 {
		t.Fatalf("got %d, wanted 3", p2.N())
	}

	if err := s.Delete("p1"); err != nil {
		t.Fatal(err)
	}
	p3 := newSample()
	found, err = s.Get("p1", p3)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected p1 to be gone after delete")
	}
}

func TestGetMissingKey(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), "samples")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	p := newSample()
	found, err := s.Get("nope", p)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("expected not found")
	}
}

func TestForEach(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"), "samples")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	for i, key := range []string{"a", "b", "c"} {
		p := newSample()
		p.SetN(int32(i))
		if err := s.Put(key, p); err != nil {
			t.Fatal(err)
		}
	}

	seen := map[string]int32{}
	err = s.ForEach(func() dmodel.Record { return newSample() }, func(key string, r dmodel.Record) error {
		seen[key] = r.(*sample).N()
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 3 || seen["a"] != 0 || seen["b"] != 1 || seen["c"] != 2 {
		t.Fatalf("unexpected ForEach results: %v", seen)
	}
}
