package dmodel

import (
	"bytes"
	"testing"
)

func eq[T comparable](t *testing.T, got, want T, what string) {
	t.Helper()
	if got != want {
		t.Fatalf("%s = %v, wanted %v", what, got, want)
	}
}

func TestWireWriterPrimitives(t *testing.T) {
	var w wireWriter
	w.AppendInt8(-5)
	w.AppendUint8(200)
	w.AppendInt16(-1000)
	w.AppendUint16(60000)
	w.AppendInt32(-70000)
	w.AppendUint32(4000000000)
	w.AppendInt64(-1 << 40)
	w.AppendUint64(1 << 50)
	w.AppendFloat32(3.5)
	w.AppendFloat64(2.25)
	w.AppendBool(true)
	w.AppendBool(false)
	if err := w.AppendString("R", "f", "hi"); err != nil {
		t.Fatal(err)
	}

	r := newWireReader(w.Buf)
	eq(t, must(r.ReadInt8()), int8(-5), "int8")
	eq(t, must(r.ReadUint8()), uint8(200), "uint8")
	eq(t, must(r.ReadInt16()), int16(-1000), "int16")
	eq(t, must(r.ReadUint16()), uint16(60000), "uint16")
	eq(t, must(r.ReadInt32()), int32(-70000), "int32")
	eq(t, must(r.ReadUint32()), uint32(4000000000), "uint32")
	eq(t, must(r.ReadInt64()), int64(-1<<40), "int64")
	eq(t, must(r.ReadUint64()), uint64(1<<50), "uint64")
	eq(t, must(r.ReadFloat32()), float32(3.5), "float32")
	eq(t, must(r.ReadFloat64()), float64(2.25), "float64")
	eq(t, must(r.ReadBool()), true, "bool1")
	eq(t, must(r.ReadBool()), false, "bool2")
	eq(t, must(r.ReadString()), "hi", "string")
	if !r.IsEnd() {
		t.Fatalf("expected reader exhausted, %d bytes remain", len(r.Buf))
	}
}

func TestWireBigEndianBitExact(t *testing.T) {
	var w wireWriter
	w.AppendUint32(0x01020304)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	if !bytes.Equal(w.Buf, want) {
		t.Fatalf("not big-endian: got %x, wanted %x", w.Buf, want)
	}
}

func TestWireStringTooLong(t *testing.T) {
	var w wireWriter
	huge := make([]byte, 1<<16)
	err := w.AppendString("R", "f", string(huge))
	if err == nil {
		t.Fatal("expected error for oversized string")
	}
	var derr *Error
	if !okAs(err, &derr) || derr.Kind != KindStringTooLong {
		t.Fatalf("expected KindStringTooLong, got %v", err)
	}
}

func TestWireFieldIndexTerminator(t *testing.T) {
	var w wireWriter
	w.AppendFieldIndex(FieldIndex(endOfRecord))
	r := newWireReader(w.Buf)
	idx := must(r.ReadFieldIndex())
	eq(t, idx, FieldIndex(endOfRecord), "field index terminator")
}

func TestWireContainerHeads(t *testing.T) {
	var w wireWriter
	w.AppendArrayHead(3)
	w.AppendMapHead(7)
	w.AppendIdMapHead(0)

	r := newWireReader(w.Buf)
	eq(t, must(r.ReadArrayHead()), 3, "array head")
	eq(t, must(r.ReadMapHead()), 7, "map head")
	eq(t, must(r.ReadIdMapHead()), 0, "id map head")
}

func TestWireContainerHeadMismatch(t *testing.T) {
	var w wireWriter
	w.AppendMapHead(1)
	r := newWireReader(w.Buf)
	if _, err := r.ReadArrayHead(); err == nil {
		t.Fatal("expected tag mismatch error")
	}
}

func TestWireShortRead(t *testing.T) {
	r := newWireReader([]byte{0x01})
	if _, err := r.ReadUint32(); err == nil {
		t.Fatal("expected short-read error")
	}
}

func okAs(err error, target **Error) bool {
	e, ok := err.(*Error)
	if ok {
		*target = e
	}
	return ok
}
