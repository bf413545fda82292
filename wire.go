package dmodel

import (
	"encoding/binary"
	"math"
)

// Container head tags for the binary wire format (§6).
const (
	tagArray uint8 = 0xD0
	tagMap   uint8 = 0xD1
	tagIdMap uint8 = 0xD2
)

// endOfRecord is the field-index sentinel that terminates a record body.
const endOfRecord uint16 = 0

func ensureCapacity(buf []byte, minCap int) []byte {
	c := cap(buf)
	if minCap > c {
		if c < 16 {
			c = 16
		}
		for minCap > c {
			c <<= 1
		}
		old := buf
		buf = make([]byte, len(old), c)
		copy(buf, old)
	}
	return buf
}

func grow(buf []byte, n int) (int, []byte) {
	off := len(buf)
	newLen := off + n
	buf = ensureCapacity(buf, newLen)
	return off, buf[:newLen]
}

// wireWriter is a growable byte buffer with the bit-exact big-endian
// primitive encoders required by §6.
type wireWriter struct {
	Buf []byte
}

func (w *wireWriter) grow(n int) int {
	off, buf := grow(w.Buf, n)
	w.Buf = buf
	return off
}

func (w *wireWriter) AppendByte(v byte) {
	off := w.grow(1)
	w.Buf[off] = v
}

func (w *wireWriter) AppendRaw(v []byte) {
	off := w.grow(len(v))
	copy(w.Buf[off:], v)
}

func (w *wireWriter) AppendInt8(v int8) { w.AppendByte(byte(v)) }

func (w *wireWriter) AppendUint8(v uint8) { w.AppendByte(v) }

func (w *wireWriter) AppendInt16(v int16) { w.AppendUint16(uint16(v)) }

func (w *wireWriter) AppendUint16(v uint16) {
	off := w.grow(2)
	binary.BigEndian.PutUint16(w.Buf[off:], v)
}

func (w *wireWriter) AppendInt32(v int32) { w.AppendUint32(uint32(v)) }

func (w *wireWriter) AppendUint32(v uint32) {
	off := w.grow(4)
	binary.BigEndian.PutUint32(w.Buf[off:], v)
}

func (w *wireWriter) AppendInt64(v int64) { w.AppendUint64(uint64(v)) }

func (w *wireWriter) AppendUint64(v uint64) {
	off := w.grow(8)
	binary.BigEndian.PutUint64(w.Buf[off:], v)
}

func (w *wireWriter) AppendFloat32(v float32) { w.AppendUint32(math.Float32bits(v)) }

func (w *wireWriter) AppendFloat64(v float64) { w.AppendUint64(math.Float64bits(v)) }

func (w *wireWriter) AppendBool(v bool) {
	if v {
		w.AppendByte(1)
	} else {
		w.AppendByte(0)
	}
}

func (w *wireWriter) AppendString(record, field, v string) error {
	if len(v) >= 1<<16 {
		return stringTooLongErrf(record, field, len(v))
	}
	w.AppendUint16(uint16(len(v)))
	w.AppendRaw([]byte(v))
	return nil
}

func (w *wireWriter) AppendFieldIndex(idx FieldIndex) { w.AppendUint16(uint16(idx)) }

func (w *wireWriter) AppendArrayHead(n int) {
	w.AppendByte(tagArray)
	w.AppendUint32(uint32(n))
}

func (w *wireWriter) AppendMapHead(n int) {
	w.AppendByte(tagMap)
	w.AppendUint32(uint32(n))
}

func (w *wireWriter) AppendIdMapHead(n int) {
	w.AppendByte(tagIdMap)
	w.AppendUint32(uint32(n))
}

// wireReader decodes bit-exact big-endian primitives from an immutable
// input, tracking a read cursor for error offsets.
type wireReader struct {
	Orig []byte
	Buf  []byte
}

func newWireReader(buf []byte) *wireReader {
	return &wireReader{Orig: buf, Buf: buf}
}

func (r *wireReader) Off() int { return len(r.Orig) - len(r.Buf) }

func (r *wireReader) IsEnd() bool { return len(r.Buf) == 0 }

func (r *wireReader) take(n int) ([]byte, error) {
	if len(r.Buf) < n {
		return nil, packErrf("not enough data: %d bytes remaining, %d wanted", len(r.Buf), n)
	}
	v := r.Buf[:n]
	r.Buf = r.Buf[n:]
	return v, nil
}

func (r *wireReader) ReadInt8() (int8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (r *wireReader) ReadUint8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *wireReader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

func (r *wireReader) ReadUint16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *wireReader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *wireReader) ReadUint32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *wireReader) ReadInt64() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

func (r *wireReader) ReadUint64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (r *wireReader) ReadFloat32() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

func (r *wireReader) ReadFloat64() (float64, error) {
	v, err := r.ReadUint64()
	return math.Float64frombits(v), err
}

func (r *wireReader) ReadBool() (bool, error) {
	b, err := r.ReadUint8()
	return b != 0, err
}

func (r *wireReader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (r *wireReader) ReadFieldIndex() (FieldIndex, error) {
	v, err := r.ReadUint16()
	return FieldIndex(v), err
}

func (r *wireReader) readContainerHead(want uint8) (int, error) {
	tag, err := r.ReadUint8()
	if err != nil {
		return 0, err
	}
	if tag != want {
		return 0, packErrf("malformed container head: got tag 0x%x, wanted 0x%x", tag, want)
	}
	n, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *wireReader) ReadArrayHead() (int, error) { return r.readContainerHead(tagArray) }

func (r *wireReader) ReadMapHead() (int, error) { return r.readContainerHead(tagMap) }

func (r *wireReader) ReadIdMapHead() (int, error) { return r.readContainerHead(tagIdMap) }
