package dmodel

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
)

// PackMsgpack encodes r's structural ("dict") form as msgpack, for
// compact wire transport between processes that don't need the
// self-describing JSON-ish map[string]any in hand.
func PackMsgpack(r Record, opts ...PackOption) ([]byte, error) {
	v, err := Pack(r, FormatDict, opts...)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err = enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, packErrf("msgpack encode failed: %v", err)
	}
	return buf.Bytes(), nil
}

// UnpackMsgpack decodes a msgpack-encoded structural form produced by
// PackMsgpack (or a compatible peer) into r.
func UnpackMsgpack(r Record, data []byte, opts ...UnpackOption) (map[any]bool, error) {
	dec := msgpack.GetDecoder()
	dec.Reset(bytes.NewReader(data))
	var m map[string]any
	err := dec.Decode(&m)
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, unpackErrf("", "", 0, err, "msgpack decode failed")
	}
	return Unpack(r, FormatDict, m, opts...)
}
