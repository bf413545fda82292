package dmodel

import "fmt"

// ErrorKind categorizes the distinct failure modes of schema definition,
// change tracking, and the codec pipeline. See spec §7.
type ErrorKind int

const (
	KindDefine ErrorKind = iota + 1
	KindOperate
	KindNoField
	KindOverflowLower
	KindStringTooLong
	KindPack
	KindUnpack
)

func (k ErrorKind) String() string {
	switch k {
	case KindDefine:
		return "define"
	case KindOperate:
		return "operate"
	case KindNoField:
		return "no_field"
	case KindOverflowLower:
		return "overflow_lower"
	case KindStringTooLong:
		return "string_too_long"
	case KindPack:
		return "pack"
	case KindUnpack:
		return "unpack"
	default:
		return fmt.Sprintf("invalid error kind %d", int(k))
	}
}

// Error is the single error family surfaced by this package. Field and
// Record carry schema context; Off carries a byte offset for binary codec
// failures. Err, when set, is the underlying cause (Unwrap-compatible).
type Error struct {
	Kind   ErrorKind
	Record string
	Field  string
	Off    int
	Msg    string
	Err    error
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Record != "" {
		s += " " + e.Record
		if e.Field != "" {
			s += "." + e.Field
		}
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func errf(kind ErrorKind, record, field string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Record: record,
		Field:  field,
		Msg:    fmt.Sprintf(format, args...),
		Err:    err,
	}
}

// defineErrf reports a bad schema declaration: unsupported type, invalid
// index range, conflicting container flags, ref on a non-record type,
// arithm on a non-number type, or a duplicate name/index across the
// inheritance chain. Define-time errors panic rather than propagate,
// mirroring the original's metaclass raising while executing a class body.
func defineErrf(record, field string, format string, args ...any) *Error {
	return errf(KindDefine, record, field, nil, format, args...)
}

// operateErrf reports an illegal runtime action, such as deleting a
// container field.
func operateErrf(record, field string, format string, args ...any) *Error {
	return errf(KindOperate, record, field, nil, format, args...)
}

// noFieldErrf reports a lookup by a name absent from the schema.
func noFieldErrf(record, name string) *Error {
	return errf(KindNoField, record, name, nil, "no such field: %s", name)
}

// overflowLowerErrf reports that a checked sub_<name> would cross its
// lower bound (0 for unsigned fields without an explicit min_value, or the
// declared min_value otherwise).
func overflowLowerErrf(record, field string, old, delta, limit int64) *Error {
	return errf(KindOverflowLower, record, field, nil,
		"subtracting %d from %d would go below %d", delta, old, limit)
}

// stringTooLongErrf reports a string whose length does not fit the
// uint16 length prefix of the binary wire format.
func stringTooLongErrf(record, field string, n int) *Error {
	return errf(KindStringTooLong, record, field, nil, "string of length %d does not fit uint16", n)
}

func packErrf(format string, args ...any) *Error {
	return errf(KindPack, "", "", nil, format, args...)
}

func unpackErrf(record, field string, off int, err error, format string, args ...any) *Error {
	e := errf(KindUnpack, record, field, err, format, args...)
	e.Off = off
	return e
}

// skipFromPack is an internal sentinel meaning "this subtree produced no
// data; elide the parent's field". It is never returned to a caller.
type skipFromPack struct{}

var theSkipFromPack = skipFromPack{}
