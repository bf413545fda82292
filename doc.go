/*
Package dmodel implements a schema-driven framework for persistable
nested record objects.

A record is a Go struct embedding Base, whose fields are declared once
at package-init time via RecordBuilder, giving it a compiled
FieldsDefine (its Protocol). Every record instance carries a DirtySet
tracking which fields have changed since the last clear, so a caller
can serialize either the full object graph or only what changed
("delta" encoding).

Two wire formats are supported: a self-describing structural form keyed
by field name (Format "dict", a map[string]any suitable for JSON/msgpack
transport) and a compact tag-index binary form (Format "bin", a
bit-exact big-endian byte stream). Both honor the same delta rules,
including explicit null tombstones for deleted Map keys in the
structural form.

References between records are expressed through a field's "oid" value
rather than a Go pointer cycle: a ref field encodes as the target's oid
and decodes as a deferred reference, resolved in a second pass once the
whole graph (or a caller-supplied resolver) has been consulted.

# Containers

Array, Map and IdMap are the three container shapes a field may hold.
Each owns a `changed` flag (Map/IdMap additionally a removed-key set)
independent of the owning record's DirtySet, so mutating a container in
place is visible to delta encoding without marking every ancestor field
dirty.

# Persistence and transport

The boltstore subpackage persists records in a bbolt database, keyed by
a caller-supplied string such as the record's oid, using the binary codec as its on-disk row format. PackMsgpack /
UnpackMsgpack exchange the structural form over msgpack for compact wire
transport between processes.
*/
package dmodel
