package dmodel

// Example record types exercised by the tests below, modeled on the
// canonical Point/Rect fixtures from spec §8.

var pointFD = NewRecordBuilder("Point").
	Field(ScalarField("Point", "x", 1, KindInt32)).
	Field(ScalarField("Point", "y", 2, KindInt32)).
	Build()

type Point struct {
	Base
}

func (p *Point) FieldsDefine() *FieldsDefine { return pointFD }

func NewPoint() *Point {
	p := &Point{}
	NewRecord(p)
	return p
}

func (p *Point) X() int32     { return p.GetByName("x").(int32) }
func (p *Point) SetX(v int32) { p.SetByName("x", v) }
func (p *Point) Y() int32     { return p.GetByName("y").(int32) }
func (p *Point) SetY(v int32) { p.SetByName("y", v) }

var rectFD = NewRecordBuilder("Rect").
	Field(RecordField("Rect", "lt", 1, func() Record { return NewPoint() })).
	Field(RecordField("Rect", "rb", 2, func() Record { return NewPoint() })).
	Build()

type Rect struct {
	Base
}

func (r *Rect) FieldsDefine() *FieldsDefine { return rectFD }

func NewRect() *Rect {
	r := &Rect{}
	NewRecord(r)
	return r
}

func (r *Rect) Lt() *Point {
	if v, ok := r.values[rectFD.mustByName("lt").Index]; ok {
		return v.(*Point)
	}
	p := NewPoint()
	r.SetByName("lt", p)
	return p
}

func (r *Rect) SetLt(p *Point) { r.SetByName("lt", p) }

func (r *Rect) Rb() *Point {
	if v, ok := r.values[rectFD.mustByName("rb").Index]; ok {
		return v.(*Point)
	}
	p := NewPoint()
	r.SetByName("rb", p)
	return p
}

func (r *Rect) SetRb(p *Point) { r.SetByName("rb", p) }

// Node has an oid (its identity) and a non-owning ref to a peer Node,
// exercising the ref/oid/two-phase-resolution machinery.
var nodeFD = NewRecordBuilder("Node").
	Field(ScalarField("Node", "oid", 1, KindString)).
	Field(ScalarField("Node", "label", 2, KindString)).
	Field(RefField("Node", "peer", 3, nodeProtocol{})).
	Build()

type nodeProtocol struct{}

func (nodeProtocol) FieldsDefine() *FieldsDefine { return nodeFD }

type Node struct {
	Base
}

func (n *Node) FieldsDefine() *FieldsDefine { return nodeFD }

func NewNode() *Node {
	n := &Node{}
	NewRecord(n)
	return n
}

func (n *Node) Oid() string       { return n.GetByName("oid").(string) }
func (n *Node) SetOid(v string)   { n.SetByName("oid", v) }
func (n *Node) Label() string     { return n.GetByName("label").(string) }
func (n *Node) SetLabel(v string) { n.SetByName("label", v) }
func (n *Node) Peer() *Node {
	v := n.GetByName("peer")
	if v == nil {
		return nil
	}
	return v.(*Node)
}
func (n *Node) SetPeer(p *Node) { n.SetByName("peer", p) }

// Registry owns an IdMap of Nodes keyed by their oid, and a plain
// string-keyed Map of int32 counters, exercising both container kinds.
var registryFD = NewRecordBuilder("Registry").
	Field(IdMapField("Registry", "nodes", 1, nodeProtocol{}, func() Record { return NewNode() })).
	Field(MapField("Registry", "counters", 2, KindString, KindInt32)).
	Build()

type Registry struct {
	Base
}

func (r *Registry) FieldsDefine() *FieldsDefine { return registryFD }

func NewRegistry() *Registry {
	r := &Registry{}
	NewRecord(r)
	return r
}

func (r *Registry) Nodes() *IdMap {
	return r.GetByName("nodes").(*IdMap)
}

func (r *Registry) Counters() *Map {
	return r.GetByName("counters").(*Map)
}

// Board owns a string-keyed Map whose values are owned Point sub-records,
// exercising Map-of-records change propagation (as opposed to Registry's
// IdMap, which is keyed by the element's own oid).
var boardFD = NewRecordBuilder("Board").
	Field(MapOfRecordsField("Board", "marks", 1, KindString, func() Record { return NewPoint() })).
	Build()

type Board struct {
	Base
}

func (b *Board) FieldsDefine() *FieldsDefine { return boardFD }

func NewBoard() *Board {
	b := &Board{}
	NewRecord(b)
	return b
}

func (b *Board) Marks() *Map { return b.GetByName("marks").(*Map) }

// Counter has an arithm uint32 field with no explicit floor (defaults to
// 0) and a signed field with an explicit min_value, exercising the
// OverflowLower guard from spec §8.
var counterFD = NewRecordBuilder("Counter").
	Field(ScalarField("Counter", "n", 1, KindUint32, WithArithm())).
	Field(ScalarField("Counter", "balance", 2, KindInt32, WithArithm(), WithMinValue(-5))).
	Build()

type Counter struct {
	Base
}

func (c *Counter) FieldsDefine() *FieldsDefine { return counterFD }

func NewCounter() *Counter {
	c := &Counter{}
	NewRecord(c)
	return c
}

func (c *Counter) N() uint32     { return c.GetByName("n").(uint32) }
func (c *Counter) SetN(v uint32) { c.SetByName("n", v) }

// AddN/SubN are the synthesized checked arithmetic helpers for the
// arithm field "n" (spec §4.2 step 6): a plain Set bypasses the
// OverflowLower floor check, these don't.
func (c *Counter) AddN(delta int64) (int64, uint32, error) {
	d, nv, err := c.inst().AddInt("n", delta)
	return d, uint32(nv), err
}

func (c *Counter) SubN(delta int64) (int64, uint32, error) {
	d, nv, err := c.inst().SubInt("n", delta)
	return d, uint32(nv), err
}

func (c *Counter) Balance() int32     { return c.GetByName("balance").(int32) }
func (c *Counter) SetBalance(v int32) { c.SetByName("balance", v) }

// AddBalance/SubBalance are the synthesized checked arithmetic helpers
// for the arithm field "balance", whose floor is its declared min_value
// rather than the unsigned default of 0.
func (c *Counter) AddBalance(delta int64) (int64, int32, error) {
	d, nv, err := c.inst().AddInt("balance", delta)
	return d, int32(nv), err
}

func (c *Counter) SubBalance(delta int64) (int64, int32, error) {
	d, nv, err := c.inst().SubInt("balance", delta)
	return d, int32(nv), err
}
