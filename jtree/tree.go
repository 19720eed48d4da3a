// Package jtree implements the tree builder: an event-consumer layered
// on top of jevent that materialises a JSON document into a heap-backed
// value tree, plus the Printer and Finaliser that operate on a built
// tree. Every string or key in a built tree still aliases the original
// source buffer; only the array/object backing slices are heap
// allocations owned by the tree itself.
package jtree

import (
	"errors"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jevent"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"golang.org/x/exp/constraints"
)

// Kind identifies the concrete shape of a tree Value.
type Kind int

const (
	// KindNull identifies a null value.
	KindNull Kind = iota
	// KindBool identifies a boolean value.
	KindBool
	// KindInteger identifies a signed 64-bit integer value.
	KindInteger
	// KindDouble identifies an IEEE 754 double value.
	KindDouble
	// KindString identifies a decoded string value.
	KindString
	// KindArray identifies an array value; Value.Array holds its children.
	KindArray
	// KindObject identifies an object value; Value.Object holds its
	// members in insertion order. Keys are not deduplicated.
	KindObject
)

// Value is a tagged union over the seven tree value shapes.
type Value struct {
	Kind    Kind
	Bool    bool
	Integer int64
	Double  float64
	Str     jcursor.Slice
	Array   []Value
	Object  []Member
}

// Member is one (key, value) pair of an Object, in insertion order. The
// same key may appear more than once; deduplication semantics are left
// to the consumer.
type Member struct {
	Key   jcursor.Slice
	Value Value
}

// ErrEmpty is returned by Tree.Root when the parse produced no root value
// (the input was empty or the parse failed before any value completed).
var ErrEmpty = errors.New("jtree: tree has no root value")

// ErrFinalised is returned by Tree.Root after Finalise has released the
// tree's backing storage.
var ErrFinalised = errors.New("jtree: tree already finalised")

// Tree owns the heap allocations backing a parsed document: every
// Array/Object slice reachable from Root is exclusively owned,
// transitively, by this Tree and released together by Finalise.
type Tree struct {
	root      Value
	hasRoot   bool
	finalised bool
}

// Root returns the tree's root value. It fails if the parse never completed
// a root (ErrEmpty) or if the tree has already been finalised
// (ErrFinalised). Callers must not inspect a tree returned alongside a
// parse error, but must still finalise it.
func (t *Tree) Root() (*Value, error) {
	if t.finalised {
		return nil, ErrFinalised
	}
	if !t.hasRoot {
		return nil, ErrEmpty
	}
	return &t.root, nil
}

// StoreLeaf lets a caller of ParseWithPolicies decide how a leaf kind
// outside the five built-in kinds (produced by a custom
// jleaf.NumberPolicy, kind >= jleaf.FirstCustomKind()) is stored into the
// tree — e.g. jnum's unparsed-number policy stores its Slice payload as
// a KindString-shaped Value for later reinterpretation.
type StoreLeaf func(kind jleaf.Kind, v jleaf.Leaf) (Value, error)

// Parse builds a tree from c using the recursive event parser and the
// default number policy (jscalar.ReadNumber via jleaf.DefaultNumberPolicy).
func Parse(c *jcursor.Cursor) (*Tree, error) {
	return build(c, jevent.ParseRecursive, nil, nil)
}

// ParseStackless is like Parse but walks the document with the
// stackless event parser, so depth is bounded only by jevent's depth
// counter rather than the call stack.
func ParseStackless(c *jcursor.Cursor) (*Tree, error) {
	return build(c, jevent.ParseStackless, nil, nil)
}

// ParseWithPolicies lets the caller choose the parser variant and
// override the number policy; if policy ever returns a kind outside the
// built-in five, storeLeaf says how that custom kind is represented in
// the tree.
func ParseWithPolicies(c *jcursor.Cursor, stackless bool, policy jleaf.NumberPolicy, storeLeaf StoreLeaf) (*Tree, error) {
	parseFn := jevent.ParseRecursive
	if stackless {
		parseFn = jevent.ParseStackless
	}
	return build(c, parseFn, policy, storeLeaf)
}

type parseFunc func(*jcursor.Cursor, jevent.Handler, jleaf.NumberPolicy) error

func build(c *jcursor.Cursor, parse parseFunc, policy jleaf.NumberPolicy, storeLeaf StoreLeaf) (*Tree, error) {
	b := &builder{storeLeaf: storeLeaf}
	err := parse(c, b, policy)

	t := &Tree{}
	if b.rootSet {
		t.root = b.root
		t.hasRoot = true
	}
	if err != nil {
		return t, err
	}
	if !b.rootSet {
		return t, jerr.New(jerr.Structural, c.Pos, "no value produced")
	}
	return t, nil
}

// builder implements jevent.Handler, accumulating nested composites on a
// stack of frames and delivering each completed value (leaf or closed
// composite) to its parent frame, or to the root once the stack empties.
type builder struct {
	stack     []*frame
	root      Value
	rootSet   bool
	storeLeaf StoreLeaf
}

// frame is one in-progress array or object: a destination for every
// value delivered while it is the innermost open composite.
type frame struct {
	inArray bool

	elements []Value // used when inArray

	keys          []jcursor.Slice // used when !inArray
	vals          []Value
	hasPendingKey bool
	pendingKey    jcursor.Slice
}

func (b *builder) Begin(inArray bool) error {
	b.stack = growSlice(b.stack, &frame{inArray: inArray})
	return nil
}

func (b *builder) ArrayEntry() error {
	return nil
}

func (b *builder) ObjectEntry(key jcursor.Slice) error {
	top := b.stack[len(b.stack)-1]
	top.hasPendingKey = true
	top.pendingKey = key
	return nil
}

func (b *builder) Leaf(kind jleaf.Kind, v jleaf.Leaf) error {
	val, err := b.toValue(kind, v)
	if err != nil {
		return err
	}
	b.deliver(val)
	return nil
}

func (b *builder) End(inArray bool) error {
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]

	var val Value
	if top.inArray {
		val = Value{Kind: KindArray, Array: top.elements}
	} else {
		val = Value{Kind: KindObject, Object: zipMembers(top.keys, top.vals)}
	}
	b.deliver(val)
	return nil
}

func (b *builder) toValue(kind jleaf.Kind, v jleaf.Leaf) (Value, error) {
	switch kind {
	case jleaf.KindNull:
		return Value{Kind: KindNull}, nil
	case jleaf.KindBool:
		return Value{Kind: KindBool, Bool: v.Bool}, nil
	case jleaf.KindInteger:
		return Value{Kind: KindInteger, Integer: v.Integer}, nil
	case jleaf.KindDouble:
		return Value{Kind: KindDouble, Double: v.Double}, nil
	case jleaf.KindString:
		return Value{Kind: KindString, Str: v.Str}, nil
	default:
		if b.storeLeaf == nil {
			return Value{}, jerr.New(jerr.Structural, v.Str.Start, "no StoreLeaf configured for custom leaf kind %d", kind)
		}
		return b.storeLeaf(kind, v)
	}
}

func (b *builder) deliver(v Value) {
	if len(b.stack) == 0 {
		b.root = v
		b.rootSet = true
		return
	}

	top := b.stack[len(b.stack)-1]
	if top.inArray {
		top.elements = growSlice(top.elements, v)
		return
	}
	if !top.hasPendingKey {
		return
	}
	top.keys = growSlice(top.keys, top.pendingKey)
	top.vals = growSlice(top.vals, v)
	top.hasPendingKey = false
}

func zipMembers(keys []jcursor.Slice, vals []Value) []Member {
	if len(keys) == 0 {
		return nil
	}
	members := make([]Member, len(keys))
	for i := range keys {
		members[i] = Member{Key: keys[i], Value: vals[i]}
	}
	return members
}

// growSlice appends v to s, growing s's backing array by doubling
// (starting from capacity 1) whenever it is exhausted. Shared by the
// element stack, the array buffer, and both object buffers.
func growSlice[T any](s []T, v T) []T {
	if len(s) == cap(s) {
		s = reserve(s, nextCap(cap(s)))
	}
	return append(s, v)
}

func reserve[T any](s []T, n int) []T {
	grown := make([]T, len(s), n)
	copy(grown, s)
	return grown
}

// nextCap computes the next doubled capacity starting from 1, generic
// over any integer capacity type.
func nextCap[I constraints.Integer](cur I) I {
	if cur <= 0 {
		return 1
	}
	return cur * 2
}
