// Package jleaf implements the leaf dispatcher: given the cursor's first
// significant byte, it selects the appropriate scalar reader, classifies
// the leaf kind, and populates a Leaf value. The number reader is a
// first-class extension point — Dispatch accepts an optional NumberPolicy
// that replaces the built-in jscalar.ReadNumber, e.g. to leave numbers as
// unparsed source slices (see package jnum).
package jleaf

import (
	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jscalar"
	"github.com/lattice-substrate/inplace-json/jstring"
)

// Kind identifies the concrete type carried by a Leaf.
type Kind int

const (
	// KindNull identifies a null leaf.
	KindNull Kind = iota
	// KindBool identifies a boolean leaf.
	KindBool
	// KindInteger identifies a signed 64-bit integer leaf.
	KindInteger
	// KindDouble identifies an IEEE 754 double leaf.
	KindDouble
	// KindString identifies a decoded string leaf.
	KindString
	// firstCustomKind is the first Kind value a NumberPolicy may return
	// for a representation outside the five built-in leaf kinds (e.g.
	// jnum's unparsed numeric slice). Values below this are reserved.
	firstCustomKind
)

// Leaf is a tagged union over the five built-in scalar kinds (or, when
// produced by a custom NumberPolicy, an arbitrary custom kind carrying a
// Slice payload in Str).
type Leaf struct {
	Kind    Kind
	Bool    bool
	Integer int64
	Double  float64
	Str     jcursor.Slice
}

// NumberPolicy is the pluggable number reader extension point: given the
// cursor positioned at a number token, it returns a Kind (>=
// firstCustomKind for anything beyond the built-in five, to be passed
// through to the leaf consumer untouched) and the populated Leaf, or an
// error.
type NumberPolicy func(c *jcursor.Cursor) (Kind, Leaf, error)

// FirstCustomKind returns the first Kind value available to a custom
// NumberPolicy, so policies in other packages can define their own kinds
// without colliding with the built-in five.
func FirstCustomKind() Kind { return firstCustomKind }

// DefaultNumberPolicy wraps jscalar.ReadNumber as a NumberPolicy.
func DefaultNumberPolicy(c *jcursor.Cursor) (Kind, Leaf, error) {
	kind, i, f, err := jscalar.ReadNumber(c)
	if err != nil {
		return 0, Leaf{}, err
	}
	if kind == jscalar.KindInteger {
		return KindInteger, Leaf{Kind: KindInteger, Integer: i}, nil
	}
	return KindDouble, Leaf{Kind: KindDouble, Double: f}, nil
}

// Dispatch examines the cursor's first significant byte and reads the
// corresponding leaf. policy, if non-nil, replaces DefaultNumberPolicy
// for anything that isn't null/true/false/a string.
func Dispatch(c *jcursor.Cursor, policy NumberPolicy) (Kind, Leaf, error) {
	b, ok := c.Peek()
	if !ok {
		return 0, Leaf{}, jerr.New(jerr.Structural, c.Pos, "unexpected end of input where a value was expected")
	}

	switch b {
	case '"':
		s, err := jstring.Decode(c)
		if err != nil {
			return 0, Leaf{}, err
		}
		return KindString, Leaf{Kind: KindString, Str: s}, nil
	case 'n':
		if err := jscalar.ReadNull(c); err != nil {
			return 0, Leaf{}, err
		}
		return KindNull, Leaf{Kind: KindNull}, nil
	case 't', 'f':
		v, err := jscalar.ReadBool(c)
		if err != nil {
			return 0, Leaf{}, err
		}
		return KindBool, Leaf{Kind: KindBool, Bool: v}, nil
	default:
		if policy == nil {
			policy = DefaultNumberPolicy
		}
		return policy(c)
	}
}
