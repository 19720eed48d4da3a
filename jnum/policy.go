package jnum

import (
	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"github.com/lattice-substrate/inplace-json/jscalar"
)

// KindUnparsed is the jleaf.Kind StringifyPolicy reports: the payload is
// the number's raw, unvalidated-beyond-grammar source slice, so a
// consumer that only round-trips numbers never pays for a float64
// conversion that would lose precision.
var KindUnparsed = jleaf.FirstCustomKind()

// KindPreciseDouble is the jleaf.Kind PreciseDoublePolicy reports: the
// payload is every number, integer or not, re-rendered through
// FormatDouble, so two spellings of the same value (100 and 1e2) compare
// textually equal after re-serialisation.
var KindPreciseDouble = jleaf.FirstCustomKind() + 1

// StringifyPolicy is a jleaf.NumberPolicy that does not interpret a
// number token at all: it scans the token's grammar (sign, digit run,
// optional fraction, optional exponent) just far enough to find its
// extent, and returns that span unparsed as a KindUnparsed leaf.
func StringifyPolicy(c *jcursor.Cursor) (jleaf.Kind, jleaf.Leaf, error) {
	start := c.Pos
	if err := scanNumberToken(c); err != nil {
		return 0, jleaf.Leaf{}, err
	}
	slice := jcursor.Slice{Buf: c.Buf, Start: start, Len: c.Pos - start}
	return KindUnparsed, jleaf.Leaf{Kind: KindUnparsed, Str: slice}, nil
}

// PreciseDoublePolicy is a jleaf.NumberPolicy that parses every number
// through jscalar.ReadNumber and re-renders it with FormatDouble,
// reporting a KindPreciseDouble leaf whose Str holds the re-rendered
// text (a freshly allocated string, not an alias into the source
// buffer).
func PreciseDoublePolicy(c *jcursor.Cursor) (jleaf.Kind, jleaf.Leaf, error) {
	kind, i, f, err := jscalar.ReadNumber(c)
	if err != nil {
		return 0, jleaf.Leaf{}, err
	}
	if kind == jscalar.KindInteger {
		f = float64(i)
	}

	rendered, err := FormatDouble(f)
	if err != nil {
		return 0, jleaf.Leaf{}, jerr.Wrap(jerr.NumericOverflow, c.Pos, err, "re-rendering number")
	}
	buf := []byte(rendered)
	slice := jcursor.Slice{Buf: buf, Start: 0, Len: len(buf)}
	return KindPreciseDouble, jleaf.Leaf{Kind: KindPreciseDouble, Double: f, Str: slice}, nil
}

// scanNumberToken advances c past one JSON number token without
// interpreting it, validating just enough grammar to find its extent:
// an optional '-', a '0' or non-zero digit run, an optional '.'-led
// fraction, and an optional 'E'/'e'-led exponent.
func scanNumberToken(c *jcursor.Cursor) error {
	start := c.Pos
	if b, ok := c.Peek(); ok && b == '-' {
		c.Advance(1)
	}

	digitsStart := c.Pos
	if b, ok := c.Peek(); ok && b == '0' {
		c.Advance(1)
	} else {
		for {
			b, ok := c.Peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.Advance(1)
		}
	}
	if c.Pos == digitsStart {
		c.Pos = start
		return jerr.New(jerr.Lexical, start, "expected digit")
	}

	if b, ok := c.Peek(); ok && b == '.' {
		c.Advance(1)
		fracStart := c.Pos
		for {
			b, ok := c.Peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.Advance(1)
		}
		if c.Pos == fracStart {
			return jerr.New(jerr.Lexical, fracStart, "expected digit after decimal point")
		}
	}

	if b, ok := c.Peek(); ok && (b == 'E' || b == 'e') {
		c.Advance(1)
		if b, ok := c.Peek(); ok && (b == '+' || b == '-') {
			c.Advance(1)
		}
		expStart := c.Pos
		for {
			b, ok := c.Peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			c.Advance(1)
		}
		if c.Pos == expStart {
			return jerr.New(jerr.Lexical, expStart, "expected digit in exponent")
		}
	}

	return nil
}
