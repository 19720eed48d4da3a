// Package jscalar implements the low-level scalar token readers: null,
// boolean, integer, and two distinct double readers (a low-level
// ReadDouble with no exponent support, and a mid-level ReadNumber that
// subsumes it and adds exponents). None of these readers consume
// trailing whitespace; that is the caller's responsibility.
package jscalar

import (
	"math"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
)

// Kind classifies the result of ReadNumber.
type Kind int

const (
	// KindInteger indicates the number parsed as a signed 64-bit integer.
	KindInteger Kind = iota
	// KindDouble indicates the number parsed as an IEEE 754 double
	// (a '.' or an 'E'/'e' exponent was present).
	KindDouble
)

// ReadNull succeeds only if the next four bytes are exactly "null",
// advancing the cursor by 4.
func ReadNull(c *jcursor.Cursor) error {
	if !c.HasPrefix("null") {
		return jerr.New(jerr.Lexical, c.Pos, "expected literal null")
	}
	c.Advance(4)
	return nil
}

// ReadBool succeeds on "true" (+4) or "false" (+5).
func ReadBool(c *jcursor.Cursor) (bool, error) {
	if c.HasPrefix("true") {
		c.Advance(4)
		return true, nil
	}
	if c.HasPrefix("false") {
		c.Advance(5)
		return false, nil
	}
	return false, jerr.New(jerr.Lexical, c.Pos, "expected literal true or false")
}

// ReadInteger parses an optional leading '-' then either a single '0' or
// a non-zero decimal digit sequence. It fails (without consuming input
// beyond the sign) if the byte immediately following the digit run is
// '.' — the caller should dispatch to a double reader in that case.
// Overflow: the magnitude is parsed as an unsigned value up to
// math.MaxInt64; negating a magnitude of math.MaxInt64+1 (i.e. the input
// "-9223372036854775808") is accepted since it is exactly representable,
// but any larger magnitude fails.
func ReadInteger(c *jcursor.Cursor) (int64, error) {
	start := c.Pos
	neg := false
	if b, ok := c.Peek(); ok && b == '-' {
		neg = true
		c.Advance(1)
	}

	mag, n, overflow := scanUnsigned(c)
	if n == 0 {
		c.Pos = start
		return 0, jerr.New(jerr.Lexical, start, "expected digit")
	}

	if b, ok := c.Peek(); ok && b == '.' {
		c.Pos = start
		return 0, jerr.New(jerr.Lexical, start, "integer reader does not accept a decimal point")
	}

	if overflow {
		return 0, jerr.New(jerr.NumericOverflow, start, "integer magnitude overflow")
	}

	if neg {
		if mag > uint64(math.MaxInt64)+1 {
			return 0, jerr.New(jerr.NumericOverflow, start, "negative integer magnitude overflow")
		}
		return -int64(mag), nil
	}
	if mag > uint64(math.MaxInt64) {
		return 0, jerr.New(jerr.NumericOverflow, start, "integer magnitude overflow")
	}
	return int64(mag), nil
}

// scanUnsigned parses "0" or a non-zero digit run (no sign), returning
// the magnitude, the digit count, and whether the magnitude overflowed
// uint64 range during accumulation.
func scanUnsigned(c *jcursor.Cursor) (mag uint64, n int, overflow bool) {
	b, ok := c.Peek()
	if !ok || b < '0' || b > '9' {
		return 0, 0, false
	}
	if b == '0' {
		c.Advance(1)
		return 0, 1, false
	}
	for {
		b, ok := c.Peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		d := uint64(b - '0')
		if mag > (math.MaxUint64-d)/10 {
			overflow = true
		} else {
			mag = mag*10 + d
		}
		n++
		c.Advance(1)
	}
	return mag, n, overflow
}

// ReadDouble is the low-level double reader: optional leading '-',
// optional '0', and if the next byte is '.', a fractional part parsed
// into a double and signed. It does not read exponents at all — that is
// the mid-level ReadNumber's job, kept deliberately separate. Infallible:
// any input that is not itself digits/'.'/'-' simply yields 0.
func ReadDouble(c *jcursor.Cursor) float64 {
	neg := false
	if b, ok := c.Peek(); ok && b == '-' {
		neg = true
		c.Advance(1)
	}

	if b, ok := c.Peek(); ok && b == '0' {
		c.Advance(1)
	}

	value := 0.0
	if b, ok := c.Peek(); ok && b == '.' {
		c.Advance(1)
		frac := 0.0
		scale := 0.1
		for {
			b, ok := c.Peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			frac += float64(b-'0') * scale
			scale *= 0.1
			c.Advance(1)
		}
		value = frac
	}

	if neg {
		return -value
	}
	return value
}

// ReadNumber is the mid-level, canonical number reader used by the leaf
// dispatcher. It parses an optional sign, a digit run interpreted as an
// unsigned integer, then an optional '.'-led fractional part, then an
// optional 'E'/'e'-led exponent.
//
// The exponent is interpreted in base 10 (value = mantissa * 10^exponent),
// not base 2.
func ReadNumber(c *jcursor.Cursor) (Kind, int64, float64, error) {
	start := c.Pos
	neg := false
	if b, ok := c.Peek(); ok && b == '-' {
		neg = true
		c.Advance(1)
	}

	mag, n, overflow := scanUnsigned(c)
	if n == 0 {
		c.Pos = start
		return 0, 0, 0, jerr.New(jerr.Lexical, start, "expected digit")
	}
	intPart := float64(mag)

	isDouble := false
	frac := 0.0

	if b, ok := c.Peek(); ok && b == '.' {
		isDouble = true
		c.Advance(1)
		fracStart := c.Pos
		scale := 0.1
		for {
			b, ok := c.Peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			frac += float64(b-'0') * scale
			scale *= 0.1
			c.Advance(1)
		}
		if c.Pos == fracStart {
			return 0, 0, 0, jerr.New(jerr.Lexical, fracStart, "expected digit after decimal point")
		}
	}

	value := intPart + frac

	if b, ok := c.Peek(); ok && (b == 'E' || b == 'e') {
		isDouble = true
		c.Advance(1)
		expNeg := false
		if b, ok := c.Peek(); ok && (b == '+' || b == '-') {
			expNeg = b == '-'
			c.Advance(1)
		}
		expStart := c.Pos
		expMag, expN, expOverflow := scanUnsigned(c)
		if expN == 0 {
			return 0, 0, 0, jerr.New(jerr.Lexical, expStart, "expected digit in exponent")
		}
		if expOverflow || expMag > 400 {
			return 0, 0, 0, jerr.New(jerr.NumericOverflow, expStart, "exponent out of range")
		}
		exp := int(expMag)
		if expNeg {
			exp = -exp
		}
		value *= math.Pow(10, float64(exp))
	}

	if isDouble {
		if neg {
			value = -value
		}
		return KindDouble, 0, value, nil
	}

	if overflow {
		return 0, 0, 0, jerr.New(jerr.NumericOverflow, start, "integer magnitude overflow")
	}
	if neg {
		if mag > uint64(math.MaxInt64)+1 {
			return 0, 0, 0, jerr.New(jerr.NumericOverflow, start, "negative integer magnitude overflow")
		}
		return KindInteger, -int64(mag), 0, nil
	}
	if mag > uint64(math.MaxInt64) {
		return 0, 0, 0, jerr.New(jerr.NumericOverflow, start, "integer magnitude overflow")
	}
	return KindInteger, int64(mag), 0, nil
}
