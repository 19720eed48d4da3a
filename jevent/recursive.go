package jevent

import (
	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jleaf"
)

// ParseRecursive walks one JSON value at the cursor, emitting events to
// h, descending into arrays and objects via ordinary Go recursion (stack
// depth proportional to document nesting). policy overrides the default
// number reader when non-nil.
func ParseRecursive(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	return parseValueRecursive(c, h, policy)
}

func parseValueRecursive(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	b, ok := skipWhitespaceAndPeek(c)
	if !ok {
		return jerr.New(jerr.Structural, c.Pos, "unexpected end of input where a value was expected")
	}

	switch b {
	case '[':
		return parseArrayRecursive(c, h, policy)
	case '{':
		return parseObjectRecursive(c, h, policy)
	default:
		return dispatchLeaf(c, h, policy)
	}
}

func parseArrayRecursive(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	c.Advance(1) // '['
	if err := h.Begin(true); err != nil {
		return err
	}

	if b, ok := skipWhitespaceAndPeek(c); ok && b == ']' {
		c.Advance(1)
		return h.End(true)
	}

	for {
		if err := h.ArrayEntry(); err != nil {
			return err
		}
		if err := parseValueRecursive(c, h, policy); err != nil {
			return err
		}

		b, ok := skipWhitespaceAndPeek(c)
		if !ok {
			return jerr.New(jerr.Structural, c.Pos, "unexpected end of input in array")
		}
		if b == ',' {
			c.Advance(1)
			c.SkipWhitespace()
			continue
		}
		break
	}

	if err := expectByte(c, ']', "array"); err != nil {
		return err
	}
	return h.End(true)
}

func parseObjectRecursive(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	c.Advance(1) // '{'
	if err := h.Begin(false); err != nil {
		return err
	}

	if b, ok := skipWhitespaceAndPeek(c); ok && b == '}' {
		c.Advance(1)
		return h.End(false)
	}

	for {
		c.SkipWhitespace()
		key, err := readKey(c)
		if err != nil {
			return err
		}
		c.SkipWhitespace()
		if err := expectByte(c, ':', "object"); err != nil {
			return err
		}
		if err := h.ObjectEntry(key); err != nil {
			return err
		}
		c.SkipWhitespace()
		if err := parseValueRecursive(c, h, policy); err != nil {
			return err
		}

		b, ok := skipWhitespaceAndPeek(c)
		if !ok {
			return jerr.New(jerr.Structural, c.Pos, "unexpected end of input in object")
		}
		if b == ',' {
			c.Advance(1)
			continue
		}
		break
	}

	if err := expectByte(c, '}', "object"); err != nil {
		return err
	}
	return h.End(false)
}
