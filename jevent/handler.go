// Package jevent implements the streaming/event parser: two independent
// implementations of the same JSON grammar walk, one recursive (stack
// depth proportional to document nesting) and one stackless (O(1)
// auxiliary memory beyond a depth counter), both emitting an identical
// sequence of events to a caller-supplied Handler.
package jevent

import (
	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"github.com/lattice-substrate/inplace-json/jstring"
)

// Handler is the capability set every event-parser variant consumes
// polymorphically — a callback record with function pointers
// reinterpreted as a plain Go interface. Implementations must not panic;
// any error returned aborts the parse immediately and is propagated to
// the parser's caller.
type Handler interface {
	// Leaf is called for every scalar, including inside composites.
	Leaf(kind jleaf.Kind, v jleaf.Leaf) error
	// Begin is called when opening '[' or '{'. inArray is true for '['.
	Begin(inArray bool) error
	// ArrayEntry is called before every array element.
	ArrayEntry() error
	// ObjectEntry is called before every object member, supplying the
	// decoded key.
	ObjectEntry(key jcursor.Slice) error
	// End is called when closing ']' or '}'. inArray is true for ']'.
	End(inArray bool) error
}

// whitespace-or-value helpers shared by both parser variants.

func skipWhitespaceAndPeek(c *jcursor.Cursor) (byte, bool) {
	c.SkipWhitespace()
	return c.Peek()
}

func expectByte(c *jcursor.Cursor, want byte, context string) error {
	b, ok := c.Peek()
	if !ok {
		return jerr.New(jerr.Structural, c.Pos, "unexpected end of input, expected %q in %s", want, context)
	}
	if b != want {
		return jerr.New(jerr.Structural, c.Pos, "expected %q in %s, got %q", want, context, b)
	}
	c.Advance(1)
	return nil
}

// dispatchLeaf reads one scalar at the cursor and emits it to h.
func dispatchLeaf(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	kind, v, err := jleaf.Dispatch(c, policy)
	if err != nil {
		return err
	}
	return h.Leaf(kind, v)
}

// readKey reads a JSON string token at the cursor and returns its
// decoded slice, for use as an object member key.
func readKey(c *jcursor.Cursor) (jcursor.Slice, error) {
	if b, ok := c.Peek(); !ok || b != '"' {
		return jcursor.Slice{}, jerr.New(jerr.Structural, c.Pos, "expected string key")
	}
	return jstring.Decode(c)
}
