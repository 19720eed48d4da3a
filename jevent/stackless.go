package jevent

import (
	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
	"github.com/lattice-substrate/inplace-json/jleaf"
	"github.com/lattice-substrate/inplace-json/jstring"
)

// ParseStackless walks one JSON value at the cursor, emitting the exact
// same event sequence ParseRecursive would for the same well-formed
// input, but using
// only O(1) auxiliary memory beyond a depth counter: array vs object
// context is never stacked, because at every composite boundary the
// upcoming token lexically determines what comes next (a string
// immediately followed by ':' is an object key; anything else is an
// array entry), and the closing byte (']' vs '}') identifies which
// composite is ending. This lets ParseStackless accept documents nested
// far deeper than any platform call stack would tolerate. Because context
// is not stacked, some malformed inputs that ParseRecursive rejects (for
// example a non-string member inside an object, as in {1}) are accepted
// here and reported as array entries.
func ParseStackless(c *jcursor.Cursor, h Handler, policy jleaf.NumberPolicy) error {
	s := &stacklessState{c: c, h: h, policy: policy}
	return s.run()
}

// stacklessState holds the parser's entire auxiliary memory: an unsigned
// depth counter and a one-bit "pending string" flag (plus the string
// itself) for a string already consumed from the input whose role
// (array element vs object key) was not yet known when it was read.
type stacklessState struct {
	c      *jcursor.Cursor
	h      Handler
	policy jleaf.NumberPolicy

	depth uint64

	pendingString bool
	pendingSlice  jcursor.Slice
}

func (s *stacklessState) run() error {
	opened, err := s.processUnit()
	if err != nil {
		return err
	}

	for {
		if opened {
			if err := s.enterMember(); err != nil {
				return err
			}
			opened, err = s.processUnit()
			if err != nil {
				return err
			}
			continue
		}

		if err := s.closeFinishedComposites(); err != nil {
			return err
		}
		if s.depth == 0 {
			return nil
		}

		if err := expectByte(s.c, ',', "composite"); err != nil {
			return err
		}
		if err := s.enterMember(); err != nil {
			return err
		}
		opened, err = s.processUnit()
		if err != nil {
			return err
		}
	}
}

// processUnit consumes one logical leaf or composite start: a pending
// string delivered as a leaf, a fresh '[' / '{', or a scalar. It reports
// whether this step opened a nonempty composite (in which case the
// caller must not look for a trailing ',' / closer before processing
// the new composite's first member).
func (s *stacklessState) processUnit() (openedNonEmpty bool, err error) {
	if s.pendingString {
		slice := s.pendingSlice
		s.pendingString = false
		return false, s.h.Leaf(jleaf.KindString, jleaf.Leaf{Kind: jleaf.KindString, Str: slice})
	}

	b, ok := skipWhitespaceAndPeek(s.c)
	if !ok {
		return false, jerr.New(jerr.Structural, s.c.Pos, "unexpected end of input where a value was expected")
	}

	if b == '[' || b == '{' {
		return s.openComposite(b == '[')
	}

	return false, dispatchLeaf(s.c, s.h, s.policy)
}

func (s *stacklessState) openComposite(inArray bool) (bool, error) {
	s.c.Advance(1)
	if err := s.h.Begin(inArray); err != nil {
		return false, err
	}
	s.c.SkipWhitespace()

	closer := byte('}')
	if inArray {
		closer = ']'
	}
	if b, ok := s.c.Peek(); ok && b == closer {
		s.c.Advance(1)
		return false, s.h.End(inArray)
	}

	s.depth++
	return true, nil
}

// enterMember determines the context of the next composite member —
// object key or array element — purely from the lexical shape of the
// upcoming token: a string immediately followed by ':' is a key;
// anything else (including a string NOT followed by ':') is an array
// element. In the latter case, an already-decoded string is held as a
// pending leaf for the next processUnit call.
func (s *stacklessState) enterMember() error {
	b, ok := skipWhitespaceAndPeek(s.c)
	if !ok {
		return jerr.New(jerr.Structural, s.c.Pos, "unexpected end of input in composite")
	}
	if b != '"' {
		return s.h.ArrayEntry()
	}

	key, err := jstring.Decode(s.c)
	if err != nil {
		return err
	}
	s.c.SkipWhitespace()
	if b, ok := s.c.Peek(); ok && b == ':' {
		s.c.Advance(1)
		s.c.SkipWhitespace()
		return s.h.ObjectEntry(key)
	}

	s.pendingString = true
	s.pendingSlice = key
	return s.h.ArrayEntry()
}

// closeFinishedComposites closes every composite whose end immediately
// follows at the cursor (any run of ']'/'}' with only whitespace
// between), stopping at the first ',' or at depth 0.
func (s *stacklessState) closeFinishedComposites() error {
	for s.depth > 0 {
		b, ok := skipWhitespaceAndPeek(s.c)
		if !ok {
			return jerr.New(jerr.Structural, s.c.Pos, "unexpected end of input closing composite")
		}
		switch b {
		case ',':
			return nil
		case ']':
			s.c.Advance(1)
			s.depth--
			if err := s.h.End(true); err != nil {
				return err
			}
		case '}':
			s.c.Advance(1)
			s.depth--
			if err := s.h.End(false); err != nil {
				return err
			}
		default:
			return jerr.New(jerr.Structural, s.c.Pos, "expected ',' or a closing bracket, got %q", b)
		}
	}
	return nil
}
