// Package jcursor implements the mutable cursor shared by every reader in
// the in-place JSON core. A Cursor advances over a single contiguous,
// writable, NUL-terminated byte buffer; every decoded string or key
// produced by a parse aliases into that same buffer for as long as the
// buffer itself lives.
//
// A Cursor is not safe for concurrent use. Concurrent parses must operate
// on disjoint buffers.
package jcursor

// Cursor is a mutable read/write position into a borrowed byte buffer.
// The buffer must be NUL-terminated: Buf[len(Buf)-1] == 0 is assumed by
// callers that probe one byte past a token without a bounds check, and
// is required by the string decoder's "scan until word-aligned" fast
// path (jstring).
type Cursor struct {
	Buf []byte
	Pos int
}

// New wraps buf in a Cursor positioned at its first byte. buf must end
// with a NUL byte; the caller owns buf's lifetime and must not mutate it
// concurrently with the parse.
func New(buf []byte) *Cursor {
	return &Cursor{Buf: buf}
}

// Len reports the number of bytes remaining, including the buffer's
// trailing NUL.
func (c *Cursor) Len() int {
	return len(c.Buf) - c.Pos
}

// Done reports whether the cursor has reached or passed the NUL
// terminator.
func (c *Cursor) Done() bool {
	return c.Pos >= len(c.Buf)-1
}

// Peek returns the byte at the cursor without advancing it. Peek past
// the NUL terminator returns 0, ok=false.
func (c *Cursor) Peek() (byte, bool) {
	if c.Pos >= len(c.Buf) {
		return 0, false
	}
	return c.Buf[c.Pos], true
}

// PeekAt returns the byte n positions ahead of the cursor, not advancing
// it.
func (c *Cursor) PeekAt(n int) (byte, bool) {
	p := c.Pos + n
	if p < 0 || p >= len(c.Buf) {
		return 0, false
	}
	return c.Buf[p], true
}

// Next returns the byte at the cursor and advances past it.
func (c *Cursor) Next() (byte, bool) {
	b, ok := c.Peek()
	if ok {
		c.Pos++
	}
	return b, ok
}

// Advance moves the cursor forward by n bytes without inspecting them.
func (c *Cursor) Advance(n int) {
	c.Pos += n
}

// HasPrefix reports whether the unread remainder of the buffer begins
// with lit, without advancing the cursor.
func (c *Cursor) HasPrefix(lit string) bool {
	if c.Pos+len(lit) > len(c.Buf) {
		return false
	}
	for i := 0; i < len(lit); i++ {
		if c.Buf[c.Pos+i] != lit[i] {
			return false
		}
	}
	return true
}

// Slice is a (start, length) pair referencing a region of a Cursor's
// buffer. After the string decoder produces one, the referenced bytes
// are valid UTF-8 and Buf[Start+Len] == 0.
type Slice struct {
	Buf   []byte
	Start int
	Len   int
}

// Bytes returns the slice's referenced bytes.
func (s Slice) Bytes() []byte {
	return s.Buf[s.Start : s.Start+s.Len]
}

// String returns a copy of the slice's referenced bytes as a string.
func (s Slice) String() string {
	return string(s.Bytes())
}

// whitespace bytes: space, tab, LF, CR.
func isWhitespace(b byte) bool {
	switch b {
	case 0x20, 0x09, 0x0A, 0x0D:
		return true
	}
	return false
}

// SkipWhitespace advances the cursor past any run of {0x20, 0x09, 0x0A, 0x0D}.
func (c *Cursor) SkipWhitespace() {
	for c.Pos < len(c.Buf) && isWhitespace(c.Buf[c.Pos]) {
		c.Pos++
	}
}
