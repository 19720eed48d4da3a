// Package jstring implements the in-place JSON string decoder: the most
// elaborate scalar reader. Given a cursor positioned at the opening '"',
// it scans the token using a word-at-a-time SWAR fast path and, on the
// first escape, switches to a byte-at-a-time rewrite pass (an unescaped
// control byte is an error in either pass) that decodes escapes (including UTF-16 surrogate pairs) directly
// back into the source buffer. The decoded bytes always end up strictly
// at or before their original positions, so the rewrite never reads data
// it has not already consumed.
package jstring

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lattice-substrate/inplace-json/jcursor"
	"github.com/lattice-substrate/inplace-json/jerr"
)

// Decode consumes a JSON string token at the cursor (which must be
// positioned at the opening '"') and returns a Slice over the decoded
// UTF-8 bytes, now living in place inside the cursor's buffer. The byte
// immediately following the slice is a NUL written by the decoder, at or
// before the closing quote's position (the quote itself is overwritten
// when the string had no escapes); bytes after the closing quote are
// left untouched.
func Decode(c *jcursor.Cursor) (jcursor.Slice, error) {
	if b, ok := c.Peek(); !ok || b != '"' {
		return jcursor.Slice{}, jerr.New(jerr.Lexical, c.Pos, "expected '\"' to begin string")
	}
	c.Advance(1)
	start := c.Pos

	buf := c.Buf
	idx, isEscape, err := fastScan(buf, start)
	if err != nil {
		return jcursor.Slice{}, err
	}

	if !isEscape {
		buf[idx] = 0
		c.Pos = idx + 1
		return jcursor.Slice{Buf: buf, Start: start, Len: idx - start}, nil
	}

	w, r, err := rewrite(buf, idx)
	if err != nil {
		return jcursor.Slice{}, err
	}
	buf[w] = 0
	c.Pos = r + 1
	return jcursor.Slice{Buf: buf, Start: start, Len: w - start}, nil
}

// fastScan implements Phase 1: scan forward from pos for the first byte
// that is '"', '\\', or < 0x20 (0x7F is permitted and never stops the
// scan). It returns the index of that byte and whether it was a
// backslash (true) or a closing quote (false). Misaligned leading bytes
// are scanned one at a time until the cursor reaches an 8-byte boundary,
// then the SWAR word loop takes over; any remaining tail shorter than 8
// bytes falls back to the byte-at-a-time path as well.
func fastScan(buf []byte, pos int) (idx int, isEscape bool, err error) {
	i := pos
	for i%8 != 0 && i < len(buf) {
		if done, esc, stop := classifyByte(buf, i); stop {
			return i, esc, done
		}
		i++
	}
	for i+8 <= len(buf) {
		word := loadWord(buf, i)
		qHits, bHits, cHits := wordHits(word)
		if hit := firstHitByte(qHits, bHits, cHits); hit >= 0 {
			j := i + hit
			if done, esc, stop := classifyByte(buf, j); stop {
				return j, esc, done
			}
			// classifyByte always stops on a SWAR hit byte; unreachable.
			i = j + 1
			continue
		}
		i += 8
	}
	for i < len(buf) {
		if done, esc, stop := classifyByte(buf, i); stop {
			return i, esc, done
		}
		i++
	}
	return 0, false, jerr.New(jerr.Lexical, pos, "unterminated string")
}

// classifyByte inspects buf[i] and reports whether the fast scan should
// stop there (stop=true), whether it was a backslash (esc), and a
// non-nil error if the byte is an illegal unescaped control character.
func classifyByte(buf []byte, i int) (errOut error, esc bool, stop bool) {
	b := buf[i]
	switch {
	case b == '"':
		return nil, false, true
	case b == '\\':
		return nil, true, true
	case b < 0x20:
		return jerr.New(jerr.Lexical, i, "unescaped control byte 0x%02X in string", b), false, true
	default:
		return nil, false, false
	}
}

// rewrite implements Phase 2: starting with both read and write pointers
// at the first escape, it decodes escapes in place until the closing
// quote, returning the final write pointer (one past the last decoded
// byte) and the read pointer (positioned at the closing quote).
func rewrite(buf []byte, escapeStart int) (w, r int, err error) {
	w = escapeStart
	r = escapeStart
	for {
		if r >= len(buf) {
			return 0, 0, jerr.New(jerr.Lexical, escapeStart, "unterminated string")
		}
		b := buf[r]
		switch {
		case b == '"':
			return w, r, nil
		case b < 0x20:
			return 0, 0, jerr.New(jerr.Lexical, r, "unescaped control byte 0x%02X in string", b)
		case b == '\\':
			nw, nr, err := decodeEscape(buf, w, r)
			if err != nil {
				return 0, 0, err
			}
			w, r = nw, nr
		default:
			if r != w {
				buf[w] = buf[r]
			}
			w++
			r++
		}
	}
}

// decodeEscape decodes the escape sequence beginning at buf[r] (which
// must be '\\'), writing its decoded bytes at buf[w:] and returning the
// advanced (w, r) pair.
func decodeEscape(buf []byte, w, r int) (int, int, error) {
	escPos := r
	r++ // consume '\\'
	if r >= len(buf) {
		return 0, 0, jerr.New(jerr.Lexical, escPos, "unterminated escape sequence")
	}
	e := buf[r]
	r++ // consume escape selector byte

	if lit, ok := shortEscape(e); ok {
		buf[w] = lit
		return w + 1, r, nil
	}
	if e != 'u' {
		return 0, 0, jerr.New(jerr.Lexical, escPos, "invalid escape character %q", string(e))
	}

	hi, nr, err := readHex4(buf, r, escPos)
	if err != nil {
		return 0, 0, err
	}
	r = nr

	codepoint, nr, err := resolveUnicodeEscape(buf, hi, r, escPos)
	if err != nil {
		return 0, 0, err
	}
	r = nr

	n := utf8.EncodeRune(buf[w:], codepoint)
	return w + n, r, nil
}

func shortEscape(b byte) (byte, bool) {
	switch b {
	case '"':
		return '"', true
	case '\\':
		return '\\', true
	case '/':
		return '/', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 't':
		return '\t', true
	default:
		return 0, false
	}
}

// resolveUnicodeEscape applies the \u decoding rules given the
// first code unit hi already read (r positioned just past its 4 hex
// digits): values below 0xD800 or at/above 0xE000 decode directly; a
// high surrogate (0xD800-0xDBFF) requires an immediately following
// \uYYYY low surrogate; a low surrogate seen alone is an error.
func resolveUnicodeEscape(buf []byte, hi rune, r, escPos int) (rune, int, error) {
	if hi < 0xD800 || hi >= 0xE000 {
		return hi, r, nil
	}
	if hi >= 0xDC00 {
		return 0, 0, jerr.New(jerr.Surrogate, escPos, "lone low surrogate U+%04X", hi)
	}

	if r+1 >= len(buf) || buf[r] != '\\' || buf[r+1] != 'u' {
		return 0, 0, jerr.New(jerr.Surrogate, escPos, "lone high surrogate U+%04X (no following \\u)", hi)
	}
	r += 2

	lo, nr, err := readHex4(buf, r, escPos)
	if err != nil {
		return 0, 0, err
	}
	r = nr

	if lo < 0xDC00 || lo >= 0xE000 {
		return 0, 0, jerr.New(jerr.Surrogate, escPos, "high surrogate U+%04X followed by non-low-surrogate U+%04X", hi, lo)
	}

	decoded := utf16.DecodeRune(hi, lo)
	if decoded == utf8.RuneError {
		return 0, 0, jerr.New(jerr.Surrogate, escPos, "invalid surrogate pair U+%04X U+%04X", hi, lo)
	}
	return decoded, r, nil
}

// readHex4 reads exactly 4 hex digits at buf[r:r+4] and returns the
// decoded 16-bit value and the position past them.
func readHex4(buf []byte, r, escPos int) (rune, int, error) {
	if r+4 > len(buf) {
		return 0, 0, jerr.New(jerr.Lexical, escPos, "incomplete \\u escape")
	}
	var v rune
	for i := 0; i < 4; i++ {
		d, ok := hexDigit(buf[r+i])
		if !ok {
			return 0, 0, jerr.New(jerr.Lexical, escPos, "invalid hex digit in \\u escape")
		}
		v = v<<4 | rune(d)
	}
	return v, r + 4, nil
}

func hexDigit(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	default:
		return 0, false
	}
}
