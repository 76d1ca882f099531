// charreader.go: byte stream -> codepoint stream with backtrackable lookahead.
//
// CharReader decodes UTF-8 by hand, one codepoint per call, and tracks the
// 1-based line/column of every character it hands out. The lexer drives it
// through a three-call lookahead protocol: Peek advances an internal window,
// PeekBack rewinds that window one step, and Read/Consume drain it from the
// front. The window is an append-only buffer plus a rewind count; exceeding
// either bound is a caller bug, not an I/O condition.
package sysctlconf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Codepoint is one decoded Unicode scalar value with its source position.
// Col resets to 1 on the character following a newline.
type Codepoint struct {
	Rune rune
	Line int
	Col  int
}

// Lookahead-protocol misuse. Both mean the calling layer is broken.
var (
	ErrPeekBack = errors.New("peek-back past the peek buffer")
	ErrConsume  = errors.New("consume exceeds the peeked characters")
)

// EOFError marks the end of the byte source. It is a condition callers
// special-case, not a decoding failure.
type EOFError struct {
	Line int
	Col  int
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("end of input at line %d, position %d", e.Line, e.Col)
}

// IsEOF reports whether err is the reader's end-of-input condition.
func IsEOF(err error) bool {
	var e *EOFError
	return errors.As(err, &e)
}

// InvalidUTF8Error reports a byte that fits no UTF-8 leading pattern, or a
// continuation byte without the 10xxxxxx prefix.
type InvalidUTF8Error struct {
	Byte byte
	Line int
	Col  int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf(
		"invalid byte 0x%02x at line %d, position %d: a multi-byte sequence may be corrupted",
		e.Byte, e.Line, e.Col,
	)
}

// InvalidCodepointError reports an assembled value that is not a Unicode
// scalar value (surrogates, out-of-range).
type InvalidCodepointError struct {
	Value uint32
	Line  int
	Col   int
}

func (e *InvalidCodepointError) Error() string {
	return fmt.Sprintf("invalid codepoint %#x at line %d, position %d", e.Value, e.Line, e.Col)
}

// CharReader reads codepoints one at a time from a buffered byte source.
type CharReader struct {
	r          *bufio.Reader
	line       int
	position   int
	peekBuffer []Codepoint
	peekOffset int // rewind count into the tail of peekBuffer
}

// NewCharReader wraps r. Position starts at line 1, column 0; the column
// becomes 1 once the first character decodes.
func NewCharReader(r io.Reader) *CharReader {
	return &CharReader{r: bufio.NewReader(r), line: 1}
}

// Peek returns the next codepoint without permanently consuming it. After a
// PeekBack, Peek replays buffered codepoints before decoding new ones.
func (c *CharReader) Peek() (Codepoint, error) {
	if c.peekOffset > 0 {
		cp := c.peekBuffer[len(c.peekBuffer)-c.peekOffset]
		c.peekOffset--
		return cp, nil
	}

	cp, err := c.next()
	if err != nil {
		return Codepoint{}, err
	}
	c.peekBuffer = append(c.peekBuffer, cp)
	return cp, nil
}

// PeekBack rewinds the peek cursor one codepoint so the same character can be
// peeked again. Rewinding past the buffered window returns ErrPeekBack.
func (c *CharReader) PeekBack() error {
	if len(c.peekBuffer) < c.peekOffset+1 {
		return ErrPeekBack
	}
	c.peekOffset++
	return nil
}

// Consume removes the first n peeked codepoints and returns their text.
// Asking for more than is buffered returns ErrConsume.
func (c *CharReader) Consume(n int) (string, error) {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if len(c.peekBuffer) == 0 {
			return "", ErrConsume
		}
		b.WriteRune(c.peekBuffer[0].Rune)
		c.peekBuffer = c.peekBuffer[1:]
		if c.peekOffset > 0 {
			c.peekOffset--
		}
	}
	return b.String(), nil
}

// Read returns the next codepoint, draining the peek buffer first.
func (c *CharReader) Read() (Codepoint, error) {
	if len(c.peekBuffer) == 0 {
		return c.next()
	}
	cp := c.peekBuffer[0]
	c.peekBuffer = c.peekBuffer[1:]
	if c.peekOffset > 0 {
		c.peekOffset--
	}
	return cp, nil
}

// next decodes one UTF-8 sequence from the underlying reader. The column
// counter increments after the sequence assembles, so a bad lead byte reports
// the previous column and a bad assembled value reports its own.
func (c *CharReader) next() (Codepoint, error) {
	b, err := c.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return Codepoint{}, &EOFError{Line: c.line, Col: c.position}
		}
		return Codepoint{}, fmt.Errorf("read: %w", err)
	}

	var value uint32
	switch {
	case b&0b1111_1000 == 0b1111_0000:
		rest, err := c.readRest(3)
		if err != nil {
			return Codepoint{}, err
		}
		value = uint32(b&0b0000_0111)<<18 |
			uint32(rest[0]&0b0011_1111)<<12 |
			uint32(rest[1]&0b0011_1111)<<6 |
			uint32(rest[2]&0b0011_1111)
	case b&0b1111_0000 == 0b1110_0000:
		rest, err := c.readRest(2)
		if err != nil {
			return Codepoint{}, err
		}
		value = uint32(b&0b0000_1111)<<12 |
			uint32(rest[0]&0b0011_1111)<<6 |
			uint32(rest[1]&0b0011_1111)
	case b&0b1110_0000 == 0b1100_0000:
		rest, err := c.readRest(1)
		if err != nil {
			return Codepoint{}, err
		}
		value = uint32(b&0b0001_1111)<<6 | uint32(rest[0]&0b0011_1111)
	case b&0b1000_0000 == 0:
		value = uint32(b)
	default:
		return Codepoint{}, &InvalidUTF8Error{Byte: b, Line: c.line, Col: c.position}
	}

	c.position++

	if !utf8.ValidRune(rune(value)) {
		return Codepoint{}, &InvalidCodepointError{Value: value, Line: c.line, Col: c.position}
	}

	cp := Codepoint{Rune: rune(value), Line: c.line, Col: c.position}
	if cp.Rune == '\n' {
		c.line++
		c.position = 0
	}
	return cp, nil
}

// readRest reads the continuation bytes of a multi-byte sequence and checks
// each for the 10xxxxxx pattern.
func (c *CharReader) readRest(n int) ([]byte, error) {
	rest := make([]byte, n)
	for i := range rest {
		b, err := c.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil, &EOFError{Line: c.line, Col: c.position}
			}
			return nil, fmt.Errorf("read: %w", err)
		}
		if b&0b1100_0000 != 0b1000_0000 {
			return nil, &InvalidUTF8Error{Byte: b, Line: c.line, Col: c.position}
		}
		rest[i] = b
	}
	return rest, nil
}
