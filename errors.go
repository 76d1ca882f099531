// errors.go: caret-snippet rendering for positional errors.
//
// WrapErrorWithSource turns a *SyntaxError or a positional decode error into
// an error whose message is a readable snippet with a caret under the
// offending column:
//
//	SYNTAX ERROR in example.conf at 2:7: failed to read a key
//
//	   1 | endpoint = localhost:3000
//	   2 | debug =
//	     |       ^
//
// Up to one line of context is shown on either side. Errors without a
// position pass through unchanged, so callers can wrap unconditionally. The
// caller must hold the full source text; streamed stdin stays unwrapped.
package sysctlconf

import (
	"errors"
	"fmt"
	"strings"
)

// WrapErrorWithSource is WrapErrorWithName without a source label.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName renders a caret snippet for positional errors, labeling
// the header with srcName when it is non-empty.
func WrapErrorWithName(err error, srcName, src string) error {
	var (
		header    string
		line, col int
		msg       string
	)

	switch e := err.(type) {
	case *SyntaxError:
		header, line, col, msg = "SYNTAX ERROR", e.Loc.Line, e.Loc.Start, e.Msg
	case *InvalidUTF8Error:
		header, line, col = "DECODE ERROR", e.Line, e.Col
		msg = fmt.Sprintf("invalid byte 0x%02x in a multi-byte sequence", e.Byte)
	case *InvalidCodepointError:
		header, line, col = "DECODE ERROR", e.Line, e.Col
		msg = fmt.Sprintf("invalid codepoint %#x", e.Value)
	default:
		return err
	}

	return errors.New(snippet(src, header, srcName, line, col, msg))
}

// snippet builds the caret-annotated block. Coordinates are 1-based and
// clamped to the source bounds so a stale position cannot break rendering.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}
	if col < 1 {
		col = 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}

	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}

	return b.String()
}
