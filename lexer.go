// lexer.go: codepoints -> tokens with one-token lookahead.
package sysctlconf

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// TokenType classifies a lexical unit.
type TokenType int

const (
	EOF TokenType = iota
	Space
	Return
	Dot
	Equal
	Ignore
	Comment
	Ident
)

func (t TokenType) String() string {
	switch t {
	case EOF:
		return "EOF"
	case Space:
		return "Space"
	case Return:
		return "Return"
	case Dot:
		return "Dot"
	case Equal:
		return "Equal"
	case Ignore:
		return "Ignore"
	case Comment:
		return "Comment"
	case Ident:
		return "Ident"
	default:
		return fmt.Sprintf("TokenType(%d)", int(t))
	}
}

// Location is a token's source span: a 1-based line and an inclusive
// start..end column range.
type Location struct {
	Line  int
	Start int
	End   int
}

// Token is a classified lexical unit. Text carries the identifier characters
// and is empty for every other type.
type Token struct {
	Loc  Location
	Type TokenType
	Text string
}

// Lexer groups codepoints into tokens. End of input is a regular EOF token,
// not an error, so the parser can treat it uniformly in its lookahead loop.
type Lexer struct {
	reader  *CharReader
	peekTok Token
	peekErr error
	hasPeek bool
}

// NewLexer builds the lexer and its codepoint reader over r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: NewCharReader(r)}
}

// Peek returns the next token without consuming it. The token is computed
// once and cached until Next drains it.
func (l *Lexer) Peek() (Token, error) {
	if !l.hasPeek {
		l.peekTok, l.peekErr = l.scan()
		l.hasPeek = true
	}
	return l.peekTok, l.peekErr
}

// Next returns the next token, draining a pending peek first.
func (l *Lexer) Next() (Token, error) {
	if l.hasPeek {
		l.hasPeek = false
		return l.peekTok, l.peekErr
	}
	return l.scan()
}

func (l *Lexer) scan() (Token, error) {
	cp, err := l.reader.Read()
	if err != nil {
		var eof *EOFError
		if errors.As(err, &eof) {
			return Token{Loc: Location{Line: eof.Line, Start: eof.Col, End: eof.Col}, Type: EOF}, nil
		}
		return Token{}, err
	}

	ty, special := classify(cp.Rune, cp.Col)
	if !special {
		return l.scanIdent(cp)
	}

	switch ty {
	case Space:
		return l.scanSpace(cp)
	default:
		// Return, Dot, Equal, Comment, Ignore are single-codepoint tokens.
		return Token{Loc: spanOf(cp), Type: ty}, nil
	}
}

// scanSpace merges a run of horizontal whitespace into one token.
func (l *Lexer) scanSpace(first Codepoint) (Token, error) {
	last := first.Col
	for {
		p, err := l.reader.Peek()
		if err != nil {
			if IsEOF(err) {
				break
			}
			return Token{}, err
		}
		if ty, ok := classify(p.Rune, p.Col); !ok || ty != Space {
			break
		}
		last = p.Col
		if _, err := l.reader.Read(); err != nil {
			return Token{}, err
		}
	}
	return Token{Loc: Location{Line: first.Line, Start: first.Col, End: last}, Type: Space}, nil
}

// scanIdent extends greedily over non-special codepoints. "->" is folded
// into an Equal token so schema files share the directive grammar.
func (l *Lexer) scanIdent(first Codepoint) (Token, error) {
	last := first.Col
	var b strings.Builder
	b.WriteRune(first.Rune)

	for {
		p, err := l.reader.Peek()
		if err != nil {
			if IsEOF(err) {
				break
			}
			return Token{}, err
		}
		if _, ok := classify(p.Rune, p.Col); ok {
			break
		}
		b.WriteRune(p.Rune)
		last = p.Col
		if _, err := l.reader.Read(); err != nil {
			return Token{}, err
		}
		if b.String() == "->" {
			return Token{Loc: Location{Line: first.Line, Start: first.Col, End: last}, Type: Equal}, nil
		}
	}

	return Token{
		Loc:  Location{Line: first.Line, Start: first.Col, End: last},
		Type: Ident,
		Text: b.String(),
	}, nil
}

// classify resolves a single codepoint into the token type it would start.
// Comment and Ignore markers only count at column 1; everything unclassified
// belongs to an identifier.
func classify(r rune, col int) (TokenType, bool) {
	switch {
	case r == ' ' || r == '\t' || r == '\r':
		return Space, true
	case r == '\n':
		return Return, true
	case r == '.':
		return Dot, true
	case r == '=':
		return Equal, true
	case (r == '#' || r == ';') && col == 1:
		return Comment, true
	case r == '-' && col == 1:
		return Ignore, true
	default:
		return 0, false
	}
}

func spanOf(cp Codepoint) Location {
	return Location{Line: cp.Line, Start: cp.Col, End: cp.Col}
}
