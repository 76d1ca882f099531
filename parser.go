// parser.go: tokens -> statements.
//
// The grammar is line oriented. A line is a comment, a best-effort marker
// followed by a statement, a plain statement, or blank. The parser is generic
// over the statement payload: directive files convert the trimmed value text
// with ValueFrom, schema files with SchemaTypeFrom, and both share every rule
// below because the lexer already folded "->" into Equal.
package sysctlconf

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// Path is an ordered, non-empty sequence of dotted key fragments. Equality
// is structural: order matters, case matters, nothing is normalized.
type Path []string

// String renders the path in its dotted source form. Fragments cannot
// contain '.', so the rendering is unambiguous.
func (p Path) String() string { return strings.Join(p, ".") }

// Statement pairs a path with its parsed payload.
type Statement[V any] struct {
	Path  Path
	Value V
}

// SyntaxError is a grammar failure at a known source location. It is fatal
// unless the enclosing line is in best-effort mode.
type SyntaxError struct {
	Msg string
	Loc Location
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, position %d: %s", e.Loc.Line, e.Loc.Start, e.Msg)
}

// Parser consumes the token stream and yields statements in input order.
// The payload type only needs to be constructible from trimmed value text.
type Parser[V any] struct {
	lexer  *Lexer
	ignore bool
	from   func(string) V
}

// NewParser builds a parser over r whose values are produced by from.
func NewParser[V any](r io.Reader, from func(string) V) *Parser[V] {
	return &Parser[V]{lexer: NewLexer(r), from: from}
}

// NewValueParser parses directive files into typed values.
func NewValueParser(r io.Reader) *Parser[Value] { return NewParser(r, ValueFrom) }

// NewSchemaParser parses schema files into declared types.
func NewSchemaParser(r io.Reader) *Parser[SchemaType] { return NewParser(r, SchemaTypeFrom) }

// Parse consumes the input fully. Calling it again on an exhausted parser
// returns an empty sequence.
func (p *Parser[V]) Parse() ([]Statement[V], error) {
	statements := []Statement[V]{}

	for {
		tok, err := p.lexer.Peek()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case EOF:
			return statements, nil
		case Ident:
			st, ok, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			if ok {
				statements = append(statements, st)
			}
		case Ignore:
			if p.ignore {
				return nil, &SyntaxError{Msg: "the ignore marker is specified more than once", Loc: tok.Loc}
			}
			p.ignore = true
			if _, err := p.lexer.Next(); err != nil {
				return nil, err
			}
		case Comment:
			if err := p.readUntilLineEnd(); err != nil {
				return nil, err
			}
		case Space:
			if _, err := p.lexer.Next(); err != nil {
				return nil, err
			}
		case Return:
			p.ignore = false
			if _, err := p.lexer.Next(); err != nil {
				return nil, err
			}
		default:
			return nil, &SyntaxError{
				Msg: "a line must start with a comment, an identifier, or an ignore marker",
				Loc: tok.Loc,
			}
		}
	}
}

// readUntilLineEnd discards tokens up to and including the next Return or
// EOF, leaving best-effort mode cleared.
func (p *Parser[V]) readUntilLineEnd() error {
	for {
		tok, err := p.lexer.Next()
		if err != nil {
			return err
		}
		if tok.Type == Return || tok.Type == EOF {
			break
		}
	}
	p.ignore = false
	return nil
}

// parseStatement parses one key/value line. The boolean is false when the
// line was dropped by best-effort recovery.
func (p *Parser[V]) parseStatement() (Statement[V], bool, error) {
	path, err := p.parseKey()
	if err != nil {
		return p.recover(err)
	}

	value, err := p.parseValue()
	if err != nil {
		return p.recover(err)
	}

	return Statement[V]{Path: path, Value: value}, true, nil
}

// recover swallows a SyntaxError when best-effort mode is active: the rest of
// the line is discarded (unless the stream already sits at a line start) and
// no statement is produced. Every other error propagates.
func (p *Parser[V]) recover(err error) (Statement[V], bool, error) {
	var syn *SyntaxError
	if !errors.As(err, &syn) || !p.ignore {
		return Statement[V]{}, false, err
	}

	if tok, perr := p.lexer.Peek(); perr == nil && tok.Loc.Start != 1 {
		if err := p.readUntilLineEnd(); err != nil {
			return Statement[V]{}, false, err
		}
	}
	p.ignore = false
	return Statement[V]{}, false, nil
}

// parseKey reads one or more identifiers separated by dots. A Space or Equal
// flips into the value phase; the key ends at the next Dot or Ident seen
// there, which parseValue will pick up.
func (p *Parser[V]) parseKey() (Path, error) {
	tok, err := p.lexer.Next()
	if err != nil {
		return nil, err
	}
	// Parse dispatched here off a peeked Ident.
	path := Path{tok.Text}
	valuePhase := false

	for {
		tok, err := p.lexer.Peek()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case Dot:
			if valuePhase {
				return path, nil
			}
			if _, err := p.lexer.Next(); err != nil {
				return nil, err
			}
		case Ident:
			if valuePhase {
				return path, nil
			}
			next, err := p.lexer.Next()
			if err != nil {
				return nil, err
			}
			path = append(path, next.Text)
		case Space, Equal:
			valuePhase = true
			if _, err := p.lexer.Next(); err != nil {
				return nil, err
			}
		default:
			next, err := p.lexer.Next()
			if err != nil {
				return nil, err
			}
			return nil, &SyntaxError{Msg: "failed to read a key", Loc: next.Loc}
		}
	}
}

// parseValue concatenates the remaining Ident, Dot, and Space tokens up to
// the line end, then converts the trimmed text into the payload type.
func (p *Parser[V]) parseValue() (V, error) {
	var zero V

	tok, err := p.lexer.Next()
	if err != nil {
		return zero, err
	}

	var b strings.Builder
	switch tok.Type {
	case Ident:
		b.WriteString(tok.Text)
	case Dot:
		b.WriteByte('.')
	default:
		return zero, &SyntaxError{Msg: "a value may contain only identifiers", Loc: tok.Loc}
	}

	for {
		tok, err := p.lexer.Next()
		if err != nil {
			return zero, err
		}

		switch tok.Type {
		case Space:
			b.WriteByte(' ')
		case Dot:
			b.WriteByte('.')
		case Ident:
			b.WriteString(tok.Text)
		case Return, EOF:
			p.ignore = false
			return p.from(strings.TrimSpace(b.String())), nil
		default:
			return zero, &SyntaxError{Msg: "only a newline or the end of input may follow a value", Loc: tok.Loc}
		}
	}
}
