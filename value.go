// value.go: the typed value union and its text inference.
package sysctlconf

import (
	"fmt"
	"strconv"
)

// Kind discriminates the Value union.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindObject
)

// Value is either a scalar leaf (string, number, boolean) or a nested
// object, never both. Exactly one field besides Kind is meaningful.
type Value struct {
	Kind   Kind
	Str    string
	Num    float64
	Bool   bool
	Object map[string]Value
}

// StringValue, NumberValue, BooleanValue and NewObject build values directly,
// bypassing inference.
func StringValue(s string) Value   { return Value{Kind: KindString, Str: s} }
func NumberValue(f float64) Value  { return Value{Kind: KindNumber, Num: f} }
func BooleanValue(b bool) Value    { return Value{Kind: KindBoolean, Bool: b} }
func NewObject() Value             { return Value{Kind: KindObject, Object: map[string]Value{}} }

// ValueFrom infers a typed value from trimmed value text: numeric text
// becomes a number, the exact literals true/false become booleans, and
// everything else stays a string.
func ValueFrom(text string) Value {
	if v, ok := parseNumber(text); ok {
		return v
	}
	if v, ok := parseBoolean(text); ok {
		return v
	}
	return StringValue(text)
}

// parseNumber accepts only digits, '-', '.', and the exponent markers before
// handing the text to strconv; any other character aborts the numeric parse.
func parseNumber(text string) (Value, bool) {
	if text == "" {
		return Value{}, false
	}
	for _, r := range text {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' || r == '.' || r == 'e' || r == 'E':
		default:
			return Value{}, false
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, false
	}
	return NumberValue(f), true
}

func parseBoolean(text string) (Value, bool) {
	switch text {
	case "true":
		return BooleanValue(true), true
	case "false":
		return BooleanValue(false), true
	default:
		return Value{}, false
	}
}

// Check validates the value against a declared schema type. Booleans and
// strings match only themselves; a number always satisfies float. The
// integer check round-trips the number through its decimal text form, so
// 3.0 (rendered "3") passes while 3.5 and magnitudes beyond int64 fail.
// This textual heuristic is deliberate; it is not a floor comparison.
func (v Value) Check(declared SchemaType) error {
	switch {
	case v.Kind == KindBoolean && declared == SchemaBoolean:
		return nil
	case v.Kind == KindString && declared == SchemaString:
		return nil
	case v.Kind == KindNumber && declared == SchemaFloat:
		return nil
	case v.Kind == KindNumber && declared == SchemaInteger:
		text := strconv.FormatFloat(v.Num, 'f', -1, 64)
		if _, err := strconv.ParseInt(text, 10, 64); err == nil {
			return nil
		}
	}
	return fmt.Errorf(
		"declared as `%s` but `%s` cannot be interpreted as `%s`",
		declared, v.Format(), declared,
	)
}
