// printer.go: textual rendering of the result tree.
package sysctlconf

import (
	"sort"
	"strconv"
	"strings"
)

// Format renders the value as a brace-delimited tree: 2-space indent per
// depth, keys quoted and sorted, strings quoted with escaping, numbers and
// booleans bare. Numbers use the same decimal text form as the integer
// schema check.
func (v Value) Format() string {
	var b strings.Builder
	v.format(&b, 0)
	return b.String()
}

func (v Value) format(b *strings.Builder, level int) {
	switch v.Kind {
	case KindString:
		b.WriteString(quoteString(v.Str))
	case KindNumber:
		b.WriteString(strconv.FormatFloat(v.Num, 'f', -1, 64))
	case KindBoolean:
		b.WriteString(strconv.FormatBool(v.Bool))
	case KindObject:
		keys := make([]string, 0, len(v.Object))
		for k := range v.Object {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("{\n")
		for i, k := range keys {
			b.WriteString(strings.Repeat("  ", level+1))
			b.WriteString(quoteString(k))
			b.WriteString(": ")
			v.Object[k].format(b, level+1)
			if i < len(keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat("  ", level))
		b.WriteByte('}')
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
