package sysctlconf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parser_Statements(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Statement[Value]
	}{
		{
			"single statement",
			"endpoint = localhost:3000",
			[]Statement[Value]{
				{Path: Path{"endpoint"}, Value: StringValue("localhost:3000")},
			},
		},
		{
			"boolean value",
			"debug = true",
			[]Statement[Value]{
				{Path: Path{"debug"}, Value: BooleanValue(true)},
			},
		},
		{
			"dotted key with dotted value",
			"log.file = /var/log/console.log",
			[]Statement[Value]{
				{Path: Path{"log", "file"}, Value: StringValue("/var/log/console.log")},
			},
		},
		{
			"comment line contributes nothing",
			"# debug = true",
			[]Statement[Value]{},
		},
		{
			"best-effort line that parses",
			"- debug = true",
			[]Statement[Value]{
				{Path: Path{"debug"}, Value: BooleanValue(true)},
			},
		},
		{
			"best-effort line that fails is dropped",
			"- debug =",
			[]Statement[Value]{},
		},
		{
			"best-effort recovery keeps later lines",
			"- debug =\n- debug2 = true\n- debug3 =\n-debug4 = false",
			[]Statement[Value]{
				{Path: Path{"debug2"}, Value: BooleanValue(true)},
				{Path: Path{"debug4"}, Value: BooleanValue(false)},
			},
		},
		{
			"mixed file",
			"endpoint = localhost:3000\n# debug = true\nlog.file = /var/log/console.log\nlog.name = default.log",
			[]Statement[Value]{
				{Path: Path{"endpoint"}, Value: StringValue("localhost:3000")},
				{Path: Path{"log", "file"}, Value: StringValue("/var/log/console.log")},
				{Path: Path{"log", "name"}, Value: StringValue("default.log")},
			},
		},
		{
			"leading indentation is insignificant",
			"  \nfoo = 1",
			[]Statement[Value]{
				{Path: Path{"foo"}, Value: NumberValue(1)},
			},
		},
		{
			"spaces inside a value are preserved",
			"greeting = hello world",
			[]Statement[Value]{
				{Path: Path{"greeting"}, Value: StringValue("hello world")},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parser := NewValueParser(strings.NewReader(tc.src))

			got, err := parser.Parse()
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			// Exhausted parsers return an empty sequence, not an error.
			again, err := parser.Parse()
			require.NoError(t, err)
			assert.Empty(t, again)
		})
	}
}

func Test_Parser_SyntaxErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		loc  Location
		msg  string
	}{
		{
			"missing value",
			"debug =",
			Location{Line: 1, Start: 7, End: 7},
			"failed to read a key",
		},
		{
			"equal at line start",
			"= 1",
			Location{Line: 1, Start: 1, End: 1},
			"a line must start with a comment, an identifier, or an ignore marker",
		},
		{
			"dot at line start",
			". = 1",
			Location{Line: 1, Start: 1, End: 1},
			"a line must start with a comment, an identifier, or an ignore marker",
		},
		{
			"second equal after a value",
			"a = b = c",
			Location{Line: 1, Start: 7, End: 7},
			"only a newline or the end of input may follow a value",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewValueParser(strings.NewReader(tc.src)).Parse()

			var syn *SyntaxError
			require.ErrorAs(t, err, &syn)
			assert.Equal(t, tc.loc, syn.Loc)
			assert.Equal(t, tc.msg, syn.Msg)
		})
	}
}

func Test_Parser_Schema(t *testing.T) {
	src := strings.Join([]string{
		"endpoint -> string",
		"debug -> bool",
		"log.file -> string",
		"log.name -> string",
		"retry -> integer",
		"num -> float",
	}, "\n")

	parser := NewSchemaParser(strings.NewReader(src))
	statements, err := parser.Parse()
	require.NoError(t, err)

	want := []Statement[SchemaType]{
		{Path: Path{"endpoint"}, Value: SchemaString},
		{Path: Path{"debug"}, Value: SchemaBoolean},
		{Path: Path{"log", "file"}, Value: SchemaString},
		{Path: Path{"log", "name"}, Value: SchemaString},
		{Path: Path{"retry"}, Value: SchemaInteger},
		{Path: Path{"num"}, Value: SchemaFloat},
	}
	assert.Equal(t, want, statements)

	schema := SchemaFrom(statements)
	assert.Equal(t, Schema{
		"endpoint": SchemaString,
		"debug":    SchemaBoolean,
		"log.file": SchemaString,
		"log.name": SchemaString,
		"retry":    SchemaInteger,
		"num":      SchemaFloat,
	}, schema)
}

func Test_Parser_SchemaWithEqualSeparator(t *testing.T) {
	// "->" and "=" are the same token, so either separator works.
	statements, err := NewSchemaParser(strings.NewReader("retry = integer")).Parse()
	require.NoError(t, err)
	assert.Equal(t, []Statement[SchemaType]{{Path: Path{"retry"}, Value: SchemaInteger}}, statements)
}

func Test_Parser_UnknownSchemaTypeDegradesToString(t *testing.T) {
	statements, err := NewSchemaParser(strings.NewReader("endpoint -> hostname")).Parse()
	require.NoError(t, err)
	assert.Equal(t, []Statement[SchemaType]{{Path: Path{"endpoint"}, Value: SchemaString}}, statements)
}
