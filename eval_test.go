package sysctlconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(entries map[string]Value) Value {
	return Value{Kind: KindObject, Object: entries}
}

func st(value Value, fragments ...string) Statement[Value] {
	return Statement[Value]{Path: Path(fragments), Value: value}
}

func Test_Evaluate(t *testing.T) {
	cases := []struct {
		name       string
		statements []Statement[Value]
		want       Value
	}{
		{
			"single leaf",
			[]Statement[Value]{st(NumberValue(123), "foo")},
			obj(map[string]Value{"foo": NumberValue(123)}),
		},
		{
			"nested leaf",
			[]Statement[Value]{st(NumberValue(123), "foo", "bar")},
			obj(map[string]Value{
				"foo": obj(map[string]Value{"bar": NumberValue(123)}),
			}),
		},
		{
			"siblings share a namespace",
			[]Statement[Value]{
				st(NumberValue(123), "foo", "bar"),
				st(NumberValue(456), "foo", "baz"),
			},
			obj(map[string]Value{
				"foo": obj(map[string]Value{
					"bar": NumberValue(123),
					"baz": NumberValue(456),
				}),
			}),
		},
		{
			"deeper namespaces nest",
			[]Statement[Value]{
				st(NumberValue(123), "foo", "bar"),
				st(NumberValue(456), "foo", "baz"),
				st(NumberValue(789), "foo", "hoge", "fuga"),
			},
			obj(map[string]Value{
				"foo": obj(map[string]Value{
					"bar": NumberValue(123),
					"baz": NumberValue(456),
					"hoge": obj(map[string]Value{
						"fuga": NumberValue(789),
					}),
				}),
			}),
		},
		{
			"duplicate paths: last write wins",
			[]Statement[Value]{
				st(NumberValue(1), "retry"),
				st(NumberValue(5), "retry"),
			},
			obj(map[string]Value{"retry": NumberValue(5)}),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.statements, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func Test_Evaluate_ObjectOverride(t *testing.T) {
	statements := []Statement[Value]{
		st(NumberValue(456), "foo"),
		st(NumberValue(123), "foo", "bar"),
	}

	_, err := Evaluate(statements, nil)
	var override *ObjectOverrideError
	require.ErrorAs(t, err, &override)
	assert.Equal(t, "foo.bar", override.Key)
	assert.EqualError(t, err,
		"cannot assign an object under a key that already holds a value (foo.bar)")
}

func Test_Evaluate_ObjectOverride_DeepPrefix(t *testing.T) {
	// The leaf sits two levels above the attempted namespace.
	statements := []Statement[Value]{
		st(NumberValue(1), "a"),
		st(NumberValue(2), "a", "b", "c"),
	}

	_, err := Evaluate(statements, nil)
	var override *ObjectOverrideError
	require.ErrorAs(t, err, &override)
	assert.Equal(t, "a.b.c", override.Key)
}

func Test_Evaluate_WithSchema(t *testing.T) {
	cases := []struct {
		name       string
		statements []Statement[Value]
		schema     Schema
		wantErr    string
	}{
		{
			"matching declaration",
			[]Statement[Value]{st(StringValue("localhost:3000"), "endpoint")},
			Schema{"endpoint": SchemaString},
			"",
		},
		{
			"paths absent from the schema pass unchecked",
			[]Statement[Value]{st(StringValue("localhost:3000"), "endpoint")},
			Schema{"debug": SchemaBoolean},
			"",
		},
		{
			"integer declaration rejects a string",
			[]Statement[Value]{st(StringValue("localhost:3000"), "endpoint")},
			Schema{"endpoint": SchemaInteger},
			"`endpoint` is declared as `integer` but `\"localhost:3000\"` cannot be interpreted as `integer`",
		},
		{
			"bool declaration rejects a string",
			[]Statement[Value]{st(StringValue("localhost:3000"), "endpoint")},
			Schema{"endpoint": SchemaBoolean},
			"`endpoint` is declared as `bool` but `\"localhost:3000\"` cannot be interpreted as `bool`",
		},
		{
			"float declaration names the dotted key",
			[]Statement[Value]{st(StringValue("./var/log/file"), "log", "file")},
			Schema{"log.file": SchemaFloat},
			"`log.file` is declared as `float` but `\"./var/log/file\"` cannot be interpreted as `float`",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Evaluate(tc.statements, tc.schema)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, KindObject, got.Kind)
				return
			}

			var mismatched *MismatchedTypeError
			require.ErrorAs(t, err, &mismatched)
			assert.EqualError(t, err, tc.wantErr)
		})
	}
}

func Test_Evaluate_SchemaFailureAbortsEvaluation(t *testing.T) {
	// The first statement would insert fine; the second aborts everything.
	statements := []Statement[Value]{
		st(StringValue("localhost:3000"), "endpoint"),
		st(StringValue("yes"), "debug"),
	}
	schema := Schema{"debug": SchemaBoolean}

	_, err := Evaluate(statements, schema)
	var mismatched *MismatchedTypeError
	require.ErrorAs(t, err, &mismatched)
	assert.Equal(t, "debug", mismatched.Key)
}
