// schema.go: declared value types and the schema mapping.
package sysctlconf

// SchemaType is a declared value type from a schema file.
type SchemaType int

const (
	SchemaString SchemaType = iota
	SchemaInteger
	SchemaFloat
	SchemaBoolean
)

// SchemaTypeFrom maps a declared type name to its SchemaType. Unknown names
// degrade to string instead of failing.
func SchemaTypeFrom(text string) SchemaType {
	switch text {
	case "integer":
		return SchemaInteger
	case "bool":
		return SchemaBoolean
	case "float":
		return SchemaFloat
	default:
		return SchemaString
	}
}

func (s SchemaType) String() string {
	switch s {
	case SchemaInteger:
		return "integer"
	case SchemaFloat:
		return "float"
	case SchemaBoolean:
		return "bool"
	default:
		return "string"
	}
}

// Schema is a partial allow-list of type checks keyed by the dotted path.
// Paths absent from the schema are accepted without checking.
type Schema map[string]SchemaType

// SchemaFrom collapses parsed schema statements into a schema. A later
// declaration for the same path wins.
func SchemaFrom(statements []Statement[SchemaType]) Schema {
	schema := make(Schema, len(statements))
	for _, st := range statements {
		schema[st.Path.String()] = st.Value
	}
	return schema
}
