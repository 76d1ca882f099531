// eval.go: folds the statement sequence into the result tree.
package sysctlconf

import "fmt"

// MismatchedTypeError reports a schema violation for a dotted key. It aborts
// the whole evaluation, even when earlier statements already succeeded.
type MismatchedTypeError struct {
	Key string
	Err error
}

func (e *MismatchedTypeError) Error() string { return fmt.Sprintf("`%s` is %s", e.Key, e.Err) }
func (e *MismatchedTypeError) Unwrap() error { return e.Err }

// ObjectOverrideError reports a structural conflict: a key already holding a
// leaf value used as a namespace.
type ObjectOverrideError struct {
	Key string
}

func (e *ObjectOverrideError) Error() string {
	return fmt.Sprintf("cannot assign an object under a key that already holds a value (%s)", e.Key)
}

// Evaluate folds statements, in input order, into a single root object.
//
// When a schema is present, statements whose path appears in it are checked
// before insertion; absent paths pass unchecked. Insertion walks the path
// fragment by fragment, creating nested objects on the way. A leaf found at
// any earlier fragment of the path is a structural conflict. Re-assigning
// the exact same path is allowed: the last write wins.
func Evaluate(statements []Statement[Value], schema Schema) (Value, error) {
	result := NewObject()

	for _, st := range statements {
		key := st.Path.String()

		if schema != nil {
			if declared, ok := schema[key]; ok {
				if err := st.Value.Check(declared); err != nil {
					return Value{}, &MismatchedTypeError{Key: key, Err: err}
				}
			}
		}

		object := result.Object
		for i, fragment := range st.Path {
			if i == len(st.Path)-1 {
				object[fragment] = st.Value
				break
			}

			next, ok := object[fragment]
			if !ok {
				next = NewObject()
				object[fragment] = next
			}
			if next.Kind != KindObject {
				return Value{}, &ObjectOverrideError{Key: key}
			}
			object = next.Object
		}
	}

	return result, nil
}
