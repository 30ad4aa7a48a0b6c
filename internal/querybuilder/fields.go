package querybuilder

// Mode is the comparison a filter field uses
type Mode int

const (
	Equals Mode = iota
	PartialMatch
	DateEquals
)

// Field maps an application field name to a storage column
type Field struct {
	Name   string
	Column string
	Mode   Mode
}

// FieldMap is the closed set of fields an operation accepts
type FieldMap []Field

// Lookup returns the field registered under name
func (m FieldMap) Lookup(name string) (Field, bool) {
	for _, f := range m {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Values is a sparse set of field values that remembers the order fields were set in
type Values struct {
	names  []string
	values map[string]any
}

// Set records value under name. Re-setting a name keeps its original position.
func (v *Values) Set(name string, value any) {
	if v.values == nil {
		v.values = make(map[string]any)
	}
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}
