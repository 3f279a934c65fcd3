package csvresponse

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
)

// Field is one named cell of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is a named row whose field order defines the column order. Names
// must be unique within a record.
type Record []Field

// Names returns the field names in order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns the field values in order.
func (r Record) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Get returns the value stored under name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// RowSerializer is implemented by domain values that know how to present
// themselves as a CSV row. CSVRow must return a positional form ([]any,
// []string or another slice) or a named form (Record, bson.D or a map).
type RowSerializer interface {
	CSVRow() (any, error)
}

// Emptier lets row containers report emptiness without being enumerated.
type Emptier interface {
	IsEmpty() bool
}

// RowLister exposes the rows of a container that is not itself a slice.
type RowLister interface {
	Rows() []any
}

// rowData is the resolved form of a row. names is nil for positional rows.
type rowData struct {
	names  []string
	values []any
}

func (d rowData) named() bool { return d.names != nil }

func getRowData(index int, row any) (rowData, error) {
	if s, ok := row.(RowSerializer); ok {
		out, err := s.CSVRow()
		if err != nil {
			return rowData{}, &InvalidRowError{Index: index, Err: fmt.Errorf("%w: %w", ErrInvalidRow, err)}
		}
		if _, nested := out.(RowSerializer); nested {
			return rowData{}, invalidRow(index, "CSVRow of %T returned another serializer %T", row, out)
		}
		return resolveRow(index, out)
	}
	return resolveRow(index, row)
}

func resolveRow(index int, row any) (rowData, error) {
	switch r := row.(type) {
	case nil:
		return rowData{}, invalidRow(index, "row is nil")
	case Record:
		if err := uniqueNames(r.Names()); err != nil {
			return rowData{}, invalidRow(index, "%v", err)
		}
		return rowData{names: nonNil(r.Names()), values: r.Values()}, nil
	case bson.D:
		rec := make(Record, len(r))
		for i, e := range r {
			rec[i] = Field{Name: e.Key, Value: e.Value}
		}
		return resolveRow(index, rec)
	case map[string]any:
		return namedFromMap(r), nil
	case bson.M:
		return namedFromMap(map[string]any(r)), nil
	case map[string]string:
		names := slices.Sorted(maps.Keys(r))
		values := make([]any, len(names))
		for i, name := range names {
			values[i] = r[name]
		}
		return rowData{names: nonNil(names), values: values}, nil
	case []any:
		return rowData{values: r}, nil
	case []string:
		values := make([]any, len(r))
		for i, cell := range r {
			values[i] = cell
		}
		return rowData{values: values}, nil
	case string, []byte:
		return rowData{}, invalidRow(index, "%T is a scalar, not a row", row)
	}
	return reflectRow(index, row)
}

func reflectRow(index int, row any) (rowData, error) {
	rv := reflect.ValueOf(row)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		values := make([]any, rv.Len())
		for i := range values {
			values[i] = rv.Index(i).Interface()
		}
		return rowData{values: values}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return rowData{}, invalidRow(index, "map key type %s is not a string", rv.Type().Key())
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		d := rowData{names: make([]string, len(keys)), values: make([]any, len(keys))}
		for i, key := range keys {
			d.names[i] = key.String()
			d.values[i] = rv.MapIndex(key).Interface()
		}
		return d, nil
	}
	return rowData{}, invalidRow(index, "%T is neither a sequence, a mapping nor a RowSerializer", row)
}

func namedFromMap(m map[string]any) rowData {
	names := slices.Sorted(maps.Keys(m))
	values := make([]any, len(names))
	for i, name := range names {
		values[i] = m[name]
	}
	return rowData{names: nonNil(names), values: values}
}

func uniqueNames(names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate column %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// nonNil keeps an empty named row distinguishable from a positional one.
func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
