package csvresponse

import (
	"fmt"
	"maps"
	"net/http"
	"reflect"
	"slices"
	"strings"
)

const lineSeparator = "\r\n"

// Response is the status, header set and encoded body of a CSV reply. Callers
// hand it to their HTTP layer; see responder.WriteCSV.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Build formats data as CSV. data may be a string or []byte holding finished
// CSV text, or a slice, array or RowLister of rows. Each row is positional
// (a slice of cells), named (Record, bson.D or a string-keyed map) or a
// RowSerializer. A named first row contributes a header line.
//
// Empty data yields a 204 response with no body and no CSV headers.
func Build(data any, opts ...Option) (*Response, error) {
	if isEmpty(data) {
		return noContent(), nil
	}

	o := buildOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}

	body, err := formatCSV(data, o)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status: o.Status,
		Header: createCSVHeaders(o.Headers, o.Encoding),
		Body:   body,
	}, nil
}

func noContent() *Response {
	return &Response{
		Status: http.StatusNoContent,
		Header: http.Header{},
	}
}

func isEmpty(data any) bool {
	if data == nil {
		return true
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return true
	}

	switch d := data.(type) {
	case Emptier:
		return d.IsEmpty()
	case RowLister:
		return len(d.Rows()) == 0
	case string:
		return d == ""
	case []byte:
		return len(d) == 0
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer:
		return isEmpty(rv.Elem().Interface())
	}
	return false
}

func formatCSV(data any, o Options) ([]byte, error) {
	var text string
	switch d := data.(type) {
	case string:
		text = d
	case []byte:
		text = string(d)
	default:
		rows, err := collectRows(data)
		if err != nil {
			return nil, err
		}
		lines, err := csvLines(rows, o)
		if err != nil {
			return nil, err
		}
		text = strings.Join(lines, lineSeparator)
	}
	return encodeText(text, o.Encoding)
}

func collectRows(data any) ([]any, error) {
	switch d := data.(type) {
	case RowLister:
		return d.Rows(), nil
	case []any:
		return d, nil
	}

	rv := reflect.Indirect(reflect.ValueOf(data))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		rows := make([]any, rv.Len())
		for i := range rows {
			rows[i] = rv.Index(i).Interface()
		}
		return rows, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedInput, data)
}

func csvLines(rows []any, o Options) ([]string, error) {
	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		data, err := getRowData(i, row)
		if err != nil {
			return nil, err
		}
		if i == 0 && data.named() {
			lines = append(lines, rowDataToCSVString(data.names, o.Delimiter, o.Quoted))
		}
		lines = append(lines, rowDataToCSVString(cellStrings(data.values), o.Delimiter, o.Quoted))
	}
	return lines, nil
}

// createCSVHeaders applies custom headers over the CSV defaults in sorted key
// order, so of two names differing only in case the lexically last one wins.
func createCSVHeaders(custom map[string]string, encoding string) http.Header {
	header := http.Header{}
	header.Set("Content-Type", "text/csv; charset="+encoding)
	header.Set("Content-Encoding", encoding)
	header.Set("Content-Transfer-Encoding", "binary")
	header.Set("Content-Description", "File Transfer")
	for _, name := range slices.Sorted(maps.Keys(custom)) {
		header.Set(name, custom[name])
	}
	return header
}
