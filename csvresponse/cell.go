package csvresponse

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cellString(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case []byte:
		return string(c)
	case bool:
		return strconv.FormatBool(c)
	case int:
		return strconv.Itoa(c)
	case int8:
		return strconv.FormatInt(int64(c), 10)
	case int16:
		return strconv.FormatInt(int64(c), 10)
	case int32:
		return strconv.FormatInt(int64(c), 10)
	case int64:
		return strconv.FormatInt(c, 10)
	case uint:
		return strconv.FormatUint(uint64(c), 10)
	case uint8:
		return strconv.FormatUint(uint64(c), 10)
	case uint16:
		return strconv.FormatUint(uint64(c), 10)
	case uint32:
		return strconv.FormatUint(uint64(c), 10)
	case uint64:
		return strconv.FormatUint(c, 10)
	case float32:
		return strconv.FormatFloat(float64(c), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(c, 'f', -1, 64)
	case time.Time:
		return c.Format(time.RFC3339)
	case primitive.ObjectID:
		return c.Hex()
	case primitive.DateTime:
		return c.Time().UTC().Format(time.RFC3339)
	case primitive.Null, primitive.Undefined:
		return ""
	case fmt.Stringer:
		return c.String()
	case error:
		return c.Error()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return cellString(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}

func cellStrings(values []any) []string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = cellString(v)
	}
	return cells
}

// rowDataToCSVString joins cells with the delimiter. Without quoting nothing
// is escaped, so a delimiter inside a cell shifts the columns.
func rowDataToCSVString(cells []string, delimiter string, quoted bool) string {
	if quoted {
		wrapped := make([]string, len(cells))
		for i, cell := range cells {
			wrapped[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		cells = wrapped
	}
	return strings.Join(cells, delimiter)
}
