// =============================================================================
// SDMX Catalog Flattener - Value Text
// =============================================================================
//
// This module renders decoded document values as single text fields.
//
// =============================================================================

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/keboola/go-utils/pkg/orderedmap"
)

// Text renders a value as a single text field.
//
// Scalars use their natural form: strings verbatim, numbers as written in the
// source, booleans as true/false and null as the empty string. Arrays and
// objects are rendered as compact JSON with object keys in source order.
func Text(v Value) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	default:
		var buf bytes.Buffer
		writeJSON(&buf, v)
		return buf.String()
	}
}

// writeJSON writes v as compact JSON. HTML characters are not escaped.
func writeJSON(buf *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case json.Number:
		buf.WriteString(v.String())
	case string:
		writeJSONString(buf, v)
	case []any:
		buf.WriteByte('[')
		for i, el := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSON(buf, el)
		}
		buf.WriteByte(']')
	case *orderedmap.OrderedMap:
		buf.WriteByte('{')
		for i, key := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeJSONString(buf, key)
			buf.WriteByte(':')
			el, _ := v.Get(key)
			writeJSON(buf, el)
		}
		buf.WriteByte('}')
	default:
		writeJSONString(buf, fmt.Sprint(v))
	}
}

func writeJSONString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	// Encode terminates the value with a newline.
	buf.Truncate(buf.Len() - 1)
}
