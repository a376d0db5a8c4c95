package converters

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/feichai0017/resume-extractor/internal/models"
)

var ErrMalformedJSON = errors.New("malformed JSON response")

// FieldConverter turns a raw model response into extracted fields.
type FieldConverter interface {
	Convert(raw string) (models.Fields, error)
}

// JSONConverter expects exactly one JSON object. Nothing is stripped or
// repaired: code fences, trailing prose or a top-level array are errors.
type JSONConverter struct{}

func NewJSONConverter() *JSONConverter {
	return &JSONConverter{}
}

func (c *JSONConverter) Convert(raw string) (models.Fields, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrMalformedJSON)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after object", ErrMalformedJSON)
	}

	fields := make(models.Fields, len(obj))
	for key, v := range obj {
		sep := ", "
		if key == models.KeyExperience {
			sep = "\n"
		}
		if s, ok := flatten(v, sep); ok {
			fields[key] = s
		}
	}
	return fields, nil
}

// flatten renders a JSON value as the single string stored in a column.
// null reports false so the caller falls back to a sentinel.
func flatten(v interface{}, sep string) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := flatten(item, sep); ok && s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, sep), true
	case map[string]interface{}:
		return flattenObject(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// flattenObject formats an experience entry as "Title at Organization,
// Duration" when it has that shape, otherwise as compact JSON.
func flattenObject(obj map[string]interface{}) string {
	lookup := func(name string) string {
		for k, v := range obj {
			if strings.EqualFold(k, name) {
				if s, ok := flatten(v, ", "); ok {
					return s
				}
			}
		}
		return ""
	}

	title, org, duration := lookup("Title"), lookup("Organization"), lookup("Duration")
	if title != "" || org != "" {
		var b strings.Builder
		b.WriteString(title)
		if org != "" {
			if title != "" {
				b.WriteString(" at ")
			}
			b.WriteString(org)
		}
		if duration != "" {
			b.WriteString(", ")
			b.WriteString(duration)
		}
		return b.String()
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		vb, _ := json.Marshal(obj[k])
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.String()
}
