package jsoncodec

import (
	"encoding"
	"encoding/json"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var (
	enumType            = reflect.TypeOf((*Enum)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

	numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
)

// conform rewrites a generic decoded tree so that it fits the shape of t under the
// leniency rules. Values that already fit are returned unchanged.
func conform(t reflect.Type, v interface{}) interface{} {
	if v == nil || t == nil {
		return v
	}
	if values, ok := enumValues(t); ok {
		if s, isString := v.(string); isString && !contains(values, s) {
			return nil
		}
		return v
	}
	if hasCustomDecoding(t) {
		return v
	}

	switch t.Kind() {
	case reflect.Ptr:
		return conform(t.Elem(), v)

	case reflect.Struct:
		if isAbsentObject(v) {
			return nil
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return v
		}
		fields := structFields(t)
		out := make(map[string]interface{}, len(m))
		for k, fv := range m {
			if ft, found := lookupField(fields, k); found {
				out[k] = conform(ft, fv)
			} else {
				out[k] = fv
			}
		}
		return out

	case reflect.Map:
		if isAbsentObject(v) {
			return nil
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return v
		}
		out := make(map[string]interface{}, len(m))
		for k, ev := range m {
			out[k] = conform(t.Elem(), ev)
		}
		return out

	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return v
		}
		if items, ok := v.([]interface{}); ok {
			out := make([]interface{}, len(items))
			for i, item := range items {
				out[i] = conform(t.Elem(), item)
			}
			return out
		}
		return []interface{}{conform(t.Elem(), v)}

	case reflect.Interface:
		return v

	case reflect.String:
		switch x := v.(type) {
		case json.Number:
			return string(x)
		case bool:
			return strconv.FormatBool(x)
		}

	case reflect.Bool:
		if s, ok := v.(string); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
			if s == "" {
				return nil
			}
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		if s, ok := v.(string); ok {
			if s == "" {
				return nil
			}
			// numeric strings such as "7" are accepted where a number is expected
			if n := strings.TrimSpace(s); numberPattern.MatchString(n) {
				return json.Number(n)
			}
		}
	}
	return v
}

// isAbsentObject is true for the two placeholders that stand in for a missing object:
// an empty array and an empty string.
func isAbsentObject(v interface{}) bool {
	switch x := v.(type) {
	case []interface{}:
		return len(x) == 0
	case string:
		return x == ""
	}
	return false
}

func enumValues(t reflect.Type) ([]string, bool) {
	if t.Kind() != reflect.String {
		return nil, false
	}
	if t.Implements(enumType) {
		return reflect.Zero(t).Interface().(Enum).EnumValues(), true
	}
	if reflect.PtrTo(t).Implements(enumType) {
		return reflect.New(t).Interface().(Enum).EnumValues(), true
	}
	return nil, false
}

func hasCustomDecoding(t reflect.Type) bool {
	pt := reflect.PtrTo(t)
	return t.Implements(jsonUnmarshalerType) || pt.Implements(jsonUnmarshalerType) ||
		t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType)
}

type fieldInfo struct {
	name string
	typ  reflect.Type
}

func structFields(t reflect.Type) []fieldInfo {
	var out []fieldInfo
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				out = append(out, structFields(ft)...)
				continue
			}
		}
		if f.PkgPath != "" {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out = append(out, fieldInfo{name: name, typ: f.Type})
	}
	return out
}

// lookupField matches the way encoding/json does: exact name first, then case-insensitive.
func lookupField(fields []fieldInfo, key string) (reflect.Type, bool) {
	for _, f := range fields {
		if f.name == key {
			return f.typ, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, key) {
			return f.typ, true
		}
	}
	return nil, false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
