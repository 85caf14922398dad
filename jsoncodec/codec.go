// Package jsoncodec is the harness's JSON encode/decode service.
//
// A Codec wraps a single frozen json-iterator configuration and layers a fixed set of
// leniency rules on top of it, so that response bodies from loosely specified APIs can
// still be decoded into typed structures:
//
//   - unknown object fields are ignored
//   - an empty array where an object is expected decodes as an absent value
//   - an empty string where an object, map or scalar is expected decodes as an absent value
//   - a single value where a sequence is expected is wrapped as a one-element sequence
//   - a string that is not one of an Enum's known values decodes as the zero value
//
// Codecs are normally obtained from a Provider, which constructs one lazily and can be
// destroyed and rebuilt between suites.
package jsoncodec

import (
	"reflect"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const nullLiteral = "null"

// Enum is implemented by string-backed enumerated types. A decoded string that is not in
// EnumValues is replaced by the type's zero value instead of failing the decode.
type Enum interface {
	EnumValues() []string
}

// Codec is the configured JSON service. It is safe for concurrent use.
type Codec struct {
	api    jsoniter.API
	logger *zap.Logger
}

func newAPI() jsoniter.API {
	return jsoniter.Config{
		EscapeHTML:             false,
		SortMapKeys:            true,
		ValidateJsonRawMessage: true,
		UseNumber:              true,
	}.Froze()
}

// New creates a Codec. Most callers should use a Provider instead.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{api: newAPI(), logger: logger}
}

// DecodeInto decodes data into target, which must be a non-nil pointer.
func (c *Codec) DecodeInto(data string, target interface{}) error {
	if isBlank(data) {
		return &ValidationError{Op: "decode"}
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return &InvalidTargetError{Type: reflect.TypeOf(target)}
	}
	if err := c.decodeLenient([]byte(data), rv.Elem().Type(), target); err != nil {
		c.logger.Error("Failed to deserialize JSON",
			zap.String("type", typeName(rv.Elem().Type())), zap.Error(err))
		return &DecodeError{Type: typeName(rv.Elem().Type()), Err: err}
	}
	return nil
}

// DecodeType decodes data into a new value of type t and returns it. This is the runtime
// counterpart of Decode, for callers that only know the target type dynamically.
func (c *Codec) DecodeType(data string, t reflect.Type) (interface{}, error) {
	if t == nil {
		return nil, &InvalidTargetError{}
	}
	ptr := reflect.New(t)
	if err := c.DecodeInto(data, ptr.Interface()); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// DecodeMap decodes a JSON object into a generic map. Numbers are returned as json.Number.
func (c *Codec) DecodeMap(data string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := c.DecodeInto(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// DecodeTree parses data into a dynamic JSON tree.
func (c *Codec) DecodeTree(data string) (ldvalue.Value, error) {
	if isBlank(data) {
		return ldvalue.Null(), &ValidationError{Op: "decode tree"}
	}
	var tree ldvalue.Value
	if err := c.api.Unmarshal([]byte(data), &tree); err != nil {
		return ldvalue.Null(), &DecodeError{Type: "tree", Err: err}
	}
	return tree, nil
}

// Encode serializes v as compact JSON. A nil value, nil pointer or empty string yields
// the literal "null".
func (c *Codec) Encode(v interface{}) (string, error) {
	if IsNull(v) {
		return nullLiteral, nil
	}
	data, err := c.api.Marshal(v)
	if err != nil {
		c.logger.Error("Failed to serialize object to JSON", zap.Error(err))
		return "", &EncodeError{Type: typeName(reflect.TypeOf(v)), Err: err}
	}
	return string(data), nil
}

// EncodePretty is like Encode but indents the output.
func (c *Codec) EncodePretty(v interface{}) (string, error) {
	if IsNull(v) {
		return nullLiteral, nil
	}
	data, err := c.api.MarshalIndent(v, "", "  ")
	if err != nil {
		c.logger.Error("Failed to serialize object to pretty JSON", zap.Error(err))
		return "", &EncodeError{Type: typeName(reflect.TypeOf(v)), Err: err}
	}
	return string(data), nil
}

// Valid reports whether data is syntactically well-formed JSON. It never fails.
func (c *Codec) Valid(data string) bool {
	if isBlank(data) {
		return false
	}
	return c.api.Valid([]byte(data))
}

// ParseSafely is DecodeTree without the error: the second return value is false if data
// could not be parsed.
func (c *Codec) ParseSafely(data string) (ldvalue.Value, bool) {
	tree, err := c.DecodeTree(data)
	if err != nil {
		c.logger.Warn("Invalid JSON provided", zap.Error(err))
		return ldvalue.Null(), false
	}
	return tree, true
}

// ToTree converts any encodable value into a dynamic JSON tree.
func (c *Codec) ToTree(v interface{}) (ldvalue.Value, error) {
	data, err := c.Encode(v)
	if err != nil {
		return ldvalue.Null(), err
	}
	return c.DecodeTree(data)
}

// FromTree decodes a dynamic JSON tree into target, applying the same leniency rules as
// DecodeInto.
func (c *Codec) FromTree(tree ldvalue.Value, target interface{}) error {
	return c.DecodeInto(tree.JSONString(), target)
}

// Decode decodes data into a new value of type T.
func Decode[T any](c *Codec, data string) (T, error) {
	var out T
	err := c.DecodeInto(data, &out)
	return out, err
}

// DecodeList decodes data into a slice of T. A single JSON value is accepted as a
// one-element list.
func DecodeList[T any](c *Codec, data string) ([]T, error) {
	return Decode[[]T](c, data)
}

func (c *Codec) decodeLenient(data []byte, t reflect.Type, target interface{}) error {
	var raw interface{}
	if err := c.api.Unmarshal(data, &raw); err != nil {
		return err
	}
	normalized, err := c.api.Marshal(conform(t, raw))
	if err != nil {
		return err
	}
	return c.api.Unmarshal(normalized, target)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsNull reports whether v encodes as the JSON literal null: nil, a typed nil pointer, map,
// slice or interface, or the empty string.
func IsNull(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}
