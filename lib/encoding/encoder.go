// Package encoding flattens event payloads into field maps and decodes them
// back into typed values.
//
// Payloads handed to a broadcast may be nil, a map, or a struct. Receivers
// always see a map[string]any so fields from the sender can be overlaid on
// the defaults the hub supplies. Field values are kept by reference, so a
// payload may carry live nodes and components.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/tagparser/v2"
)

// ErrInvalidPayload is returned when a payload does not encode to a map.
var ErrInvalidPayload = errors.New("encoding: payload is not a map or struct")

// Encodable is implemented by payload types that produce their own fields.
type Encodable interface {
	Fields() map[string]any
}

// maxDataDepth bounds the walk that decides whether a value is plain data.
const maxDataDepth = 32

// Fields returns the field map for payload.
//
// Maps with string keys are copied shallowly. Encodable values provide their
// own fields. Structs contribute their exported fields, named by the msgpack
// tag with the json tag as a fallback; "-" skips a field and omitempty skips
// zero values. Exported embedded structs without a tag name are inlined.
// Nested values are not walked.
func Fields(payload any) (map[string]any, error) {
	switch p := payload.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		out := make(map[string]any, len(p))
		for k, v := range p {
			out[k] = v
		}
		return out, nil
	case Encodable:
		out := make(map[string]any)
		for k, v := range p.Fields() {
			out[k] = v
		}
		return out, nil
	}

	v := reflect.ValueOf(payload)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return map[string]any{}, nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		out := make(map[string]any, v.NumField())
		structFields(v, out)
		return out, nil
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: %T has non-string keys", ErrInvalidPayload, payload)
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidPayload, payload)
}

// structFields copies v's exported fields into out. Fields already present
// win, so an outer struct shadows what it embeds.
func structFields(v reflect.Value, out map[string]any) {
	t := v.Type()
	var embedded []reflect.Value
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		raw, ok := f.Tag.Lookup("msgpack")
		if !ok {
			raw = f.Tag.Get("json")
		}
		tag := tagparser.Parse(raw)
		if tag.Name == "-" {
			continue
		}

		fv := v.Field(i)
		if f.Anonymous && tag.Name == "" {
			if inner, ok := embeddedStruct(fv); ok {
				embedded = append(embedded, inner)
				continue
			}
		}
		if _, omit := tag.Options["omitempty"]; omit && fv.IsZero() {
			continue
		}

		name := f.Name
		if tag.Name != "" {
			name = tag.Name
		}
		out[name] = fv.Interface()
	}

	for _, inner := range embedded {
		fields := make(map[string]any)
		structFields(inner, fields)
		for k, val := range fields {
			if _, taken := out[k]; !taken {
				out[k] = val
			}
		}
	}
}

func embeddedStruct(v reflect.Value) (reflect.Value, bool) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}

// Decode fills dst, a pointer to a struct or map, from fields. Only plain
// data (scalars, strings, and slices, maps and structs of them) is decoded;
// values holding pointers, functions or channels are skipped and remain
// available from the map itself. Struct fields are matched the same way
// Fields names them.
func Decode(fields map[string]any, dst any) error {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		if isData(reflect.ValueOf(v), 0) {
			data[k] = v
		}
	}

	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encoding: marshal fields: %w", err)
	}

	dec := msgpack.NewDecoder(&buf)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("encoding: decode fields: %w", err)
	}
	return nil
}

// isData reports whether v can be serialized without following references.
func isData(v reflect.Value, depth int) bool {
	if depth > maxDataDepth {
		return false
	}
	switch v.Kind() {
	case reflect.Invalid, reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Interface:
		return v.IsNil() || isData(v.Elem(), depth+1)
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !isData(v.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !isData(iter.Key(), depth+1) || !isData(iter.Value(), depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !isData(v.Field(i), depth+1) {
				return false
			}
		}
		return true
	}
	return false
}
