// util/json.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////
// JSON

// DuplicateJSONKey represents a key that appears more than once in the
// same JSON object.
type DuplicateJSONKey struct {
	Path string // Dot-separated path to the enclosing object, e.g. "take_off_point"
	Key  string
}

// FindDuplicateJSONKeys scans JSON content and returns all duplicate keys
// found, in document order. Malformed JSON is scanned up to the first
// syntax error.
func FindDuplicateJSONKeys(data []byte) []DuplicateJSONKey {
	dec := json.NewDecoder(bytes.NewReader(data))
	var dups []DuplicateJSONKey

	var walk func(path []string) error
	walk = func(path []string) error {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		delim, ok := tok.(json.Delim)
		if !ok {
			return nil
		}

		switch delim {
		case '{':
			seen := make(map[string]bool)
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := tok.(string)
				if seen[key] {
					dups = append(dups, DuplicateJSONKey{Path: strings.Join(path, "."), Key: key})
				}
				seen[key] = true

				if err := walk(append(path, key)); err != nil {
					return err
				}
			}
		case '[':
			for dec.More() {
				// Array elements share the path of the array itself.
				if err := walk(path); err != nil {
					return err
				}
			}
		}
		_, err = dec.Token() // closing delimiter
		return err
	}
	_ = walk(nil)

	return dups
}

func UnmarshalJSON[T any](r io.Reader, out *T) error {
	// We need the contents as an array of bytes so that we can issue
	// reasonable errors.
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalJSONBytes(b, out)
}

// UnmarshalJSONBytes unmarshals the bytes into the given type; syntax and
// type errors are reported with the line and character where they
// occurred.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	position := func(offset int64) string {
		line, char := 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return fmt.Sprintf("line %d, character %d", line, char)
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		return fmt.Errorf("Error at %s: %v", position(jerr.Offset), jerr)

	case *json.UnmarshalTypeError:
		field := jerr.Field
		if jerr.Struct != "" {
			field = jerr.Struct + "." + field
		}
		return fmt.Errorf("Error at %s: %s value for %s invalid for type %s",
			position(jerr.Offset), jerr.Value, field, jerr.Type.String())

	default:
		return err
	}
}

///////////////////////////////////////////////////////////////////////////

// CheckJSON checks whether the provided JSON is syntactically valid and
// then typechecks it with respect to the provided type T, reporting
// misspelled object keys and values of the wrong kind.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items any
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	ty := reflect.TypeOf((*T)(nil)).Elem()
	c := jsonChecker{structFields: make(map[reflect.Type]map[string]reflect.Type), e: e}
	c.check(items, ty)
}

// TypeCheckJSON returns a Boolean indicating whether the provided raw
// unmarshaled JSON values are type-compatible with the given type T.
func TypeCheckJSON[T any](json any) bool {
	var e ErrorLogger
	ty := reflect.TypeOf((*T)(nil)).Elem()
	c := jsonChecker{structFields: make(map[reflect.Type]map[string]reflect.Type), e: &e}
	c.check(json, ty)
	return !e.HaveErrors()
}

type jsonChecker struct {
	// For each struct type encountered, structFields holds a map from the
	// JSON name of each field to its type so that reflect.VisibleFields
	// is only called once per type.
	structFields map[reflect.Type]map[string]reflect.Type
	e            *ErrorLogger
}

func (c *jsonChecker) fields(ty reflect.Type) map[string]reflect.Type {
	if f, ok := c.structFields[ty]; ok {
		return f
	}
	f := make(map[string]reflect.Type)
	for _, field := range reflect.VisibleFields(ty) {
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if jtag, ok := field.Tag.Lookup("json"); ok {
			if jtag == "-" {
				continue
			}
			if n, _, _ := strings.Cut(jtag, ","); n != "" {
				name = n
			}
		}
		f[name] = field.Type
	}
	c.structFields[ty] = f
	return f
}

func (c *jsonChecker) check(v any, ty reflect.Type) {
	if v == nil {
		// null is fine for anything; it leaves the Go value at zero.
		return
	}
	for ty.Kind() == reflect.Pointer {
		ty = ty.Elem()
	}

	mismatch := func() {
		c.e.ErrorString("unexpected %s value for %s", jsonKind(v), ty)
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		array, ok := v.([]any)
		if !ok {
			mismatch()
			return
		}
		for i, item := range array {
			c.e.Push(fmt.Sprintf("[%d]", i))
			c.check(item, ty.Elem())
			c.e.Pop()
		}

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		for k, item := range m {
			c.e.Push(k)
			c.check(item, ty.Elem())
			c.e.Pop()
		}

	case reflect.Struct:
		items, ok := v.(map[string]any)
		if !ok {
			mismatch()
			return
		}
		fields := c.fields(ty)
		for _, name := range SortedMapKeys(items) {
			if fty, ok := fields[name]; ok {
				c.e.Push(name)
				c.check(items[name], fty)
				c.e.Pop()
			} else {
				c.e.ErrorString("The entry %q is not an expected JSON object. Is it misspelled?", name)
			}
		}

	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if _, ok := v.(float64); !ok {
			mismatch()
		}

	case reflect.String:
		if _, ok := v.(string); !ok {
			mismatch()
		}

	case reflect.Bool:
		if _, ok := v.(bool); !ok {
			mismatch()
		}
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case float64:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
