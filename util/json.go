package util

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
)

func UnmarshalJSON[T any](r io.Reader, out *T) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return UnmarshalJSONBytes(b, out)
}

// UnmarshalJSONBytes unmarshals b into out, converting byte offsets in
// json.SyntaxError/json.UnmarshalTypeError into line/character positions so
// configuration errors are actionable.
func UnmarshalJSONBytes[T any](b []byte, out *T) error {
	err := json.Unmarshal(b, out)
	if err == nil {
		return nil
	}

	decodeOffset := func(offset int64) (line, char int) {
		line, char = 1, 1
		for i := 0; i < int(offset) && i < len(b); i++ {
			if b[i] == '\n' {
				line++
				char = 1
			} else {
				char++
			}
		}
		return
	}

	switch jerr := err.(type) {
	case *json.SyntaxError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("error at line %d, character %d: %v", line, char, jerr)
	case *json.UnmarshalTypeError:
		line, char := decodeOffset(jerr.Offset)
		return fmt.Errorf("error at line %d, character %d: %s value for %s.%s invalid for type %s",
			line, char, jerr.Value, jerr.Struct, jerr.Field, jerr.Type.String())
	default:
		return err
	}
}

// CheckJSON checks that contents is syntactically valid JSON and then
// type-checks it structurally against T, reporting every unrecognized key
// rather than stopping at the first.
func CheckJSON[T any](contents []byte, e *ErrorLogger) {
	defer e.CheckDepth(e.CurrentDepth())

	var items interface{}
	if err := UnmarshalJSONBytes(contents, &items); err != nil {
		e.Error(err)
		return
	}

	var t T
	ty := reflect.TypeOf(t)
	cache := make(map[reflect.Type]map[string]reflect.Type)
	typeCheckJSON(items, ty, cache, e)
}

func TypeCheckJSON[T any](doc interface{}) bool {
	var e ErrorLogger
	ty := reflect.TypeOf((*T)(nil)).Elem()
	cache := make(map[reflect.Type]map[string]reflect.Type)
	typeCheckJSON(doc, ty, cache, &e)
	return !e.HaveErrors()
}

// JSONChecker lets a type with a custom UnmarshalJSON opt out of the
// generic structural check and validate itself.
type JSONChecker interface {
	CheckJSON(doc interface{}) bool
}

func typeCheckJSON(doc interface{}, ty reflect.Type, cache map[reflect.Type]map[string]reflect.Type, e *ErrorLogger) {
	for ty.Kind() == reflect.Ptr {
		ty = ty.Elem()
	}

	chty := reflect.TypeOf((*JSONChecker)(nil)).Elem()
	if ty.Implements(chty) || reflect.PointerTo(ty).Implements(chty) {
		checker := reflect.New(ty).Interface().(JSONChecker)
		if !checker.CheckJSON(doc) {
			e.ErrorString("unexpected data format provided for object: %s", reflect.TypeOf(doc))
		}
		return
	}

	switch ty.Kind() {
	case reflect.Array, reflect.Slice:
		if arr, ok := doc.([]interface{}); ok {
			for _, item := range arr {
				typeCheckJSON(item, ty.Elem(), cache, e)
			}
		} else if _, ok := doc.(string); ok {
			// some types (tabular rows encoded compactly) may be
			// string-encoded; accept.
		} else {
			e.ErrorString("unexpected data format provided for object: %s", reflect.TypeOf(doc))
		}

	case reflect.Map:
		if m, ok := doc.(map[string]interface{}); ok {
			for k, v := range m {
				e.Push(k)
				typeCheckJSON(v, ty.Elem(), cache, e)
				e.Pop()
			}
		} else {
			e.ErrorString("unexpected data format provided for object: %s", reflect.TypeOf(doc))
		}

	case reflect.Struct:
		items, ok := doc.(map[string]interface{})
		if !ok {
			e.ErrorString("unexpected data format provided for object: %s", reflect.TypeOf(doc))
			return
		}
		types, ok := cache[ty]
		if !ok {
			types = make(map[string]reflect.Type)
			for _, field := range reflect.VisibleFields(ty) {
				if jtag, ok := field.Tag.Lookup("json"); ok {
					name, _, _ := strings.Cut(jtag, ",")
					if name == "-" {
						continue
					}
					if name == "" {
						name = field.Name
					}
					types[name] = field.Type
				}
			}
			cache[ty] = types
		}
		for item, values := range items {
			if fty, ok := types[item]; ok {
				e.Push(item)
				typeCheckJSON(values, fty, cache, e)
				e.Pop()
			} else {
				e.ErrorString("the entry %q is not an expected JSON object. Is it misspelled?", item)
			}
		}
	}
}
