package httpclient

import (
	"bytes"
	"encoding"
	"encoding/json"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

var (
	jsonUnmarshalerType = reflect.TypeFor[json.Unmarshaler]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// checkRequired walks typ alongside the decoded JSON and fails on the first struct
// field that has no `omitempty` in its json tag yet is absent from the object, or is
// null while its Go type cannot hold null. encoding/json alone would leave such a
// field at its zero value.
func checkRequired(body []byte, typ reflect.Type) error {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}

	return requireKeys(raw, typ, "$")
}

func requireKeys(value any, typ reflect.Type, path string) error {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if value == nil || customDecoding(typ) {
		return nil
	}

	switch typ.Kind() {
	case reflect.Struct:
		object, ok := value.(map[string]any)
		if !ok {
			return nil
		}

		return requireFields(object, typ, path)
	case reflect.Slice, reflect.Array:
		items, ok := value.([]any)
		if !ok {
			return nil
		}

		for idx, item := range items {
			if err := requireKeys(item, typ.Elem(), fmt.Sprintf("%s[%d]", path, idx)); err != nil {
				return err
			}
		}
	case reflect.Map:
		object, ok := value.(map[string]any)
		if !ok {
			return nil
		}

		for _, key := range slices.Sorted(maps.Keys(object)) {
			if err := requireKeys(object[key], typ.Elem(), path+"."+key); err != nil {
				return err
			}
		}
	default:
	}

	return nil
}

func requireFields(object map[string]any, typ reflect.Type, path string) error {
	for idx := range typ.NumField() {
		field := typ.Field(idx)

		name, optional, skip := jsonFieldName(field)
		if skip {
			continue
		}

		if name == "" {
			// Untagged embedded struct: its fields are promoted into this object.
			embedded := field.Type
			for embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}

			if err := requireFields(object, embedded, path); err != nil {
				return err
			}

			continue
		}

		fieldValue, present := lookupKey(object, name)
		if !present {
			if optional {
				continue
			}

			return fmt.Errorf("%w: %s.%s", ErrMissingField, path, name)
		}

		if fieldValue == nil && !optional && !nullable(field.Type) {
			return fmt.Errorf("%w: %s.%s is null", ErrMissingField, path, name)
		}

		if err := requireKeys(fieldValue, field.Type, path+"."+name); err != nil {
			return err
		}
	}

	return nil
}

// jsonFieldName mirrors encoding/json's field naming. An empty name with skip unset
// marks an untagged embedded struct.
func jsonFieldName(field reflect.StructField) (string, bool, bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	optional := slices.Contains(strings.Split(opts, ","), "omitempty")

	if field.Anonymous && name == "" {
		embedded := field.Type
		for embedded.Kind() == reflect.Pointer {
			embedded = embedded.Elem()
		}

		if embedded.Kind() == reflect.Struct {
			return "", optional, false
		}
	}

	if !field.IsExported() {
		return "", false, true
	}

	if name == "" {
		name = field.Name
	}

	return name, optional, false
}

// lookupKey matches the way encoding/json does: exact key first, then
// case-insensitive.
func lookupKey(object map[string]any, name string) (any, bool) {
	if value, ok := object[name]; ok {
		return value, true
	}

	for key, value := range object {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}

	return nil, false
}

func customDecoding(typ reflect.Type) bool {
	ptr := reflect.PointerTo(typ)

	return ptr.Implements(jsonUnmarshalerType) || ptr.Implements(textUnmarshalerType)
}

// nullable reports whether null decodes into typ as something distinguishable from a
// real value.
func nullable(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return true
	default:
		return customDecoding(typ)
	}
}
