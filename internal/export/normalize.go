package export

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"time"

	"github.com/handiism/f1rdf/internal/model"
)

// EncodeJSON normalizes a structured record and encodes it as JSON
// indented by two spaces, keys in insertion order, with a trailing newline.
func EncodeJSON(r *model.Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Normalize(r)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Normalize converts a structured value into a JSON-safe tree.
//
// Missing or non-finite scalars become nil (JSON null), timestamps become
// TimeLayout strings and durations their String form. Records keep their
// insertion order; plain maps are ordered by key. Nested records, maps and
// slices are normalized recursively, including typed containers such as
// []*model.Record or map[string]float64.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return x
	case float32:
		return Normalize(float64(x))
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return x.Format(TimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return Normalize(*x)
	case time.Duration:
		return x.String()
	case *model.Record:
		if x == nil {
			return nil
		}
		obj := make(object, 0, x.Len())
		for _, f := range x.Fields() {
			obj = append(obj, model.Field{Key: f.Key, Value: Normalize(f.Value)})
		}
		return obj
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := make(object, 0, len(x))
		for _, k := range keys {
			obj = append(obj, model.Field{Key: k, Value: Normalize(x[k])})
		}
		return obj
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Normalize(item)
		}
		return out
	default:
		return normalizeValue(v)
	}
}

// normalizeValue walks typed slices, arrays and string-keyed maps and
// catches named float types. Anything else is returned as is.
func normalizeValue(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return Normalize(rv.Float())
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		obj := make(object, 0, len(keys))
		for _, k := range keys {
			obj = append(obj, model.Field{Key: k.String(), Value: Normalize(rv.MapIndex(k).Interface())})
		}
		return obj
	}
	return v
}

// object is a normalized record that marshals with its keys in order.
type object []model.Field

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := marshalValue(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue is json.Marshal without HTML escaping.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
