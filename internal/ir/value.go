package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface representing constant-pool value types.
// Only VNull, VBool, VInt, VFloat, VString, VArray and VObject implement it.
//
// Unlike an event-log IR, an animation constant pool is real-valued, so
// floats are permitted. Determinism is preserved by a canonical float
// encoding: shortest round-trip decimal form, always carrying a '.' or an
// exponent so that VFloat and VInt survive a serialization round trip as
// distinct types. NaN and infinities are not representable and fail to
// marshal.
type Value interface {
	irValue() // Sealed - only these types implement it
}

// VNull represents a JSON null constant.
type VNull struct{}

func (VNull) irValue() {}

// MarshalJSON implements json.Marshaler for VNull.
func (VNull) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// VBool represents a boolean constant.
type VBool bool

func (VBool) irValue() {}

// VInt represents an integer constant. Always int64.
type VInt int64

func (VInt) irValue() {}

// VFloat represents a real-valued constant.
type VFloat float64

func (VFloat) irValue() {}

// VString represents a string constant.
type VString string

func (VString) irValue() {}

// VArray represents an array of Value elements.
type VArray []Value

func (VArray) irValue() {}

// VObject represents a map of string keys to Value elements.
// Use SortedKeys() for deterministic iteration.
type VObject map[string]Value

func (VObject) irValue() {}

// Vec2 builds the canonical constant encoding of a 2-component bundle.
func Vec2(x, y float64) VArray {
	return VArray{VFloat(x), VFloat(y)}
}

// Vec3 builds the canonical constant encoding of a 3-component bundle.
func Vec3(x, y, z float64) VArray {
	return VArray{VFloat(x), VFloat(y), VFloat(z)}
}

// RGBA builds the canonical constant encoding of a color. Colors are always
// four channels.
func RGBA(r, g, b, a float64) VArray {
	return VArray{VFloat(r), VFloat(g), VFloat(b), VFloat(a)}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings compares UTF-8 bytes, which produces a different order
// for keys outside the BMP.
func (obj VObject) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings by UTF-16 code units as required by
// RFC 8785 canonical JSON. Surrogate pairs must be compared as code units,
// which utf16.Encode provides.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := len(a16)
	if len(b16) < minLen {
		minLen = len(b16)
	}

	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// formatFloat renders a float in canonical form: shortest decimal that
// round-trips through strconv.ParseFloat, forced to carry a '.' or exponent
// so the decoder can tell it apart from an integer constant.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float not representable in IR: %v", f)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, nil
}

// MarshalValue marshals a Value to JSON bytes using canonical number and key
// ordering rules. The output is identical whether it is embedded in a
// compact or a pretty-printed program encoding.
func MarshalValue(v Value) ([]byte, error) {
	switch val := v.(type) {
	case VNull:
		return []byte("null"), nil
	case VBool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case VInt:
		return strconv.AppendInt(nil, int64(val), 10), nil
	case VFloat:
		s, err := formatFloat(float64(val))
		if err != nil {
			return nil, err
		}
		return []byte(s), nil
	case VString:
		return json.Marshal(string(val))
	case VArray:
		return marshalValueArray(val)
	case VObject:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown Value type: %T", v)
	}
}

// MarshalJSON implements json.Marshaler for VObject with RFC 8785 key order.
func (obj VObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	keys := obj.SortedKeys()
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalValue(obj[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler for VArray.
func (arr VArray) MarshalJSON() ([]byte, error) {
	return marshalValueArray(arr)
}

func marshalValueArray(arr VArray) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')

	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalValue(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}

	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for VObject.
func (obj *VObject) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*obj = make(VObject, len(raw))
	for k, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("VObject key %q: %w", k, err)
		}
		(*obj)[k] = val
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler for VArray.
func (arr *VArray) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*arr = make(VArray, len(raw))
	for i, v := range raw {
		val, err := UnmarshalValue(v)
		if err != nil {
			return fmt.Errorf("VArray index %d: %w", i, err)
		}
		(*arr)[i] = val
	}
	return nil
}

// UnmarshalValue decodes a JSON value into the appropriate Value type.
//
// Numbers containing '.', 'e' or 'E' decode as VFloat, all other numbers as
// VInt. Together with formatFloat this makes the typed constant pool
// round-trip exact: VFloat(2) encodes as "2.0", never "2".
func UnmarshalValue(data []byte) (Value, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return VString(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return VBool(b), nil

	case 'n':
		return VNull{}, nil

	case '[':
		var arr VArray
		if err := json.Unmarshal(data, &arr); err != nil {
			return nil, err
		}
		return arr, nil

	case '{':
		var obj VObject
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, err
		}
		return obj, nil

	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		s := string(n)
		if strings.ContainsAny(s, ".eE") {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid float literal %q: %w", s, err)
			}
			return VFloat(f), nil
		}
		i, err := n.Int64()
		if err != nil {
			return nil, fmt.Errorf("integer out of int64 range: %s", s)
		}
		return VInt(i), nil
	}
}

// ValuesEqual reports deep structural equality of two constant values.
// VInt and VFloat never compare equal, even for the same numeric value;
// constant dedup treats them as distinct pool entries.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case VNull:
		_, ok := b.(VNull)
		return ok
	case VBool:
		bv, ok := b.(VBool)
		return ok && av == bv
	case VInt:
		bv, ok := b.(VInt)
		return ok && av == bv
	case VFloat:
		bv, ok := b.(VFloat)
		return ok && av == bv
	case VString:
		bv, ok := b.(VString)
		return ok && av == bv
	case VArray:
		bv, ok := b.(VArray)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !ValuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case VObject:
		bv, ok := b.(VObject)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			other, present := bv[k]
			if !present || !ValuesEqual(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
