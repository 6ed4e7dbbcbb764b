package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Kind discriminates the JSON shapes a form field can take.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindArray
	KindObject
)

// Value is a tagged JSON value. Form payloads are schemaless, so fields are
// held in this shape rather than interface{}; numbers stay json.Number end
// to end, which keeps the stored payload byte-equivalent to what was
// submitted.
type Value struct {
	kind Kind
	str  string
	num  json.Number
	b    bool
	arr  []Value
	obj  map[string]Value
}

func Null() Value               { return Value{kind: KindNull} }
func Str(s string) Value        { return Value{kind: KindString, str: s} }
func Num(n json.Number) Value   { return Value{kind: KindNumber, num: n} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Arr(vs ...Value) Value     { return Value{kind: KindArray, arr: vs} }
func Obj(m map[string]Value) Value {
	return Value{kind: KindObject, obj: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	case KindNull:
		return ""
	default:
		b, _ := v.MarshalJSON()
		return string(b)
	}
}

func (v Value) BoolValue() bool      { return v.b }
func (v Value) Items() []Value       { return v.arr }
func (v Value) Fields() map[string]Value { return v.obj }

// IsZero reports whether the value renders as "not provided": null or an
// empty string.
func (v Value) IsZero() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == ""
	default:
		return false
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	parsed, err := fromInterface(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func fromInterface(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return Str(t), nil
	case json.Number:
		return Num(t), nil
	case bool:
		return Bool(t), nil
	case []interface{}:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Arr(items...), nil
	case map[string]interface{}:
		fields := make(map[string]Value, len(t))
		for k, e := range t {
			field, err := fromInterface(e)
			if err != nil {
				return Value{}, err
			}
			fields[k] = field
		}
		return Obj(fields), nil
	default:
		return Value{}, fmt.Errorf("unsupported JSON value %T", raw)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		if v.num == "" {
			return []byte("0"), nil
		}
		return []byte(v.num), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindArray:
		if v.arr == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.arr)
	case KindObject:
		if v.obj == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.obj)
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
}

// Dump renders the value as indented text for notification emails; object
// keys come out sorted so two renders of the same payload match.
func (v Value) Dump() string {
	var b strings.Builder
	v.dump(&b, 0)
	return b.String()
}

func (v Value) dump(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v.kind {
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			field := v.obj[k]
			if field.kind == KindObject || field.kind == KindArray {
				fmt.Fprintf(b, "%s%s:\n", indent, k)
				field.dump(b, depth+1)
			} else {
				fmt.Fprintf(b, "%s%s: %s\n", indent, k, field.String())
			}
		}
	case KindArray:
		for _, item := range v.arr {
			if item.kind == KindObject || item.kind == KindArray {
				fmt.Fprintf(b, "%s-\n", indent)
				item.dump(b, depth+1)
			} else {
				fmt.Fprintf(b, "%s- %s\n", indent, item.String())
			}
		}
	default:
		fmt.Fprintf(b, "%s%s\n", indent, v.String())
	}
}
