package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	raw := `{"name":"Jane","age":34,"score":99.25,"active":true,"bio":null,"tags":["a","b"],"address":{"city":"Lisbon","zip":"1000-001"}}`

	var v Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	// Key order may differ; compare decoded forms.
	var want, got map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip changed payload:\nwant %v\ngot  %v", want, got)
	}
}

func TestValueNumberFidelity(t *testing.T) {
	// Large integers and high-precision decimals survive untouched.
	raw := `{"big":9007199254740993,"precise":0.30000000000000004}`

	var v Value
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	s := string(out)
	if !strings.Contains(s, "9007199254740993") {
		t.Errorf("large integer was coerced: %s", s)
	}
	if !strings.Contains(s, "0.30000000000000004") {
		t.Errorf("decimal was coerced: %s", s)
	}
}

func TestValueIsZero(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Null(), true},
		{Str(""), true},
		{Str("   "), true},
		{Str("x"), false},
		{Bool(false), false},
		{Num(json.Number("0")), false},
		{Arr(), false},
		{Obj(map[string]Value{}), false},
	}

	for _, tt := range tests {
		if got := tt.v.IsZero(); got != tt.want {
			t.Errorf("IsZero(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestValueDumpDeterministic(t *testing.T) {
	v := Obj(map[string]Value{
		"b": Str("two"),
		"a": Str("one"),
		"c": Obj(map[string]Value{"z": Num(json.Number("1")), "y": Bool(true)}),
	})

	first := v.Dump()
	for i := 0; i < 10; i++ {
		if v.Dump() != first {
			t.Fatal("Dump output is not deterministic")
		}
	}

	if !strings.Contains(first, "a: one") || !strings.Contains(first, "b: two") {
		t.Errorf("unexpected dump output:\n%s", first)
	}
	if strings.Index(first, "a: one") > strings.Index(first, "b: two") {
		t.Errorf("keys are not sorted:\n%s", first)
	}
}
