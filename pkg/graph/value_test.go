package graph

import "testing"

func TestValue_TypedAccessors(t *testing.T) {
	if s, err := StringValue("x").AsString(); err != nil || s != "x" {
		t.Errorf("AsString = %q, %v", s, err)
	}
	if _, err := StringValue("x").AsInt(); err == nil {
		t.Error("Expected error reading string as int")
	}
	if f, err := IntValue(3).AsFloat(); err != nil || f != 3 {
		t.Errorf("IntValue(3).AsFloat = %v, %v", f, err)
	}
	if _, err := BoolValue(true).AsFloat(); err == nil {
		t.Error("Expected error reading bool as float")
	}
	if b, err := BoolValue(true).AsBool(); err != nil || !b {
		t.Errorf("AsBool = %v, %v", b, err)
	}
}

func TestValue_KeyDistinguishesKinds(t *testing.T) {
	tests := []struct {
		a, b  Value
		equal bool
	}{
		{IntValue(3), IntValue(3), true},
		{IntValue(3), FloatValue(3), false},
		{StringValue("3"), IntValue(3), false},
		{FloatValue(0.5), FloatValue(0.5), true},
		{BoolValue(true), StringValue("true"), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.equal {
			t.Errorf("%s(%s) == %s(%s): got %v, want %v", tt.a.Kind(), tt.a, tt.b.Kind(), tt.b, got, tt.equal)
		}
	}
}

func TestValue_String(t *testing.T) {
	if FloatValue(0.25).String() != "0.25" {
		t.Errorf("FloatValue(0.25).String() = %s", FloatValue(0.25))
	}
	if IntValue(-4).String() != "-4" {
		t.Errorf("IntValue(-4).String() = %s", IntValue(-4))
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("Kind(9).String() = %s", Kind(9))
	}
}
