package types

import "testing"

func TestTruthy(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil, false},
		{"false", NewBool(false), false},
		{"true", NewBool(true), true},
		{"zero int", NewInt(0), true},
		{"zero float", NewFloat(0), true},
		{"empty string", NewString(""), true},
		{"empty array", NewEmptyArray(), true},
		{"empty map", NewMapData(nil), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truthy(tt.v); got != tt.want {
				t.Errorf("Truthy(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestEqualityIsStrictlyTyped(t *testing.T) {
	if NewInt(1).Equal(NewFloat(1.0)) {
		t.Error("IntValue(1) should not equal FloatValue(1.0)")
	}
	if !NewInt(1).Equal(NewInt(1)) {
		t.Error("IntValue(1) should equal IntValue(1)")
	}
	if NewString("a").Equal(NewInt(0)) {
		t.Error("StringValue should never equal an IntValue")
	}
}

func TestArrayEqualityIsElementwise(t *testing.T) {
	a := NewArray([]Value{NewInt(1), NewString("x")})
	b := NewArray([]Value{NewInt(1), NewString("x")})
	c := NewArray([]Value{NewInt(1), NewString("y")})
	if !a.Equal(b) {
		t.Error("arrays with equal elements should be equal")
	}
	if a.Equal(c) {
		t.Error("arrays with differing elements should not be equal")
	}
}

func TestMapEqualityIsIdentity(t *testing.T) {
	a := NewMapData(nil)
	b := NewMapData(nil)
	if a.Equal(b) {
		t.Error("distinct maps should never be equal, even with identical contents")
	}
	if !a.Equal(a) {
		t.Error("a map should equal itself")
	}
}
