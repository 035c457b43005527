package codec

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"

	supler "github.com/reoring/supler"
)

func decodeCode(t *testing.T, err error) string {
	t.Helper()
	var de *supler.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *supler.DecodeError, got %T (%v)", err, err)
	}
	return de.Code
}

func TestString_Decode(t *testing.T) {
	c := String()
	if v, err := c.Decode("alice"); err != nil || v != "alice" {
		t.Fatalf("decode: %q %v", v, err)
	}
	if v, err := c.Decode(nil); err != nil || v != "" {
		t.Fatalf("null should clear: %q %v", v, err)
	}
	_, err := c.Decode(json.Number("1"))
	if code := decodeCode(t, err); code != supler.CodeInvalidType {
		t.Fatalf("unexpected code: %s", code)
	}
	if !c.IsEmpty("") || c.IsEmpty(" ") {
		t.Fatalf("unexpected emptiness")
	}
}

func TestInt_Decode(t *testing.T) {
	c := Int()
	cases := []struct {
		in   any
		want int
	}{
		{json.Number("42"), 42},
		{json.Number("30.0"), 30},
		{json.Number("1e3"), 1000},
		{"2.0", 2},
		{"  7 ", 7},
		{"", 0},
		{nil, 0},
		{float64(3), 3},
		{int64(-2), -2},
	}
	for _, tc := range cases {
		got, err := c.Decode(tc.in)
		if err != nil {
			t.Fatalf("decode %v: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("decode %v: got %d want %d", tc.in, got, tc.want)
		}
	}
}

func TestInt_DecodeErrors(t *testing.T) {
	c := Int()
	if _, err := c.Decode("not-a-number"); decodeCode(t, err) != supler.CodeParseError {
		t.Fatalf("expected parse_error for text")
	}
	if _, err := c.Decode(json.Number("1.5")); decodeCode(t, err) != supler.CodeParseError {
		t.Fatalf("expected parse_error for fraction")
	}
	if _, err := c.Decode(json.Number("1e40")); decodeCode(t, err) != supler.CodeParseError {
		t.Fatalf("expected parse_error for out of range")
	}
	if _, err := c.Decode(true); decodeCode(t, err) != supler.CodeInvalidType {
		t.Fatalf("expected invalid_type for bool")
	}
	if _, err := c.Decode(1.5); decodeCode(t, err) != supler.CodeParseError {
		t.Fatalf("expected parse_error for non-integral float")
	}
}

func TestInt64_EncodeAndEmpty(t *testing.T) {
	c := Int64()
	v, err := c.Encode(9)
	if err != nil || v != int64(9) {
		t.Fatalf("encode: %v %v", v, err)
	}
	if !c.IsEmpty(0) || c.IsEmpty(1) {
		t.Fatalf("unexpected emptiness")
	}
	if c.JSONType() != "integer" {
		t.Fatalf("unexpected json type %s", c.JSONType())
	}
}

func TestFloat64_Decode(t *testing.T) {
	c := Float64()
	if v, err := c.Decode(json.Number("2.5")); err != nil || v != 2.5 {
		t.Fatalf("decode: %v %v", v, err)
	}
	if v, err := c.Decode("0.25"); err != nil || v != 0.25 {
		t.Fatalf("decode string: %v %v", v, err)
	}
	if _, err := c.Decode("x"); decodeCode(t, err) != supler.CodeParseError {
		t.Fatalf("expected parse_error")
	}
}

func TestBool_Decode(t *testing.T) {
	c := Bool()
	if v, err := c.Decode(true); err != nil || !v {
		t.Fatalf("decode: %v %v", v, err)
	}
	if v, err := c.Decode("false"); err != nil || v {
		t.Fatalf("decode string: %v %v", v, err)
	}
	if _, err := c.Decode(json.Number("1")); decodeCode(t, err) != supler.CodeInvalidType {
		t.Fatalf("expected invalid_type")
	}
	if c.IsEmpty(false) {
		t.Fatalf("bool is never empty")
	}
}

type color string

func TestEnum_Decode(t *testing.T) {
	c := Enum[color]("red", "green")
	if v, err := c.Decode("green"); err != nil || v != "green" {
		t.Fatalf("decode: %v %v", v, err)
	}
	if v, err := c.Decode(""); err != nil || v != "" {
		t.Fatalf("empty should decode: %v %v", v, err)
	}
	if _, err := c.Decode("blue"); decodeCode(t, err) != supler.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum")
	}
}

func TestOptional_Decode(t *testing.T) {
	c := Optional(Int())
	v, err := c.Decode(nil)
	if err != nil || v != nil {
		t.Fatalf("null should be nil: %v %v", v, err)
	}
	v, err = c.Decode("")
	if err != nil || v != nil {
		t.Fatalf("blank should be nil: %v %v", v, err)
	}
	v, err = c.Decode(json.Number("0"))
	if err != nil || v == nil || *v != 0 {
		t.Fatalf("explicit zero should be kept: %v %v", v, err)
	}
	if enc, _ := c.Encode(nil); enc != nil {
		t.Fatalf("nil should encode to null, got %v", enc)
	}
	if !c.IsEmpty(nil) || c.IsEmpty(v) {
		t.Fatalf("unexpected emptiness")
	}
}
