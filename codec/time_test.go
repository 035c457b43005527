package codec

import (
	"testing"
	"time"

	supler "github.com/reoring/supler"
)

func TestTimeRFC3339_Codec_Basic(t *testing.T) {
	c := TimeRFC3339()

	in := "2025-01-01T00:00:00Z"
	got, err := c.Decode(in)
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !got.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time: %v", got)
	}

	out, err := c.Encode(got)
	if err != nil {
		t.Fatalf("encode err: %v", err)
	}
	if out != in {
		t.Fatalf("roundtrip mismatch: %v != %s", out, in)
	}
}

func TestTimeRFC3339_NormalizesToUTC(t *testing.T) {
	c := TimeRFC3339()
	got, err := c.Decode("2025-01-01T09:00:00+09:00")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	out, _ := c.Encode(got)
	if out != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected UTC output, got %v", out)
	}
}

func TestTimeRFC3339_InvalidFormat(t *testing.T) {
	_, err := TimeRFC3339().Decode("yesterday")
	if code := decodeCode(t, err); code != supler.CodeInvalidFormat {
		t.Fatalf("unexpected code: %s", code)
	}
}

func TestTimeRFC3339_ZeroIsEmpty(t *testing.T) {
	c := TimeRFC3339()
	got, err := c.Decode(nil)
	if err != nil || !got.IsZero() {
		t.Fatalf("null should decode to zero time: %v %v", got, err)
	}
	if out, _ := c.Encode(time.Time{}); out != nil {
		t.Fatalf("zero time should encode to null, got %v", out)
	}
	if !c.IsEmpty(time.Time{}) {
		t.Fatalf("zero time should be empty")
	}
}

func TestDate_Codec(t *testing.T) {
	c := Date()
	got, err := c.Decode("2024-02-29")
	if err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.February || got.Day() != 29 {
		t.Fatalf("unexpected date: %v", got)
	}
	if out, _ := c.Encode(got); out != "2024-02-29" {
		t.Fatalf("unexpected encoding: %v", out)
	}
	if _, err := c.Decode("2023-02-29"); decodeCode(t, err) != supler.CodeInvalidFormat {
		t.Fatalf("expected invalid_format")
	}
}
