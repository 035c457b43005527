package codec

import (
	"time"

	supler "github.com/reoring/supler"
)

// TimeRFC3339 returns a codec between RFC3339 strings and time.Time. The
// zero time is empty and encodes to null.
func TimeRFC3339() supler.Codec[time.Time] {
	return timeCodec{format: "date-time", parse: parseRFC3339, render: formatRFC3339Canonical}
}

// Date returns a codec between "2006-01-02" strings and time.Time (UTC midnight).
func Date() supler.Codec[time.Time] {
	return timeCodec{
		format: "date",
		parse:  func(s string) (time.Time, error) { return time.Parse(time.DateOnly, s) },
		render: func(t time.Time) string { return t.Format(time.DateOnly) },
	}
}

type timeCodec struct {
	format string
	parse  func(string) (time.Time, error)
	render func(time.Time) string
}

func (c timeCodec) Decode(wire any) (time.Time, error) {
	s, err := stringCodec{}.Decode(wire)
	if err != nil || s == "" {
		return time.Time{}, err
	}
	t, err := c.parse(s)
	if err != nil {
		return time.Time{}, &supler.DecodeError{
			Code:   supler.CodeInvalidFormat,
			Params: map[string]any{"format": c.format},
			Cause:  err,
		}
	}
	return t, nil
}

func (c timeCodec) Encode(t time.Time) (any, error) {
	if t.IsZero() {
		return nil, nil
	}
	return c.render(t), nil
}

func (timeCodec) JSONType() string         { return "string" }
func (c timeCodec) JSONFormat() string     { return c.format }
func (timeCodec) IsEmpty(t time.Time) bool { return t.IsZero() }

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Normalize to UTC and format using RFC3339Nano (Go trims trailing zeros)
	return t.UTC().Format(time.RFC3339Nano)
}
