package transport

import (
	"bytes"
	"fmt"
	"strconv"
)

// The storefront sends numeric and boolean fields as either native JSON
// scalars or strings ({"stock":"10","isPromotion":"true"}). These types
// coerce both forms exactly once, at the decode boundary, so everything
// past the request structs is typed.

// FlexInt accepts a JSON number or a numeric string.
type FlexInt int

func (v *FlexInt) UnmarshalJSON(b []byte) error {
	s := string(unquote(b))
	if s == "null" || s == "" {
		*v = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", s)
	}
	*v = FlexInt(n)
	return nil
}

// FlexFloat accepts a JSON number or a numeric string.
type FlexFloat float64

func (v *FlexFloat) UnmarshalJSON(b []byte) error {
	s := string(unquote(b))
	if s == "null" || s == "" {
		*v = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number value %q", s)
	}
	*v = FlexFloat(f)
	return nil
}

// FlexBool accepts a JSON bool or a "true"/"false" string.
type FlexBool bool

func (v *FlexBool) UnmarshalJSON(b []byte) error {
	s := string(unquote(b))
	if s == "null" || s == "" {
		*v = false
		return nil
	}

	parsed, err := strconv.ParseBool(s)
	if err != nil {
		return fmt.Errorf("invalid boolean value %q", s)
	}
	*v = FlexBool(parsed)
	return nil
}

func unquote(b []byte) []byte {
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		return b[1 : len(b)-1]
	}
	return bytes.TrimSpace(b)
}
