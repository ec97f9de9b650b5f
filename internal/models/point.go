package models

import (
	"fmt"
	"regexp"
	"strconv"
)

// Point is a parsed geographic coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// MalformedPointError is returned by ParsePoint for strings that do not
// match the documented serialization.
type MalformedPointError struct {
	Raw string
}

func (e *MalformedPointError) Error() string {
	return fmt.Sprintf("malformed point %q: want POINT(lon lat)", e.Raw)
}

// pointPattern matches the single documented serialization,
// e.g. "POINT(-118.24 34.05)".
var pointPattern = regexp.MustCompile(`^POINT\(\s*(-?\d+(?:\.\d+)?)\s+(-?\d+(?:\.\d+)?)\s*\)$`)

// ParsePoint parses a WKT point string into coordinates. Any deviation
// from the documented format is a MalformedPointError; callers decide
// whether that excludes the item or fails the request.
func ParsePoint(raw string) (Point, error) {
	m := pointPattern.FindStringSubmatch(raw)
	if m == nil {
		return Point{}, &MalformedPointError{Raw: raw}
	}
	lon, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Point{}, &MalformedPointError{Raw: raw}
	}
	lat, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Point{}, &MalformedPointError{Raw: raw}
	}
	return Point{Lon: lon, Lat: lat}, nil
}

// FormatPoint renders a coordinate in the stored WKT form.
func FormatPoint(p Point) string {
	return fmt.Sprintf("POINT(%s %s)",
		strconv.FormatFloat(p.Lon, 'f', -1, 64),
		strconv.FormatFloat(p.Lat, 'f', -1, 64))
}
