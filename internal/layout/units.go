package layout

import (
	"math"
	"strconv"
	"strings"
)

// ResolveLength parses a dimension token and resolves it to device pixels.
// Supported forms: "120", "120px", "50%", "1.5em". Percentages resolve
// against parentSize, em against fontSize, bare numbers are pixels.
// The second return value is false for "auto", empty, or unparsable input,
// which callers treat as an unset dimension.
func ResolveLength(raw string, parentSize, fontSize float64) (float64, bool) {
	s := normalize(raw)
	if s == "" || s == "auto" {
		return 0, false
	}

	switch {
	case strings.HasSuffix(s, "px"):
		return parseNumber(strings.TrimSuffix(s, "px"))
	case strings.HasSuffix(s, "%"):
		n, ok := parseNumber(strings.TrimSuffix(s, "%"))
		if !ok {
			return 0, false
		}
		return n / 100.0 * parentSize, true
	case strings.HasSuffix(s, "em"):
		n, ok := parseNumber(strings.TrimSuffix(s, "em"))
		if !ok {
			return 0, false
		}
		return n * fontSize, true
	default:
		return parseNumber(s)
	}
}

func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// Sides holds four resolved spacing values.
type Sides struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns the sum of the left and right sides.
func (s Sides) Horizontal() float64 { return s.Left + s.Right }

// Vertical returns the sum of the top and bottom sides.
func (s Sides) Vertical() float64 { return s.Top + s.Bottom }

// Main returns the summed spacing along the given main axis.
func (s Sides) Main(horizontal bool) float64 {
	if horizontal {
		return s.Horizontal()
	}
	return s.Vertical()
}

// Cross returns the summed spacing across the given main axis.
func (s Sides) Cross(horizontal bool) float64 {
	if horizontal {
		return s.Vertical()
	}
	return s.Horizontal()
}

// MainStart returns the leading spacing along the main axis.
func (s Sides) MainStart(horizontal bool) float64 {
	if horizontal {
		return s.Left
	}
	return s.Top
}

// MainEnd returns the trailing spacing along the main axis.
func (s Sides) MainEnd(horizontal bool) float64 {
	if horizontal {
		return s.Right
	}
	return s.Bottom
}

// CrossStart returns the leading spacing across the main axis.
func (s Sides) CrossStart(horizontal bool) float64 {
	if horizontal {
		return s.Top
	}
	return s.Left
}

// CrossEnd returns the trailing spacing across the main axis.
func (s Sides) CrossEnd(horizontal bool) float64 {
	if horizontal {
		return s.Bottom
	}
	return s.Right
}

// Margins are Sides plus per-side auto flags. An auto margin absorbs
// positive free space during justification and collapses to zero when
// free space is negative or exhausted.
type Margins struct {
	Sides
	AutoTop, AutoRight, AutoBottom, AutoLeft bool
}

// AutoMainStart reports whether the leading main-axis margin is auto.
func (m Margins) AutoMainStart(horizontal bool) bool {
	if horizontal {
		return m.AutoLeft
	}
	return m.AutoTop
}

// AutoMainEnd reports whether the trailing main-axis margin is auto.
func (m Margins) AutoMainEnd(horizontal bool) bool {
	if horizontal {
		return m.AutoRight
	}
	return m.AutoBottom
}

// autoMainCount returns how many main-axis margins are auto.
func (m Margins) autoMainCount(horizontal bool) int {
	n := 0
	if m.AutoMainStart(horizontal) {
		n++
	}
	if m.AutoMainEnd(horizontal) {
		n++
	}
	return n
}

// ParseSidesShorthand resolves a CSS-style 1/2/3/4 token shorthand into
// per-side values mapped (top, right, bottom, left). Every resolved value
// is clamped to >= 0; unparsable tokens resolve to zero.
func ParseSidesShorthand(raw string, parentSize, fontSize float64) Sides {
	top, right, bottom, left := splitShorthand(raw)
	resolve := func(tok string) float64 {
		v, ok := ResolveLength(tok, parentSize, fontSize)
		if !ok {
			return 0
		}
		return math.Max(0, v)
	}
	return Sides{
		Top:    resolve(top),
		Right:  resolve(right),
		Bottom: resolve(bottom),
		Left:   resolve(left),
	}
}

// ParseMarginShorthand is ParseSidesShorthand with support for the literal
// "auto" token, which flags the side instead of resolving it.
func ParseMarginShorthand(raw string, parentSize, fontSize float64) Margins {
	top, right, bottom, left := splitShorthand(raw)

	var m Margins
	resolve := func(tok string, auto *bool) float64 {
		if normalize(tok) == "auto" {
			*auto = true
			return 0
		}
		v, ok := ResolveLength(tok, parentSize, fontSize)
		if !ok {
			return 0
		}
		return math.Max(0, v)
	}
	m.Top = resolve(top, &m.AutoTop)
	m.Right = resolve(right, &m.AutoRight)
	m.Bottom = resolve(bottom, &m.AutoBottom)
	m.Left = resolve(left, &m.AutoLeft)
	return m
}

// splitShorthand expands 1/2/3/4 space-separated tokens to the CSS
// (top, right, bottom, left) order. Anything else yields empty tokens.
func splitShorthand(raw string) (top, right, bottom, left string) {
	fields := strings.Fields(raw)
	switch len(fields) {
	case 1:
		return fields[0], fields[0], fields[0], fields[0]
	case 2:
		return fields[0], fields[1], fields[0], fields[1]
	case 3:
		return fields[0], fields[1], fields[2], fields[1]
	case 4:
		return fields[0], fields[1], fields[2], fields[3]
	}
	return "", "", "", ""
}

// ClampSize constrains v to [min, max] with the CSS tie-break: when the
// constraints conflict, min wins over max.
func ClampSize(v, min, max float64) float64 {
	effectiveMax := math.Max(min, max)
	if v > effectiveMax {
		v = effectiveMax
	}
	if v < min {
		v = min
	}
	return v
}
