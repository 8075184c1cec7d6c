package layout

import (
	"strconv"
	"strings"
)

// This file defines unit-safe lengths. The surface works in CSS pixels (96 per inch);
// the typesetter and the renderers work in millimeters.

// Unit 是长度在文档中书写时的单位。
type Unit int

const (
	UnitNone    Unit = iota // unit-less numbers, treated as px for lengths
	UnitPX                  // CSS pixels
	UnitMM                  // millimeters
	UnitCM                  // centimeters
	UnitIN                  // inches
	UnitPT                  // points
	UnitPercent             // relative to a reference length
)

// Conversion constants between pt, px and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
	MmToPx = 96 / 25.4
)

// UnitToString 返回单位的简写。
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	case UnitPercent:
		return "%"
	default:
		return ""
	}
}

// Length 是带单位的长度值。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts to millimeters. Percentages have no absolute size and return the bare value.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX, UnitNone:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

// ToPT converts to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

// ToPX converts to CSS pixels; percentages resolve against reference (px).
func (l Length) ToPX(reference float64) float64 {
	switch l.Unit {
	case UnitPX, UnitNone:
		return l.Value
	case UnitPercent:
		return reference * l.Value / 100
	default:
		return l.ToMM() * MmToPx
	}
}

var unitSuffixes = []struct {
	s string
	u Unit
}{{"px", UnitPX}, {"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"%", UnitPercent}}

// ParseRawLengthStr parses a length string preserving its unit. Unparseable input yields a zero length.
func ParseRawLengthStr(value string) Length {
	lower := strings.ToLower(strings.TrimSpace(value))
	if lower == "" {
		return Length{}
	}
	unit := UnitNone
	num := lower
	for _, suf := range unitSuffixes {
		if strings.HasSuffix(lower, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(lower, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}
	}
	return Length{Value: f, Unit: unit}
}

// ParsePX parses a length and resolves it to pixels in one step.
func ParsePX(value string, reference float64) float64 {
	return ParseRawLengthStr(value).ToPX(reference)
}

// ComputedLineHeight converts a document line-height into the form a computed style reports:
// factors ("1.2x") become bare numbers, absolute lengths become px, "150%" and keywords stay as-is.
func ComputedLineHeight(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "normal"
	}
	if strings.HasSuffix(v, "x") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(v, "x"), 64); err == nil && f > 0 {
			return formatNumber(f)
		}
		return "normal"
	}
	l := ParseRawLengthStr(v)
	switch l.Unit {
	case UnitNone:
		if l.Value > 0 {
			return formatNumber(l.Value)
		}
		return v
	case UnitPercent:
		return formatNumber(l.Value) + "%"
	default:
		return formatNumber(l.ToPX(0)) + "px"
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
