package layout

import "strconv"

// This file defines unit-safe types and helpers for font sizes and line heights.
//
// Layout units map 1:1 to CSS pixels of the preview. Renderers treat one layout
// unit as one canvas millimetre, so the raster resolution is the export scale
// expressed in dots per unit.

// Unit represents the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitPX               // layout units
	UnitPT               // points
	UnitMM               // millimeters
)

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
	// CSS reference: 1pt = 4/3px.
	PxPerPt = 4.0 / 3.0
)

// UnitToString returns a short string for a Unit value.
func UnitToString(u Unit) string {
	switch u {
	case UnitPX:
		return "px"
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	default:
		return ""
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func Px(v float64) Length { return Length{Value: v, Unit: UnitPX} }
func Pt(v float64) Length { return Length{Value: v, Unit: UnitPT} }

func (l Length) IsZero() bool { return l.Value == 0 }

// Units converts the length to layout units. Millimetres go through points so
// that 1in stays 96 units.
func (l Length) Units() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * PxPerPt
	case UnitMM:
		return l.Value * MmToPt * PxPerPt
	default:
		return l.Value
	}
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + UnitToString(l.Unit)
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size (1.3x) or an absolute length.
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// Factor returns a factor-based spec.
func Factor(f float64) LineHeightSpec { return LineHeightSpec{Kind: LineHeightFactor, Factor: f} }

// Resolve computes the absolute line height in layout units.
func (s LineHeightSpec) Resolve(fontSize Length) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.Units()
	default:
		f := s.Factor
		if f <= 0 {
			f = 1.2
		}
		return fontSize.Units() * f
	}
}
