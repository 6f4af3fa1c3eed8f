// Package annotation manages point markers placed on the comparison planes.
// Markers live in untransformed pixel space so view changes never move them;
// only a physical resample rescales or drops them.
package annotation

import (
	"errors"
	"fmt"
	"image/color"

	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// ErrOutOfBounds is returned when a marker would land outside the raster.
var ErrOutOfBounds = errors.New("annotation: point outside image bounds")

// Kind classifies a marker.
type Kind int

const (
	KindMinutia Kind = iota
	KindMatch
	KindExclusion
	KindCustom
	kindCount
)

// Kinds lists all marker kinds in display order.
func Kinds() []Kind {
	return []Kind{KindMinutia, KindMatch, KindExclusion, KindCustom}
}

func (k Kind) String() string {
	switch k {
	case KindMinutia:
		return "minutia"
	case KindMatch:
		return "match"
	case KindExclusion:
		return "exclusion"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Prefix returns the single-letter label prefix drawn next to a marker.
func (k Kind) Prefix() string {
	switch k {
	case KindMinutia:
		return "N"
	case KindMatch:
		return "M"
	case KindExclusion:
		return "E"
	case KindCustom:
		return "C"
	default:
		return "?"
	}
}

// Color returns the marker's draw color.
func (k Kind) Color() color.RGBA {
	switch k {
	case KindMinutia:
		return color.RGBA{220, 38, 38, 255}
	case KindMatch:
		return color.RGBA{22, 163, 74, 255}
	case KindExclusion:
		return color.RGBA{234, 179, 8, 255}
	case KindCustom:
		return color.RGBA{37, 99, 235, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// Marker radii in pixels. Hit testing accepts clicks slightly outside the
// drawn circle.
const (
	MarkerRadius = 10.0
	OutlineWidth = 2
	HitTolerance = MarkerRadius + 5.0
)

// Annotation is one placed marker. Seq is unique per (side, kind) for the
// life of the session and is never reused after removal, so labels stay
// stable in any exported record.
type Annotation struct {
	ID    uint64
	Side  plane.Side
	Kind  Kind
	Pos   geometry.Point2D
	Seq   int
	Notes string
}

// Label returns the marker's on-screen label, e.g. "M3".
func (a Annotation) Label() string {
	return fmt.Sprintf("%s%d", a.Kind.Prefix(), a.Seq)
}
