// Package compositor renders the comparison output: markers and measurement
// overlays burned onto a plane, the alpha-blended overlay of both sides, the
// alternating blink view, and the side-by-side capture.
package compositor

import (
	"image"
	"image/color"

	"ridgecompare/internal/annotation"
	"ridgecompare/internal/measure"
	"ridgecompare/internal/plane"
	"ridgecompare/pkg/geometry"
)

// digitPatterns contains 3x5 pixel patterns for digits 0-9.
// Each digit is represented as 5 rows of 3 bits.
var digitPatterns = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterPatterns contains 3x5 pixel patterns for the marker prefixes and the
// few symbols the status overlays need.
var letterPatterns = map[rune][5]uint8{
	'C': {0b011, 0b100, 0b100, 0b100, 0b011},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'M': {0b101, 0b111, 0b101, 0b101, 0b101},
	'N': {0b101, 0b111, 0b111, 0b101, 0b101},
	'P': {0b110, 0b101, 0b110, 0b100, 0b100},
	'X': {0b101, 0b101, 0b010, 0b101, 0b101},
	'.': {0b000, 0b000, 0b000, 0b000, 0b010},
	'/': {0b001, 0b001, 0b010, 0b100, 0b100},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
	'?': {0b111, 0b001, 0b011, 0b000, 0b010},
	' ': {0b000, 0b000, 0b000, 0b000, 0b000},
}

func getCharPattern(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitPatterns[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	if pattern, ok := letterPatterns[ch]; ok {
		return pattern
	}
	return [5]uint8{}
}

// DrawLabel draws label left-aligned at (x, y) in the 3x5 bitmap font.
func DrawLabel(output *image.RGBA, label string, x, y int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	if scale > 6 {
		scale = 6
	}
	bounds := output.Bounds()
	charW := 3*scale + scale

	for i, ch := range []rune(label) {
		pattern := getCharPattern(ch)
		cx := x + i*charW
		for row := 0; row < 5; row++ {
			for c := 0; c < 3; c++ {
				if (pattern[row] & (1 << (2 - c))) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						px := cx + c*scale + dx
						py := y + row*scale + dy
						if px >= bounds.Min.X && px < bounds.Max.X &&
							py >= bounds.Min.Y && py < bounds.Max.Y {
							output.SetRGBA(px, py, col)
						}
					}
				}
			}
		}
	}
}

// DrawCircle draws a circle outline of the given radius, two pixels thick,
// or a filled disc.
func DrawCircle(output *image.RGBA, cx, cy, radius float64, col color.RGBA, filled bool) {
	bounds := output.Bounds()

	minX := int(cx - radius - 1)
	maxX := int(cx + radius + 1)
	minY := int(cy - radius - 1)
	maxY := int(cy + radius + 1)

	r2 := radius * radius
	innerR2 := (radius - float64(annotation.OutlineWidth)) * (radius - float64(annotation.OutlineWidth))

	for y := minY; y <= maxY; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := minX; x <= maxX; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist2 := dx*dx + dy*dy

			if filled {
				if dist2 <= r2 {
					output.SetRGBA(x, y, col)
				}
			} else if dist2 <= r2 && dist2 >= innerR2 {
				output.SetRGBA(x, y, col)
			}
		}
	}
}

// DrawLine draws a line between two points using Bresenham's algorithm.
func DrawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					output.SetRGBA(px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// CalibrationColor is used for calibration reference points and lines.
var CalibrationColor = color.RGBA{0, 128, 255, 255}

// MeasureColor is used for measurement segments.
var MeasureColor = color.RGBA{255, 80, 80, 255}

// DrawMarker burns one annotation onto the output: an outlined circle in the
// kind's color with the label offset to the upper right.
func DrawMarker(output *image.RGBA, a *annotation.Annotation, v plane.ViewTransform, size geometry.Size) {
	pt := plane.MapPoint(a.Pos, size, v)
	col := a.Kind.Color()
	DrawCircle(output, pt.X, pt.Y, annotation.MarkerRadius, col, false)
	DrawLabel(output, a.Label(), int(pt.X)+int(annotation.MarkerRadius)+3, int(pt.Y)-int(annotation.MarkerRadius), col, 2)
}

// DrawMeasurement burns a measurement segment with endpoint dots and its
// length label at the midpoint.
func DrawMeasurement(output *image.RGBA, m measure.Measurement, v plane.ViewTransform, size geometry.Size) {
	p1 := plane.MapPoint(m.Seg.Start, size, v)
	p2 := plane.MapPoint(m.Seg.End, size, v)
	DrawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), MeasureColor, 2)
	DrawCircle(output, p1.X, p1.Y, 3, MeasureColor, true)
	DrawCircle(output, p2.X, p2.Y, 3, MeasureColor, true)

	mid := m.Seg.Midpoint()
	midV := plane.MapPoint(mid, size, v)
	DrawLabel(output, m.Format(), int(midV.X)+6, int(midV.Y)-12, MeasureColor, 2)
}

// DrawCalibrationPoints burns the calibration reference pair and the segment
// between them.
func DrawCalibrationPoints(output *image.RGBA, c plane.Calibration, v plane.ViewTransform, size geometry.Size) {
	if c.P1 == c.P2 && c.DistanceMM == 0 {
		return // calibration came from a declared DPI, nothing to draw
	}
	p1 := plane.MapPoint(c.P1, size, v)
	p2 := plane.MapPoint(c.P2, size, v)
	DrawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), CalibrationColor, 1)
	DrawCircle(output, p1.X, p1.Y, 5, CalibrationColor, true)
	DrawCircle(output, p2.X, p2.Y, 5, CalibrationColor, true)
}
