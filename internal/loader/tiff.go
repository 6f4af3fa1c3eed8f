package loader

import (
	"encoding/binary"
	"fmt"
)

// extractTIFFDPI reads the resolution tags out of a TIFF IFD without fully
// parsing the file.
func extractTIFFDPI(data []byte) (float64, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("truncated TIFF header")
	}

	var byteOrder binary.ByteOrder
	if data[0] == 'I' && data[1] == 'I' {
		byteOrder = binary.LittleEndian
	} else if data[0] == 'M' && data[1] == 'M' {
		byteOrder = binary.BigEndian
	} else {
		return 0, fmt.Errorf("not a valid TIFF file")
	}

	ifdOffset := byteOrder.Uint32(data[4:8])
	if int(ifdOffset)+2 > len(data) {
		return 0, fmt.Errorf("IFD offset out of range")
	}

	numEntries := byteOrder.Uint16(data[ifdOffset : ifdOffset+2])

	var xRes, yRes float64
	var resUnit uint16 = 2 // default to inches

	entryBase := int(ifdOffset) + 2
	for i := 0; i < int(numEntries); i++ {
		off := entryBase + i*12
		if off+12 > len(data) {
			return 0, fmt.Errorf("truncated IFD entry")
		}
		entry := data[off : off+12]

		tag := byteOrder.Uint16(entry[0:2])
		fieldType := byteOrder.Uint16(entry[2:4])
		valueOffset := byteOrder.Uint32(entry[8:12])

		switch tag {
		case 282: // XResolution
			if fieldType == 5 { // RATIONAL
				xRes = readTIFFRational(data, valueOffset, byteOrder)
			}
		case 283: // YResolution
			if fieldType == 5 { // RATIONAL
				yRes = readTIFFRational(data, valueOffset, byteOrder)
			}
		case 296: // ResolutionUnit
			if fieldType == 3 { // SHORT
				resUnit = uint16(valueOffset)
			}
		}
	}

	if xRes == 0 && yRes == 0 {
		return 0, fmt.Errorf("no resolution tags found")
	}

	dpi := xRes
	if dpi == 0 {
		dpi = yRes
	}

	// Convert from centimeters to inches if needed
	if resUnit == 3 {
		dpi *= 2.54
	}

	if dpi == 0 {
		return 0, fmt.Errorf("resolution is zero")
	}
	return dpi, nil
}

// readTIFFRational reads a RATIONAL value (two uint32s) at the given offset.
func readTIFFRational(data []byte, offset uint32, byteOrder binary.ByteOrder) float64 {
	if int(offset)+8 > len(data) {
		return 0
	}
	num := byteOrder.Uint32(data[offset : offset+4])
	denom := byteOrder.Uint32(data[offset+4 : offset+8])
	if denom == 0 {
		return 0
	}
	return float64(num) / float64(denom)
}
