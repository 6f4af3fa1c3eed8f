// Package loader decodes source images for the comparison planes. Formats
// are detected from file content, not extension: scanned impression archives
// routinely carry mislabeled files.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	wsq "github.com/jtejido/go-wsq"
	"github.com/spakin/netpbm"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrDecodeFailure is returned when a file cannot be decoded. A side loaded
// from such a file becomes a broken plane rather than failing the load pair.
var ErrDecodeFailure = errors.New("loader: decode failure")

// ErrUnknownFormat is returned when no known magic matches.
var ErrUnknownFormat = errors.New("loader: unrecognized format")

// ErrJPEG2000 is returned for files detected as JPEG 2000, which is
// recognized but has no decoder here. The explicit error keeps the report
// from blaming a corrupt file.
var ErrJPEG2000 = errors.New("loader: JPEG 2000 is not supported")

// Format identifies a detected source format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatPNM  Format = "pnm"
	FormatWSQ  Format = "wsq"
)

// Decoded is a successfully loaded source image.
type Decoded struct {
	Image  image.Image
	Format Format
	DPI    float64 // 0 when the source declares no resolution
	Path   string
}

// Sniff detects the format from the leading bytes of the file content.
func Sniff(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG, nil
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return FormatJPEG, nil
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return FormatTIFF, nil
	case bytes.HasPrefix(data, []byte("BM")):
		return FormatBMP, nil
	case len(data) >= 2 && data[0] == 'P' && data[1] >= '1' && data[1] <= '7':
		return FormatPNM, nil
	case bytes.HasPrefix(data, []byte("\x00\x00\x00\x0cjP")) ||
		bytes.HasPrefix(data, []byte("\xff\x4f\xff\x51")):
		// JP2 signature box or raw J2K codestream.
		return "", ErrJPEG2000
	case bytes.HasPrefix(data, []byte("\xff\xa0")):
		return FormatWSQ, nil
	default:
		return "", ErrUnknownFormat
	}
}

// Load reads and decodes a source file. The physical resolution is extracted
// from TIFF metadata when present; other formats yield DPI 0 and rely on
// calibration.
func Load(path string) (*Decoded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	d, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	d.Path = path
	return d, nil
}

// Decode decodes in-memory file content.
func Decode(data []byte) (*Decoded, error) {
	format, err := Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailure, err)
	}

	var img image.Image
	switch format {
	case FormatWSQ:
		img, err = wsq.Decode(bytes.NewReader(data))
	case FormatPNM:
		img, err = netpbm.Decode(bytes.NewReader(data), nil)
	default:
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailure, format, err)
	}

	d := &Decoded{Image: img, Format: format}
	if format == FormatTIFF {
		if dpi, err := extractTIFFDPI(data); err == nil {
			d.DPI = dpi
		}
	}
	return d, nil
}

// SupportedFormats returns the recognized file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".tiff", ".tif", ".bmp", ".pbm", ".pgm", ".ppm", ".wsq"}
}

// IsSupportedFormat checks if the given path has a supported extension. Used
// only to filter file dialogs; actual decoding goes by content.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// FileFilter returns a file filter string for use in file dialogs.
func FileFilter() string {
	return "Image Files (*.png, *.jpg, *.tiff, *.bmp, *.pgm, *.wsq)"
}
