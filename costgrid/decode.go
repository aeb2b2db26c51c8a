package costgrid

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// ErrUnknownFormat indicates a terrain encoding Decode cannot read.
var ErrUnknownFormat = errors.New("costgrid: unknown terrain format")

// Format names a terrain encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text" // whitespace-separated rows, see ReadText
	FormatTIFF Format = "tiff" // grayscale or colour raster, see FromImage
	FormatPNG  Format = "png"
)

// FormatFor guesses a Format from a file name or a MIME type. Anything it
// does not recognise is treated as text.
func FormatFor(name string) Format {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".tif"), strings.HasSuffix(name, ".tiff"), name == "image/tiff":
		return FormatTIFF
	case strings.HasSuffix(name, ".png"), name == "image/png":
		return FormatPNG
	}
	return FormatText
}

// Decode reads a grid in the given format.
func Decode(r io.Reader, f Format) (*Grid, error) {
	switch f {
	case FormatText, "":
		return ReadText(r)
	case FormatTIFF:
		img, err := tiff.Decode(bufio.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("costgrid: tiff: %w", err)
		}
		return FromImage(img)
	case FormatPNG:
		img, err := png.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("costgrid: png: %w", err)
		}
		return FromImage(img)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Load opens path and decodes it in the format implied by its extension.
func Load(path string) (*Grid, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	g, err := Decode(fh, FormatFor(filepath.Base(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
