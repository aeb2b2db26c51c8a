package costgrid

import (
	"image"
	"image/color"
)

// FromImage builds a Grid with one sample per pixel. 8- and 16-bit
// grayscale rasters (hill-shades, DEM previews) keep their raw sample
// values (0-255 and 0-65535); other images are converted with
// color.Gray16Model.
// Row 0 is the top edge of img.Bounds().
func FromImage(img image.Image) (*Grid, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyGrid
	}
	rows := make([][]float64, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := make([]float64, b.Dx())
		for x := b.Min.X; x < b.Max.X; x++ {
			row[x-b.Min.X] = luminance(img.At(x, y))
		}
		rows[y-b.Min.Y] = row
	}
	return New(rows)
}

func luminance(c color.Color) float64 {
	switch v := c.(type) {
	case color.Gray:
		return float64(v.Y)
	case color.Gray16:
		return float64(v.Y)
	}
	return float64(color.Gray16Model.Convert(c).(color.Gray16).Y)
}
