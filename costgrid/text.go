package costgrid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineBytes bounds a single text row; wide rasters exceed bufio's 64KiB default.
const maxLineBytes = 16 << 20

// ReadText parses a grid written as whitespace-separated samples, one grid
// row per line. Blank lines are skipped. Parse failures carry the 1-based
// line number and wrap ErrSyntax; ragged rows yield ErrNonRectangular.
func ReadText(r io.Reader) (*Grid, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var rows [][]float64
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("costgrid: line %d, column %d: %q: %w", line, i+1, f, ErrSyntax)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("costgrid: read: %w", err)
	}

	return New(rows)
}

// WriteText writes g in the format ReadText accepts, using the shortest
// representation that round-trips each sample.
func (g *Grid) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for r := 0; r < g.height; r++ {
		for c := 0; c < g.width; c++ {
			if c > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return err
				}
			}
			buf = strconv.AppendFloat(buf[:0], g.values[g.index(r, c)], 'f', -1, 64)
			if _, err := bw.Write(buf); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
