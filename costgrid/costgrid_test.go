package costgrid_test

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/katalvlaran/terrapath/costgrid"
)

//----------------------------------------------------------------------------//
// New and InBounds Tests
//----------------------------------------------------------------------------//

// TestNew_Errors verifies that New rejects empty, ragged or non-finite inputs.
func TestNew_Errors(t *testing.T) {
	cases := []struct {
		name string
		grid [][]float64
		err  error
	}{
		{"EmptyRows", [][]float64{}, costgrid.ErrEmptyGrid},
		{"EmptyCols", [][]float64{{}}, costgrid.ErrEmptyGrid},
		{"NonRectangular", [][]float64{{1, 2}, {3}}, costgrid.ErrNonRectangular},
		{"NaN", [][]float64{{1, math.NaN()}}, costgrid.ErrNotFinite},
		{"Inf", [][]float64{{math.Inf(-1)}}, costgrid.ErrNotFinite},
		{"SpanOverflow", [][]float64{{1e308, 1e308}, {-1e308, -1e308}}, costgrid.ErrNotFinite},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := costgrid.New(tc.grid)
			if !errors.Is(err, tc.err) {
				t.Errorf("New(%v) error = %v; want %v", tc.grid, err, tc.err)
			}
		})
	}
}

// TestNew_WideSpan accepts the largest span that still fits a float64 and
// keeps Normalized within [0,1].
func TestNew_WideSpan(t *testing.T) {
	g, err := costgrid.New([][]float64{{math.MaxFloat64 / 2, 0}, {-math.MaxFloat64 / 2, 1}})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	for _, c := range []costgrid.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 1}} {
		if n := g.Normalized(c); math.IsNaN(n) || n < 0 || n > 1 {
			t.Errorf("Normalized(%v) = %v; want a value in [0,1]", c, n)
		}
	}
}

// TestNew_DeepCopy checks that mutating the input after New has no effect.
func TestNew_DeepCopy(t *testing.T) {
	in := [][]float64{{1, 2}, {3, 4}}
	g, err := costgrid.New(in)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	in[0][0] = 99
	if v, _ := g.ValueAt(0, 0); v != 1 {
		t.Errorf("ValueAt(0,0) = %v after input mutation; want 1", v)
	}
	rows := g.Rows()
	rows[1][1] = -5
	if v, _ := g.ValueAt(1, 1); v != 4 {
		t.Errorf("ValueAt(1,1) = %v after Rows mutation; want 4", v)
	}
}

// TestInBounds checks InBounds on a 2-row × 3-column grid.
func TestInBounds(t *testing.T) {
	g, err := costgrid.FromInts([][]int{
		{0, 1, 0},
		{1, 0, 1},
	})
	if err != nil {
		t.Fatalf("FromInts error: %v", err)
	}

	valid := []costgrid.Cell{{0, 0}, {1, 2}, {1, 1}}
	for _, c := range valid {
		if !g.Contains(c) {
			t.Errorf("Contains(%v)=false; want true", c)
		}
	}
	invalid := []costgrid.Cell{{-1, 0}, {0, 3}, {2, 1}, {1, -1}}
	for _, c := range invalid {
		if g.Contains(c) {
			t.Errorf("Contains(%v)=true; want false", c)
		}
	}
}

//----------------------------------------------------------------------------//
// Lookup Tests
//----------------------------------------------------------------------------//

func TestValueAt(t *testing.T) {
	g, err := costgrid.FromInts([][]int{
		{5, 7, 9},
		{1, 3, 2},
	})
	if err != nil {
		t.Fatalf("FromInts error: %v", err)
	}
	if w, h := g.Dimensions(); w != 3 || h != 2 {
		t.Fatalf("Dimensions() = %d,%d; want 3,2", w, h)
	}
	if v, err := g.ValueAt(0, 2); err != nil || v != 9 {
		t.Errorf("ValueAt(0,2) = %v,%v; want 9,nil", v, err)
	}
	if v, err := g.ValueAt(1, 0); err != nil || v != 1 {
		t.Errorf("ValueAt(1,0) = %v,%v; want 1,nil", v, err)
	}
	for _, c := range []costgrid.Cell{{2, 0}, {0, 3}, {-1, -1}} {
		if _, err := g.ValueAt(c.Row, c.Col); !errors.Is(err, costgrid.ErrOutOfBounds) {
			t.Errorf("ValueAt%v error = %v; want ErrOutOfBounds", c, err)
		}
	}
	if lo, hi := g.Bounds(); lo != 1 || hi != 9 {
		t.Errorf("Bounds() = %v,%v; want 1,9", lo, hi)
	}
}

func TestNormalized(t *testing.T) {
	g, _ := costgrid.FromInts([][]int{{0, 5, 10}})
	want := []float64{0, 0.5, 1}
	for c, w := range want {
		if got := g.Normalized(costgrid.Cell{Row: 0, Col: c}); got != w {
			t.Errorf("Normalized(0,%d) = %v; want %v", c, got, w)
		}
	}
}

// TestNormalized_Flat verifies the degenerate grid never divides by zero.
func TestNormalized_Flat(t *testing.T) {
	g, _ := costgrid.FromInts([][]int{{7, 7}, {7, 7}})
	if !g.Flat() {
		t.Fatal("Flat() = false; want true")
	}
	for i := 0; i < g.Len(); i++ {
		if got := g.Normalized(g.Coordinate(i)); got != costgrid.NeutralValue {
			t.Errorf("Normalized(%v) = %v; want %v", g.Coordinate(i), got, costgrid.NeutralValue)
		}
	}
}

func TestIndexCoordinate(t *testing.T) {
	g, _ := costgrid.New([][]float64{{0, 0, 0, 0}, {0, 0, 0, 0}, {0, 0, 0, 0}})
	for i := 0; i < g.Len(); i++ {
		if got := g.Index(g.Coordinate(i)); got != i {
			t.Errorf("Index(Coordinate(%d)) = %d", i, got)
		}
	}
	if c := g.Coordinate(6); c != (costgrid.Cell{Row: 1, Col: 2}) {
		t.Errorf("Coordinate(6) = %v; want (1,2)", c)
	}
}

func TestCellLess(t *testing.T) {
	a, b, c := costgrid.Cell{Row: 0, Col: 5}, costgrid.Cell{Row: 1, Col: 0}, costgrid.Cell{Row: 1, Col: 1}
	if !a.Less(b) || !b.Less(c) || c.Less(a) || a.Less(a) {
		t.Error("Cell.Less is not lexicographic on (Row, Col)")
	}
	if s := c.String(); s != "(1,1)" {
		t.Errorf("String() = %q; want (1,1)", s)
	}
}

//----------------------------------------------------------------------------//
// FromImage Tests
//----------------------------------------------------------------------------//

func TestFromImage_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 3, 2))
	img.SetGray16(0, 0, color.Gray16{Y: 100})
	img.SetGray16(2, 1, color.Gray16{Y: 4000})
	g, err := costgrid.FromImage(img)
	if err != nil {
		t.Fatalf("FromImage error: %v", err)
	}
	if w, h := g.Dimensions(); w != 3 || h != 2 {
		t.Fatalf("Dimensions() = %d,%d; want 3,2", w, h)
	}
	if v, _ := g.ValueAt(0, 0); v != 100 {
		t.Errorf("ValueAt(0,0) = %v; want 100", v)
	}
	if v, _ := g.ValueAt(1, 2); v != 4000 {
		t.Errorf("ValueAt(1,2) = %v; want 4000", v)
	}
}

func TestFromImage_Empty(t *testing.T) {
	_, err := costgrid.FromImage(image.NewGray(image.Rect(0, 0, 0, 4)))
	if !errors.Is(err, costgrid.ErrEmptyGrid) {
		t.Errorf("FromImage(empty) error = %v; want ErrEmptyGrid", err)
	}
}
