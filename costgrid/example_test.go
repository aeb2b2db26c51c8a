package costgrid_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/terrapath/costgrid"
)

// ExampleReadText loads a small elevation file and queries it.
func ExampleReadText() {
	src := `10 12 14
11 60 15
12 13 16`
	g, err := costgrid.ReadText(strings.NewReader(src))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	w, h := g.Dimensions()
	lo, hi := g.Bounds()
	v, _ := g.ValueAt(1, 1)
	fmt.Printf("%dx%d min=%v max=%v center=%v\n", w, h, lo, hi, v)
	// Output: 3x3 min=10 max=60 center=60
}

// ExampleGrid_Regions shows how an elevation cap splits a map.
func ExampleGrid_Regions() {
	g, _ := costgrid.FromInts([][]int{
		{0, 0, 80},
		{0, 0, 80},
	})
	rg := g.Regions(20)
	fmt.Println("regions:", rg.Count())
	fmt.Println("left↔right:", rg.Connected(costgrid.Cell{Row: 0, Col: 0}, costgrid.Cell{Row: 0, Col: 2}))
	// Output:
	// regions: 2
	// left↔right: false
}
