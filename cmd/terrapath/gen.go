package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/gridgen"
)

// presets build a named synthetic terrain for rows×cols.
var presets = map[string]func(rows, cols int) []gridgen.Layer{
	"plain": func(rows, cols int) []gridgen.Layer { return nil },
	"slope": func(rows, cols int) []gridgen.Layer { return []gridgen.Layer{gridgen.Ramp(3, 2)} },
	"cliff": func(rows, cols int) []gridgen.Layer {
		return []gridgen.Layer{gridgen.Wall(cols/2, 100, rows-1)}
	},
	"ridge": func(rows, cols int) []gridgen.Layer {
		return []gridgen.Layer{gridgen.Ridge(rows/2, 100, 0, cols-1)}
	},
	"spike": func(rows, cols int) []gridgen.Layer {
		c := costgrid.Cell{Row: rows / 2, Col: cols / 2}
		return []gridgen.Layer{gridgen.Peak(c, 200, float64(min(rows, cols))/4)}
	},
	"crater": func(rows, cols int) []gridgen.Layer {
		c := costgrid.Cell{Row: rows / 2, Col: cols / 2}
		return []gridgen.Layer{gridgen.Ring(c, min(rows, cols)/3, 100)}
	},
	"rough": func(rows, cols int) []gridgen.Layer {
		return []gridgen.Layer{gridgen.Ramp(2, 1), gridgen.Noise(35)}
	},
}

func presetNames() string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func runGen(args []string) error {
	fs := flag.NewFlagSet("gen", flag.ContinueOnError)
	preset := fs.String("preset", "rough", "terrain shape: "+presetNames())
	rows := fs.Int("rows", 64, "grid rows")
	cols := fs.Int("cols", 64, "grid columns")
	base := fs.Float64("base", 0, "base elevation")
	seed := fs.Int64("seed", 1, "random seed for noisy presets")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	layers, ok := presets[*preset]
	if !ok {
		return fmt.Errorf("gen: unknown preset %q (have %s)", *preset, presetNames())
	}
	g, err := gridgen.Build(*rows, *cols,
		[]gridgen.Option{gridgen.WithBase(*base), gridgen.WithSeed(*seed)},
		layers(*rows, *cols)...,
	)
	if err != nil {
		return err
	}

	if *out == "" {
		w := bufio.NewWriter(os.Stdout)
		if err := g.WriteText(w); err != nil {
			return err
		}
		return w.Flush()
	}
	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := g.WriteText(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
