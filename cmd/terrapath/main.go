// Command terrapath searches, renders and serves elevation-constrained
// paths over terrain grids.
//
// Usage:
//
//	terrapath search -grid terrain.txt -from 0,0 -to 99,99 [-png out.png]
//	terrapath render -grid dem.tif -o heat.png [-from r,c -to r,c]
//	terrapath serve  [-addr :8080] [-grid terrain.txt]
//	terrapath gen    -preset spike -rows 64 -cols 64 [-seed 1] -o terrain.txt
//
// Defaults come from TERRAPATH_* environment variables (a .env file in the
// working directory is read first); flags override them.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/internal/config"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)
	log.SetPrefix("terrapath: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "search":
		err = runSearch(cfg, args)
	case "render":
		err = runRender(cfg, args)
	case "serve":
		err = runServe(cfg, args)
	case "gen":
		err = runGen(args)
	case "help", "-h", "--help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: terrapath <command> [flags]

commands:
  search   find a path between two cells and print it
  render   write the terrain heat map (and optionally a path) as PNG
  serve    run the HTTP/WebSocket service
  gen      write a synthetic terrain grid as text

run "terrapath <command> -h" for the flags of a command`)
}

// paramFlags registers the cost-model flags on fs, defaulting to p.
func paramFlags(fs *flag.FlagSet, p *astar.Params) {
	fs.Float64Var(&p.MaxElevationDiff, "cap", p.MaxElevationDiff, "maximum |elevation change| per move")
	fs.Float64Var(&p.TerrainWeight, "terrain-weight", p.TerrainWeight, "penalty scale for low terrain")
	fs.Float64Var(&p.ElevationWeight, "elevation-weight", p.ElevationWeight, "penalty scale for elevation change")
}

// cellFlag parses "row,col".
type cellFlag struct {
	cell costgrid.Cell
	set  bool
}

func (f *cellFlag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%d,%d", f.cell.Row, f.cell.Col)
}

func (f *cellFlag) Set(s string) error {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return fmt.Errorf("want row,col, got %q", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return fmt.Errorf("row: %w", err)
	}
	c, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return fmt.Errorf("col: %w", err)
	}
	f.cell, f.set = costgrid.Cell{Row: r, Col: c}, true
	return nil
}

func loadGrid(path string) (*costgrid.Grid, error) {
	if path == "" {
		return nil, errors.New("no terrain: pass -grid or set " + config.EnvGrid)
	}
	g, err := costgrid.Load(path)
	if err != nil {
		return nil, err
	}
	w, h := g.Dimensions()
	min, max := g.Bounds()
	log.Printf("loaded %s: %dx%d, values %g..%g", path, w, h, min, max)
	return g, nil
}
