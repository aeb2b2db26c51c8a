// Package terrapath finds walkable routes across elevation grids.
//
// 🚀 What is terrapath?
//
//	An A* search that treats a 2D grid of samples as terrain:
//		• low-valued terrain costs more to cross
//		• elevation change between neighbours costs more
//		• steps steeper than a hard cap are not moves at all
//
// Packages:
//
//	costgrid/  — immutable grid of samples, region labelling, text/TIFF/PNG decoding
//	astar/     — constrained A* (FindPath), Dijkstra cost field, cost helpers
//	gridgen/   — deterministic synthetic terrain layers (ramps, walls, peaks, noise)
//	route/     — surface ↔ grid scaling, fallback routes, waypoint following
//	overlay/   — PNG heat map with the route drawn on top
//	internal/  — configuration and the HTTP/WebSocket service
//	cmd/terrapath — CLI: search, render, serve, gen
//
// Quick example:
//
//	g, _ := costgrid.FromInts([][]int{
//		{0, 0, 0},
//		{0, 100, 0},
//		{0, 0, 0},
//	})
//	p, _ := astar.FindPath(g, costgrid.Cell{Row: 0, Col: 0}, costgrid.Cell{Row: 2, Col: 2})
//	// p.Cells goes around the centre: a 100-unit step exceeds the default cap of 20.
//
// "No path" is a result, not an error: p.Found() reports it.
package terrapath
