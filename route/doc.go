// Package route is the caller side of the terrain search: it maps
// continuous surface coordinates (pixels, metres) onto grid cells, runs the
// constrained search and maps the resulting cells back into waypoints.
//
// A Planner owns the current terrain behind an atomic pointer so the grid
// can be replaced wholesale while searches are in flight; each Plan call
// works on the snapshot it loaded. When no terrain is loaded, or the search
// finds no path, Plan falls back to a direct or Manhattan route instead of
// failing.
//
// Follower replays a Route at a fixed speed per step, one segment at a time.
package route
