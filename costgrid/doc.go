// Package costgrid holds the immutable 2D terrain grid that terrain-aware
// searches traverse.
//
// What:
//
//   - Grid wraps a rectangular matrix of float64 samples (elevation or
//     terrain "goodness"; higher is cheaper to cross).
//   - Min/Max bounds are computed once at construction so per-cell
//     normalization is O(1).
//   - Regions labels the connected areas of the 8-neighbour graph whose
//     moves stay under an elevation cap, for O(1) reachability checks.
//   - ReadText/WriteText and FromImage ingest whitespace-separated sample
//     files and grayscale rasters; Load/Decode pick the format (text,
//     TIFF, PNG) from a file name or MIME type.
//
// Why:
//
//   - A Grid is built once and then shared read-only by any number of
//     concurrent searches; replacing terrain means building a new Grid
//     and swapping the pointer, never editing cells in place.
//
// Complexity:
//
//   - New, FromImage, ReadText: O(W×H) time and memory.
//   - ValueAt, Bounds, Dimensions, Normalized: O(1).
//   - Regions: O(W×H×8) time, O(W×H) memory.
//
// Degenerate grids:
//
//   - When every sample is equal (Max == Min) Normalized returns
//     NeutralValue (0.5) for every cell instead of dividing by zero.
//
// Errors:
//
//   - ErrEmptyGrid: input has no rows or no columns.
//   - ErrNonRectangular: rows have differing lengths.
//   - ErrNotFinite: a sample is NaN or ±Inf, or max-min overflows.
//   - ErrOutOfBounds: a (row, col) lies outside the grid.
//   - ErrSyntax: a text sample could not be parsed.
//   - ErrUnknownFormat: Decode was asked for an unsupported encoding.
package costgrid
