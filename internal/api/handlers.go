package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/paulmach/orb"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
	"github.com/katalvlaran/terrapath/overlay"
	"github.com/katalvlaran/terrapath/route"
)

// statusClientClosed is logged for searches abandoned by the client.
const statusClientClosed = 499

const maxRequestBytes = 1 << 20

// Wire types.

type cellJSON struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c cellJSON) cell() costgrid.Cell { return costgrid.Cell{Row: c.Row, Col: c.Col} }

func toCellsJSON(cells []costgrid.Cell) []cellJSON {
	out := make([]cellJSON, len(cells))
	for i, c := range cells {
		out[i] = cellJSON{Row: c.Row, Col: c.Col}
	}
	return out
}

type gridResponse struct {
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Regions int     `json:"regions"`
}

// pathRequest is the body of POST /api/path and of each /api/ws message.
// Missing params fields keep the server defaults.
type pathRequest struct {
	Start  cellJSON      `json:"start"`
	Goal   cellJSON      `json:"goal"`
	Params *astar.Params `json:"params,omitempty"`
	// Every samples expand frames on /api/ws; ignored elsewhere.
	Every int `json:"every,omitempty"`
}

type pathResponse struct {
	Found    bool       `json:"found"`
	Cells    []cellJSON `json:"cells"`
	Cost     float64    `json:"cost"`
	Expanded int        `json:"expanded"`
}

type routeRequest struct {
	From orb.Point `json:"from"`
	To   orb.Point `json:"to"`
}

type routeResponse struct {
	Mode      string         `json:"mode"`
	Waypoints orb.LineString `json:"waypoints"`
	Length    float64        `json:"length"`
	Cells     []cellJSON     `json:"cells,omitempty"`
	Cost      float64        `json:"cost"`
	Expanded  int            `json:"expanded"`
}

// reachableResponse answers GET /api/reachable. Costs is row-major with
// null for cells the source cannot reach.
type reachableResponse struct {
	Source    cellJSON     `json:"source"`
	Reachable int          `json:"reachable"`
	Total     int          `json:"total"`
	Costs     [][]*float64 `json:"costs,omitempty"`
}

// Terrain.

func (h *handlers) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	g, rg := h.planner.Snapshot()
	if g == nil {
		writeError(w, "no terrain loaded", http.StatusNotFound)
		return
	}
	writeJSON(w, describeGrid(g, rg))
}

// handlePutGrid replaces the terrain wholesale. The body format follows
// Content-Type: image/tiff, image/png, anything else is parsed as text.
func (h *handlers) handlePutGrid(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, h.maxBytes)
	g, err := costgrid.Decode(body, costgrid.FormatFor(r.Header.Get("Content-Type")))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.planner.SetGrid(g)
	gridCells.Set(float64(g.Len()))

	ng, rg := h.planner.Snapshot()
	resp := describeGrid(ng, rg)
	log.Printf("api: terrain replaced: %dx%d, %d regions", resp.Width, resp.Height, resp.Regions)
	writeJSON(w, resp)
}

func describeGrid(g *costgrid.Grid, rg *costgrid.Regions) gridResponse {
	w, hgt := g.Dimensions()
	min, max := g.Bounds()
	resp := gridResponse{Width: w, Height: hgt, Min: min, Max: max}
	if rg != nil {
		resp.Regions = rg.Count()
	}
	return resp
}

// Searches.

func (h *handlers) handlePath(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePathRequest(w, r)
	if !ok {
		return
	}
	g, rg := h.planner.Snapshot()
	if g == nil {
		writeError(w, "no terrain loaded", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := h.searchContext(r.Context())
	defer cancel()

	started := time.Now()
	p, err := astar.FindPath(g, req.Start.cell(), req.Goal.cell(), h.searchOptions(ctx, *req.Params, rg)...)
	if err != nil {
		h.searchFailed(w, "path", started, err)
		return
	}
	outcome := outcomeNoPath
	if p.Found() {
		outcome = outcomeFound
	}
	recordSearch("path", outcome, time.Since(started), p.Expanded)
	writeJSON(w, toPathResponse(p))
}

func (h *handlers) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := h.searchContext(r.Context())
	defer cancel()

	started := time.Now()
	rt, err := h.planner.Plan(ctx, req.From, req.To)
	if err != nil {
		h.searchFailed(w, "route", started, err)
		return
	}
	outcome := outcomeFallback
	if rt.Mode == route.ModeTerrain {
		outcome = outcomeFound
	}
	recordSearch("route", outcome, time.Since(started), rt.Expanded)

	resp := routeResponse{
		Mode:      rt.Mode.String(),
		Waypoints: rt.Waypoints,
		Length:    rt.Length(),
		Cost:      rt.Cost,
		Expanded:  rt.Expanded,
	}
	if rt.Cells != nil {
		resp.Cells = toCellsJSON(rt.Cells)
	}
	writeJSON(w, resp)
}

// handleOverlay renders the terrain heat map. With sr, sc, gr and gc the
// path between (sr,sc) and (gr,gc) is searched and drawn on top; scale
// sets the pixels per cell.
func (h *handlers) handleOverlay(w http.ResponseWriter, r *http.Request) {
	g, rg := h.planner.Snapshot()
	if g == nil {
		writeError(w, "no terrain loaded", http.StatusNotFound)
		return
	}

	q := r.URL.Query()
	scale := overlay.DefaultOptions().Scale
	if s := q.Get("scale"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 32 {
			writeError(w, "scale must be an integer in [1, 32]", http.StatusBadRequest)
			return
		}
		scale = n
	}
	// Reject oversized images before searching or allocating.
	if px := overlay.Pixels(g, scale); px > h.maxPixels {
		writeError(w, fmt.Sprintf("overlay of %d pixels exceeds the limit of %d; lower scale", px, h.maxPixels),
			http.StatusRequestEntityTooLarge)
		return
	}
	opts := []overlay.Option{overlay.WithScale(scale), overlay.WithMaxPixels(h.maxPixels)}

	if q.Has("sr") || q.Has("sc") || q.Has("gr") || q.Has("gc") {
		var coords [4]int
		for i, key := range []string{"sr", "sc", "gr", "gc"} {
			n, err := strconv.Atoi(q.Get(key))
			if err != nil {
				writeError(w, "sr, sc, gr and gc must all be integers", http.StatusBadRequest)
				return
			}
			coords[i] = n
		}

		ctx, cancel := h.searchContext(r.Context())
		defer cancel()

		started := time.Now()
		start := costgrid.Cell{Row: coords[0], Col: coords[1]}
		goal := costgrid.Cell{Row: coords[2], Col: coords[3]}
		p, err := astar.FindPath(g, start, goal, h.searchOptions(ctx, h.planner.Config().Params, rg)...)
		if err != nil {
			h.searchFailed(w, "overlay", started, err)
			return
		}
		outcome := outcomeNoPath
		if p.Found() {
			outcome = outcomeFound
			opts = append(opts, overlay.WithPath(p.Cells))
		}
		recordSearch("overlay", outcome, time.Since(started), p.Expanded)
	}

	var buf bytes.Buffer
	if err := overlay.EncodePNG(&buf, g, opts...); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, overlay.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeError(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// handleReachable floods the terrain from (r,c) and reports how many cells
// are reachable under the configured cap. costs=1 adds the full cost table.
func (h *handlers) handleReachable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	row, errR := strconv.Atoi(q.Get("r"))
	col, errC := strconv.Atoi(q.Get("c"))
	if errR != nil || errC != nil {
		writeError(w, "r and c must be integers", http.StatusBadRequest)
		return
	}
	withCosts := q.Get("costs") == "1" || q.Get("costs") == "true"

	g, _ := h.planner.Snapshot()
	if g == nil {
		writeError(w, "no terrain loaded", http.StatusServiceUnavailable)
		return
	}

	ctx, cancel := h.searchContext(r.Context())
	defer cancel()

	started := time.Now()
	source := costgrid.Cell{Row: row, Col: col}
	f, err := astar.CostField(g, source, h.searchOptions(ctx, h.planner.Config().Params, nil)...)
	if err != nil {
		h.searchFailed(w, "reachable", started, err)
		return
	}
	recordSearch("reachable", outcomeFound, time.Since(started), f.Reachable())

	resp := reachableResponse{
		Source:    cellJSON{Row: row, Col: col},
		Reachable: f.Reachable(),
		Total:     g.Len(),
	}
	if withCosts {
		width, height := g.Dimensions()
		resp.Costs = make([][]*float64, height)
		for rr := range resp.Costs {
			resp.Costs[rr] = make([]*float64, width)
			for cc := range resp.Costs[rr] {
				if d, ok := f.Cost(costgrid.Cell{Row: rr, Col: cc}); ok {
					resp.Costs[rr][cc] = &d
				}
			}
		}
	}
	writeJSON(w, resp)
}

// decodePathRequest fills missing params from the planner defaults.
func (h *handlers) decodePathRequest(w http.ResponseWriter, r *http.Request) (pathRequest, bool) {
	req := h.newPathRequest()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		writeError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return req, false
	}
	h.fixParams(&req)
	return req, true
}

func (h *handlers) newPathRequest() pathRequest {
	p := h.planner.Config().Params
	return pathRequest{Params: &p}
}

// fixParams restores the defaults after an explicit "params": null.
func (h *handlers) fixParams(req *pathRequest) {
	if req.Params == nil {
		p := h.planner.Config().Params
		req.Params = &p
	}
}

func (h *handlers) searchContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.timeout < 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.timeout)
}

// searchOptions uses the precomputed regions only when they were built for
// the requested elevation cap.
func (h *handlers) searchOptions(ctx context.Context, p astar.Params, rg *costgrid.Regions, extra ...astar.Option) []astar.Option {
	opts := []astar.Option{astar.WithParams(p), astar.WithContext(ctx)}
	if rg != nil && rg.MaxDiff == p.MaxElevationDiff {
		opts = append(opts, astar.WithRegions(rg))
	}
	if n := h.planner.Config().MaxExpansions; n > 0 {
		opts = append(opts, astar.WithMaxExpansions(n))
	}
	return append(opts, extra...)
}

// searchFailed maps a search error to a status, records it and replies.
func (h *handlers) searchFailed(w http.ResponseWriter, endpoint string, started time.Time, err error) {
	status, outcome := classify(err)
	recordSearch(endpoint, outcome, time.Since(started), 0)
	if status == statusClientClosed {
		log.Printf("api: %s search abandoned by client: %v", endpoint, err)
		return
	}
	if status >= http.StatusInternalServerError {
		log.Printf("api: %s search failed: %v", endpoint, err)
	}
	writeError(w, err.Error(), status)
}

func classify(err error) (status int, outcome string) {
	switch {
	case errors.Is(err, astar.ErrInvalidCoordinate), errors.Is(err, astar.ErrBadParams):
		return http.StatusBadRequest, outcomeInvalid
	case errors.Is(err, astar.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity, outcomeBudget
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, outcomeTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosed, outcomeCancelled
	}
	return http.StatusInternalServerError, outcomeError
}

func toPathResponse(p astar.Path) pathResponse {
	return pathResponse{
		Found:    p.Found(),
		Cells:    toCellsJSON(p.Cells),
		Cost:     p.Cost,
		Expanded: p.Expanded,
	}
}

// Helpers

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
