package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/katalvlaran/terrapath/astar"
	"github.com/katalvlaran/terrapath/costgrid"
)

const (
	writeWait        = 5 * time.Second
	idleWait         = 60 * time.Second
	defaultEvery     = 8
	maxStreamMessage = 64 << 10
)

// Frame types sent on /api/ws.
const (
	frameExpand = "expand"
	framePath   = "path"
	frameError  = "error"
)

// streamFrame is one server message. Expand frames carry Cell, Cost and N
// (the running expansion count); the path frame carries the result.
type streamFrame struct {
	Type     string     `json:"type"`
	Cell     *cellJSON  `json:"cell,omitempty"`
	Cost     float64    `json:"cost"`
	N        int        `json:"n,omitempty"`
	Found    bool       `json:"found,omitempty"`
	Cells    []cellJSON `json:"cells,omitempty"`
	Expanded int        `json:"expanded,omitempty"`
	Status   int        `json:"status,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// streamLimiter caps concurrent search streams.
type streamLimiter struct {
	max    int32
	active atomic.Int32
}

func (l *streamLimiter) acquire() bool {
	for {
		n := l.active.Load()
		if n >= l.max {
			return false
		}
		if l.active.CompareAndSwap(n, n+1) {
			wsConnectionsActive.Inc()
			return true
		}
	}
}

func (l *streamLimiter) release() {
	l.active.Add(-1)
	wsConnectionsActive.Dec()
}

// handleStream upgrades to a WebSocket and serves path requests one at a
// time. Each request gets a stream of sampled expand frames followed by
// exactly one path or error frame. Frames are written from inside the
// search hook, so a client that stops reading aborts its own search.
func (h *handlers) handleStream(w http.ResponseWriter, r *http.Request) {
	if !h.streams.acquire() {
		recordRejected("ws_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}
	defer h.streams.release()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxStreamMessage)

	ip := ClientIP(r)
	log.Printf("api: search stream opened from %s", ip)
	defer log.Printf("api: search stream from %s closed", ip)

	for {
		conn.SetReadDeadline(time.Now().Add(idleWait))
		req := h.newPathRequest()
		if err := conn.ReadJSON(&req); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				// Malformed request: report it and keep the stream open.
				bad := streamFrame{Type: frameError, Status: http.StatusBadRequest, Error: err.Error()}
				if writeFrame(conn, bad) == nil {
					continue
				}
			}
			return
		}
		h.fixParams(&req)
		if err := h.streamSearch(conn, r, req); err != nil {
			return
		}
	}
}

// streamSearch runs one search; a non-nil error means the connection is unusable.
func (h *handlers) streamSearch(conn *websocket.Conn, r *http.Request, req pathRequest) error {
	g, rg := h.planner.Snapshot()
	if g == nil {
		return writeFrame(conn, streamFrame{Type: frameError, Status: http.StatusServiceUnavailable, Error: "no terrain loaded"})
	}
	every := req.Every
	if every <= 0 {
		every = defaultEvery
	}

	ctx, cancel := h.searchContext(r.Context())
	defer cancel()

	var (
		n        int
		writeErr error
	)
	hook := func(c costgrid.Cell, cost float64) error {
		n++
		if n%every != 0 {
			return nil
		}
		writeErr = writeFrame(conn, streamFrame{Type: frameExpand, Cell: &cellJSON{Row: c.Row, Col: c.Col}, Cost: cost, N: n})
		return writeErr
	}

	started := time.Now()
	p, err := astar.FindPath(g, req.Start.cell(), req.Goal.cell(), h.searchOptions(ctx, *req.Params, rg, astar.WithOnExpand(hook))...)
	if writeErr != nil {
		recordSearch("ws", outcomeCancelled, time.Since(started), 0)
		return writeErr
	}
	if err != nil {
		status, outcome := classify(err)
		recordSearch("ws", outcome, time.Since(started), 0)
		return writeFrame(conn, streamFrame{Type: frameError, Status: status, Error: err.Error()})
	}

	outcome := outcomeNoPath
	if p.Found() {
		outcome = outcomeFound
	}
	recordSearch("ws", outcome, time.Since(started), p.Expanded)
	return writeFrame(conn, streamFrame{
		Type:     framePath,
		Found:    p.Found(),
		Cells:    toCellsJSON(p.Cells),
		Cost:     p.Cost,
		Expanded: p.Expanded,
	})
}

func writeFrame(conn *websocket.Conn, f streamFrame) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}
