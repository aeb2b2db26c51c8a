package route

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Follower advances a position along a route's waypoints by a fixed
// distance per Step. Reaching a waypoint consumes the whole step.
type Follower struct {
	waypoints orb.LineString
	pos       orb.Point
	speed     float64
	segment   int // index of the waypoint being approached
}

// NewFollower starts at the first waypoint heading for the second.
func NewFollower(r Route, speed float64) (*Follower, error) {
	if !(speed > 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadSpeed, speed)
	}
	if len(r.Waypoints) == 0 {
		return nil, ErrEmptyRoute
	}
	return &Follower{
		waypoints: r.Waypoints,
		pos:       r.Waypoints[0],
		speed:     speed,
		segment:   1,
	}, nil
}

// Position returns the current position.
func (f *Follower) Position() orb.Point {
	return f.pos
}

// Done reports whether the last waypoint has been reached.
func (f *Follower) Done() bool {
	return f.segment >= len(f.waypoints)
}

// Step moves one tick and returns the new position and whether the route
// is finished. Within one step of the next waypoint the follower snaps onto
// it and targets the one after.
func (f *Follower) Step() (orb.Point, bool) {
	if f.Done() {
		return f.pos, true
	}
	target := f.waypoints[f.segment]
	dist := planar.Distance(f.pos, target)
	if dist < f.speed {
		f.pos = target
		f.segment++
		return f.pos, f.Done()
	}
	dx, dy := target.X()-f.pos.X(), target.Y()-f.pos.Y()
	f.pos = orb.Point{f.pos.X() + dx/dist*f.speed, f.pos.Y() + dy/dist*f.speed}
	return f.pos, false
}
