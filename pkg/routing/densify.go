package routing

import (
	"math"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"github.com/navcore/navcore/pkg/graph"
)

const (
	densifyGapThresholdM = 20.0
	smoothBearingDeltaDeg = 20.0
	smoothDistanceThreshM = 50.0
	smoothCollinearRatio  = 0.8
)

// densify converts a node path into a Route's points: it prepends the
// exact requested start and appends the exact requested end. Three
// linear fill points are added between start/end and the path's first/last
// node when they are more than 10 m apart, and max(2, ceil(gap/20 m))
// fill points between consecutive path nodes that no direct edge joins.
// Consecutive nodes joined by an edge are emitted as-is, whatever the
// edge's length.
func (e *Engine) densify(start, end datastructure.LatLon, path []graph.Index) []datastructure.RoutePoint {
	positions := make([]datastructure.LatLon, len(path))
	for i, id := range path {
		node, _ := e.g.GetNode(id)
		positions[i] = node.Pos
	}

	var raw []datastructure.LatLon
	raw = append(raw, start)
	if geo.Haversine(start, positions[0]) > nodeSnapEndpointToleranceM {
		raw = append(raw, lerpSteps(start, positions[0], 3)...)
	}

	for i := 0; i+1 < len(positions); i++ {
		raw = append(raw, positions[i])

		if e.hasDirectEdge(path[i], path[i+1]) {
			continue
		}
		gap := geo.Haversine(positions[i], positions[i+1])
		n := int(math.Ceil(gap / densifyGapThresholdM))
		if n < 2 {
			n = 2
		}
		raw = append(raw, lerpSteps(positions[i], positions[i+1], n)...)
	}
	raw = append(raw, positions[len(positions)-1])

	if geo.Haversine(positions[len(positions)-1], end) > nodeSnapEndpointToleranceM {
		raw = append(raw, lerpSteps(positions[len(positions)-1], end, 3)...)
	}
	raw = append(raw, end)

	return toRoutePoints(raw)
}

// hasDirectEdge reports whether from has an out-edge landing on to.
func (e *Engine) hasDirectEdge(from, to graph.Index) bool {
	node, ok := e.g.GetNode(from)
	if !ok {
		return false
	}
	for _, edgeID := range node.OutEdges {
		edge, ok := e.g.GetEdge(edgeID)
		if ok && edge.To == to {
			return true
		}
	}
	return false
}

// lerpSteps returns n interior points strictly between a and b (excluding
// both endpoints).
func lerpSteps(a, b datastructure.LatLon, n int) []datastructure.LatLon {
	out := make([]datastructure.LatLon, 0, n)
	for k := 1; k <= n; k++ {
		t := float64(k) / float64(n+1)
		out = append(out, geo.Lerp(a, b, t))
	}
	return out
}

// toRoutePoints computes per-point bearing (toward the next point) and a
// target speed from the gap to the next point, min(30, gap/10) clamped to
// [5, 30] m/s; the final point always has speed 0.
func toRoutePoints(positions []datastructure.LatLon) []datastructure.RoutePoint {
	points := make([]datastructure.RoutePoint, len(positions))
	for i, pos := range positions {
		points[i].LatLon = pos
		if i == len(positions)-1 {
			points[i].SpeedMps = 0
			if i > 0 {
				points[i].BearingDeg = points[i-1].BearingDeg
			}
			continue
		}
		gap := geo.Haversine(pos, positions[i+1])
		points[i].BearingDeg = float32(geo.Bearing(pos, positions[i+1]))
		speed := gap / 10.0
		if speed > 30 {
			speed = 30
		}
		if speed < 5 {
			speed = 5
		}
		points[i].SpeedMps = float32(speed)
	}
	return points
}

// smooth drops intermediate points whose bearing change is small and
// whose distance from the last kept point is short, unless the
// collinearity check holds (the chord from the last kept point to the
// next point is at least 80% of the two segments it would replace, i.e.
// the point is nearly collinear with its neighbors, in which case it is
// kept). The first and last points are always preserved.
func (e *Engine) smooth(points []datastructure.RoutePoint) []datastructure.RoutePoint {
	if len(points) <= 2 {
		return points
	}

	kept := []datastructure.RoutePoint{points[0]}
	for i := 1; i < len(points)-1; i++ {
		prev := kept[len(kept)-1]
		curr := points[i]
		next := points[i+1]

		bearingDelta := math.Abs(geo.SignedAngleDiff(float64(prev.BearingDeg), float64(curr.BearingDeg)))
		distPrevCurr := geo.Haversine(prev.LatLon, curr.LatLon)

		if bearingDelta < smoothBearingDeltaDeg && distPrevCurr <= smoothDistanceThreshM {
			distCurrNext := geo.Haversine(curr.LatLon, next.LatLon)
			distPrevNext := geo.Haversine(prev.LatLon, next.LatLon)
			if distPrevNext < smoothCollinearRatio*(distPrevCurr+distCurrNext) {
				continue
			}
		}

		kept = append(kept, curr)
	}
	kept = append(kept, points[len(points)-1])

	positions := make([]datastructure.LatLon, len(kept))
	for i, p := range kept {
		positions[i] = p.LatLon
	}
	return toRoutePoints(positions)
}
