// Package matcher implements the route matcher (component C6): it
// projects a filtered Fix onto the active route's underlying graph edges
// and derives the next maneuver and distance-to-maneuver.
package matcher

import (
	"math"

	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/navcore/navcore/pkg/util"
	"go.uber.org/zap"
)

const (
	maneuverAngleThresholdDeg = 30.0
	candidateRejectDistM      = 50.0
	distanceWeight            = 1.0
	bearingWeight             = 0.5
	onRouteBonus              = 0.5
	offRouteBonus             = 1.0
)

// segment is one precomputed (route point i, i+1) pair.
type segment struct {
	edge    graph.Index
	hasEdge bool
}

// Matcher tracks the currently active route and its precomputed
// edge/position bookkeeping. Its segments field aliases graph.Index
// values into the graph that produced the route; if that graph is
// cleared (a new load_osm), the matcher must be re-initialized with
// SetRoute before further Match calls, per the engine's re-entrancy
// contract.
type Matcher struct {
	g   *graph.Graph
	cfg config.Config
	log *zap.Logger

	route      datastructure.Route
	hasRoute   bool
	cumulative []float64
	segments   []segment
}

func New(g *graph.Graph, cfg config.Config, log *zap.Logger) *Matcher {
	return &Matcher{g: g, cfg: cfg, log: log}
}

// SetRoute precomputes the cumulative-distance array and, for each route
// segment, the graph edge whose midpoint projection best matches it. A
// gap wider than 50 m between consecutive route points is logged but
// never rejected: it is the caller's data to match against, good or bad.
func (m *Matcher) SetRoute(r datastructure.Route) {
	m.route = r
	m.hasRoute = true

	m.cumulative = make([]float64, len(r.Points))
	for i := 1; i < len(r.Points); i++ {
		gap := geo.Haversine(r.Points[i-1].LatLon, r.Points[i].LatLon)
		if gap > 50 {
			m.log.Warn("route point gap exceeds densification tolerance",
				zap.Int("index", i), zap.Float64("gap_m", gap))
		}
		m.cumulative[i] = m.cumulative[i-1] + gap
	}

	m.segments = make([]segment, 0, util.MaxInt(len(r.Points)-1, 0))
	for i := 0; i+1 < len(r.Points); i++ {
		mid := geo.Lerp(r.Points[i].LatLon, r.Points[i+1].LatLon, 0.5)
		bearing := float64(r.Points[i].BearingDeg)

		edgeID, ok := m.bestEdgeNear(mid, bearing, 50)
		if !ok {
			edgeID, ok = m.bestEdgeNear(mid, bearing, 100)
		}
		m.segments = append(m.segments, segment{edge: edgeID, hasEdge: ok})
	}
}

// bestEdgeNear picks the candidate edge within radiusM of loc that
// minimizes projected_distance + (bearing_diff/45deg)*20.
func (m *Matcher) bestEdgeNear(loc datastructure.LatLon, bearingDeg, radiusM float64) (graph.Index, bool) {
	candidates := m.g.NearbyEdges(loc, radiusM)
	best := math.Inf(1)
	var bestEdge graph.Index
	found := false

	for _, edgeID := range candidates {
		edge, ok := m.g.GetEdge(edgeID)
		if !ok {
			continue
		}
		fromNode, ok := m.g.GetNode(edge.From)
		if !ok {
			continue
		}
		toNode, ok := m.g.GetNode(edge.To)
		if !ok {
			continue
		}

		_, _, dist := geo.ClosestPointOnSegment(loc, fromNode.Pos, toNode.Pos)
		edgeBearing := geo.Bearing(fromNode.Pos, toNode.Pos)
		bearingDiff := math.Abs(geo.SignedAngleDiff(bearingDeg, edgeBearing))

		score := dist + (bearingDiff/45.0)*20.0
		if score < best {
			best, bestEdge, found = score, edgeID, true
		}
	}

	return bestEdge, found
}

// Match reports the caller's progress along the active route. With no
// route set, it returns a passthrough NoRoute result.
func (m *Matcher) Match(fix datastructure.Fix) datastructure.MatchResult {
	if !m.hasRoute || len(m.route.Points) == 0 {
		return datastructure.MatchResult{
			NextManeuver: datastructure.ManeuverNoRoute,
			Matched:      fix.LatLon,
			MatchedBearingDeg: fix.BearingDeg,
		}
	}

	closestI := m.findClosestPointOnRoute(fix)

	candidates := m.g.NearbyEdges(fix.LatLon, m.cfg.MatcherCandidateRadiusM)
	if len(candidates) == 0 {
		candidates = m.g.NearbyEdges(fix.LatLon, m.cfg.MatcherCandidateRadiusRetryM)
	}

	onRoute, offRoute := m.partitionCandidates(candidates, closestI)
	pool := onRoute
	bonus := onRouteBonus
	if len(pool) == 0 {
		pool = offRoute
		bonus = offRouteBonus
	}

	bestEdge, bestFound := m.scoreCandidates(pool, fix, bonus)
	if !bestFound {
		return datastructure.MatchResult{
			NextManeuver: datastructure.ManeuverNoRoute,
			Matched:      fix.LatLon,
			MatchedBearingDeg: fix.BearingDeg,
		}
	}

	matched, matchedBearing, streetName := m.projectOntoEdge(bestEdge, fix)

	nextI := m.findNextManeuverIndex(closestI)
	distanceToNext := m.cumulative[nextI] - m.cumulative[closestI]
	if distanceToNext < 0 {
		distanceToNext = 0
	}

	maneuver := datastructure.ManeuverArrive
	if nextI < len(m.route.Points)-1 {
		maneuver = deriveManeuver(float64(m.route.Points[nextI-1].BearingDeg), float64(m.route.Points[nextI].BearingDeg))
	}

	return datastructure.MatchResult{
		StreetName:        streetName,
		NextManeuver:       maneuver,
		DistanceToNextM:    uint32(math.Round(distanceToNext)),
		Matched:            matched,
		MatchedBearingDeg:  float32(matchedBearing),
	}
}

// findClosestPointOnRoute returns the route point index minimizing
// haversine distance to fix, advanced by one when forward progress
// within that segment exceeds 70% and heading aligns with the next point
// within 45 degrees. Advancement never crosses the last index.
func (m *Matcher) findClosestPointOnRoute(fix datastructure.Fix) int {
	best := math.Inf(1)
	closest := 0
	for i, p := range m.route.Points {
		if d := geo.Haversine(fix.LatLon, p.LatLon); d < best {
			best, closest = d, i
		}
	}

	if closest >= len(m.route.Points)-1 {
		return len(m.route.Points) - 1
	}

	cur := m.route.Points[closest]
	next := m.route.Points[closest+1]
	segLen := geo.Haversine(cur.LatLon, next.LatLon)
	if segLen < 1e-6 {
		return closest
	}

	_, t, _ := geo.ClosestPointOnSegment(fix.LatLon, cur.LatLon, next.LatLon)
	headingDiff := math.Abs(geo.SignedAngleDiff(float64(fix.BearingDeg), float64(cur.BearingDeg)))

	if t > m.cfg.MatcherForwardProgressFrac && headingDiff < m.cfg.MatcherHeadingToleranceDeg {
		closest++
		if closest > len(m.route.Points)-1 {
			closest = len(m.route.Points) - 1
		}
	}

	return closest
}

func (m *Matcher) partitionCandidates(candidates []graph.Index, closestI int) (onRoute, offRoute []graph.Index) {
	onRouteSet := make(map[graph.Index]struct{})
	lo := util.MaxInt(closestI-3, 0)
	hi := util.MinInt(closestI+3, len(m.segments))
	for i := lo; i < hi; i++ {
		if m.segments[i].hasEdge {
			onRouteSet[m.segments[i].edge] = struct{}{}
		}
	}

	for _, c := range candidates {
		if _, ok := onRouteSet[c]; ok {
			onRoute = append(onRoute, c)
		} else {
			offRoute = append(offRoute, c)
		}
	}
	return onRoute, offRoute
}

func (m *Matcher) scoreCandidates(candidates []graph.Index, fix datastructure.Fix, bonus float64) (graph.Index, bool) {
	best := math.Inf(1)
	var bestEdge graph.Index
	found := false

	for _, edgeID := range candidates {
		edge, ok := m.g.GetEdge(edgeID)
		if !ok {
			continue
		}
		fromNode, ok := m.g.GetNode(edge.From)
		if !ok {
			continue
		}
		toNode, ok := m.g.GetNode(edge.To)
		if !ok {
			continue
		}

		_, _, perpDist := geo.ClosestPointOnSegment(fix.LatLon, fromNode.Pos, toNode.Pos)
		if perpDist > candidateRejectDistM {
			continue
		}

		edgeBearing := geo.Bearing(fromNode.Pos, toNode.Pos)
		bearingDiff := math.Abs(geo.SignedAngleDiff(float64(fix.BearingDeg), edgeBearing))

		score := distanceWeight*perpDist + bearingWeight*(bearingDiff/180.0)*50.0
		score *= bonus
		score *= speedFactor(float64(fix.SpeedMps), edge.SpeedLimitKph)

		if score < best {
			best, bestEdge, found = score, edgeID, true
		}
	}

	return bestEdge, found
}

// speedFactor implements the matcher's speed/kind disagreement penalty
// table: factors > 1 make a candidate less attractive when the fix's
// speed looks implausible for that edge's speed limit.
func speedFactor(fixSpeedMps, edgeSpeedLimitKph float64) float64 {
	switch {
	case fixSpeedMps > 1 && edgeSpeedLimitKph > 60:
		return 0.8
	case fixSpeedMps > 10 && edgeSpeedLimitKph < 30:
		return 1.2
	case fixSpeedMps < 5 && edgeSpeedLimitKph > 70:
		return 1.2
	default:
		return 1.0
	}
}

// projectOntoEdge projects fix onto edgeID, flipping the reported bearing
// by 180 degrees when the fix's own bearing opposes the edge's direction.
func (m *Matcher) projectOntoEdge(edgeID graph.Index, fix datastructure.Fix) (datastructure.LatLon, float64, string) {
	edge, ok := m.g.GetEdge(edgeID)
	if !ok {
		return fix.LatLon, float64(fix.BearingDeg), ""
	}
	fromNode, _ := m.g.GetNode(edge.From)
	toNode, _ := m.g.GetNode(edge.To)

	projected, _, _ := geo.ClosestPointOnSegment(fix.LatLon, fromNode.Pos, toNode.Pos)
	edgeBearing := geo.Bearing(fromNode.Pos, toNode.Pos)

	if math.Abs(geo.SignedAngleDiff(float64(fix.BearingDeg), edgeBearing)) > 90 {
		edgeBearing = geo.NormalizeBearingDeg(edgeBearing + 180)
	}

	return projected, edgeBearing, edge.Name
}

// findNextManeuverIndex returns the first route index j > closestI whose
// turn angle exceeds maneuverAngleThresholdDeg, or the final index if none
// does (treated as "arrive at destination").
func (m *Matcher) findNextManeuverIndex(closestI int) int {
	last := len(m.route.Points) - 1
	for j := closestI + 1; j < last; j++ {
		delta := math.Abs(geo.SignedAngleDiff(float64(m.route.Points[j-1].BearingDeg), float64(m.route.Points[j].BearingDeg)))
		if delta > maneuverAngleThresholdDeg {
			return j
		}
	}
	return last
}
