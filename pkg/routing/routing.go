// Package routing implements the A* routing engine (component C5): node
// snapping, shortest-path search, route densification/smoothing, a
// straight-line fallback, and alternative-route generation.
package routing

import (
	"math"

	"github.com/google/uuid"
	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/costfunction"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/navcore/navcore/pkg/util"
	"go.uber.org/zap"
)

const (
	nodeSnapEndpointToleranceM = 10.0
	routePointSpacingMaxM      = 25.0
	directRouteFallbackSpeed   = 9.72
	altSampleCount             = 10
	altSampleRadiusM           = 200.0
)

// Engine is the routing engine bound to one road graph.
type Engine struct {
	g      *graph.Graph
	cfg    config.Config
	logger *zap.Logger
}

func New(g *graph.Graph, cfg config.Config, logger *zap.Logger) *Engine {
	return &Engine{g: g, cfg: cfg, logger: logger}
}

// Routes returns 1-3 routes from start to end, primary first, per the
// engine's staged contract: a direct-distance gate, node snapping, A*
// search, densification, smoothing, a straight-line fallback, and finally
// up to two accepted alternatives. It returns no routes when any
// coordinate is NaN.
func (e *Engine) Routes(start, end datastructure.LatLon) []datastructure.Route {
	if math.IsNaN(start.Lat) || math.IsNaN(start.Lon) || math.IsNaN(end.Lat) || math.IsNaN(end.Lon) {
		return nil
	}

	if geo.Haversine(start, end) > e.cfg.MaxRouteDistanceM {
		return []datastructure.Route{e.createDirectRoute(start, end)}
	}

	primary, ok := e.searchRoute(start, end, costfunction.Length{})
	if !ok {
		return []datastructure.Route{e.createDirectRoute(start, end)}
	}

	routes := []datastructure.Route{primary}
	routes = append(routes, e.alternatives(start, end, primary)...)
	return routes
}

// searchRoute runs the full node-snap + A* + densify + smooth pipeline for
// one cost function, returning false if no path could be built.
func (e *Engine) searchRoute(start, end datastructure.LatLon, cost costfunction.CostFunction) (datastructure.Route, bool) {
	startNode, ok := e.findNearestNode(start, e.cfg.NodeSearchRadiusM)
	if !ok {
		return datastructure.Route{}, false
	}
	endNode, ok := e.findNearestNode(end, e.cfg.NodeSearchRadiusM)
	if !ok {
		return datastructure.Route{}, false
	}

	path := e.astar(startNode, endNode, cost)
	if len(path) == 0 {
		return datastructure.Route{}, false
	}

	points := e.densify(start, end, path)
	points = e.smooth(points)

	route := datastructure.Route{
		ID:     newRouteID(),
		Name:   "Route (" + cost.Name() + ")",
		Points: points,
	}
	route.DurationS = uint32(math.Round(routeDuration(points)))
	return route, true
}

func newRouteID() string {
	return "route-" + uuid.New().String()[:8]
}

func routeDuration(points []datastructure.RoutePoint) float64 {
	var duration, total float64
	for i := 0; i+1 < len(points); i++ {
		gap := geo.Haversine(points[i].LatLon, points[i+1].LatLon)
		total += gap
		speed := float64(points[i].SpeedMps)
		if speed > 0.1 {
			duration += gap / speed
		}
	}
	if duration == 0 && total > 0 {
		return total / directRouteFallbackSpeed
	}
	return duration
}

// findNearestNode snaps loc onto the graph: it queries nearby_edges, picks
// the globally closest candidate among edge endpoints and perpendicular
// projections, and splits the edge when the projection point is not
// already (close to) an existing endpoint.
func (e *Engine) findNearestNode(loc datastructure.LatLon, radiusM float64) (graph.Index, bool) {
	candidates := e.g.NearbyEdges(loc, radiusM)
	if len(candidates) == 0 {
		return 0, false
	}

	bestDist := math.Inf(1)
	var bestNode graph.Index
	found := false

	for _, edgeID := range candidates {
		edge, ok := e.g.GetEdge(edgeID)
		if !ok {
			continue
		}
		fromNode, ok := e.g.GetNode(edge.From)
		if !ok {
			continue
		}
		toNode, ok := e.g.GetNode(edge.To)
		if !ok {
			continue
		}

		if d := geo.Haversine(loc, fromNode.Pos); d < bestDist {
			bestDist, bestNode, found = d, edge.From, true
		}
		if d := geo.Haversine(loc, toNode.Pos); d < bestDist {
			bestDist, bestNode, found = d, edge.To, true
		}

		projected, _, projDist := geo.ClosestPointOnSegment(loc, fromNode.Pos, toNode.Pos)
		distFromFrom := geo.Haversine(projected, fromNode.Pos)
		distFromTo := geo.Haversine(projected, toNode.Pos)
		if projDist < bestDist && distFromFrom >= nodeSnapEndpointToleranceM && distFromTo >= nodeSnapEndpointToleranceM {
			if newNode, ok := e.g.SplitEdgeAt(edgeID, projected); ok {
				bestDist, bestNode, found = projDist, newNode, true
			}
		}
	}

	return bestNode, found
}

// astarState tracks the search bookkeeping for one node during one A* run.
type astarState struct {
	gScore   float64
	cameFrom graph.Index
	hasFrom  bool
	visited  bool
	seq      int
	hasSeq   bool
}

// astar runs a standard A* search using haversine-to-goal as the
// admissible heuristic. Ties in f = g + h are broken by insertion order
// (the sequence number recorded when a node first enters the open set).
func (e *Engine) astar(start, goal graph.Index, cost costfunction.CostFunction) []graph.Index {
	state := make(map[graph.Index]*astarState)
	seqCounter := 0

	open := datastructure.NewFourAryHeap[graph.Index]()
	nodeForKey := func(id graph.Index) *astarState {
		st, ok := state[id]
		if !ok {
			st = &astarState{gScore: math.Inf(1)}
			state[id] = st
		}
		return st
	}

	startNode, ok := e.g.GetNode(start)
	if !ok {
		return nil
	}
	goalNode, ok := e.g.GetNode(goal)
	if !ok {
		return nil
	}

	startState := nodeForKey(start)
	startState.gScore = 0
	startState.seq = seqCounter
	startState.hasSeq = true
	seqCounter++

	openKeys := make(map[graph.Index]*datastructure.PriorityQueueNode[graph.Index])
	key := datastructure.NewPriorityQueueNode(geo.Haversine(startNode.Pos, goalNode.Pos), start)
	open.Insert(key)
	openKeys[start] = key

	for !open.IsEmpty() {
		top, err := open.ExtractMin()
		if err != nil {
			break
		}
		current := top.GetItem()
		delete(openKeys, current)

		if current == goal {
			return reconstructPath(state, start, goal)
		}

		curState := nodeForKey(current)
		if curState.visited {
			continue
		}
		curState.visited = true

		curNode, ok := e.g.GetNode(current)
		if !ok {
			continue
		}

		for _, edgeID := range curNode.OutEdges {
			edge, ok := e.g.GetEdge(edgeID)
			if !ok {
				continue
			}
			neighbor := edge.To
			neighborNode, ok := e.g.GetNode(neighbor)
			if !ok {
				continue
			}

			tentativeG := curState.gScore + cost.Cost(edge)
			neighborState := nodeForKey(neighbor)
			if neighborState.visited {
				continue
			}

			if tentativeG < neighborState.gScore {
				neighborState.gScore = tentativeG
				neighborState.cameFrom = current
				neighborState.hasFrom = true
				if !neighborState.hasSeq {
					neighborState.seq = seqCounter
					neighborState.hasSeq = true
					seqCounter++
				}

				// A tiny insertion-order offset breaks ties between equal
				// f-scores deterministically without perturbing ordering
				// between distinct costs.
				f := tentativeG + geo.Haversine(neighborNode.Pos, goalNode.Pos) + float64(neighborState.seq)*1e-9
				if existing, ok := openKeys[neighbor]; ok {
					_ = open.DecreaseKey(existing, f)
				} else {
					nk := datastructure.NewPriorityQueueNode(f, neighbor)
					open.Insert(nk)
					openKeys[neighbor] = nk
				}
			}
		}
	}

	return nil
}

func reconstructPath(state map[graph.Index]*astarState, start, goal graph.Index) []graph.Index {
	path := []graph.Index{goal}
	cur := goal
	for cur != start {
		st, ok := state[cur]
		if !ok || !st.hasFrom {
			return nil
		}
		cur = st.cameFrom
		path = append(path, cur)
	}
	return util.ReverseG(path)
}

// createDirectRoute produces a straight-line route sampled every
// routePointSpacingMaxM, with small jitter on intermediate samples to
// avoid degenerate collinearity during smoothing/matching downstream.
func (e *Engine) createDirectRoute(start, end datastructure.LatLon) datastructure.Route {
	total := geo.Haversine(start, end)
	bearing := geo.Bearing(start, end)

	n := int(math.Ceil(total / routePointSpacingMaxM))
	if n < 1 {
		n = 1
	}

	points := make([]datastructure.RoutePoint, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pos := geo.Lerp(start, end, t)
		if i != 0 && i != n {
			pos.Lat += jitter(i, 0.000005)
			pos.Lon += jitter(i, -0.000005)
		}
		points = append(points, datastructure.RoutePoint{LatLon: pos, BearingDeg: float32(bearing)})
	}
	points[0].LatLon = start
	points[len(points)-1].LatLon = end

	for i := range points {
		if i == len(points)-1 {
			points[i].SpeedMps = 0
			continue
		}
		points[i].BearingDeg = float32(geo.Bearing(points[i].LatLon, points[i+1].LatLon))
		points[i].SpeedMps = float32(directRouteFallbackSpeed)
	}

	return datastructure.Route{
		ID:        newRouteID(),
		Name:      "Direct route",
		Points:    points,
		DurationS: uint32(math.Round(total / directRouteFallbackSpeed)),
	}
}

// jitter deterministically perturbs an intermediate direct-route sample.
// The spec calls for +/-0.000005 degrees of jitter; alternating the sign
// by index keeps the perturbation deterministic (no randomness crosses
// the engine boundary) while still breaking collinearity.
func jitter(i int, magnitude float64) float64 {
	if i%2 == 0 {
		return magnitude
	}
	return -magnitude
}
