// Package engine implements the navigation core's façade (component C7):
// the single entry point an embedder constructs and holds, wiring the
// location filter, road graph, routing engine, and route matcher behind
// the six operations in the public interface.
package engine

import (
	"io"

	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/navcore/navcore/pkg/locationfilter"
	"github.com/navcore/navcore/pkg/matcher"
	"github.com/navcore/navcore/pkg/osmparser"
	"github.com/navcore/navcore/pkg/routing"
	"go.uber.org/zap"
)

const directPathFallbackSpeed = 9.72

// Engine owns every piece of navigation state for one embedder. There is
// no hidden global instance; the embedder constructs one Engine and is
// responsible for serializing access to it from multiple threads.
type Engine struct {
	cfg    config.Config
	logger *zap.Logger

	graph   *graph.Graph
	parser  *osmparser.Parser
	filter  *locationfilter.Filter
	routing *routing.Engine
	matcher *matcher.Matcher

	lastFix        datastructure.Fix
	hasFix         bool
	destination    datastructure.LatLon
	hasDestination bool
	routesComputed bool

	routes      []datastructure.Route
	activeRoute string

	clock func() float64
}

// New constructs an Engine with an empty graph and the navigation core's
// default tunables. clock supplies the monotonic-ish timestamp (in
// seconds) for each update_location call; embedders typically pass a
// wrapper around their platform's elapsed-time clock.
func New(logger *zap.Logger, clock func() float64) *Engine {
	cfg := config.Defaults()
	g := graph.New(logger)

	return &Engine{
		cfg:     cfg,
		logger:  logger,
		graph:   g,
		parser:  osmparser.New(logger),
		filter:  locationfilter.New(cfg),
		routing: routing.New(g, cfg, logger),
		matcher: matcher.New(g, cfg, logger),
		clock:   clock,
	}
}

// LoadOSM delegates to the ingester against a freshly cleared graph. A
// failed ingest leaves the graph empty rather than partially populated.
func (e *Engine) LoadOSM(r io.Reader) bool {
	e.graph.Clear()
	ok := e.parser.Parse(e.graph, r)
	if !ok {
		e.graph.Clear()
	}
	return ok
}

// UpdateLocation runs the location filter on raw, stores the resulting
// Fix, and — on the first call after a destination has been set but
// before any route exists — computes and activates routes. It returns the
// matcher's result for the (possibly just-activated) active route, or a
// passthrough NoRoute result when none is active.
func (e *Engine) UpdateLocation(raw datastructure.RawFix) datastructure.MatchResult {
	fix := e.filter.Process(raw, e.clock())
	e.lastFix = fix
	e.hasFix = true

	if e.hasDestination && !e.routesComputed {
		e.computeAndActivateRoutes()
	}

	if e.activeRoute == "" {
		return datastructure.MatchResult{
			NextManeuver:      datastructure.ManeuverNoRoute,
			Matched:           fix.LatLon,
			MatchedBearingDeg: fix.BearingDeg,
		}
	}

	return e.matcher.Match(fix)
}

// SetDestination stores the destination. If a Fix already exists it
// computes routes immediately and reports whether at least one was
// produced; otherwise it reports true (the destination is cached, routes
// follow the first subsequent UpdateLocation).
func (e *Engine) SetDestination(loc datastructure.LatLon) bool {
	e.destination = loc
	e.hasDestination = true
	e.routesComputed = false

	if !e.hasFix {
		return true
	}

	e.computeAndActivateRoutes()
	return len(e.routes) > 0
}

func (e *Engine) computeAndActivateRoutes() {
	e.routes = e.routing.Routes(e.lastFix.LatLon, e.destination)
	e.routesComputed = true

	e.activeRoute = ""
	if len(e.routes) > 0 {
		e.activeRoute = e.routes[0].ID
		e.matcher.SetRoute(e.routes[0])
	}
}

// Routes returns a snapshot of the last computed route set.
func (e *Engine) Routes() []datastructure.Route {
	out := make([]datastructure.Route, len(e.routes))
	copy(out, e.routes)
	return out
}

// SwitchToRoute activates the route with the given id if it is one of the
// current alternatives.
func (e *Engine) SwitchToRoute(id string) bool {
	for _, r := range e.routes {
		if r.ID == id {
			e.activeRoute = id
			e.matcher.SetRoute(r)
			return true
		}
	}
	return false
}

// DetailedPath routes from start to end via the routing engine and
// returns its densified points as Fix values; on failure it synthesizes
// a straight line of max(10, maxSegments) segments, i.e. one more point
// than that, with the last point's speed zeroed.
func (e *Engine) DetailedPath(start, end datastructure.LatLon, maxSegments uint32) []datastructure.Fix {
	routes := e.routing.Routes(start, end)
	if len(routes) > 0 && len(routes[0].Points) > 0 {
		return toFixes(routes[0].Points)
	}

	n := int(maxSegments)
	if n < 10 {
		n = 10
	}

	bearing := geo.Bearing(start, end)
	points := make([]datastructure.Fix, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		pos := geo.Lerp(start, end, t)
		speed := directPathFallbackSpeed
		if i == n {
			speed = 0
		}
		points = append(points, datastructure.Fix{
			LatLon:     pos,
			BearingDeg: float32(bearing),
			SpeedMps:   float32(speed),
		})
	}
	return points
}

func toFixes(points []datastructure.RoutePoint) []datastructure.Fix {
	out := make([]datastructure.Fix, len(points))
	for i, p := range points {
		out[i] = datastructure.Fix{
			LatLon:     p.LatLon,
			BearingDeg: p.BearingDeg,
			SpeedMps:   p.SpeedMps,
		}
	}
	return out
}
