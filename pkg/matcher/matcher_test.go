package matcher

import (
	"testing"

	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func buildStraightRoute(t *testing.T) (*graph.Graph, datastructure.Route) {
	t.Helper()
	g := graph.New(zap.NewNop())

	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.002})
	g.AddEdge(a, b, "Fixture Street", datastructure.RoadResidential, 30, false)
	g.AddEdge(b, a, "Fixture Street", datastructure.RoadResidential, 30, false)

	points := []datastructure.RoutePoint{
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20.0000}, BearingDeg: 90},
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20.0005}, BearingDeg: 90},
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20.0010}, BearingDeg: 90},
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20.0015}, BearingDeg: 90},
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20.0020}, BearingDeg: 0},
	}

	return g, datastructure.Route{ID: "route-test", Points: points}
}

func TestMatchWithNoRouteReturnsNoRoute(t *testing.T) {
	g := graph.New(zap.NewNop())
	m := New(g, config.Defaults(), zap.NewNop())

	fix := datastructure.Fix{LatLon: datastructure.LatLon{Lat: 10, Lon: 20}}
	result := m.Match(fix)

	assert.Equal(t, datastructure.ManeuverNoRoute, result.NextManeuver)
}

func TestMatchOnRoutePoint(t *testing.T) {
	g, route := buildStraightRoute(t)
	m := New(g, config.Defaults(), zap.NewNop())
	m.SetRoute(route)

	fix := datastructure.Fix{
		LatLon:     route.Points[2].LatLon,
		BearingDeg: 90,
		SpeedMps:   10,
	}
	result := m.Match(fix)

	assert.Equal(t, "Fixture Street", result.StreetName)
	assert.InDelta(t, route.Points[2].Lat, result.Matched.Lat, 1e-4)
	assert.InDelta(t, route.Points[2].Lon, result.Matched.Lon, 1e-4)
}

func TestDistanceToNextIsMonotonicAlongStraightTraversal(t *testing.T) {
	g, route := buildStraightRoute(t)
	m := New(g, config.Defaults(), zap.NewNop())
	m.SetRoute(route)

	var lastDistance uint32
	first := true
	for _, p := range route.Points[:len(route.Points)-1] {
		fix := datastructure.Fix{LatLon: p.LatLon, BearingDeg: p.BearingDeg, SpeedMps: 10}
		result := m.Match(fix)
		if !first {
			assert.LessOrEqual(t, result.DistanceToNextM, lastDistance)
		}
		lastDistance = result.DistanceToNextM
		first = false
	}
}

func TestSwitchRouteResetsPrecomputedState(t *testing.T) {
	g, route := buildStraightRoute(t)
	m := New(g, config.Defaults(), zap.NewNop())
	m.SetRoute(route)

	other := route
	other.ID = "route-other"
	other.Points = route.Points[:3]
	m.SetRoute(other)

	assert.Len(t, m.cumulative, 3)
}
