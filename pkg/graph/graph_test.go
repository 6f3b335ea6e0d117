package graph

import (
	"testing"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGraph(t *testing.T) *Graph {
	t.Helper()
	return New(zap.NewNop())
}

func TestAddEdgeComputesLengthFromEndpoints(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})

	edgeID, ok := g.AddEdge(a, b, "Test Street", datastructure.RoadResidential, 30, false)
	require.True(t, ok)

	edge, ok := g.GetEdge(edgeID)
	require.True(t, ok)

	nodeA, _ := g.GetNode(a)
	nodeB, _ := g.GetNode(b)
	want := geo.Haversine(nodeA.Pos, nodeB.Pos)
	assert.InDelta(t, want, edge.LengthM, 1.0)
}

func TestAddEdgeRejectsDegenerateLength(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})

	_, ok := g.AddEdge(a, b, "Zero Length", datastructure.RoadResidential, 30, false)
	assert.False(t, ok)
}

func TestOutEdgesAlwaysOriginateAtOwner(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})
	c := g.AddNode(datastructure.LatLon{Lat: 10.001, Lon: 20})

	g.AddEdge(a, b, "", datastructure.RoadResidential, 30, true)
	g.AddEdge(a, c, "", datastructure.RoadResidential, 30, true)

	nodeA, _ := g.GetNode(a)
	for _, edgeID := range nodeA.OutEdges {
		edge, _ := g.GetEdge(edgeID)
		assert.Equal(t, a, edge.From)
	}
}

func TestOnewayAddsSingleEdge(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})

	g.AddEdge(a, b, "", datastructure.RoadHighway, 100, true)

	nodeA, _ := g.GetNode(a)
	nodeB, _ := g.GetNode(b)
	assert.Len(t, nodeA.OutEdges, 1)
	assert.Len(t, nodeB.OutEdges, 0)
}

func TestNearbyEdgesFindsEdgeWithinRadius(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})
	edgeID, _ := g.AddEdge(a, b, "", datastructure.RoadResidential, 30, false)

	nearby := g.NearbyEdges(datastructure.LatLon{Lat: 10, Lon: 20.0005}, 50)
	assert.Contains(t, nearby, edgeID)
}

func TestNearbyEdgesSidecarFallbackForSparseArea(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})
	edgeID, _ := g.AddEdge(a, b, "", datastructure.RoadResidential, 30, false)

	far := datastructure.LatLon{Lat: 40, Lon: 90}
	nearby := g.NearbyEdges(far, 2000)
	assert.Contains(t, nearby, edgeID)
}

func TestNearbyEdgesSmallRadiusNoFallback(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})
	g.AddEdge(a, b, "", datastructure.RoadResidential, 30, false)

	far := datastructure.LatLon{Lat: 40, Lon: 90}
	nearby := g.NearbyEdges(far, 10)
	assert.Empty(t, nearby)
}

func TestClearResetsGraph(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.001})
	g.AddEdge(a, b, "", datastructure.RoadResidential, 30, false)

	g.Clear()
	assert.Equal(t, 0, g.NodeCount())
	assert.Equal(t, 0, g.EdgeCount())
}

func TestSplitEdgeAtPreservesMetadata(t *testing.T) {
	g := newTestGraph(t)
	a := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20})
	b := g.AddNode(datastructure.LatLon{Lat: 10, Lon: 20.002})
	edgeID, _ := g.AddEdge(a, b, "Split Street", datastructure.RoadPrimary, 70, false)
	original, _ := g.GetEdge(edgeID)

	mid := datastructure.LatLon{Lat: 10, Lon: 20.001}
	newNode, ok := g.SplitEdgeAt(edgeID, mid)
	require.True(t, ok)

	node, ok := g.GetNode(newNode)
	require.True(t, ok)

	found := false
	for _, eid := range node.OutEdges {
		e, _ := g.GetEdge(eid)
		if e.Name == original.Name && e.Kind == original.Kind && e.SpeedLimitKph == original.SpeedLimitKph {
			found = true
		}
	}
	assert.True(t, found)
}
