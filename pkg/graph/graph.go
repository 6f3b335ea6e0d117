// Package graph implements the routable road graph and its companion grid
// spatial index (component C3 of the navigation core): typed nodes and
// edges addressed by stable Index values, and an O(1) cell-bucketed radius
// query used by the routing engine (node snapping) and the route matcher
// (nearest-edge candidates).
package graph

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"go.uber.org/zap"
)

// Index aliases datastructure.Index so callers of this package never need
// to import datastructure just to name a node or edge.
type Index = datastructure.Index

const (
	// CellSizeDeg is the spatial grid's cell edge length, in degrees.
	// ~111 m at the equator for latitude; the spec fixes it at 0.001°
	// (an earlier source variant used 0.0001°, resolved away).
	CellSizeDeg = 0.001

	// degenerateLengthM is the length below which an edge is discarded
	// at construction time rather than registered in the grid.
	degenerateLengthM = 1e-3

	// sidecarFallbackMinRadiusM is the radius above which an empty grid
	// query degrades to scanning every edge in the graph.
	sidecarFallbackMinRadiusM = 1000.0

	nearbyCacheSize = 4096
)

// Node is a graph vertex: an OSM-derived position plus the set of edges
// leaving it. out_edges only ever contains edges whose From == this node.
type Node struct {
	ID       Index
	Pos      datastructure.LatLon
	OutEdges []Index
}

// Edge is a directed graph arc. length_m is the haversine distance between
// its endpoints (±1 m rounding tolerance), recomputed at insertion time so
// it can never drift from the endpoint positions.
type Edge struct {
	ID            Index
	From, To      Index
	Name          string
	Kind          datastructure.RoadKind
	SpeedLimitKph float64
	LengthM       float64
	Oneway        bool
}

type cellKey struct {
	latIdx, lonIdx int32
}

type nearbyCacheKey struct {
	latIdx, lonIdx int32
	radiusBucket   int32
}

// Graph owns a pool of nodes and a pool of edges; all cross-references are
// stable Index values into those pools rather than pointers, so the graph
// can be cleared and rebuilt wholesale without leaving dangling references
// anywhere except the matcher's own cached edge ids (which it must discard
// on reload — see pkg/matcher).
type Graph struct {
	nodes []Node
	edges []Edge

	grid     map[cellKey][]Index
	allEdges []Index

	nearbyCache *lru.Cache[nearbyCacheKey, []Index]

	logger *zap.Logger
}

func New(logger *zap.Logger) *Graph {
	cache, _ := lru.New[nearbyCacheKey, []Index](nearbyCacheSize)
	return &Graph{
		nodes:       make([]Node, 0, 1024),
		edges:       make([]Edge, 0, 1024),
		grid:        make(map[cellKey][]Index),
		allEdges:    make([]Index, 0, 1024),
		nearbyCache: cache,
		logger:      logger,
	}
}

// Clear wipes the graph back to empty, as happens whenever a new OSM
// source is loaded. Node/edge identity is stable only within one loaded
// dataset, so everything that aliased the old Index values (in particular
// a matcher's precomputed route segment edges) must be rebuilt after this call.
func (g *Graph) Clear() {
	g.nodes = g.nodes[:0]
	g.edges = g.edges[:0]
	g.grid = make(map[cellKey][]Index)
	g.allEdges = g.allEdges[:0]
	g.nearbyCache.Purge()
}

func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

// AddNode appends a new node and returns its assigned Index. The caller
// (typically the OSM ingester) owns any mapping from an external id to
// this Index; the graph itself never looks at external ids.
func (g *Graph) AddNode(pos datastructure.LatLon) Index {
	id := Index(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Pos: pos})
	return id
}

func (g *Graph) GetNode(id Index) (Node, bool) {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return Node{}, false
	}
	return g.nodes[id], true
}

// AddEdge creates a directed edge from -> to. length_m is computed from
// the endpoint positions; an edge shorter than the degenerate threshold is
// discarded rather than registered, per the spatial index invariant that
// every surviving edge lives in at least one grid cell.
func (g *Graph) AddEdge(from, to Index, name string, kind datastructure.RoadKind, speedLimitKph float64, oneway bool) (Index, bool) {
	fromNode, ok := g.GetNode(from)
	if !ok {
		return 0, false
	}
	toNode, ok := g.GetNode(to)
	if !ok {
		return 0, false
	}

	lengthM := geo.Haversine(fromNode.Pos, toNode.Pos)
	if lengthM < degenerateLengthM {
		return 0, false
	}

	id := Index(len(g.edges))
	g.edges = append(g.edges, Edge{
		ID:            id,
		From:          from,
		To:            to,
		Name:          name,
		Kind:          kind,
		SpeedLimitKph: speedLimitKph,
		LengthM:       lengthM,
		Oneway:        oneway,
	})

	g.nodes[from].OutEdges = append(g.nodes[from].OutEdges, id)
	g.registerInGrid(id, fromNode.Pos, toNode.Pos)
	g.allEdges = append(g.allEdges, id)
	g.nearbyCache.Purge()

	return id, true
}

func (g *Graph) GetEdge(id Index) (Edge, bool) {
	if int(id) < 0 || int(id) >= len(g.edges) {
		return Edge{}, false
	}
	return g.edges[id], true
}

func cellOf(p datastructure.LatLon) cellKey {
	return cellKey{
		latIdx: int32(math.Floor(p.Lat / CellSizeDeg)),
		lonIdx: int32(math.Floor(p.Lon / CellSizeDeg)),
	}
}

func (g *Graph) registerInGrid(edgeID Index, a, b datastructure.LatLon) {
	minLat, maxLat := math.Min(a.Lat, b.Lat), math.Max(a.Lat, b.Lat)
	minLon, maxLon := math.Min(a.Lon, b.Lon), math.Max(a.Lon, b.Lon)

	loCell := cellOf(datastructure.LatLon{Lat: minLat, Lon: minLon})
	hiCell := cellOf(datastructure.LatLon{Lat: maxLat, Lon: maxLon})

	for la := loCell.latIdx; la <= hiCell.latIdx; la++ {
		for lo := loCell.lonIdx; lo <= hiCell.lonIdx; lo++ {
			key := cellKey{la, lo}
			g.grid[key] = append(g.grid[key], edgeID)
		}
	}
}

// NearbyEdges returns the edges whose bounding box intersects the square
// of cells covering loc +/- radiusM. Ordering is arbitrary; callers must
// not depend on it. When the grid search matches nothing and radiusM
// exceeds 1000 m, the full edge list is returned instead (graceful
// degradation for sparse coverage near the edge of a loaded extract).
func (g *Graph) NearbyEdges(loc datastructure.LatLon, radiusM float64) []Index {
	degRadius := geo.MetersToDegrees(radiusM)
	cellRadius := int32(math.Ceil(degRadius/CellSizeDeg)) + 1

	center := cellOf(loc)
	cacheKey := nearbyCacheKey{center.latIdx, center.lonIdx, int32(math.Round(radiusM))}
	if cached, ok := g.nearbyCache.Get(cacheKey); ok {
		return cached
	}

	seen := make(map[Index]struct{})
	for la := center.latIdx - cellRadius; la <= center.latIdx+cellRadius; la++ {
		for lo := center.lonIdx - cellRadius; lo <= center.lonIdx+cellRadius; lo++ {
			for _, e := range g.grid[cellKey{la, lo}] {
				seen[e] = struct{}{}
			}
		}
	}

	var result []Index
	if len(seen) == 0 {
		if radiusM > sidecarFallbackMinRadiusM {
			result = append(result, g.allEdges...)
		}
	} else {
		result = make([]Index, 0, len(seen))
		for e := range seen {
			result = append(result, e)
		}
	}

	g.nearbyCache.Add(cacheKey, result)
	return result
}

// SplitEdgeAt inserts a new node at `at` (assumed to already lie on the
// edge, as produced by geo.ClosestPointOnSegment) and adds edges that
// preserve name/kind/speed: from the edge's From to the new node and from
// the new node to its To, plus the two reverse edges when the edge is not
// oneway. The original edge is not removed and stays in the graph and the
// grid alongside the new ones. Used by the routing
// engine's node-snap stage when the nearest candidate is mid-segment
// rather than at an existing endpoint. Returns the new node's Index.
func (g *Graph) SplitEdgeAt(edgeID Index, at datastructure.LatLon) (Index, bool) {
	e, ok := g.GetEdge(edgeID)
	if !ok {
		return 0, false
	}

	newNode := g.AddNode(at)
	if _, ok := g.AddEdge(e.From, newNode, e.Name, e.Kind, e.SpeedLimitKph, e.Oneway); !ok {
		return 0, false
	}
	if _, ok := g.AddEdge(newNode, e.To, e.Name, e.Kind, e.SpeedLimitKph, e.Oneway); !ok {
		return 0, false
	}
	if !e.Oneway {
		if _, ok := g.AddEdge(newNode, e.From, e.Name, e.Kind, e.SpeedLimitKph, e.Oneway); !ok {
			return 0, false
		}
		if _, ok := g.AddEdge(e.To, newNode, e.Name, e.Kind, e.SpeedLimitKph, e.Oneway); !ok {
			return 0, false
		}
	}

	return newNode, true
}
