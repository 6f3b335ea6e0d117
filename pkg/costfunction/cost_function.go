// Package costfunction provides the pluggable edge-cost strategies the
// routing engine (C5) plugs into A*: the search itself is agnostic to
// what "cheap" means, it only ever asks a CostFunction for a number.
package costfunction

import (
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/graph"
)

// CostFunction assigns a scalar cost to traversing an edge. A* treats
// lower as better; the value need not be a physical unit as long as it is
// non-negative and monotonic in edge length.
type CostFunction interface {
	Cost(e graph.Edge) float64
	Name() string
}

// Length costs every edge by its physical length, producing the
// shortest-distance route regardless of road class or speed.
type Length struct{}

func (Length) Cost(e graph.Edge) float64 { return e.LengthM }
func (Length) Name() string              { return "length" }

// Fastest costs an edge by its expected traversal time, scaled against a
// 50 km/h reference speed so costs stay in the same rough magnitude as
// Length for edges on an average road.
type Fastest struct{}

func (Fastest) Cost(e graph.Edge) float64 {
	speed := e.SpeedLimitKph
	if speed <= 0 {
		speed = 30
	}
	return e.LengthM * (50.0 / speed)
}
func (Fastest) Name() string { return "fastest" }

// NoHighways penalizes RoadHighway edges tenfold, steering the search
// toward an alternative that avoids motorways wherever a reasonable
// detour exists.
type NoHighways struct{}

func (NoHighways) Cost(e graph.Edge) float64 {
	if e.Kind == datastructure.RoadHighway {
		return e.LengthM * 10.0
	}
	return e.LengthM
}
func (NoHighways) Name() string { return "no_highways" }
