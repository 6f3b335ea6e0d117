package routing

import (
	"github.com/navcore/navcore/pkg/costfunction"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
	"golang.org/x/sync/errgroup"
)

type altSpec struct {
	cost           costfunction.CostFunction
	durationFactor float64
}

// alternatives searches the Fastest and NoHighways variants and keeps
// whichever ones pass the similarity-to-primary acceptance test. The
// errgroup runs one search at a time, because node snapping may split
// edges of the shared graph. It is scoped entirely to this call: both
// goroutines it spawns are joined before Routes returns, so no search
// ever outlives the request that started it.
func (e *Engine) alternatives(start, end datastructure.LatLon, primary datastructure.Route) []datastructure.Route {
	specs := []altSpec{
		{costfunction.Fastest{}, e.cfg.AltFastestFactor},
		{costfunction.NoHighways{}, e.cfg.AltNoHighwaysFactor},
	}

	results := make([]*datastructure.Route, len(specs))

	var g errgroup.Group
	g.SetLimit(1)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			route, ok := e.searchRoute(start, end, spec.cost)
			if !ok {
				return nil
			}
			route.DurationS = uint32(float64(route.DurationS) * spec.durationFactor)
			if e.isAcceptableAlternative(primary, route) {
				results[i] = &route
			}
			return nil
		})
	}
	_ = g.Wait()

	var accepted []datastructure.Route
	for _, r := range results {
		if r != nil {
			accepted = append(accepted, *r)
		}
	}
	return accepted
}

// isAcceptableAlternative implements the similarity gate: both endpoints
// must land within tolerance of the primary's endpoints, and fewer than
// 70% of altSampleCount equally-spaced samples may lie within
// altSampleRadiusM of the corresponding primary sample, or the
// alternative is considered redundant and discarded.
func (e *Engine) isAcceptableAlternative(primary, candidate datastructure.Route) bool {
	if len(primary.Points) == 0 || len(candidate.Points) == 0 {
		return false
	}

	tol := e.cfg.AltEndpointToleranceM
	if geo.Haversine(primary.Points[0].LatLon, candidate.Points[0].LatLon) > tol {
		return false
	}
	if geo.Haversine(primary.Points[len(primary.Points)-1].LatLon, candidate.Points[len(candidate.Points)-1].LatLon) > tol {
		return false
	}

	closeCount := 0
	for i := 0; i < altSampleCount; i++ {
		t := float64(i) / float64(altSampleCount-1)
		a := sampleAt(primary.Points, t)
		b := sampleAt(candidate.Points, t)
		if geo.Haversine(a, b) <= altSampleRadiusM {
			closeCount++
		}
	}

	similarity := float64(closeCount) / float64(altSampleCount)
	return similarity < 0.7
}

// sampleAt returns the route position at fractional progress t in [0, 1],
// measured by cumulative point-to-point distance.
func sampleAt(points []datastructure.RoutePoint, t float64) datastructure.LatLon {
	if len(points) == 1 {
		return points[0].LatLon
	}

	total := 0.0
	for i := 0; i+1 < len(points); i++ {
		total += geo.Haversine(points[i].LatLon, points[i+1].LatLon)
	}
	if total == 0 {
		return points[0].LatLon
	}

	target := t * total
	walked := 0.0
	for i := 0; i+1 < len(points); i++ {
		seg := geo.Haversine(points[i].LatLon, points[i+1].LatLon)
		if walked+seg >= target || i == len(points)-2 {
			segT := 0.0
			if seg > 0 {
				segT = (target - walked) / seg
				if segT < 0 {
					segT = 0
				}
				if segT > 1 {
					segT = 1
				}
			}
			return geo.Lerp(points[i].LatLon, points[i+1].LatLon, segT)
		}
		walked += seg
	}
	return points[len(points)-1].LatLon
}
