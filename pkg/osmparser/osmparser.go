// Package osmparser implements the OSM ingester (component C4): it
// consumes an OSM XML 0.6 byte stream and populates a fresh road graph.
package osmparser

import (
	"context"
	"io"
	"strconv"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/graph"
	"github.com/navcore/navcore/pkg/util"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"go.uber.org/zap"
)

// roadClass is the default-speed classification table for highway=* per
// the routing spec. Any accepted tag not listed falls through to
// Residential/30, matching "everything else, or missing".
var roadClass = map[string]struct {
	kind       datastructure.RoadKind
	defaultKph float64
}{
	"motorway":       {datastructure.RoadHighway, 100},
	"trunk":          {datastructure.RoadHighway, 100},
	"motorway_link":  {datastructure.RoadHighway, 100},
	"trunk_link":     {datastructure.RoadHighway, 100},
	"primary":        {datastructure.RoadPrimary, 70},
	"secondary":      {datastructure.RoadPrimary, 70},
	"primary_link":   {datastructure.RoadPrimary, 70},
	"secondary_link": {datastructure.RoadPrimary, 70},
	"tertiary":       {datastructure.RoadSecondary, 50},
	"unclassified":   {datastructure.RoadSecondary, 50},
	"tertiary_link":  {datastructure.RoadSecondary, 50},
	"residential":    {datastructure.RoadResidential, 30},
	"living_street":  {datastructure.RoadResidential, 30},
	"service":        {datastructure.RoadService, 20},
	"track":          {datastructure.RoadService, 20},
}

// rejectedHighway lists highway=* values that are never routable for a
// vehicle, even though they appear in OSM extracts alongside drivable
// roads.
var rejectedHighway = map[string]struct{}{
	"footway":      {},
	"cycleway":     {},
	"path":         {},
	"steps":        {},
	"pedestrian":   {},
	"bus_guideway": {},
	"escape":       {},
	"raceway":      {},
	"bridleway":    {},
}

// forcedOneway lists highway=* values that are always directed regardless
// of an explicit oneway tag.
var forcedOneway = map[string]struct{}{
	"motorway":      {},
	"motorway_link": {},
}

// Parser ingests one OSM XML document into a fresh graph.Graph.
type Parser struct {
	logger *zap.Logger
}

func New(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse reads OSM XML 0.6 from r and fills g (which the caller has
// typically just Clear()-ed). It returns false when the input is not
// valid OSM XML or contains zero accepted highway ways; the graph is left
// however far ingestion got in that case (the caller should Clear() it).
//
// The input format is not sniffed: every stream, PBF included, goes to the
// XML decoder (there is no PBF decoder wired in — see DESIGN.md), so PBF
// input yields no routable ways and Parse returns false.
func (p *Parser) Parse(g *graph.Graph, r io.Reader) bool {
	if err := p.parse(g, r); err != nil {
		p.logger.Error("osm ingestion failed", zap.Error(err))
		return false
	}
	return true
}

// parse does the actual ingestion and reports failure as a navcore
// util.Error, wrapping either a malformed-XML scan error or the
// zero-routable-ways condition under a stable sentinel. This error never
// crosses the façade boundary — Parse collapses it to a bool, per the
// ingester's external contract.
func (p *Parser) parse(g *graph.Graph, r io.Reader) error {
	scanner := osmxml.New(context.Background(), r)
	defer scanner.Close()

	nodeIDs := make(map[osm.NodeID]datastructure.Index)

	wayCount := 0
	acceptedWays := 0

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			pos := datastructure.LatLon{Lat: float64(o.Lat), Lon: float64(o.Lon)}
			nodeIDs[o.ID] = g.AddNode(pos)

		case *osm.Way:
			wayCount++
			if wayCount%50_000 == 0 {
				p.logger.Info("scanning openstreetmap ways", zap.Int("count", wayCount))
			}
			if p.ingestWay(g, o, nodeIDs) {
				acceptedWays++
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return util.WrapErrorf(err, util.ErrBadParamInput, "scan osm xml")
	}

	if acceptedWays == 0 {
		return util.WrapErrorf(nil, util.ErrNotFound, "osm document contained zero routable highway ways")
	}

	p.logger.Info("osm ingestion complete",
		zap.Int("ways_accepted", acceptedWays),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))
	return nil
}

func (p *Parser) ingestWay(g *graph.Graph, way *osm.Way, nodeIDs map[osm.NodeID]datastructure.Index) bool {
	if len(way.Nodes) < 2 {
		return false
	}

	highway := way.Tags.Find("highway")
	if highway == "" {
		return false
	}
	if _, rejected := rejectedHighway[highway]; rejected {
		return false
	}
	if access := way.Tags.Find("access"); access == "private" || access == "no" {
		return false
	}

	class, ok := roadClass[highway]
	if !ok {
		class = roadClass["residential"]
	}

	speedKph := class.defaultKph
	if ms := way.Tags.Find("maxspeed"); ms != "" {
		if v, err := strconv.ParseFloat(ms, 64); err == nil && v > 0 {
			speedKph = v
		}
	}

	_, forced := forcedOneway[highway]
	onewayTag := way.Tags.Find("oneway")
	oneway := forced || onewayTag == "yes" || onewayTag == "true" || onewayTag == "1"

	name := way.Tags.Find("name")

	accepted := false
	for i := 0; i+1 < len(way.Nodes); i++ {
		fromOsm, toOsm := way.Nodes[i].ID, way.Nodes[i+1].ID
		from, fromOk := nodeIDs[fromOsm]
		to, toOk := nodeIDs[toOsm]
		if !fromOk || !toOk {
			continue
		}

		if _, ok := g.AddEdge(from, to, name, class.kind, speedKph, oneway); ok {
			accepted = true
		}
		if !oneway {
			if _, ok := g.AddEdge(to, from, name, class.kind, speedKph, oneway); ok {
				accepted = true
			}
		}
	}

	return accepted
}

