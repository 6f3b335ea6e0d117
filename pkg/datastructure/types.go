package datastructure

import "github.com/navcore/navcore/pkg/geo"

// Index is the graph's opaque stable identifier type: a plain array index
// rather than a pointer, so the graph, its routes, and its matcher can be
// copied and compared without chasing cycles of pointers.
type Index uint32

// InvalidIndex marks the absence of a node/edge reference.
const InvalidIndex Index = ^Index(0)

// LatLon is re-exported from geo so every package that needs a coordinate
// can depend on datastructure alone.
type LatLon = geo.LatLon

// RawFix is one unfiltered observation from the location provider.
// BearingDeg and SpeedMps may be NaN; AccuracyM is always >= 0.
type RawFix struct {
	LatLon
	BearingDeg float32
	SpeedMps   float32
	AccuracyM  float32
}

// Fix is a RawFix that has passed through the location filter: bearing and
// speed are guaranteed finite.
type Fix struct {
	LatLon
	BearingDeg float32
	SpeedMps   float32
	AccuracyM  float32
}

// RoadKind classifies a road edge for cost functions and matcher scoring.
type RoadKind uint8

const (
	RoadHighway RoadKind = iota
	RoadPrimary
	RoadSecondary
	RoadResidential
	RoadService
)

func (k RoadKind) String() string {
	switch k {
	case RoadHighway:
		return "highway"
	case RoadPrimary:
		return "primary"
	case RoadSecondary:
		return "secondary"
	case RoadResidential:
		return "residential"
	case RoadService:
		return "service"
	default:
		return "unknown"
	}
}

// Maneuver is the guidance instruction the matcher derives from a bearing
// change along the active route.
type Maneuver uint8

const (
	ManeuverContinue Maneuver = iota
	ManeuverSlightLeft
	ManeuverLeft
	ManeuverSharpLeft
	ManeuverSlightRight
	ManeuverRight
	ManeuverSharpRight
	ManeuverArrive
	ManeuverFollowRoute
	ManeuverNoRoute
	ManeuverRecalcNeeded
)

func (m Maneuver) String() string {
	switch m {
	case ManeuverContinue:
		return "continue"
	case ManeuverSlightLeft:
		return "slight_left"
	case ManeuverLeft:
		return "left"
	case ManeuverSharpLeft:
		return "sharp_left"
	case ManeuverSlightRight:
		return "slight_right"
	case ManeuverRight:
		return "right"
	case ManeuverSharpRight:
		return "sharp_right"
	case ManeuverArrive:
		return "arrive"
	case ManeuverFollowRoute:
		return "follow_route"
	case ManeuverNoRoute:
		return "no_route"
	case ManeuverRecalcNeeded:
		return "recalc_needed"
	default:
		return "unknown"
	}
}

// RoutePoint is one densified sample along a Route: a position, the
// bearing toward the next point, and a target speed for that leg.
type RoutePoint struct {
	LatLon
	BearingDeg float32
	SpeedMps   float32
}

// Route is a computed path from an origin to a destination, ready to be
// activated in the matcher.
type Route struct {
	ID         string
	Name       string
	Points     []RoutePoint
	DurationS  uint32
}

// MatchResult is the matcher's snapshot of the observer's progress along
// the active route.
type MatchResult struct {
	StreetName        string
	NextManeuver      Maneuver
	DistanceToNextM   uint32
	EtaRFC3339        string
	Matched           LatLon
	MatchedBearingDeg float32
}
