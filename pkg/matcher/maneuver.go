package matcher

import (
	"math"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/geo"
)

// deriveManeuver turns the signed bearing change from the incoming leg to
// the outgoing leg (outgoingDeg - incomingDeg, wrapped into (-180, 180])
// into a Maneuver. Thresholds: < 20 deg continue, 20-60 deg slight, 60-120
// deg normal, >= 120 deg sharp; negative delta is a left turn, positive is
// a right turn.
//
// The wraparound this guards against: an incoming bearing of 350 deg and
// an outgoing bearing of 10 deg is a 20 deg right turn, not a 340 deg left
// turn, so the delta must be taken modulo 360 and re-centered on zero
// before it is classified.
func deriveManeuver(incomingDeg, outgoingDeg float64) datastructure.Maneuver {
	delta := geo.SignedAngleDiff(incomingDeg, outgoingDeg)
	abs := math.Abs(delta)

	switch {
	case abs < 20:
		return datastructure.ManeuverContinue
	case abs < 60:
		if delta < 0 {
			return datastructure.ManeuverSlightLeft
		}
		return datastructure.ManeuverSlightRight
	case abs < 120:
		if delta < 0 {
			return datastructure.ManeuverLeft
		}
		return datastructure.ManeuverRight
	default:
		if delta < 0 {
			return datastructure.ManeuverSharpLeft
		}
		return datastructure.ManeuverSharpRight
	}
}

