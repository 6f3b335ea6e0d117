package matcher

import (
	"testing"

	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/stretchr/testify/assert"
)

func TestDeriveManeuverThresholds(t *testing.T) {
	cases := []struct {
		name      string
		incoming  float64
		outgoing  float64
		want      datastructure.Maneuver
	}{
		{"continue straight", 90, 95, datastructure.ManeuverContinue},
		{"slight right", 90, 130, datastructure.ManeuverSlightRight},
		{"slight left", 90, 50, datastructure.ManeuverSlightLeft},
		{"right", 90, 170, datastructure.ManeuverRight},
		{"left", 90, 10, datastructure.ManeuverLeft},
		{"sharp right", 90, 230, datastructure.ManeuverSharpRight},
		{"sharp left", 230, 90, datastructure.ManeuverSharpLeft},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveManeuver(tc.incoming, tc.outgoing)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveManeuverHandlesWraparound(t *testing.T) {
	// 350 -> 10 is a 20 degree right turn (slight right), not a 340
	// degree left turn.
	got := deriveManeuver(350, 10)
	assert.Equal(t, datastructure.ManeuverSlightRight, got)
}
