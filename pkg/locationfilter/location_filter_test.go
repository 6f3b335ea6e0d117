package locationfilter

import (
	"math"
	"testing"

	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/stretchr/testify/assert"
)

func TestFirstSampleIsPassthrough(t *testing.T) {
	f := New(config.Defaults())
	raw := datastructure.RawFix{
		LatLon:     datastructure.LatLon{Lat: 10, Lon: 20},
		BearingDeg: 45,
		SpeedMps:   3,
		AccuracyM:  5,
	}

	fix := f.Process(raw, 0)
	assert.Equal(t, raw.Lat, fix.Lat)
	assert.Equal(t, raw.Lon, fix.Lon)
	assert.Equal(t, raw.BearingDeg, fix.BearingDeg)
	assert.Equal(t, raw.SpeedMps, fix.SpeedMps)
}

func TestProcessIsDeterministic(t *testing.T) {
	inputs := []datastructure.RawFix{
		{LatLon: datastructure.LatLon{Lat: 10, Lon: 20}, BearingDeg: 0, SpeedMps: 1, AccuracyM: 5},
		{LatLon: datastructure.LatLon{Lat: 10.00002, Lon: 20.00001}, BearingDeg: 10, SpeedMps: 1, AccuracyM: 5},
		{LatLon: datastructure.LatLon{Lat: 10.00004, Lon: 20.00002}, BearingDeg: 10, SpeedMps: 1, AccuracyM: 5},
	}

	run := func() []datastructure.Fix {
		f := New(config.Defaults())
		var out []datastructure.Fix
		for i, raw := range inputs {
			out = append(out, f.Process(raw, float64(i)))
		}
		return out
	}

	a := run()
	b := run()
	assert.Equal(t, a, b)
}

func TestBadDeltaTIsClamped(t *testing.T) {
	f := New(config.Defaults())
	raw := datastructure.RawFix{LatLon: datastructure.LatLon{Lat: 10, Lon: 20}, AccuracyM: 5}
	f.Process(raw, 0)

	// A negative delta-t (out-of-order timestamp) must not panic or
	// produce a NaN state; the clamp substitutes 0.1s.
	next := datastructure.RawFix{LatLon: datastructure.LatLon{Lat: 10.00001, Lon: 20}, AccuracyM: 5}
	fix := f.Process(next, -5)

	assert.False(t, math.IsNaN(fix.Lat))
	assert.False(t, math.IsNaN(fix.Lon))
}

func TestBearingSynthesisFromVelocityEastward(t *testing.T) {
	f := New(config.Defaults())
	first := datastructure.RawFix{
		LatLon:    datastructure.LatLon{Lat: 10, Lon: 20},
		AccuracyM: 5,
	}
	first.BearingDeg = float32(math.NaN())
	first.SpeedMps = float32(math.NaN())
	f.Process(first, 0)

	second := datastructure.RawFix{
		LatLon:    datastructure.LatLon{Lat: 10, Lon: 20.00001},
		AccuracyM: 5,
	}
	second.BearingDeg = float32(math.NaN())
	second.SpeedMps = float32(math.NaN())
	fix := f.Process(second, 1)

	// Longitude increases eastward with no change in latitude, so the
	// synthesized bearing should point due east.
	assert.InDelta(t, 90.0, float64(fix.BearingDeg), 5.0)
	assert.Greater(t, float64(fix.SpeedMps), 0.0)
}

func TestAccuracyIsScaledDown(t *testing.T) {
	f := New(config.Defaults())
	raw := datastructure.RawFix{LatLon: datastructure.LatLon{Lat: 10, Lon: 20}, AccuracyM: 10}
	f.Process(raw, 0)

	next := datastructure.RawFix{LatLon: datastructure.LatLon{Lat: 10.00001, Lon: 20}, AccuracyM: 10}
	fix := f.Process(next, 1)

	assert.InDelta(t, 8.0, float64(fix.AccuracyM), 1e-6)
}
