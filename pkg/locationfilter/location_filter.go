// Package locationfilter implements the navigation core's constant-velocity
// Kalman-style position filter (component C2): it turns successive noisy
// RawFix samples into smoothed Fix samples with synthesized bearing/speed
// when the sensor does not supply them.
package locationfilter

import (
	"math"

	"github.com/navcore/navcore/pkg/config"
	"github.com/navcore/navcore/pkg/datastructure"
	"github.com/navcore/navcore/pkg/util"
)

// Filter holds the four-scalar state (lat, lon, lat_vel, lon_vel) of a
// constant-velocity Kalman filter, in degrees and degrees/second.
type Filter struct {
	cfg config.Config

	initialized bool
	lat, lon    float64
	latVel      float64
	lonVel      float64
	posVar      float64
	velVar      float64
	lastUnixS   float64
}

func New(cfg config.Config) *Filter {
	return &Filter{cfg: cfg}
}

// Process folds one RawFix into the filter state and returns the
// resulting Fix. unixSeconds is the sample's timestamp; the filter uses it
// only to compute delta-t against the previous call.
func (f *Filter) Process(raw datastructure.RawFix, unixSeconds float64) datastructure.Fix {
	if !f.initialized {
		f.initialized = true
		f.lat, f.lon = raw.Lat, raw.Lon
		f.latVel, f.lonVel = 0, 0
		f.posVar = f.cfg.FilterPositionVariance
		f.velVar = f.cfg.FilterVelocityVariance
		f.lastUnixS = unixSeconds

		return datastructure.Fix{
			LatLon:     raw.LatLon,
			BearingDeg: raw.BearingDeg,
			SpeedMps:   raw.SpeedMps,
			AccuracyM:  raw.AccuracyM,
		}
	}

	dt := unixSeconds - f.lastUnixS
	if dt <= 0 || dt > 10 {
		dt = f.cfg.FilterMinDeltaTSeconds
	}
	f.lastUnixS = unixSeconds

	predLat := f.lat + f.latVel*dt
	predLon := f.lon + f.lonVel*dt

	// Predicted position variance couples in velocity uncertainty scaled by
	// dt^2: the longer since the last fix, the less the carried velocity
	// can be trusted to have predicted the current position.
	predictedPosVar := f.posVar + f.cfg.FilterProcessNoisePos + f.velVar*dt*dt
	predictedVelVar := f.velVar + f.cfg.FilterProcessNoiseVel

	measurementNoise := f.cfg.FilterMeasurementNoiseBase * math.Max(float64(raw.AccuracyM), 0) / 10.0

	gain := predictedPosVar / (predictedPosVar + measurementNoise)
	gain = util.ClampFloat(gain, f.cfg.FilterGainMin, f.cfg.FilterGainMax)

	innovLat := raw.Lat - predLat
	innovLon := raw.Lon - predLon

	newLat := predLat + gain*innovLat
	newLon := predLon + gain*innovLon
	f.posVar = (1 - gain) * predictedPosVar
	f.velVar = (1 - gain) * predictedVelVar

	rawLatVel := innovLat / dt
	rawLonVel := innovLon / dt
	rawLatVel = clampDelta(f.latVel, rawLatVel, f.cfg.FilterMaxDeltaVelocity)
	rawLonVel = clampDelta(f.lonVel, rawLonVel, f.cfg.FilterMaxDeltaVelocity)

	newW, oldW := f.cfg.FilterVelocitySmoothingNew, f.cfg.FilterVelocitySmoothingOld
	f.latVel = newW*rawLatVel + oldW*f.latVel
	f.lonVel = newW*rawLonVel + oldW*f.lonVel

	f.lat, f.lon = newLat, newLon

	bearing := float64(raw.BearingDeg)
	speed := float64(raw.SpeedMps)
	if math.IsNaN(bearing) || math.IsNaN(speed) {
		// Synthesize from the velocity vector. The 111,000 m/degree
		// constant is an intentional engineering approximation kept for
		// parity with the filter's observed behavior; it is not
		// latitude-corrected.
		bearing = math.Mod(math.Atan2(f.lonVel, f.latVel)*(180.0/math.Pi)+360, 360)
		speedDegPerS := math.Hypot(f.latVel, f.lonVel)
		speed = speedDegPerS * 111_000.0
	}

	return datastructure.Fix{
		LatLon:     datastructure.LatLon{Lat: f.lat, Lon: f.lon},
		BearingDeg: float32(bearing),
		SpeedMps:   float32(speed),
		AccuracyM:  raw.AccuracyM * 0.8,
	}
}

// clampDelta limits how far next can move from prev in one step.
func clampDelta(prev, next, maxDelta float64) float64 {
	delta := util.ClampFloat(next-prev, -maxDelta, maxDelta)
	return prev + delta
}
