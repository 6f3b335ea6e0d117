// Package config loads the navigation core's tunables (search radii,
// filter gains, matcher radii and thresholds) into a typed struct backed
// by viper, so
// the engine's zero-value constructor can fall back to the spec's
// hardwired defaults when no config file is present.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the navigation core's overridable tunables. Other
// constants (grid cell size, matcher scoring weights) are fixed in their
// own packages and are not part of Config.
type Config struct {
	// Routing (C5)
	NodeSearchRadiusM    float64
	MaxRouteDistanceM    float64
	AltFastestFactor     float64
	AltNoHighwaysFactor  float64
	AltEndpointToleranceM float64

	// Location filter (C2)
	FilterPositionVariance    float64
	FilterVelocityVariance    float64
	FilterProcessNoisePos     float64
	FilterProcessNoiseVel     float64
	FilterMeasurementNoiseBase float64
	FilterMaxDeltaVelocity    float64
	FilterVelocitySmoothingNew float64
	FilterVelocitySmoothingOld float64
	FilterGainMin             float64
	FilterGainMax             float64
	FilterMinDeltaTSeconds    float64

	// Matcher (C6)
	MatcherCandidateRadiusM      float64
	MatcherCandidateRadiusRetryM float64
	MatcherForwardProgressFrac   float64
	MatcherHeadingToleranceDeg   float64
}

// Defaults returns the navigation core's hardwired constants, used by
// every constructor that does not load a config file explicitly.
func Defaults() Config {
	return Config{
		NodeSearchRadiusM:    10_000.0,
		MaxRouteDistanceM:    10_000.0,
		AltFastestFactor:     1.2,
		AltNoHighwaysFactor:  0.8,
		AltEndpointToleranceM: 100.0,

		FilterPositionVariance:     10.0,
		FilterVelocityVariance:     5.0,
		FilterProcessNoisePos:      0.01,
		FilterProcessNoiseVel:      0.1,
		FilterMeasurementNoiseBase: 5.0,
		FilterMaxDeltaVelocity:     10.0,
		FilterVelocitySmoothingNew: 0.7,
		FilterVelocitySmoothingOld: 0.3,
		FilterGainMin:              0.1,
		FilterGainMax:              0.9,
		FilterMinDeltaTSeconds:     0.1,

		MatcherCandidateRadiusM:      100.0,
		MatcherCandidateRadiusRetryM: 300.0,
		MatcherForwardProgressFrac:   0.7,
		MatcherHeadingToleranceDeg:   45.0,
	}
}

// Load reads an optional "config" file (yaml/json/toml) from dir and
// overlays it on top of Defaults. A missing file is not an error: the
// navigation core runs entirely on its hardwired defaults unless a
// deployment supplies overrides.
func Load(dir string) (Config, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	setViperDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, fmt.Errorf("navcore: read config: %w", err)
	}

	cfg.NodeSearchRadiusM = v.GetFloat64("node_search_radius_m")
	cfg.MaxRouteDistanceM = v.GetFloat64("max_route_distance_m")
	cfg.AltFastestFactor = v.GetFloat64("alt_fastest_factor")
	cfg.AltNoHighwaysFactor = v.GetFloat64("alt_no_highways_factor")
	cfg.AltEndpointToleranceM = v.GetFloat64("alt_endpoint_tolerance_m")

	cfg.FilterPositionVariance = v.GetFloat64("filter_position_variance")
	cfg.FilterVelocityVariance = v.GetFloat64("filter_velocity_variance")
	cfg.FilterProcessNoisePos = v.GetFloat64("filter_process_noise_pos")
	cfg.FilterProcessNoiseVel = v.GetFloat64("filter_process_noise_vel")
	cfg.FilterMeasurementNoiseBase = v.GetFloat64("filter_measurement_noise_base")
	cfg.FilterMaxDeltaVelocity = v.GetFloat64("filter_max_delta_velocity")
	cfg.FilterVelocitySmoothingNew = v.GetFloat64("filter_velocity_smoothing_new")
	cfg.FilterVelocitySmoothingOld = v.GetFloat64("filter_velocity_smoothing_old")
	cfg.FilterGainMin = v.GetFloat64("filter_gain_min")
	cfg.FilterGainMax = v.GetFloat64("filter_gain_max")
	cfg.FilterMinDeltaTSeconds = v.GetFloat64("filter_min_delta_t_seconds")

	cfg.MatcherCandidateRadiusM = v.GetFloat64("matcher_candidate_radius_m")
	cfg.MatcherCandidateRadiusRetryM = v.GetFloat64("matcher_candidate_radius_retry_m")
	cfg.MatcherForwardProgressFrac = v.GetFloat64("matcher_forward_progress_frac")
	cfg.MatcherHeadingToleranceDeg = v.GetFloat64("matcher_heading_tolerance_deg")

	return cfg, nil
}

func setViperDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("node_search_radius_m", cfg.NodeSearchRadiusM)
	v.SetDefault("max_route_distance_m", cfg.MaxRouteDistanceM)
	v.SetDefault("alt_fastest_factor", cfg.AltFastestFactor)
	v.SetDefault("alt_no_highways_factor", cfg.AltNoHighwaysFactor)
	v.SetDefault("alt_endpoint_tolerance_m", cfg.AltEndpointToleranceM)

	v.SetDefault("filter_position_variance", cfg.FilterPositionVariance)
	v.SetDefault("filter_velocity_variance", cfg.FilterVelocityVariance)
	v.SetDefault("filter_process_noise_pos", cfg.FilterProcessNoisePos)
	v.SetDefault("filter_process_noise_vel", cfg.FilterProcessNoiseVel)
	v.SetDefault("filter_measurement_noise_base", cfg.FilterMeasurementNoiseBase)
	v.SetDefault("filter_max_delta_velocity", cfg.FilterMaxDeltaVelocity)
	v.SetDefault("filter_velocity_smoothing_new", cfg.FilterVelocitySmoothingNew)
	v.SetDefault("filter_velocity_smoothing_old", cfg.FilterVelocitySmoothingOld)
	v.SetDefault("filter_gain_min", cfg.FilterGainMin)
	v.SetDefault("filter_gain_max", cfg.FilterGainMax)
	v.SetDefault("filter_min_delta_t_seconds", cfg.FilterMinDeltaTSeconds)

	v.SetDefault("matcher_candidate_radius_m", cfg.MatcherCandidateRadiusM)
	v.SetDefault("matcher_candidate_radius_retry_m", cfg.MatcherCandidateRadiusRetryM)
	v.SetDefault("matcher_forward_progress_frac", cfg.MatcherForwardProgressFrac)
	v.SetDefault("matcher_heading_tolerance_deg", cfg.MatcherHeadingToleranceDeg)
}
