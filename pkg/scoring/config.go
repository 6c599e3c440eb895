package scoring

import "time"

// Config holds weights and thresholds of the scoring engine.
// Velocity blend constants are hand-tuned, tests only check their monotonicity.
type Config struct {
	CategoryWeight     float64
	CategoryNormalizer float64 // matched weight sum mapped to a full category term
	KeywordWeight      float64
	SourceWeight       float64
	SourceSaturation   int // source count giving the full corroboration term
	RecencyWeight      float64
	RecencyWindow      time.Duration
	AntiPenalty        float64
	ProBonus           float64
	ExemplarCap        float64
	VelocityWeight     float64

	Velocity VelocityConfig

	TelegramThreshold  float64
	DashboardThreshold float64
}

// VelocityConfig holds the velocity blend constants
type VelocityConfig struct {
	HeatFactor         float64
	VolumeFactor       float64
	VolumeThreshold    float64
	RisingBonus        float64
	NewBonus           float64
	AggregatorFactor   float64
	AggVelocityFactor  float64
	TrendStrongPercent float64
	TrendStrongBonus   float64
	TrendModerate      float64
	TrendModerateBonus float64
	HighVelocityCutoff float64
}

// DefaultConfig returns the production scoring constants
func DefaultConfig() Config {
	return Config{
		CategoryWeight:     30,
		CategoryNormalizer: 5,
		KeywordWeight:      25,
		SourceWeight:       15,
		SourceSaturation:   3,
		RecencyWeight:      15,
		RecencyWindow:      12 * time.Hour,
		AntiPenalty:        -25,
		ProBonus:           10,
		ExemplarCap:        15,
		VelocityWeight:     15,
		Velocity: VelocityConfig{
			HeatFactor:         0.6,
			VolumeFactor:       0.3,
			VolumeThreshold:    10000,
			RisingBonus:        0.1,
			NewBonus:           0.05,
			AggregatorFactor:   0.25,
			AggVelocityFactor:  0.15,
			TrendStrongPercent: 100,
			TrendStrongBonus:   0.1,
			TrendModerate:      50,
			TrendModerateBonus: 0.05,
			HighVelocityCutoff: 0.6,
		},
		TelegramThreshold:  85,
		DashboardThreshold: 40,
	}
}
