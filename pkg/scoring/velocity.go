package scoring

import (
	"math"

	"github.com/umputun/storydesk/pkg/domain"
)

// velocityBlend returns the raw, unclamped velocity blend of platform signals.
// Missing signals contribute nothing.
func velocityBlend(sig *domain.PlatformSignals, cfg VelocityConfig) float64 {
	if sig == nil {
		return 0
	}

	var blend float64
	blend += clamp(sig.Heat, 0, 100) / 100 * cfg.HeatFactor
	if cfg.VolumeThreshold > 0 && sig.Volume > 0 {
		blend += math.Min(float64(sig.Volume)/cfg.VolumeThreshold, 1) * cfg.VolumeFactor
	}

	switch sig.Velocity {
	case domain.VelocityRising:
		blend += cfg.RisingBonus
	case domain.VelocityNew:
		blend += cfg.NewBonus
	}

	blend += clamp(sig.AggregatorScore, 0, 1) * cfg.AggregatorFactor
	blend += clamp(sig.AggregatorVelocity, 0, 1) * cfg.AggVelocityFactor

	switch {
	case sig.TrendMagnitude >= cfg.TrendStrongPercent:
		blend += cfg.TrendStrongBonus
	case sig.TrendMagnitude >= cfg.TrendModerate:
		blend += cfg.TrendModerateBonus
	}

	return blend
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
