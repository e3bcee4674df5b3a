package riskai

// Risk tiers shown alongside the raw flag. The mapping is presentational
// only; no decision logic depends on it.
const (
	TierNone     = "none"
	TierLow      = "low"
	TierModerate = "moderate"
	TierHigh     = "high"
)

// RiskTier maps an overall risk flag to a display tier.
func RiskTier(flag float64) string {
	switch {
	case flag == 0:
		return TierNone
	case flag <= 0.3:
		return TierLow
	case flag <= 0.7:
		return TierModerate
	default:
		return TierHigh
	}
}
