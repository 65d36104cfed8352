package server

// Trend bucket thresholds on the 0-100 scale, matching the dashboard's
// alerting bands.
const (
	extremeBearishBelow = 30
	bearishBelow        = 45
	neutralBelow        = 55
	bullishBelow        = 70
)

// trendLabel buckets a vibe score into the dashboard's trend bands.
func trendLabel(score int) string {
	switch {
	case score < extremeBearishBelow:
		return "extreme_bearish"
	case score < bearishBelow:
		return "bearish"
	case score < neutralBelow:
		return "neutral"
	case score < bullishBelow:
		return "bullish"
	default:
		return "extreme_bullish"
	}
}
