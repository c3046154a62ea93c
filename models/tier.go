package models

// Tier is a display band derived from season points.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
	TierDiamond  Tier = "diamond"
)

// TierForPoints maps season points to a tier. This is the single source of
// truth for tiering: both the live rank path and snapshot generation call it,
// so the thresholds can never diverge between views.
func TierForPoints(points int64) Tier {
	switch {
	case points >= 1000:
		return TierDiamond
	case points >= 501:
		return TierPlatinum
	case points >= 251:
		return TierGold
	case points >= 101:
		return TierSilver
	default:
		return TierBronze
	}
}
