package model

// Bonus Cambliss Points credited on activation. Fixed per (tier, interval),
// not computed from price.
var bonusPoints = map[Tier]map[Interval]int64{
	TierPremium: {IntervalMonth: 500, IntervalYear: 6000},
	TierPro:     {IntervalMonth: 1500, IntervalYear: 18000},
}

// BonusPoints returns the activation point grant for a plan. Unknown
// combinations (including free) grant nothing.
func BonusPoints(t Tier, i Interval) int64 {
	return bonusPoints[t][i]
}
