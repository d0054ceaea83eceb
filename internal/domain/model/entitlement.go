package model

// Entitlement is derived, never stored: only an active subscription grants
// a non-free tier, and access ordering is free < premium < pro.

var tierRank = map[Tier]int{
	TierFree:    0,
	TierPremium: 1,
	TierPro:     2,
}

// TierOf returns the effective tier of a subscription. Absent, cancelled
// and expired records all resolve to free.
func TierOf(s *Subscription) Tier {
	if s == nil || s.Status != SubscriptionStatusActive {
		return TierFree
	}
	if _, ok := tierRank[s.Tier]; !ok {
		return TierFree
	}
	return s.Tier
}

// HasAccess reports whether the subscription satisfies the required tier.
// Pro satisfies a premium requirement.
func HasAccess(s *Subscription, required Tier) bool {
	return tierRank[TierOf(s)] >= tierRank[required]
}
