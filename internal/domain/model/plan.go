package model

import (
	"time"

	"cambliss-news-backend/internal/domain"
)

// Tier ranks subscriber entitlement level.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
	TierPro     Tier = "pro"
)

// Interval is the billing period of a plan.
type Interval string

const (
	IntervalMonth Interval = "month"
	IntervalYear  Interval = "year"
)

// Plan is an immutable catalog entry. Price is in whole rupees; the
// gateway works in paise (see AmountMinor).
type Plan struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Tier     Tier     `json:"tier" yaml:"tier"`
	Price    int64    `json:"price" yaml:"price"`
	Currency string   `json:"currency" yaml:"currency"`
	Interval Interval `json:"interval" yaml:"interval"`
	Features []string `json:"features" yaml:"features"`
	Popular  bool     `json:"popular,omitempty" yaml:"popular"`
	Savings  string   `json:"savings,omitempty" yaml:"savings"`
}

func (p *Plan) IsZero() bool { return p == nil || p.ID == "" }

// AmountMinor returns the plan price in minor currency units (paise).
func (p *Plan) AmountMinor() int64 { return p.Price * 100 }

// PeriodEnd returns the subscription end date for a period starting at start.
func (p *Plan) PeriodEnd(start time.Time) time.Time {
	if p.Interval == IntervalYear {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

func (p *Plan) validate() error {
	if p.ID == "" || p.Name == "" || p.Currency == "" || p.Price < 0 {
		return domain.ErrInvalidArgument
	}
	switch p.Tier {
	case TierFree, TierPremium, TierPro:
	default:
		return domain.ErrInvalidArgument
	}
	switch p.Interval {
	case IntervalMonth, IntervalYear:
	default:
		return domain.ErrInvalidArgument
	}
	return nil
}

// Catalog is the read-only plan registry. It is built once at startup and
// injected by reference; it is never mutated afterwards.
type Catalog struct {
	plans []Plan
	byID  map[string]int
}

// NewCatalog validates the plan list and freezes it into a Catalog.
func NewCatalog(plans []Plan) (*Catalog, error) {
	if len(plans) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	c := &Catalog{
		plans: make([]Plan, len(plans)),
		byID:  make(map[string]int, len(plans)),
	}
	copy(c.plans, plans)
	for i := range c.plans {
		p := &c.plans[i]
		if err := p.validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, domain.ErrInvalidArgument
		}
		c.byID[p.ID] = i
	}
	return c, nil
}

// List returns the plans in catalog order. Callers get a copy.
func (c *Catalog) List() []Plan {
	out := make([]Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// FindByID looks up a plan by its id.
func (c *Catalog) FindByID(id string) (*Plan, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := c.plans[i]
	return &p, nil
}

// DefaultPlans is the product catalog shipped with the service. It can be
// overridden from config, but the ids and point grants are load-bearing:
// the tier/interval pair keys the bonus-points table.
func DefaultPlans() []Plan {
	return []Plan{
		{
			ID: "free", Name: "Free", Tier: TierFree, Price: 0, Currency: "INR", Interval: IntervalMonth,
			Features: []string{
				"Access to basic news articles",
				"Limited voice reading",
				"Standard news updates",
				"100 Cambliss Points/month",
				"Community access",
			},
		},
		{
			ID: "premium_monthly", Name: "Premium", Tier: TierPremium, Price: 199, Currency: "INR", Interval: IntervalMonth,
			Popular: true,
			Features: []string{
				"Unlimited premium articles",
				"Unlimited AI voice reading",
				"Real-time breaking news alerts",
				"Ad-free experience",
				"500 Cambliss Points/month",
				"Priority customer support",
				"Exclusive journalist content",
				"Download articles offline",
			},
		},
		{
			ID: "premium_yearly", Name: "Premium Annual", Tier: TierPremium, Price: 1999, Currency: "INR", Interval: IntervalYear,
			Savings: "Save 17%",
			Features: []string{
				"All Premium features",
				"Save ₹390 per year",
				"6000 Cambliss Points/year",
				"Early access to new features",
				"Exclusive webinars with journalists",
				"Premium badge on profile",
			},
		},
		{
			ID: "pro_monthly", Name: "Pro", Tier: TierPro, Price: 499, Currency: "INR", Interval: IntervalMonth,
			Features: []string{
				"All Premium features",
				"Advanced AI news analysis",
				"Personalized news digest",
				"Multi-device sync",
				"1500 Cambliss Points/month",
				"Book journalist appointments (50% off)",
				"Access to exclusive events",
				"API access for developers",
				"White-label content publishing",
				"Priority verification badge",
			},
		},
		{
			ID: "pro_yearly", Name: "Pro Annual", Tier: TierPro, Price: 4999, Currency: "INR", Interval: IntervalYear,
			Savings: "Save 17%",
			Features: []string{
				"All Pro features",
				"Save ₹990 per year",
				"18000 Cambliss Points/year",
				"Lifetime premium badge",
				"Exclusive founder events",
				"Direct line to editorial team",
			},
		},
	}
}
