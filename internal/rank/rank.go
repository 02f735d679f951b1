package rank

import "math"

// Tier is a gamification label derived from lifetime review count.
type Tier struct {
	Name      string
	Icon      string
	Threshold int // lifetime reviews needed to reach this tier
}

// tiers is ordered by ascending threshold. The first entry has threshold 0
// so every lifetime count resolves to a tier.
var tiers = []Tier{
	{Name: "Novato", Icon: "school", Threshold: 0},
	{Name: "Discípulo", Icon: "menu_book", Threshold: 100},
	{Name: "Seminarista", Icon: "church", Threshold: 500},
	{Name: "Teólogo", Icon: "workspace_premium", Threshold: 2000},
}

// Tiers returns a copy of the tier table in ascending threshold order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// Of resolves the highest tier whose threshold is at most cardsLifetime.
// Negative counts resolve to the first tier.
func Of(cardsLifetime int) Tier {
	current := tiers[0]
	for _, t := range tiers {
		if cardsLifetime >= t.Threshold {
			current = t
		}
	}
	return current
}

// ProgressToNext reports how far along the user is between the current
// tier's threshold and the next one, as a percentage in [0, 100]. At the
// top tier it is always 100.
func ProgressToNext(cardsLifetime int) int {
	if cardsLifetime < 0 {
		cardsLifetime = 0
	}
	for i, t := range tiers {
		if cardsLifetime >= t.Threshold {
			continue
		}
		prev := tiers[i-1].Threshold
		span := t.Threshold - prev
		return int(math.Round(float64(cardsLifetime-prev) / float64(span) * 100))
	}
	return 100
}
