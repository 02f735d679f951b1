// Package session assembles the bounded batch of cards offered in one
// study sitting. Due-ordering decides which cards are selected; a final
// shuffle decides the order they are shown.
package session

import (
	"math/rand"
	"sort"
	"time"

	"github.com/veritas-study/veritas/internal/domain"
)

// Filter optionally restricts the candidate set. Zero values mean "all".
type Filter struct {
	TopicID string
	Level   int
}

// Builder selects and orders session cards. The random source drives only
// the final presentation shuffle, so tests can seed it and assert on the
// selected set.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a Builder using the given random source. A nil source
// falls back to a time-seeded one.
func NewBuilder(rng *rand.Rand) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{rng: rng}
}

// Build filters the catalog, orders candidates by ascending next-review
// date, caps the result to limit and shuffles the capped subset.
//
// Cards with no recorded scheduling state are treated as due at the epoch,
// so never-seen cards sort first, in catalog order. An empty result is a
// normal outcome, not an error: the caller shows a "nothing to review"
// state. A non-positive limit yields an empty session.
func (b *Builder) Build(catalog []domain.Card, states map[string]domain.SRSState, f Filter, limit int) []domain.Card {
	if limit <= 0 {
		return nil
	}

	var candidates []domain.Card
	for _, c := range catalog {
		if f.TopicID != "" && c.TopicID != f.TopicID {
			continue
		}
		if f.Level != 0 && c.Level != f.Level {
			continue
		}
		candidates = append(candidates, c)
	}

	// Stable keeps catalog order for cards due at the same date.
	sort.SliceStable(candidates, func(i, j int) bool {
		return dueAt(states, candidates[i].ID).Before(dueAt(states, candidates[j].ID))
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	b.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	return candidates
}

func dueAt(states map[string]domain.SRSState, cardID string) time.Time {
	if s, ok := states[cardID]; ok {
		return s.NextReview
	}
	return time.Time{} // never seen: due at the epoch
}

// CouncilDelay is the per-card countdown in council (timed) mode. When it
// elapses before the user reveals the answer, the answer is auto-revealed.
// Pacing only; scheduling is unaffected.
const CouncilDelay = 30 * time.Second

// RevealDeadline returns the instant a card shown at shownAt auto-reveals
// in council mode.
func RevealDeadline(shownAt time.Time) time.Time {
	return shownAt.Add(CouncilDelay)
}

// AutoReveal reports whether the council countdown for a card shown at
// shownAt has elapsed.
func AutoReveal(shownAt, now time.Time) bool {
	return !now.Before(RevealDeadline(shownAt))
}
