package srs

import (
	"fmt"
	"math"
	"time"

	"github.com/veritas-study/veritas/internal/domain"
)

// Scheduling constants for the SM-2 variant used by the trainer.
const (
	DefaultEase = 2.5
	easeFloor   = 1.3

	correctBonus  = 0.1
	reviewPenalty = 0.15
	wrongPenalty  = 0.2
)

// NewState returns the scheduling state a card starts from before its
// first review.
func NewState() domain.SRSState {
	return domain.SRSState{Interval: 0, Ease: DefaultEase, Repetitions: 0}
}

// Advance computes the next scheduling state from the current one and a
// review outcome. A nil state means the card has never been reviewed.
// The function is pure; the caller persists the returned state.
//
// An unknown outcome is a contract violation and returns an error rather
// than silently corrupting the state.
func Advance(state *domain.SRSState, outcome domain.Outcome, now time.Time) (domain.SRSState, error) {
	if !outcome.Valid() {
		return domain.SRSState{}, fmt.Errorf("srs: unknown outcome %q", outcome)
	}

	cur := NewState()
	if state != nil {
		cur = *state
	}

	next := cur
	switch outcome {
	case domain.OutcomeCorrect:
		next.Repetitions = cur.Repetitions + 1
		switch next.Repetitions {
		case 1:
			next.Interval = 1
		case 2:
			next.Interval = 4
		default:
			next.Interval = int(math.Round(float64(cur.Interval) * cur.Ease))
		}
		next.Ease = clampEase(cur.Ease + correctBonus)
	case domain.OutcomeReview:
		next.Repetitions = 0
		next.Interval = 1
		next.Ease = clampEase(cur.Ease - reviewPenalty)
	case domain.OutcomeWrong:
		next.Repetitions = 0
		next.Interval = 0 // due immediately
		next.Ease = clampEase(cur.Ease - wrongPenalty)
	}

	next.NextReview = startOfDay(now).AddDate(0, 0, next.Interval)
	return next, nil
}

func clampEase(ease float64) float64 {
	if ease < easeFloor {
		return easeFloor
	}
	return ease
}

// startOfDay truncates t to midnight in its own location. Scheduling is
// day-granular.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
