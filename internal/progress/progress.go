// Package progress turns the stream of review events and session starts
// into the derived metrics shown to the user: lifetime and daily counters,
// per-topic outcome tallies, the daily activity log and the login streak.
//
// All operations are local and synchronous. They mutate the record they are
// given; persisting the record is the caller's concern and happens after a
// batch of mutations settles.
package progress

import (
	"time"

	"github.com/veritas-study/veritas/internal/domain"
	"github.com/veritas-study/veritas/internal/srs"
)

// RecordReview applies one reviewed card to the progress record, in review
// order. It bumps the daily and lifetime counters, tallies the outcome for
// the card's topic, logs today's activity and writes the card's next
// scheduling state. The only error is an unknown outcome, in which case the
// record is left untouched.
func RecordReview(rec *domain.Record, cardID, topicID string, outcome domain.Outcome, now time.Time) error {
	var prev *domain.SRSState
	if s, ok := rec.Stats.CardStates[cardID]; ok {
		prev = &s
	}

	// Validate the outcome through the scheduler before touching anything.
	next, err := srs.Advance(prev, outcome, now)
	if err != nil {
		return err
	}

	if rec.Stats.CardStates == nil {
		rec.Stats.CardStates = make(map[string]domain.SRSState)
	}
	if rec.Stats.ActivityLog == nil {
		rec.Stats.ActivityLog = make(map[string]int)
	}
	if rec.Topics == nil {
		rec.Topics = make(map[string]domain.TopicStats)
	}

	rec.Stats.CardsToday++
	rec.Stats.CardsLifetime++
	rec.Stats.ActivityLog[domain.DateKey(now)]++
	rec.Stats.LastAccess = now
	rec.Stats.CardStates[cardID] = next

	tally := rec.Topics[topicID]
	switch outcome {
	case domain.OutcomeWrong:
		tally.Wrong++
	case domain.OutcomeReview:
		tally.Review++
	case domain.OutcomeCorrect:
		tally.Correct++
	}
	rec.Topics[topicID] = tally

	return nil
}

// OnSessionStart applies the streak and day-rollover rules once per
// authenticated session.
//
// The streak grows by one when the previous login was yesterday, stays put
// when it was today, and resets to one after any longer gap or on the first
// login ever. CardsToday is zeroed whenever a new calendar day is detected,
// so the counter always reflects the current day only.
func OnSessionStart(rec *domain.Record, today time.Time) {
	todayKey := domain.DateKey(today)
	yesterdayKey := domain.DateKey(today.AddDate(0, 0, -1))

	switch rec.Stats.LastLoginDate {
	case todayKey:
		// Already counted today.
	case yesterdayKey:
		rec.Stats.Streak++
		rec.Stats.CardsToday = 0
		rec.Stats.LastLoginDate = todayKey
	default:
		rec.Stats.Streak = 1
		rec.Stats.CardsToday = 0
		rec.Stats.LastLoginDate = todayKey
	}
}

// DayActivity is one bar of the weekly activity chart.
type DayActivity struct {
	Date  string // ISO date
	Label string // single-letter weekday label
	Cards int
	Today bool
}

var weekdayLabels = [...]string{"D", "S", "T", "Q", "Q", "S", "S"}

// WeekActivity returns the last seven days of review activity ending today,
// oldest first, filling days with no activity with zero.
func WeekActivity(rec *domain.Record, today time.Time) []DayActivity {
	out := make([]DayActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := domain.DateKey(day)
		out = append(out, DayActivity{
			Date:  key,
			Label: weekdayLabels[int(day.Weekday())],
			Cards: rec.Stats.ActivityLog[key],
			Today: i == 0,
		})
	}
	return out
}
