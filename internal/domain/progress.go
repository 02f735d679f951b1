package domain

import "time"

// DateKey formats t as the ISO calendar date used for streak comparisons
// and activity log keys.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SRSState holds the scheduling parameters for one card. States are created
// lazily on a card's first review and only ever mutated by the scheduler.
type SRSState struct {
	Interval    int       // days until next due
	Ease        float64   // growth multiplier, floor 1.3
	Repetitions int       // consecutive-correct streak
	NextReview  time.Time // day-granular due date
}

// TopicStats tallies review outcomes for one topic. Counts accumulate for
// the life of the account and are never reset.
type TopicStats struct {
	Wrong   int
	Review  int
	Correct int
}

// Profile is the user-facing identity attached to a progress record.
type Profile struct {
	ID          string
	Name        string
	Church      string
	Role        string
	AvatarColor string
	Complete    bool
	Email       string
	Phone       string
}

// UserStats aggregates one user's review activity.
type UserStats struct {
	Streak        int
	LastLoginDate string // ISO date, local to the user
	LastAccess    time.Time
	CardsToday    int
	CardsLifetime int
	CardStates    map[string]SRSState
	ActivityLog   map[string]int // ISO date -> reviews that day
}

// Record is the full progress document persisted per user. Any subset of its
// fields may be absent on first load; the store substitutes defaults.
type Record struct {
	Profile   Profile
	Stats     UserStats
	Topics    map[string]TopicStats
	UpdatedAt time.Time
}

// NewRecord returns an empty progress record for a fresh account.
func NewRecord(userID, name string) *Record {
	return &Record{
		Profile: Profile{
			ID:          userID,
			Name:        name,
			Church:      "Igreja Batista",
			Role:        "user",
			AvatarColor: "#135bec",
		},
		Stats: UserStats{
			CardStates:  make(map[string]SRSState),
			ActivityLog: make(map[string]int),
		},
		Topics: make(map[string]TopicStats),
	}
}
