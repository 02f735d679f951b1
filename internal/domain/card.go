package domain

// Card represents a single catalog flashcard. Cards are immutable once
// loaded; a catalog refresh replaces the whole set.
type Card struct {
	ID       string
	TopicID  string
	Category string
	Question string
	Answer   string
	Level    int    // difficulty 1-10
	Details  string // optional elaboration shown with the answer
}

// Outcome is the user's self-reported recall quality for one review.
type Outcome string

const (
	OutcomeWrong   Outcome = "wrong"
	OutcomeReview  Outcome = "review" // partial recall
	OutcomeCorrect Outcome = "correct"
)

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeWrong, OutcomeReview, OutcomeCorrect:
		return true
	}
	return false
}
