package session

import (
	"math/rand"
	"testing"
	"time"

	"github.com/veritas-study/veritas/internal/domain"
)

func testCatalog() []domain.Card {
	return []domain.Card{
		{ID: "a", TopicID: "bib", Level: 1, Question: "Q-a"},
		{ID: "b", TopicID: "bib", Level: 2, Question: "Q-b"},
		{ID: "c", TopicID: "sote", Level: 1, Question: "Q-c"},
		{ID: "d", TopicID: "sote", Level: 3, Question: "Q-d"},
		{ID: "e", TopicID: "theo", Level: 1, Question: "Q-e"},
	}
}

func seededBuilder() *Builder {
	return NewBuilder(rand.New(rand.NewSource(1)))
}

func ids(cards []domain.Card) map[string]bool {
	out := make(map[string]bool, len(cards))
	for _, c := range cards {
		out[c.ID] = true
	}
	return out
}

func TestBuildCapsAndDeduplicates(t *testing.T) {
	got := seededBuilder().Build(testCatalog(), nil, Filter{}, 2)
	if len(got) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(got))
	}
	if got[0].ID == got[1].ID {
		t.Errorf("Session contains a duplicate card: %q", got[0].ID)
	}
}

func TestBuildHonorsFilter(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "topic only", filter: Filter{TopicID: "bib"}, want: []string{"a", "b"}},
		{name: "level only", filter: Filter{Level: 1}, want: []string{"a", "c", "e"}},
		{name: "topic and level", filter: Filter{TopicID: "sote", Level: 3}, want: []string{"d"}},
		{name: "no filter means all", filter: Filter{}, want: []string{"a", "b", "c", "d", "e"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := seededBuilder().Build(testCatalog(), nil, tc.filter, 10)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %d cards, got %d", len(tc.want), len(got))
			}
			gotIDs := ids(got)
			for _, id := range tc.want {
				if !gotIDs[id] {
					t.Errorf("Expected card %q in session", id)
				}
			}
		})
	}
}

func TestBuildPrioritizesByDueDate(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
	}
	states := map[string]domain.SRSState{
		"a": {NextReview: day(20)},
		"b": {NextReview: day(5)},
		"c": {NextReview: day(12)},
		// d and e never seen: due at the epoch, selected first.
	}

	got := seededBuilder().Build(testCatalog(), states, Filter{}, 3)
	gotIDs := ids(got)
	for _, id := range []string{"d", "e", "b"} {
		if !gotIDs[id] {
			t.Errorf("Expected card %q among the 3 most due, got %v", id, gotIDs)
		}
	}
	if gotIDs["a"] || gotIDs["c"] {
		t.Errorf("Least-due cards leaked into the session: %v", gotIDs)
	}
}

func TestBuildEmptyCandidateSet(t *testing.T) {
	got := seededBuilder().Build(testCatalog(), nil, Filter{TopicID: "escat"}, 10)
	if len(got) != 0 {
		t.Fatalf("Expected an empty session, got %d cards", len(got))
	}
}

func TestBuildNonPositiveLimit(t *testing.T) {
	if got := seededBuilder().Build(testCatalog(), nil, Filter{}, 0); len(got) != 0 {
		t.Fatalf("Expected an empty session for limit 0, got %d cards", len(got))
	}
}

func TestBuildDeterministicUnderSeed(t *testing.T) {
	first := seededBuilder().Build(testCatalog(), nil, Filter{}, 5)
	second := seededBuilder().Build(testCatalog(), nil, Filter{}, 5)

	if len(first) != len(second) {
		t.Fatalf("Runs disagree on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Runs disagree at position %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}

func TestCouncilReveal(t *testing.T) {
	shown := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	deadline := RevealDeadline(shown)
	if want := shown.Add(30 * time.Second); !deadline.Equal(want) {
		t.Errorf("Expected deadline %v, got %v", want, deadline)
	}

	if AutoReveal(shown, shown.Add(29*time.Second)) {
		t.Error("Auto-reveal fired before the countdown elapsed")
	}
	if !AutoReveal(shown, shown.Add(30*time.Second)) {
		t.Error("Auto-reveal did not fire at the deadline")
	}
}
