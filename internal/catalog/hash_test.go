package catalog

import (
	"testing"

	"github.com/veritas-study/veritas/internal/domain"
)

func TestCardIDStableAcrossIncidentalEdits(t *testing.T) {
	base := domain.Card{TopicID: "bib", Question: "O que é inspiração?", Answer: "A ação do Espírito."}

	variants := []domain.Card{
		{TopicID: "BIB", Question: "O que é inspiração?", Answer: "A ação do Espírito."},
		{TopicID: "bib", Question: "  O que é inspiração?  ", Answer: "A ação do Espírito."},
		{TopicID: "bib", Question: "O que é inspiração?", Answer: "A ação do Espírito.", Level: 7, Details: "extra"},
	}

	want := CardID(base)
	for i, v := range variants {
		if got := CardID(v); got != want {
			t.Errorf("Variant %d changed the id: %q vs %q", i, got, want)
		}
	}
}

func TestCardIDDistinguishesContent(t *testing.T) {
	a := domain.Card{TopicID: "bib", Question: "Q?", Answer: "A."}
	b := domain.Card{TopicID: "sote", Question: "Q?", Answer: "A."}
	c := domain.Card{TopicID: "bib", Question: "Q?", Answer: "Outra."}

	if CardID(a) == CardID(b) {
		t.Error("Different topics produced the same id")
	}
	if CardID(a) == CardID(c) {
		t.Error("Different answers produced the same id")
	}
}

func TestNormalizeSeparatesFields(t *testing.T) {
	card := domain.Card{TopicID: "bib", Question: "question", Answer: "answer"}
	if got, want := Normalize(card), "bib\nquestion\nanswer"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}
