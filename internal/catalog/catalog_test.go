package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const deckHeader = "topic_id\tcategory\tquestion\tanswer\tlevel\tdetails\n"

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedLevel int
		expectedTopic string
	}{
		{
			name:          "full row",
			input:         deckHeader + "bib\tDoutrinas\tO que é inspiração?\tA ação do Espírito sobre os autores.\t3\tVer 2Tm 3.16",
			expectedCards: 1,
			expectedLevel: 3,
			expectedTopic: "bib",
		},
		{
			name:          "missing level defaults to 1",
			input:         deckHeader + "sote\tDoutrinas\tO que é graça?\tFavor imerecido.",
			expectedCards: 1,
			expectedLevel: 1,
			expectedTopic: "sote",
		},
		{
			name:          "non-numeric level defaults to 1",
			input:         deckHeader + "sote\tDoutrinas\tO que é fé?\tConfiança em Deus.\tn/a",
			expectedCards: 1,
			expectedLevel: 1,
			expectedTopic: "sote",
		},
		{
			name:          "level above range clamps to 10",
			input:         deckHeader + "theo\tDoutrinas\tAtributos de Deus?\tComunicáveis e incomunicáveis.\t99",
			expectedCards: 1,
			expectedLevel: 10,
			expectedTopic: "theo",
		},
		{
			name:          "short row is excluded",
			input:         deckHeader + "bib\tDoutrinas\tPergunta sem resposta?",
			expectedCards: 0,
		},
		{
			name:          "blank answer is excluded",
			input:         deckHeader + "bib\tDoutrinas\tPergunta?\t   ",
			expectedCards: 0,
		},
		{
			name:          "blank lines and header only",
			input:         deckHeader + "\n\n",
			expectedCards: 0,
		},
		{
			name: "mixed valid and invalid rows",
			input: deckHeader +
				"bib\tDoutrinas\tQ1?\tA1.\n" +
				"too\tshort\n" +
				"cris\tDoutrinas\tQ2?\tA2.\t2\n",
			expectedCards: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}
			if len(cards) != tc.expectedCards {
				t.Fatalf("Expected %d cards, got %d", tc.expectedCards, len(cards))
			}
			if tc.expectedCards == 1 {
				card := cards[0]
				if card.Level != tc.expectedLevel {
					t.Errorf("Expected level %d, got %d", tc.expectedLevel, card.Level)
				}
				if card.TopicID != tc.expectedTopic {
					t.Errorf("Expected topic %q, got %q", tc.expectedTopic, card.TopicID)
				}
				if card.ID == "" {
					t.Error("Expected a derived card id, got empty string")
				}
			}
		})
	}
}

func TestTopicTotals(t *testing.T) {
	input := deckHeader +
		"bib\tDoutrinas\tQ1?\tA1.\n" +
		"bib\tDoutrinas\tQ2?\tA2.\n" +
		"sote\tDoutrinas\tQ3?\tA3.\n"

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	cat := New(cards)
	if got := cat.TopicTotal("bib"); got != 2 {
		t.Errorf("Expected 2 bib cards, got %d", got)
	}
	if got := cat.TopicTotal("sote"); got != 1 {
		t.Errorf("Expected 1 sote card, got %d", got)
	}
	if got := cat.TopicTotal("escat"); got != 0 {
		t.Errorf("Expected 0 escat cards, got %d", got)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	deckA := deckHeader + "bib\tDoutrinas\tQ1?\tA1.\n"
	deckB := deckHeader + "sote\tDoutrinas\tQ2?\tA2.\n"

	if err := os.WriteFile(filepath.Join(dir, "a.tsv"), []byte(deckA), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.tsv"), []byte(deckB), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir() error: %v", err)
	}
	if len(cat.Cards) != 2 {
		t.Fatalf("Expected 2 cards across decks, got %d", len(cat.Cards))
	}
}
