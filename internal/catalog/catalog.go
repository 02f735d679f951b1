// Package catalog loads the immutable card catalog from tab-separated deck
// files. A deck row is: topic id, category, question, answer, optional
// level (1-10, default 1), optional details. Rows missing any of the first
// four fields are excluded.
package catalog

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/veritas-study/veritas/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// row mirrors one deck line before it becomes a Card.
type row struct {
	TopicID  string `validate:"required"`
	Category string `validate:"required"`
	Question string `validate:"required"`
	Answer   string `validate:"required"`
	Level    int    `validate:"gte=1,lte=10"`
	Details  string
}

// Catalog is the loaded card set for a session batch, with per-topic
// totals derived from it.
type Catalog struct {
	Cards  []domain.Card
	totals map[string]int
}

// New builds a catalog from an already-parsed card list.
func New(cards []domain.Card) *Catalog {
	totals := make(map[string]int)
	for _, c := range cards {
		totals[c.TopicID]++
	}
	return &Catalog{Cards: cards, totals: totals}
}

// TopicTotal reports how many catalog cards belong to the topic. This is
// the authoritative "cards available" count; outcome tallies never feed it.
func (c *Catalog) TopicTotal(topicID string) int {
	return c.totals[topicID]
}

// Parse reads tab-separated deck rows and returns the valid cards. The
// first line is a header and is skipped. Malformed rows are dropped, not
// reported: deck files are hand-edited and partial decks must still load.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var cards []domain.Card
	first := true

	for scanner.Scan() {
		line := scanner.Text()
		if first {
			first = false
			// Header row (possibly BOM-prefixed).
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cols := strings.Split(line, "\t")
		for i := range cols {
			cols[i] = strings.TrimSpace(cols[i])
		}

		rw := row{
			TopicID:  col(cols, 0),
			Category: col(cols, 1),
			Question: col(cols, 2),
			Answer:   col(cols, 3),
			Level:    parseLevel(col(cols, 4)),
			Details:  col(cols, 5),
		}
		if err := validate.Struct(rw); err != nil {
			continue
		}

		card := domain.Card{
			TopicID:  rw.TopicID,
			Category: rw.Category,
			Question: rw.Question,
			Answer:   rw.Answer,
			Level:    rw.Level,
			Details:  rw.Details,
		}
		card.ID = CardID(card)
		cards = append(cards, card)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// ParseFile reads a deck file from the given path.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// LoadDir walks a deck directory and loads every .tsv file in it.
func LoadDir(dir string) (*Catalog, error) {
	var cards []domain.Card
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".tsv") {
			return nil
		}
		fileCards, err := ParseFile(path)
		if err != nil {
			return err
		}
		cards = append(cards, fileCards...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return New(cards), nil
}

func col(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

// parseLevel coerces the optional level column, defaulting to 1 and
// clamping into the 1-10 range.
func parseLevel(s string) int {
	lvl, err := strconv.Atoi(s)
	if err != nil || lvl < 1 {
		return 1
	}
	if lvl > 10 {
		return 10
	}
	return lvl
}
