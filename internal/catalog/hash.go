package catalog

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/veritas-study/veritas/internal/domain"
)

// Normalize concatenates the card's identifying content after cleaning
// each part. Trimming, lowercasing and line-ending normalization keep the
// id stable across incidental deck edits.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.TrimSpace(p)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return p
	}

	topic := normalizePart(card.TopicID)
	q := normalizePart(card.Question)
	a := normalizePart(card.Answer)

	// Joined with newlines so adjacent fields can never run together.
	return strings.Join([]string{topic, q, a}, "\n")
}

// CardID derives a stable identifier from the card's content, so SRS state
// survives catalog refreshes that reorder rows. Level, category and details
// are presentation fields and deliberately excluded.
func CardID(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)[:16]
}
