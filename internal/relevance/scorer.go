package relevance

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"unicode"

	"github.com/tweetlead/backend/internal/ai"
)

// NeutralScore is returned whenever the model's answer cannot be used.
const NeutralScore = 50

// Scorer rates how well a tweet matches an offer on a 0-100 scale.
type Scorer struct {
	Gen ai.Generator
}

// Score never returns an error: a failed call or an unparseable answer
// degrades to NeutralScore so one bad model response cannot fail a whole
// ingestion batch.
func (s *Scorer) Score(ctx context.Context, tweetText, offer string) int {
	prompt := fmt.Sprintf(`Rate how relevant this tweet is to someone selling "%s".

Tweet: %s

Respond with a single integer between 0 and 100 and nothing else.`, offer, tweetText)

	raw, err := s.Gen.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[Relevance] completion failed, using neutral score: %v", err)
		return NeutralScore
	}

	score, ok := parseScore(raw)
	if !ok {
		log.Printf("[Relevance] unusable model answer %q, using neutral score", raw)
		return NeutralScore
	}
	return score
}

// parseScore accepts either a bare integer or the first integer token
// embedded in surrounding text, as long as it falls in [0,100].
func parseScore(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 0 && n <= 100
	}

	start := -1
	for i, r := range raw {
		if unicode.IsDigit(r) {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			n, _ := strconv.Atoi(raw[start:i])
			return n, n >= 0 && n <= 100
		}
	}
	if start != -1 {
		n, _ := strconv.Atoi(raw[start:])
		return n, n >= 0 && n <= 100
	}
	return 0, false
}
