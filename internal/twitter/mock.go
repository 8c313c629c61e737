package twitter

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MockSearcher fabricates realistic candidates from the offer text. It is
// the default when no bearer token is configured, so the dashboard works
// end-to-end without X API access.
type MockSearcher struct{}

func (MockSearcher) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	candidates := []Candidate{
		{
			TwitterID:      "mock_" + uuid.NewString(),
			AuthorUsername: "tech_guru",
			Content:        fmt.Sprintf("Just tried the new %s tool. It's actually game changing for my workflow. #productivity", query),
			Likes:          100,
			Retweets:       30,
			Replies:        20,
		},
		{
			TwitterID:      "mock_" + uuid.NewString(),
			AuthorUsername: "startup_founder",
			Content:        fmt.Sprintf("Struggling with lead gen lately. Anyone have recommendations for %s?", query),
			Likes:          50,
			Retweets:       10,
			Replies:        20,
		},
		{
			TwitterID:      "mock_" + uuid.NewString(),
			AuthorUsername: "marketing_ninja",
			Content:        fmt.Sprintf("The future of marketing is %s. Ignore it at your own peril.", query),
			Likes:          220,
			Retweets:       60,
			Replies:        20,
		},
	}
	if limit > 0 && limit < len(candidates) {
		candidates = candidates[:limit]
	}
	return candidates, nil
}
