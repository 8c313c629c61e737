package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/tweetlead/backend/internal/models"
	"github.com/tweetlead/backend/internal/twitter"
)

// TweetUpserter is the slice of the store the ingestion pipeline needs.
type TweetUpserter interface {
	UpsertTweet(ctx context.Context, in models.InsertTweet) (models.Tweet, error)
}

// RelevanceScorer rates a tweet against an offer; implementations must not
// fail, degrading to a neutral score instead.
type RelevanceScorer interface {
	Score(ctx context.Context, tweetText, offer string) int
}

// DefaultSearchLimit bounds how many candidates one monitor request ingests.
const DefaultSearchLimit = 10

// Ingestor searches for tweets matching an offer, scores each candidate and
// upserts them keyed by twitter_id. Re-running the same offer refreshes
// scores in place instead of duplicating rows.
type Ingestor struct {
	Search twitter.Searcher
	Scorer RelevanceScorer
	Store  TweetUpserter
	Limit  int
}

// Run executes the pipeline for one offer. A search failure fails the whole
// call; fabricating tweets on a dead search API would mislead the dashboard.
func (p *Ingestor) Run(ctx context.Context, offer string) ([]models.Tweet, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	candidates, err := p.Search.Search(ctx, offer, limit)
	if err != nil {
		return nil, fmt.Errorf("search tweets: %w", err)
	}

	tweets := make([]models.Tweet, 0, len(candidates))
	for _, c := range candidates {
		saved, err := p.Store.UpsertTweet(ctx, models.InsertTweet{
			TwitterID:       c.TwitterID,
			AuthorUsername:  c.AuthorUsername,
			Content:         c.Content,
			EngagementScore: c.EngagementScore(),
			RelevanceScore:  p.Scorer.Score(ctx, c.Content, offer),
		})
		if err != nil {
			return nil, fmt.Errorf("upsert tweet %s: %w", c.TwitterID, err)
		}
		tweets = append(tweets, saved)
	}

	log.Printf("[Ingest] offer=%q candidates=%d upserted=%d", offer, len(candidates), len(tweets))
	return tweets, nil
}
