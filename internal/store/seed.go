package store

import (
	"context"
	"log"
	"time"

	"github.com/tweetlead/backend/internal/models"
)

// Seed inserts demo rows so a fresh dashboard is not empty. Tweets and
// leads are seeded independently and only when their table has no rows.
func (s *Store) Seed(ctx context.Context) error {
	tweets, err := s.ListTweets(ctx)
	if err != nil {
		return err
	}
	if len(tweets) == 0 {
		seedTweets := []models.InsertTweet{
			{TwitterID: "seed_1", AuthorUsername: "elonmusk", Content: "Building the future of X. #AI", EngagementScore: 50000, RelevanceScore: 100},
			{TwitterID: "seed_2", AuthorUsername: "sama", Content: "AGI is closer than you think.", EngagementScore: 25000, RelevanceScore: 90},
		}
		for _, t := range seedTweets {
			if _, err := s.UpsertTweet(ctx, t); err != nil {
				return err
			}
		}
		log.Printf("[Seed] inserted %d demo tweets", len(seedTweets))
	}

	leads, err := s.ListLeads(ctx)
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		profileURL := "https://twitter.com/potential_client_1"
		now := time.Now().UTC()
		seedLeads := []models.InsertLead{
			{Username: "potential_client_1", Status: models.LeadStatusNew, TwitterProfileURL: &profileURL},
			{Username: "interested_user_99", Status: models.LeadStatusContacted, RepliesCount: 1, LastContactedAt: &now},
		}
		for _, l := range seedLeads {
			if _, err := s.CreateLead(ctx, l); err != nil {
				return err
			}
		}
		log.Printf("[Seed] inserted %d demo leads", len(seedLeads))
	}

	return nil
}
