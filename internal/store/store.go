package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tweetlead/backend/internal/models"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("not found")

// HighEngagementThreshold is the strict lower bound for a tweet to count as
// high engagement. A tweet scoring exactly the threshold is excluded.
const HighEngagementThreshold = 50

// Store wraps the database handle. Callers inject it into whichever
// component needs persistence; there is no package-level instance.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const tweetColumns = "id, twitter_id, author_username, content, engagement_score, relevance_score, created_at"

func scanTweet(row interface{ Scan(...any) error }, t *models.Tweet) error {
	return row.Scan(&t.ID, &t.TwitterID, &t.AuthorUsername, &t.Content, &t.EngagementScore, &t.RelevanceScore, &t.CreatedAt)
}

// ListTweets returns all tweets, newest first.
func (s *Store) ListTweets(ctx context.Context) ([]models.Tweet, error) {
	query := `SELECT ` + tweetColumns + ` FROM tweets ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []models.Tweet
	for rows.Next() {
		var t models.Tweet
		if err := scanTweet(rows, &t); err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

// UpsertTweet inserts a tweet or, when the twitter_id already exists, updates
// its engagement and relevance scores in place. The conflict resolution is a
// single statement, so concurrent upserts of the same twitter_id cannot
// produce duplicate rows.
func (s *Store) UpsertTweet(ctx context.Context, in models.InsertTweet) (models.Tweet, error) {
	query := `
		INSERT INTO tweets (twitter_id, author_username, content, engagement_score, relevance_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (twitter_id) DO UPDATE SET
			engagement_score = EXCLUDED.engagement_score,
			relevance_score = EXCLUDED.relevance_score
		RETURNING ` + tweetColumns

	var t models.Tweet
	err := scanTweet(s.db.QueryRowContext(ctx, query,
		in.TwitterID, in.AuthorUsername, in.Content, in.EngagementScore, in.RelevanceScore), &t)
	if err != nil {
		return models.Tweet{}, err
	}
	return t, nil
}

// HighEngagementTweets returns tweets strictly above the engagement
// threshold, best matches first.
func (s *Store) HighEngagementTweets(ctx context.Context) ([]models.Tweet, error) {
	query := `
		SELECT ` + tweetColumns + ` FROM tweets
		WHERE engagement_score > $1
		ORDER BY relevance_score DESC, engagement_score DESC`

	rows, err := s.db.QueryContext(ctx, query, HighEngagementThreshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tweets []models.Tweet
	for rows.Next() {
		var t models.Tweet
		if err := scanTweet(rows, &t); err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, rows.Err()
}

const leadColumns = "id, username, twitter_profile_url, status, replies_count, ctr, conversions, last_contacted_at, created_at"

func scanLead(row interface{ Scan(...any) error }, l *models.Lead) error {
	return row.Scan(&l.ID, &l.Username, &l.TwitterProfileURL, &l.Status, &l.RepliesCount, &l.CTR, &l.Conversions, &l.LastContactedAt, &l.CreatedAt)
}

// ListLeads returns all leads, newest first.
func (s *Store) ListLeads(ctx context.Context) ([]models.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []models.Lead
	for rows.Next() {
		var l models.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *Store) CreateLead(ctx context.Context, in models.InsertLead) (models.Lead, error) {
	if in.Status == "" {
		in.Status = models.LeadStatusNew
	}

	query := `
		INSERT INTO leads (username, twitter_profile_url, status, replies_count, ctr, conversions, last_contacted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + leadColumns

	var l models.Lead
	err := scanLead(s.db.QueryRowContext(ctx, query,
		in.Username, in.TwitterProfileURL, in.Status, in.RepliesCount, in.CTR, in.Conversions, in.LastContactedAt), &l)
	if err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

// UpdateLead applies the non-nil fields of upd to the lead with the given id.
// It returns ErrNotFound when the id does not exist.
func (s *Store) UpdateLead(ctx context.Context, id int, upd models.UpdateLead) (models.Lead, error) {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Username != nil {
		add("username", *upd.Username)
	}
	if upd.TwitterProfileURL != nil {
		add("twitter_profile_url", *upd.TwitterProfileURL)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.RepliesCount != nil {
		add("replies_count", *upd.RepliesCount)
	}
	if upd.CTR != nil {
		add("ctr", *upd.CTR)
	}
	if upd.Conversions != nil {
		add("conversions", *upd.Conversions)
	}
	if upd.LastContactedAt != nil {
		add("last_contacted_at", *upd.LastContactedAt)
	}

	var l models.Lead
	if len(set) == 0 {
		// Nothing to change; still verify the lead exists.
		query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`
		err := scanLead(s.db.QueryRowContext(ctx, query, id), &l)
		if err == sql.ErrNoRows {
			return models.Lead{}, ErrNotFound
		}
		if err != nil {
			return models.Lead{}, err
		}
		return l, nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE leads SET %s WHERE id = $%d RETURNING `+leadColumns,
		strings.Join(set, ", "), len(args))

	err := scanLead(s.db.QueryRowContext(ctx, query, args...), &l)
	if err == sql.ErrNoRows {
		return models.Lead{}, ErrNotFound
	}
	if err != nil {
		return models.Lead{}, err
	}
	return l, nil
}

const contentColumns = "id, topic, niche, content, is_used, created_at"

// ListContent returns all generated content, newest first.
func (s *Store) ListContent(ctx context.Context) ([]models.GeneratedContent, error) {
	query := `SELECT ` + contentColumns + ` FROM generated_content ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GeneratedContent
	for rows.Next() {
		var c models.GeneratedContent
		if err := rows.Scan(&c.ID, &c.Topic, &c.Niche, &c.Content, &c.IsUsed, &c.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (s *Store) CreateContent(ctx context.Context, in models.InsertGeneratedContent) (models.GeneratedContent, error) {
	query := `
		INSERT INTO generated_content (topic, niche, content)
		VALUES ($1, $2, $3)
		RETURNING ` + contentColumns

	var c models.GeneratedContent
	err := s.db.QueryRowContext(ctx, query, in.Topic, in.Niche, in.Content).
		Scan(&c.ID, &c.Topic, &c.Niche, &c.Content, &c.IsUsed, &c.CreatedAt)
	if err != nil {
		return models.GeneratedContent{}, err
	}
	return c, nil
}

// DashboardStats aggregates the leads table in one statement. All counters
// coalesce to zero on an empty table, including the CTR average.
func (s *Store) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'contacted'),
			COALESCE(SUM(replies_count), 0),
			COALESCE(SUM(conversions), 0),
			COALESCE(AVG(ctr), 0)
		FROM leads`

	var stats models.DashboardStats
	err := s.db.QueryRowContext(ctx, query).
		Scan(&stats.TotalLeads, &stats.Contacted, &stats.Replies, &stats.Conversions, &stats.CTRAverage)
	if err != nil {
		return models.DashboardStats{}, err
	}
	return stats, nil
}
