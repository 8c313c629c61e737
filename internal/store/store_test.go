package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/tweetlead/backend/internal/models"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return New(db), mock, func() { _ = db.Close() }
}

var tweetCols = []string{"id", "twitter_id", "author_username", "content", "engagement_score", "relevance_score", "created_at"}

func TestUpsertTweet_InsertsAndReturnsRow(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`(?s)INSERT INTO tweets.*ON CONFLICT \(twitter_id\) DO UPDATE`).
		WithArgs("tw_1", "tech_guru", "great tool", 150, 95).
		WillReturnRows(sqlmock.NewRows(tweetCols).AddRow(1, "tw_1", "tech_guru", "great tool", 150, 95, now))

	got, err := s.UpsertTweet(context.Background(), models.InsertTweet{
		TwitterID:       "tw_1",
		AuthorUsername:  "tech_guru",
		Content:         "great tool",
		EngagementScore: 150,
		RelevanceScore:  95,
	})
	if err != nil {
		t.Fatalf("UpsertTweet: %v", err)
	}
	if got.ID != 1 || got.TwitterID != "tw_1" || got.EngagementScore != 150 {
		t.Fatalf("unexpected tweet %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestUpsertTweet_ConflictUpdatesScores(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	// Same twitter_id twice: the database keeps one row and the second
	// call returns it with refreshed scores.
	mock.ExpectQuery(`INSERT INTO tweets`).
		WithArgs("tw_1", "tech_guru", "great tool", 150, 95).
		WillReturnRows(sqlmock.NewRows(tweetCols).AddRow(7, "tw_1", "tech_guru", "great tool", 150, 95, now))
	mock.ExpectQuery(`INSERT INTO tweets`).
		WithArgs("tw_1", "tech_guru", "great tool", 200, 40).
		WillReturnRows(sqlmock.NewRows(tweetCols).AddRow(7, "tw_1", "tech_guru", "great tool", 200, 40, now))

	first, err := s.UpsertTweet(context.Background(), models.InsertTweet{
		TwitterID: "tw_1", AuthorUsername: "tech_guru", Content: "great tool",
		EngagementScore: 150, RelevanceScore: 95,
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := s.UpsertTweet(context.Background(), models.InsertTweet{
		TwitterID: "tw_1", AuthorUsername: "tech_guru", Content: "great tool",
		EngagementScore: 200, RelevanceScore: 40,
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same row id, got %d and %d", first.ID, second.ID)
	}
	if second.EngagementScore != 200 || second.RelevanceScore != 40 {
		t.Fatalf("expected refreshed scores, got %+v", second)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestHighEngagementTweets_UsesThresholdAndOrder(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`WHERE engagement_score > \$1\s+ORDER BY relevance_score DESC, engagement_score DESC`).
		WithArgs(HighEngagementThreshold).
		WillReturnRows(sqlmock.NewRows(tweetCols).
			AddRow(1, "a", "u1", "t1", 300, 90, now).
			AddRow(2, "b", "u2", "t2", 100, 90, now))

	got, err := s.HighEngagementTweets(context.Background())
	if err != nil {
		t.Fatalf("HighEngagementTweets: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tweets, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestListTweets_NewestFirstQuery(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery(`FROM tweets ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(tweetCols))

	got, err := s.ListTweets(context.Background())
	if err != nil {
		t.Fatalf("ListTweets: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no tweets, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

var leadCols = []string{"id", "username", "twitter_profile_url", "status", "replies_count", "ctr", "conversions", "last_contacted_at", "created_at"}

func TestCreateLead_DefaultsStatusToNew(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO leads`).
		WithArgs("alice", nil, "new", 0, 0, 0, nil).
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(1, "alice", nil, "new", 0, 0, 0, nil, now))

	got, err := s.CreateLead(context.Background(), models.InsertLead{Username: "alice"})
	if err != nil {
		t.Fatalf("CreateLead: %v", err)
	}
	if got.Status != models.LeadStatusNew {
		t.Fatalf("expected status new, got %q", got.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestUpdateLead_NotFound(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	status := models.LeadStatusConverted
	mock.ExpectQuery(`UPDATE leads SET status = \$1 WHERE id = \$2`).
		WithArgs(status, 99).
		WillReturnError(sql.ErrNoRows)

	_, err := s.UpdateLead(context.Background(), 99, models.UpdateLead{Status: &status})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestUpdateLead_PartialStatusOnly(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	status := models.LeadStatusConverted
	mock.ExpectQuery(`UPDATE leads SET status = \$1 WHERE id = \$2 RETURNING`).
		WithArgs(status, 3).
		WillReturnRows(sqlmock.NewRows(leadCols).AddRow(3, "alice", nil, "converted", 2, 5, 1, nil, now))

	got, err := s.UpdateLead(context.Background(), 3, models.UpdateLead{Status: &status})
	if err != nil {
		t.Fatalf("UpdateLead: %v", err)
	}
	if got.Status != "converted" || got.RepliesCount != 2 {
		t.Fatalf("unexpected lead %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestUpdateLead_NoFieldsStillChecksExistence(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery(`FROM leads WHERE id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := s.UpdateLead(context.Background(), 42, models.UpdateLead{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDashboardStats_EmptyStoreAllZero(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery(`SELECT\s+COUNT\(\*\),`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "contacted", "replies", "conversions", "avg"}).
			AddRow(0, 0, 0, 0, 0.0))

	got, err := s.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if got.TotalLeads != 0 || got.Contacted != 0 || got.Replies != 0 || got.Conversions != 0 || got.CTRAverage != 0 {
		t.Fatalf("expected all-zero stats, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func TestDashboardStats_Populated(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery(`FROM leads`).
		WillReturnRows(sqlmock.NewRows([]string{"count", "contacted", "replies", "conversions", "avg"}).
			AddRow(4, 2, 7, 1, 2.5))

	got, err := s.DashboardStats(context.Background())
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if got.TotalLeads != 4 || got.Contacted != 2 || got.Replies != 7 || got.Conversions != 1 || got.CTRAverage != 2.5 {
		t.Fatalf("unexpected stats %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

var contentCols = []string{"id", "topic", "niche", "content", "is_used", "created_at"}

func TestCreateContent_ReturnsRow(t *testing.T) {
	s, mock, closeDB := newMock(t)
	defer closeDB()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO generated_content`).
		WithArgs("ai", "saas", "draft text").
		WillReturnRows(sqlmock.NewRows(contentCols).AddRow(1, "ai", "saas", "draft text", false, now))

	got, err := s.CreateContent(context.Background(), models.InsertGeneratedContent{
		Topic: "ai", Niche: "saas", Content: "draft text",
	})
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if got.ID != 1 || got.IsUsed {
		t.Fatalf("unexpected content %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}
