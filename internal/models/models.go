package models

import "time"

// Lead statuses. Any status may transition to any other.
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusReplied   = "replied"
	LeadStatusConverted = "converted"
)

// ValidLeadStatus reports whether s is one of the four lead statuses.
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusReplied, LeadStatusConverted:
		return true
	}
	return false
}

type Tweet struct {
	ID              int       `json:"id"`
	TwitterID       string    `json:"twitterId"`
	AuthorUsername  string    `json:"authorUsername"`
	Content         string    `json:"content"`
	EngagementScore int       `json:"engagementScore"`
	RelevanceScore  int       `json:"relevanceScore"`
	CreatedAt       time.Time `json:"createdAt"`
}

// InsertTweet is the writable subset of Tweet; id and created_at are
// assigned by the database.
type InsertTweet struct {
	TwitterID       string `json:"twitterId"`
	AuthorUsername  string `json:"authorUsername"`
	Content         string `json:"content"`
	EngagementScore int    `json:"engagementScore"`
	RelevanceScore  int    `json:"relevanceScore"`
}

type Lead struct {
	ID                int     `json:"id"`
	Username          string  `json:"username"`
	TwitterProfileURL *string `json:"twitterProfileUrl,omitempty"`
	Status            string  `json:"status"`
	RepliesCount      int     `json:"repliesCount"`
	// CTR is a raw click count, not a percentage.
	CTR             int        `json:"ctr"`
	Conversions     int        `json:"conversions"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type InsertLead struct {
	Username          string     `json:"username"`
	TwitterProfileURL *string    `json:"twitterProfileUrl,omitempty"`
	Status            string     `json:"status,omitempty"`
	RepliesCount      int        `json:"repliesCount"`
	CTR               int        `json:"ctr"`
	Conversions       int        `json:"conversions"`
	LastContactedAt   *time.Time `json:"lastContactedAt,omitempty"`
}

// UpdateLead carries a partial lead update; nil fields are left untouched.
type UpdateLead struct {
	Username          *string    `json:"username,omitempty"`
	TwitterProfileURL *string    `json:"twitterProfileUrl,omitempty"`
	Status            *string    `json:"status,omitempty"`
	RepliesCount      *int       `json:"repliesCount,omitempty"`
	CTR               *int       `json:"ctr,omitempty"`
	Conversions       *int       `json:"conversions,omitempty"`
	LastContactedAt   *time.Time `json:"lastContactedAt,omitempty"`
}

type GeneratedContent struct {
	ID        int       `json:"id"`
	Topic     string    `json:"topic"`
	Niche     string    `json:"niche"`
	Content   string    `json:"content"`
	IsUsed    bool      `json:"isUsed"`
	CreatedAt time.Time `json:"createdAt"`
}

type InsertGeneratedContent struct {
	Topic   string `json:"topic"`
	Niche   string `json:"niche"`
	Content string `json:"content"`
}

// DashboardStats is recomputed from the leads table on every request.
type DashboardStats struct {
	TotalLeads  int     `json:"totalLeads"`
	Contacted   int     `json:"contacted"`
	Replies     int     `json:"replies"`
	Conversions int     `json:"conversions"`
	CTRAverage  float64 `json:"ctrAverage"`
}
