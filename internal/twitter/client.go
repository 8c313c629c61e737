package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Candidate is one search result before scoring and persistence.
type Candidate struct {
	TwitterID      string
	AuthorUsername string
	Content        string
	Likes          int
	Retweets       int
	Replies        int
}

// EngagementScore is the sum of the candidate's reaction counters.
func (c Candidate) EngagementScore() int {
	return c.Likes + c.Retweets + c.Replies
}

// Searcher finds candidate tweets for an offer query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// HTTPClient is a bearer-token client for the X API v2 recent search
// endpoint. Outbound calls go through a rate limiter so bursts of monitor
// requests stay inside the API quota.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

func NewHTTPClient(bearerToken string) *HTTPClient {
	rps := getEnvFloat("TWITTER_SEARCH_RPS", 1)
	burst := getEnvInt("TWITTER_SEARCH_BURST", 2)
	return &HTTPClient{
		baseURL:     "https://api.twitter.com/2",
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		limiter:     rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (c *HTTPClient) Search(ctx context.Context, query string, limit int) ([]Candidate, error) {
	if query == "" {
		return nil, errors.New("empty query")
	}
	if limit <= 0 {
		limit = 10
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(clampResults(limit)))
	params.Set("tweet.fields", "public_metrics,author_id")
	params.Set("expansions", "author_id")
	u := fmt.Sprintf("%s/tweets/search/recent?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("twitter search status %d", resp.StatusCode)
	}

	var raw struct {
		Data []struct {
			ID            string `json:"id"`
			Text          string `json:"text"`
			AuthorID      string `json:"author_id"`
			PublicMetrics struct {
				RetweetCount int `json:"retweet_count"`
				ReplyCount   int `json:"reply_count"`
				LikeCount    int `json:"like_count"`
			} `json:"public_metrics"`
		} `json:"data"`
		Includes struct {
			Users []struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"users"`
		} `json:"includes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}

	usernames := make(map[string]string, len(raw.Includes.Users))
	for _, u := range raw.Includes.Users {
		usernames[u.ID] = u.Username
	}

	candidates := make([]Candidate, 0, len(raw.Data))
	for _, d := range raw.Data {
		if len(candidates) >= limit {
			break
		}
		candidates = append(candidates, Candidate{
			TwitterID:      d.ID,
			AuthorUsername: usernames[d.AuthorID],
			Content:        d.Text,
			Likes:          d.PublicMetrics.LikeCount,
			Retweets:       d.PublicMetrics.RetweetCount,
			Replies:        d.PublicMetrics.ReplyCount,
		})
	}
	return candidates, nil
}

// clampResults keeps max_results inside the API's accepted 10..100 range.
func clampResults(limit int) int {
	if limit < 10 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}
