package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/tweetlead/backend/internal/ai"
	"github.com/tweetlead/backend/internal/models"
)

// ContentStore is the slice of the store the content pipeline needs.
type ContentStore interface {
	HighEngagementTweets(ctx context.Context) ([]models.Tweet, error)
	CreateContent(ctx context.Context, in models.InsertGeneratedContent) (models.GeneratedContent, error)
}

const (
	// DefaultDraftCount is used when the request omits count.
	DefaultDraftCount = 3
	// styleContextLimit caps how many stored tweets seed the prompt.
	styleContextLimit = 5
	// FallbackDraft is persisted when no usable drafts can be recovered
	// from the model output, so a generate call always yields at least
	// one row.
	FallbackDraft = "Error generating content. Please try again."
)

// ContentGenerator drafts tweet copy for a topic/niche, styled after the
// best-performing stored tweets.
type ContentGenerator struct {
	Gen   ai.Generator
	Store ContentStore
}

// Run generates count drafts and persists each as a generated_content row.
// Model failures and malformed output degrade to FallbackDraft rather than
// failing the request; only storage errors propagate.
func (g *ContentGenerator) Run(ctx context.Context, topic, niche string, count int) ([]models.GeneratedContent, error) {
	if count <= 0 {
		count = DefaultDraftCount
	}

	styleTweets, err := g.Store.HighEngagementTweets(ctx)
	if err != nil {
		return nil, fmt.Errorf("load style context: %w", err)
	}
	if len(styleTweets) > styleContextLimit {
		styleTweets = styleTweets[:styleContextLimit]
	}
	var styleLines []string
	for _, t := range styleTweets {
		styleLines = append(styleLines, "- "+t.Content)
	}

	prompt := fmt.Sprintf(`Generate %d engaging tweet ideas for the niche "%s" about the topic "%s".

Analyze these top-performing tweets for style and format patterns:
%s

Based on these patterns, generate new tweets.
Each tweet should be distinct, viral-worthy, and under 280 characters.
Return ONLY a raw JSON array of strings, e.g. ["Tweet 1", "Tweet 2"].`,
		count, niche, topic, strings.Join(styleLines, "\n"))

	var drafts []string
	raw, err := g.Gen.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[Content] completion failed, using fallback draft: %v", err)
	} else {
		drafts = decodeDrafts(raw)
		if drafts == nil {
			log.Printf("[Content] unusable model output, using fallback draft")
		}
	}
	if len(drafts) == 0 {
		drafts = []string{FallbackDraft}
	}

	saved := make([]models.GeneratedContent, 0, len(drafts))
	for _, text := range drafts {
		row, err := g.Store.CreateContent(ctx, models.InsertGeneratedContent{
			Topic:   topic,
			Niche:   niche,
			Content: text,
		})
		if err != nil {
			return nil, fmt.Errorf("save draft: %w", err)
		}
		saved = append(saved, row)
	}
	return saved, nil
}

// decodeDrafts recovers a list of draft strings from model output. Decode
// attempts run in a fixed order: a bare JSON array of strings, then an
// object with an array-of-strings field (preferring "tweets"), then the
// string-typed top-level values of an object. Returns nil when nothing
// usable is found.
func decodeDrafts(raw string) []string {
	raw = strings.TrimSpace(raw)
	// Models sometimes wrap JSON in a markdown fence.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var direct []string
	if err := json.Unmarshal([]byte(raw), &direct); err == nil {
		return nonEmpty(direct)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return nil
	}

	if field, ok := obj["tweets"]; ok {
		var list []string
		if err := json.Unmarshal(field, &list); err == nil {
			if out := nonEmpty(list); out != nil {
				return out
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var list []string
		if err := json.Unmarshal(obj[k], &list); err == nil {
			if out := nonEmpty(list); out != nil {
				return out
			}
		}
	}

	// Last resort: collect string-typed values of the object.
	var values []string
	for _, k := range keys {
		var s string
		if err := json.Unmarshal(obj[k], &s); err == nil {
			values = append(values, s)
		}
	}
	return nonEmpty(values)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
