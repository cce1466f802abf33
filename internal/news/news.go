// Package news fetches recent headlines for a ticker from the Yahoo
// Finance RSS feed. Headlines are attached to research reports; a feed
// failure never fails a report.
package news

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/khanrehan/halalinvest/pkg/models"
	"github.com/khanrehan/halalinvest/pkg/utils"
)

const feedURLFormat = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// Fetcher pulls ticker headlines over RSS with a small TTL cache.
type Fetcher struct {
	feedURLFormat string
	parser        *gofeed.Parser

	mu      sync.Mutex
	cache   map[string]cached
	cacheTTL time.Duration
}

type cached struct {
	articles []models.NewsArticle
	at       time.Time
}

// NewFetcher creates a headline fetcher against Yahoo Finance.
func NewFetcher() *Fetcher {
	return &Fetcher{
		feedURLFormat: feedURLFormat,
		parser:        gofeed.NewParser(),
		cache:         make(map[string]cached),
		cacheTTL:      10 * time.Minute,
	}
}

// NewFetcherWithFormat creates a fetcher against a custom feed URL
// pattern containing one %s for the ticker. Used by tests.
func NewFetcherWithFormat(format string) *Fetcher {
	f := NewFetcher()
	f.feedURLFormat = format
	return f
}

// Headlines returns up to limit recent articles for the ticker, newest
// first.
func (f *Fetcher) Headlines(ctx context.Context, ticker string, limit int) ([]models.NewsArticle, error) {
	symbol := utils.NormalizeTicker(ticker)

	f.mu.Lock()
	if c, ok := f.cache[symbol]; ok && time.Since(c.at) < f.cacheTTL {
		f.mu.Unlock()
		return clip(c.articles, limit), nil
	}
	f.mu.Unlock()

	feed, err := f.parser.ParseURLWithContext(fmt.Sprintf(f.feedURLFormat, symbol), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch headlines %s: %w", symbol, err)
	}

	articles := make([]models.NewsArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		a := models.NewsArticle{
			Title:   strings.TrimSpace(item.Title),
			URL:     item.Link,
			Source:  feed.Title,
			Summary: stripHTML(item.Description),
		}
		if item.PublishedParsed != nil {
			a.PublishedAt = *item.PublishedParsed
		}
		articles = append(articles, a)
	}
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedAt.After(articles[j].PublishedAt)
	})

	f.mu.Lock()
	f.cache[symbol] = cached{articles: articles, at: time.Now()}
	f.mu.Unlock()

	return clip(articles, limit), nil
}

func clip(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// stripHTML flattens an HTML description to plain text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
