package crawl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/amroutes/archivecast/internal/fetch"
	"github.com/amroutes/archivecast/internal/markup"
	"github.com/amroutes/archivecast/internal/metrics"
)

const (
	archiveLinkSelector = `[data-folder="/archive"] a`
	readMoreText        = "Read More"
	backLinkText        = "Back"
)

// monthRank maps each month token to its reverse-calendar position.
var monthRank = map[string]int{
	"DEC": 0, "NOV": 1, "OCT": 2, "SEP": 3, "AUG": 4, "JUL": 5,
	"JUN": 6, "MAY": 7, "APR": 8, "MAR": 9, "FEB": 10, "JAN": 11,
}

// Config controls crawl behavior.
type Config struct {
	Origin      string
	CutoffYear  int
	Concurrency int
}

// Crawler walks the archive hierarchy and assembles the Archive aggregate.
type Crawler struct {
	fetcher fetch.Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Crawler.
func New(fetcher fetch.Fetcher, cfg Config, logger *zap.Logger) *Crawler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
	}
}

type pageLink struct {
	label string
	url   string
}

// Run crawls the whole archive: root page, then years, months, and
// episodes. Failures below the root collapse to empty values at the
// failing layer; a root fetch failure returns an empty Archive and an
// error the caller is expected to render as an empty result.
func (c *Crawler) Run(ctx context.Context) (Archive, error) {
	start := time.Now()
	defer func() {
		metrics.ObserveCrawl(time.Since(start))
	}()

	doc, ok := c.fetchDocument(ctx, "root", c.cfg.Origin)
	if !ok {
		return Archive{}, fmt.Errorf("fetch archive root %s", c.cfg.Origin)
	}

	links := c.yearLinks(doc)
	archive := c.crawlYears(ctx, links)

	sort.SliceStable(archive, func(i, j int) bool {
		return firstYearToken(archive[i].Label) > firstYearToken(archive[j].Label)
	})

	c.logger.Info("archive crawl finished",
		zap.Int("years", len(archive)),
		zap.Duration("duration", time.Since(start)),
	)
	return archive, nil
}

// yearLinks enumerates anchors inside the archive folder container,
// dropping navigation noise and any link mentioning a pre-cutoff year.
func (c *Crawler) yearLinks(doc *markup.Document) []pageLink {
	var links []pageLink
	for _, anchor := range doc.Query(archiveLinkSelector) {
		text := strings.TrimSpace(anchor.Text())
		if text == backLinkText {
			continue
		}
		if containsYearBefore(text, c.cfg.CutoffYear) {
			continue
		}
		href, ok := anchor.Attr("href")
		if !ok {
			continue
		}
		links = append(links, pageLink{label: text, url: resolveURL(c.cfg.Origin, href)})
	}
	return links
}

func (c *Crawler) crawlYears(ctx context.Context, links []pageLink) Archive {
	years := make(Archive, len(links))
	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for i, link := range links {
		i, link := i, link
		g.Go(func() error {
			years[i] = c.crawlYear(ctx, link)
			return nil
		})
	}
	_ = g.Wait()
	return years
}

// crawlYear discovers month links on one year page. Months come back in
// fixed reverse-calendar order regardless of markup order.
func (c *Crawler) crawlYear(ctx context.Context, link pageLink) Year {
	year := Year{Label: link.label, PageURL: link.url}
	doc, ok := c.fetchDocument(ctx, "year", link.url)
	if !ok {
		return year
	}

	var monthLinks []pageLink
	for _, anchor := range doc.Query("a") {
		token := strings.TrimSpace(anchor.Text())
		if _, known := monthRank[token]; !known {
			continue
		}
		href, ok := anchor.Attr("href")
		if !ok {
			continue
		}
		monthLinks = append(monthLinks, pageLink{label: token, url: resolveURL(c.cfg.Origin, href)})
	}

	months := make([]Month, len(monthLinks))
	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for i, ml := range monthLinks {
		i, ml := i, ml
		g.Go(func() error {
			months[i] = c.crawlMonth(ctx, ml)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(months, func(i, j int) bool {
		return monthRank[months[i].Label] < monthRank[months[j].Label]
	})
	year.Months = months
	return year
}

// crawlMonth discovers "Read More" episode links on one month page and
// extracts each episode. Episodes sort descending by the numeric suffix
// of their page URL; pages without one sort last.
func (c *Crawler) crawlMonth(ctx context.Context, link pageLink) Month {
	month := Month{Label: link.label, PageURL: link.url}
	doc, ok := c.fetchDocument(ctx, "month", link.url)
	if !ok {
		return month
	}

	var episodeLinks []pageLink
	for _, anchor := range doc.Query("a") {
		text := strings.TrimSpace(anchor.Text())
		if text != readMoreText {
			continue
		}
		href, ok := anchor.Attr("href")
		if !ok {
			continue
		}
		episodeLinks = append(episodeLinks, pageLink{label: text, url: resolveURL(c.cfg.Origin, href)})
	}

	episodes := make([]Episode, len(episodeLinks))
	var g errgroup.Group
	g.SetLimit(c.cfg.Concurrency)
	for i, el := range episodeLinks {
		i, el := i, el
		g.Go(func() error {
			episodes[i] = c.crawlEpisode(ctx, el)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodeNumber(episodes[i].PageURL) > episodeNumber(episodes[j].PageURL)
	})
	month.Episodes = episodes
	return month
}

func (c *Crawler) crawlEpisode(ctx context.Context, link pageLink) Episode {
	doc, ok := c.fetchDocument(ctx, "episode", link.url)
	if !ok {
		return Episode{PageURL: link.url, LinkText: link.label}
	}
	return extractEpisode(doc, link.url, link.label)
}

// fetchDocument retrieves and parses one page. Fetch and parse failures
// are logged and reported as a missing document, never escalated.
func (c *Crawler) fetchDocument(ctx context.Context, layer, url string) (*markup.Document, bool) {
	page, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		c.logger.Warn("page fetch failed",
			zap.String("layer", layer),
			zap.String("url", url),
			zap.Error(err),
		)
		metrics.ObserveFetch(layer, "error", 0, page.Duration)
		return nil, false
	}

	doc, err := markup.Parse(string(page.Body))
	if err != nil {
		c.logger.Warn("page parse failed",
			zap.String("layer", layer),
			zap.String("url", url),
			zap.Error(err),
		)
		metrics.ObserveFetch(layer, "parse_error", len(page.Body), page.Duration)
		return nil, false
	}

	metrics.ObserveFetch(layer, "ok", len(page.Body), page.Duration)
	return doc, true
}
