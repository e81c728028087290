package crawl

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	yearTokenPattern     = regexp.MustCompile(`\b\d{4}\b`)
	episodeNumberPattern = regexp.MustCompile(`/(\d+)$`)
)

// resolveURL makes an href absolute against the fixed origin. Hrefs that
// already carry a scheme pass through untouched.
func resolveURL(origin, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return origin + href
	}
	return origin + "/" + href
}

// firstYearToken returns the first 4-digit token in the text, or 0.
func firstYearToken(text string) int {
	match := yearTokenPattern.FindString(text)
	if match == "" {
		return 0
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return year
}

// containsYearBefore reports whether any 4-digit token in the text parses
// to a year strictly before cutoff. A date-range label like
// "2019-2024 Retrospective" is rejected on its earliest token.
func containsYearBefore(text string, cutoff int) bool {
	for _, match := range yearTokenPattern.FindAllString(text, -1) {
		year, err := strconv.Atoi(match)
		if err != nil {
			continue
		}
		if year < cutoff {
			return true
		}
	}
	return false
}

// episodeNumber extracts the trailing numeric path segment of an episode
// page URL, used as the sort key. Missing suffix sorts as 0.
func episodeNumber(pageURL string) int {
	match := episodeNumberPattern.FindStringSubmatch(pageURL)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}
