package crawl

import (
	"strings"

	"github.com/amroutes/archivecast/internal/markup"
)

const (
	audioEmbedSelector = ".sqs-audio-embed"
	thumbnailSelector  = "img.thumb-image"
	audioSuffix        = ".mp3"
	labelSubstring     = "hour"
)

// extractEpisode pulls the title, qualifying audio tracks, and optional
// thumbnail out of one episode page. Missing elements yield empty values.
func extractEpisode(doc *markup.Document, pageURL, linkText string) Episode {
	episode := Episode{
		PageURL:  pageURL,
		LinkText: linkText,
	}
	if doc == nil {
		return episode
	}

	if h1, ok := doc.First("h1"); ok {
		episode.Title = strings.TrimSpace(h1.Text())
	}

	for _, embed := range doc.Query(audioEmbedSelector) {
		url, ok := embed.Attr("data-url")
		if !ok {
			continue
		}
		label, ok := embed.Attr("data-title")
		if !ok {
			continue
		}
		if !qualifies(url, label) {
			continue
		}
		episode.Tracks = append(episode.Tracks, Track{URL: url, Label: label})
	}

	if img, ok := doc.First(thumbnailSelector); ok {
		// data-src is not guaranteed present even when the element matches.
		if src, ok := img.Attr("data-src"); ok {
			episode.ThumbnailURL = src
		}
	}

	return episode
}

// qualifies applies the track filter: a case-sensitive ".mp3" URL suffix
// and a case-insensitive "hour" substring in the label.
func qualifies(url, label string) bool {
	return strings.HasSuffix(url, audioSuffix) &&
		strings.Contains(strings.ToLower(label), labelSubstring)
}
