// Package feed serializes the crawled archive as an RSS 2.0 document
// with iTunes podcast extensions.
package feed

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/amroutes/archivecast/internal/crawl"
)

const (
	itunesNamespace = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	atomNamespace   = "http://www.w3.org/2005/Atom"
	enclosureType   = "audio/mpeg"

	// Tracks are published with a fixed two-hour duration; the origin
	// does not expose actual track lengths.
	trackDurationSeconds = 7200

	hourOneSuffix = " - Hour One"
	hourTwoSuffix = " - Hour Two"
)

// Meta carries the channel-level feed fields.
type Meta struct {
	Title       string
	Description string
	Language    string
	Copyright   string
	OwnerName   string
	OwnerEmail  string
	Category    string
	ArtworkURL  string
	SiteURL     string
	SelfURL     string
}

// RSS is the root feed document.
type RSS struct {
	XMLName  xml.Name `xml:"rss"`
	Version  string   `xml:"version,attr"`
	ItunesNS string   `xml:"xmlns:itunes,attr"`
	AtomNS   string   `xml:"xmlns:atom,attr"`
	Channel  *Channel `xml:"channel"`
}

// Channel holds the podcast metadata and items.
type Channel struct {
	Title         string       `xml:"title"`
	AtomLink      AtomLink     `xml:"atom:link"`
	Link          string       `xml:"link"`
	Description   string       `xml:"description"`
	Language      string       `xml:"language"`
	Copyright     string       `xml:"copyright"`
	LastBuildDate string       `xml:"lastBuildDate"`
	Author        string       `xml:"itunes:author"`
	Explicit      string       `xml:"itunes:explicit"`
	Owner         Owner        `xml:"itunes:owner"`
	Category      Category     `xml:"itunes:category"`
	ItunesImage   Image        `xml:"itunes:image"`
	ChannelImage  ChannelImage `xml:"image"`
	Items         []Item       `xml:"item"`
}

// AtomLink is the feed's self-referential link element.
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// Owner is the iTunes owner block.
type Owner struct {
	Name  string `xml:"itunes:name"`
	Email string `xml:"itunes:email"`
}

// Category is the iTunes category element.
type Category struct {
	Text string `xml:"text,attr"`
}

// Image is an iTunes artwork reference.
type Image struct {
	Href string `xml:"href,attr"`
}

// ChannelImage is the plain RSS channel image block.
type ChannelImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

// Item is one feed entry: one (episode, track) pair.
type Item struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	GUID        GUID      `xml:"guid"`
	Description string    `xml:"description"`
	PubDate     string    `xml:"pubDate"`
	Enclosure   Enclosure `xml:"enclosure"`
	Duration    string    `xml:"itunes:duration"`
	ItunesImage Image     `xml:"itunes:image"`
}

// GUID is a non-permalink item identifier.
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Enclosure points at the audio file.
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Build flattens the archive depth-first into a feed document. Episodes
// without qualifying tracks are excluded; a multi-track episode yields
// one item per track. The caller supplies the single wall-clock value
// used for the build date and every pubDate.
func Build(archive crawl.Archive, meta Meta, now time.Time) *RSS {
	stamp := now.Format(time.RFC1123Z)

	channel := &Channel{
		Title: meta.Title,
		AtomLink: AtomLink{
			Href: meta.SelfURL,
			Rel:  "self",
			Type: "application/rss+xml",
		},
		Link:          meta.SiteURL,
		Description:   meta.Description,
		Language:      meta.Language,
		Copyright:     meta.Copyright,
		LastBuildDate: stamp,
		Author:        meta.OwnerName,
		Explicit:      "false",
		Owner: Owner{
			Name:  meta.OwnerName,
			Email: meta.OwnerEmail,
		},
		Category:    Category{Text: meta.Category},
		ItunesImage: Image{Href: meta.ArtworkURL},
		ChannelImage: ChannelImage{
			URL:   meta.ArtworkURL,
			Title: meta.Title,
			Link:  meta.SiteURL,
		},
	}

	for _, year := range archive {
		for _, month := range year.Months {
			for _, episode := range month.Episodes {
				if !episode.HasTracks() {
					continue
				}
				channel.Items = append(channel.Items, episodeItems(episode, meta, stamp)...)
			}
		}
	}

	return &RSS{
		Version:  "2.0",
		ItunesNS: itunesNamespace,
		AtomNS:   atomNamespace,
		Channel:  channel,
	}
}

func episodeItems(episode crawl.Episode, meta Meta, stamp string) []Item {
	artwork := episode.ThumbnailURL
	if artwork == "" {
		artwork = meta.ArtworkURL
	}

	items := make([]Item, 0, len(episode.Tracks))
	for i, track := range episode.Tracks {
		suffix := hourTwoSuffix
		if i == 0 {
			suffix = hourOneSuffix
		}
		items = append(items, Item{
			Title: episode.Title + suffix,
			Link:  episode.PageURL,
			GUID: GUID{
				IsPermaLink: false,
				Value:       fmt.Sprintf("%s#track-%d", episode.PageURL, i+1),
			},
			Description: track.Label,
			PubDate:     stamp,
			Enclosure: Enclosure{
				URL:  track.URL,
				Type: enclosureType,
			},
			Duration:    fmt.Sprintf("%d", trackDurationSeconds),
			ItunesImage: Image{Href: artwork},
		})
	}
	return items
}

// Encode marshals the document with the XML declaration prepended.
// encoding/xml escapes the five reserved markup characters in every
// interpolated text value and attribute.
func (r *RSS) Encode() ([]byte, error) {
	body, err := xml.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal feed: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

// ItemCount reports how many items the document carries.
func (r *RSS) ItemCount() int {
	if r.Channel == nil {
		return 0
	}
	return len(r.Channel.Items)
}
