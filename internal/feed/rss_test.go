package feed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amroutes/archivecast/internal/crawl"
)

func testMeta() Meta {
	return Meta{
		Title:       "American Routes",
		Description: "Weekly two-hour program",
		Language:    "en-us",
		Copyright:   "American Routes",
		OwnerName:   "American Routes",
		OwnerEmail:  "radio@amroutes.org",
		Category:    "Music",
		ArtworkURL:  "https://www.amroutes.org/assets/artwork.jpg",
		SiteURL:     "https://www.amroutes.org",
		SelfURL:     "https://feeds.example.com/feed.xml",
	}
}

func twoTrackArchive() crawl.Archive {
	return crawl.Archive{{
		Label:   "2025",
		PageURL: "https://www.amroutes.org/2025",
		Months: []crawl.Month{{
			Label:   "JAN",
			PageURL: "https://www.amroutes.org/2025/jan",
			Episodes: []crawl.Episode{
				{
					PageURL: "https://www.amroutes.org/2025/jan/410",
					Title:   "Episode 410",
					Tracks: []crawl.Track{
						{URL: "https://cdn.example.com/410-1.mp3", Label: "Hour One"},
						{URL: "https://cdn.example.com/410-2.mp3", Label: "Hour Two"},
					},
					ThumbnailURL: "https://cdn.example.com/410.jpg",
				},
				{
					PageURL: "https://www.amroutes.org/2025/jan/409",
					Title:   "Silent Episode",
				},
			},
		}},
	}}
}

func TestBuildSplitsTracksIntoItems(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	rss := Build(twoTrackArchive(), testMeta(), now)

	// The zero-track episode is excluded; the two-track one yields two items.
	require.Equal(t, 2, rss.ItemCount())
	items := rss.Channel.Items

	require.Equal(t, "Episode 410 - Hour One", items[0].Title)
	require.Equal(t, "Episode 410 - Hour Two", items[1].Title)
	require.Equal(t, items[0].Link, items[1].Link)
	require.NotEqual(t, items[0].GUID.Value, items[1].GUID.Value)
	require.False(t, items[0].GUID.IsPermaLink)
	require.Equal(t, "https://www.amroutes.org/2025/jan/410#track-1", items[0].GUID.Value)
	require.Equal(t, "https://cdn.example.com/410-1.mp3", items[0].Enclosure.URL)
	require.Equal(t, "audio/mpeg", items[0].Enclosure.Type)
	require.Equal(t, "7200", items[0].Duration)
	require.Equal(t, "https://cdn.example.com/410.jpg", items[0].ItunesImage.Href)
}

func TestBuildThirdTrackKeepsHourTwoSuffix(t *testing.T) {
	t.Parallel()

	archive := twoTrackArchive()
	archive[0].Months[0].Episodes[0].Tracks = append(
		archive[0].Months[0].Episodes[0].Tracks,
		crawl.Track{URL: "https://cdn.example.com/410-3.mp3", Label: "Bonus Hour"},
	)

	rss := Build(archive, testMeta(), time.Now())
	items := rss.Channel.Items
	require.Len(t, items, 3)
	require.Equal(t, "Episode 410 - Hour Two", items[2].Title)
}

func TestBuildFallbackArtwork(t *testing.T) {
	t.Parallel()

	archive := twoTrackArchive()
	archive[0].Months[0].Episodes[0].ThumbnailURL = ""

	rss := Build(archive, testMeta(), time.Now())
	require.Equal(t, testMeta().ArtworkURL, rss.Channel.Items[0].ItunesImage.Href)
}

func TestBuildSharesOneTimestamp(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	rss := Build(twoTrackArchive(), testMeta(), now)

	stamp := now.Format(time.RFC1123Z)
	require.Equal(t, stamp, rss.Channel.LastBuildDate)
	for _, item := range rss.Channel.Items {
		require.Equal(t, stamp, item.PubDate)
	}
}

func TestEncodeEscapesReservedCharacters(t *testing.T) {
	t.Parallel()

	archive := crawl.Archive{{
		Label: "2025",
		Months: []crawl.Month{{
			Label: "JAN",
			Episodes: []crawl.Episode{{
				PageURL: "https://www.amroutes.org/2025/jan/1?a=1&b=2",
				Title:   `Blues & "Roots" <live> 'special'`,
				Tracks:  []crawl.Track{{URL: "https://cdn.example.com/1.mp3?x=1&y=2", Label: "Hour One"}},
			}},
		}},
	}}

	rss := Build(archive, testMeta(), time.Now())
	out, err := rss.Encode()
	require.NoError(t, err)

	body := string(out)
	require.True(t, strings.HasPrefix(body, xml.Header))
	require.NotContains(t, body, `Blues & "Roots" <live>`)
	require.Contains(t, body, "Blues &amp;")
	require.Contains(t, body, "&lt;live&gt;")
	require.Contains(t, body, "a=1&amp;b=2")
	require.Contains(t, body, "x=1&amp;y=2")
}

func TestEncodeEmptyArchiveIsWellFormed(t *testing.T) {
	t.Parallel()

	rss := Build(crawl.Archive{}, testMeta(), time.Now())
	require.Zero(t, rss.ItemCount())

	out, err := rss.Encode()
	require.NoError(t, err)

	body := string(out)
	require.Contains(t, body, `<rss version="2.0"`)
	require.Contains(t, body, "<channel>")
	require.Contains(t, body, "<itunes:owner>")
	require.Contains(t, body, `<itunes:category text="Music">`)
	require.NotContains(t, body, "<item>")
}

func TestBuildFlattensDepthFirst(t *testing.T) {
	t.Parallel()

	mkEpisode := func(url, title string) crawl.Episode {
		return crawl.Episode{
			PageURL: url,
			Title:   title,
			Tracks:  []crawl.Track{{URL: url + ".mp3", Label: "Hour One"}},
		}
	}
	archive := crawl.Archive{
		{
			Label: "2025",
			Months: []crawl.Month{
				{Label: "FEB", Episodes: []crawl.Episode{mkEpisode("u1", "feb-ep")}},
				{Label: "JAN", Episodes: []crawl.Episode{mkEpisode("u2", "jan-ep")}},
			},
		},
		{
			Label:  "2024",
			Months: []crawl.Month{{Label: "DEC", Episodes: []crawl.Episode{mkEpisode("u3", "dec-ep")}}},
		},
	}

	rss := Build(archive, testMeta(), time.Now())
	items := rss.Channel.Items
	require.Len(t, items, 3)
	require.Equal(t, "feb-ep - Hour One", items[0].Title)
	require.Equal(t, "jan-ep - Hour One", items[1].Title)
	require.Equal(t, "dec-ep - Hour One", items[2].Title)
}
