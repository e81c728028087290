package browse

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amroutes/archivecast/internal/crawl"
)

func testArchive() crawl.Archive {
	return crawl.Archive{{
		Label:   "2025",
		PageURL: "https://www.amroutes.org/2025",
		Months: []crawl.Month{{
			Label:   "JAN",
			PageURL: "https://www.amroutes.org/2025/jan",
			Episodes: []crawl.Episode{
				{
					PageURL:      "https://www.amroutes.org/2025/jan/410",
					Title:        "Episode 410",
					Tracks:       []crawl.Track{{URL: "https://cdn.example.com/410-1.mp3", Label: "Hour One"}},
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

func TestRenderNestedHierarchy(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, testArchive(), "American Routes", time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	body := buf.String()
	require.Contains(t, body, "<h2><a href=\"https://www.amroutes.org/2025\">2025</a></h2>")
	require.Contains(t, body, ">JAN</a>")
	require.Contains(t, body, "Episode 410")
	require.Contains(t, body, "https://cdn.example.com/410-1.mp3")
	require.Contains(t, body, "https://cdn.example.com/410.jpg")
}

func TestRenderOmitsZeroTrackEpisodes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, testArchive(), "American Routes", time.Now())
	require.NoError(t, err)
	require.NotContains(t, buf.String(), "Silent Episode")
}

func TestRenderEscapesMarkup(t *testing.T) {
	t.Parallel()

	archive := crawl.Archive{{
		Label: "2025 <scripted>",
		Months: []crawl.Month{{
			Label: "JAN",
			Episodes: []crawl.Episode{{
				PageURL: "https://www.amroutes.org/2025/jan/1",
				Title:   `Blues & "Roots"`,
				Tracks:  []crawl.Track{{URL: "https://cdn.example.com/1.mp3", Label: "Hour One"}},
			}},
		}},
	}}

	var buf bytes.Buffer
	err := Render(&buf, archive, "American Routes", time.Now())
	require.NoError(t, err)

	body := buf.String()
	require.NotContains(t, body, "2025 <scripted>")
	require.Contains(t, body, "2025 &lt;scripted&gt;")
	require.Contains(t, body, "Blues &amp;")
}

func TestRenderEmptyArchive(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := Render(&buf, crawl.Archive{}, "American Routes", time.Now())
	require.NoError(t, err)
	require.True(t, strings.Contains(buf.String(), "<h1>American Routes</h1>"))
}
