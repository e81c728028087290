// Package browse renders the crawled archive as a nested HTML page for
// manual inspection. It consumes the same aggregate as the feed
// renderer, with the same ordering and the same zero-track exclusion.
package browse

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/amroutes/archivecast/internal/crawl"
)

var pageTemplate = template.Must(template.New("archive").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
ul { list-style: none; }
img.thumb { max-height: 80px; vertical-align: middle; margin-right: 0.5rem; }
.generated { color: #666; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="generated">Generated {{.GeneratedAt}}</p>
<ul>
{{range .Years}}<li><h2><a href="{{.PageURL}}">{{.Label}}</a></h2>
<ul>
{{range .Months}}<li><h3><a href="{{.PageURL}}">{{.Label}}</a></h3>
<ul>
{{range .Episodes}}<li>
{{if .ThumbnailURL}}<img class="thumb" src="{{.ThumbnailURL}}" alt="">{{end}}
<a href="{{.PageURL}}">{{.Title}}</a>
<ul>
{{range .Tracks}}<li><a href="{{.URL}}">{{.Label}}</a></li>
{{end}}</ul>
</li>
{{end}}</ul>
</li>
{{end}}</ul>
</li>
{{end}}</ul>
</body>
</html>
`))

type pageData struct {
	Title       string
	GeneratedAt string
	Years       crawl.Archive
}

// Render writes the archive page. Episodes with zero qualifying tracks
// are omitted, matching the feed's exclusion rule.
func Render(w io.Writer, archive crawl.Archive, title string, now time.Time) error {
	data := pageData{
		Title:       title,
		GeneratedAt: now.Format(time.RFC1123Z),
		Years:       withPublishableEpisodes(archive),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render archive page: %w", err)
	}
	return nil
}

func withPublishableEpisodes(archive crawl.Archive) crawl.Archive {
	years := make(crawl.Archive, 0, len(archive))
	for _, year := range archive {
		months := make([]crawl.Month, 0, len(year.Months))
		for _, month := range year.Months {
			episodes := make([]crawl.Episode, 0, len(month.Episodes))
			for _, episode := range month.Episodes {
				if episode.HasTracks() {
					episodes = append(episodes, episode)
				}
			}
			month.Episodes = episodes
			months = append(months, month)
		}
		year.Months = months
		years = append(years, year)
	}
	return years
}
