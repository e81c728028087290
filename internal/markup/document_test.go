package markup

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<div data-folder="/archive">
  <a href="/2025">2025</a>
  <a href="/2024">2024</a>
</div>
<h1>  Episode Title  </h1>
<div class="sqs-audio-embed" data-url="a.mp3" data-title="Hour One"></div>
<img class="thumb-image" data-src="thumb.jpg">
<img class="thumb-image">
</body></html>`

func TestQueryReturnsDocumentOrder(t *testing.T) {
	t.Parallel()

	doc, err := Parse(fixture)
	require.NoError(t, err)

	anchors := doc.Query(`[data-folder="/archive"] a`)
	require.Len(t, anchors, 2)
	require.Equal(t, "2025", anchors[0].Text())
	require.Equal(t, "2024", anchors[1].Text())
}

func TestAttrReportsPresence(t *testing.T) {
	t.Parallel()

	doc, err := Parse(fixture)
	require.NoError(t, err)

	images := doc.Query("img.thumb-image")
	require.Len(t, images, 2)

	src, ok := images[0].Attr("data-src")
	require.True(t, ok)
	require.Equal(t, "thumb.jpg", src)

	_, ok = images[1].Attr("data-src")
	require.False(t, ok)
}

func TestFirst(t *testing.T) {
	t.Parallel()

	doc, err := Parse(fixture)
	require.NoError(t, err)

	h1, ok := doc.First("h1")
	require.True(t, ok)
	require.Equal(t, "  Episode Title  ", h1.Text())

	_, ok = doc.First("h2")
	require.False(t, ok)
}

func TestNestedQuery(t *testing.T) {
	t.Parallel()

	doc, err := Parse(fixture)
	require.NoError(t, err)

	container, ok := doc.First(`[data-folder="/archive"]`)
	require.True(t, ok)
	require.Len(t, container.Query("a"), 2)
}

func TestParseEmptyDocument(t *testing.T) {
	t.Parallel()

	doc, err := Parse("")
	require.NoError(t, err)
	require.Empty(t, doc.Query("a"))
}
