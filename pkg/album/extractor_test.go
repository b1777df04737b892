package album

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorylane/pkg/logger"
)

func newTestExtractor() *Extractor {
	return NewExtractor(logger.NewTestLogger())
}

func TestExtractFromImageTags(t *testing.T) {
	html := `<html><body>
		<img src="https://lh3.googleusercontent.com/abc=w200-h200-c-k-no" alt="Beach day">
		<img src="https://lh4.googleusercontent.com/def=w400" alt="">
		<img data-src="https://lh5.googleusercontent.com/ghi" alt="Sunset">
		<img src="https://example.com/unrelated.jpg" alt="Not ours">
	</body></html>`

	photos, err := newTestExtractor().Extract(html)
	require.NoError(t, err)
	require.Len(t, photos, 3)

	assert.Equal(t, 1, photos[0].ID)
	assert.Equal(t, "Beach day", photos[0].Title)
	assert.Equal(t, "https://lh3.googleusercontent.com/abc=w200-h200-c-k-no", photos[0].OriginalURL)
	assert.Equal(t, "https://lh3.googleusercontent.com/abc=w0-h0", photos[0].URL)

	// empty alt falls back to the default label
	assert.Equal(t, "Photo", photos[1].Title)

	// lazy-load attribute is honored
	assert.Equal(t, 3, photos[2].ID)
	assert.Equal(t, "Sunset", photos[2].Title)
	assert.Equal(t, "https://lh5.googleusercontent.com/ghi", photos[2].OriginalURL)
}

func TestExtractFromInlineScripts(t *testing.T) {
	html := `<html><body>
		<script>window.__state = {"items":["https://lh3.googleusercontent.com/pqr=w512-h512"]};</script>
		<script>console.log("no photos here");</script>
	</body></html>`

	photos, err := newTestExtractor().Extract(html)
	require.NoError(t, err)
	require.Len(t, photos, 1)

	assert.Equal(t, "Photo 1", photos[0].Title)
	assert.Equal(t, "https://lh3.googleusercontent.com/pqr=w0-h0", photos[0].URL)
}

func TestExtractDeduplicatesByOriginalURL(t *testing.T) {
	// the same URL appears once as an <img> and once inside a script block
	url := "https://lh3.googleusercontent.com/same=w100-h100"
	html := fmt.Sprintf(`<html><body>
		<img src="%s" alt="Once">
		<script>var data = ["%s"];</script>
	</body></html>`, url, url)

	photos, err := newTestExtractor().Extract(html)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, "Once", photos[0].Title)
}

func TestExtractAssignsSequentialIDs(t *testing.T) {
	html := `<html><body>
		<img src="https://lh3.googleusercontent.com/a" alt="one">
		<img src="https://lh3.googleusercontent.com/b" alt="two">
		<script>var x = "https://lh6.googleusercontent.com/c=s1600";</script>
	</body></html>`

	photos, err := newTestExtractor().Extract(html)
	require.NoError(t, err)
	require.Len(t, photos, 3)
	for i, p := range photos {
		assert.Equal(t, i+1, p.ID)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty string", ""},
		{"no images", "<html><body><p>nothing to see</p></body></html>"},
		{"unrelated images", `<html><body><img src="https://example.com/x.png"></body></html>`},
		{"malformed markup", "<html><body><div><img src="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			photos, err := newTestExtractor().Extract(tt.html)
			require.NoError(t, err)
			assert.Empty(t, photos)
		})
	}
}
