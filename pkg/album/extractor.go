package album

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/logger"
	"memorylane/pkg/models"
)

// imageSelectors are the attribute/host patterns that locate album images.
// The generic googleusercontent patterns subsume the lhN variants, but all
// are checked so a host-specific lazy-load attribute is never missed.
var imageSelectors = []string{
	`img[src*="googleusercontent.com"]`,
	`img[data-src*="googleusercontent.com"]`,
	`img[src*="lh3.googleusercontent.com"]`,
	`img[data-src*="lh3.googleusercontent.com"]`,
	`img[src*="lh4.googleusercontent.com"]`,
	`img[data-src*="lh4.googleusercontent.com"]`,
	`img[src*="lh5.googleusercontent.com"]`,
	`img[data-src*="lh5.googleusercontent.com"]`,
	`img[src*="lh6.googleusercontent.com"]`,
	`img[data-src*="lh6.googleusercontent.com"]`,
}

// scriptURLPattern matches CDN image URLs embedded in inline script state.
var scriptURLPattern = regexp.MustCompile(`https://[^"'\s\\]+googleusercontent\.com[^"'\s\\]+`)

// Extractor turns album page HTML into an ordered photo list.
type Extractor struct {
	logger logger.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{logger: log}
}

// Extract parses html and returns the photos it references, deduplicated by
// the URL as found and numbered in discovery order. An empty slice is a
// valid result meaning the page referenced no photos.
func (e *Extractor) Extract(html string) ([]models.Photo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeParsing, fmt.Sprintf("failed to parse album page: %v", err))
	}

	photos := []models.Photo{}
	seen := make(map[string]bool)

	add := func(rawURL, title, description string) {
		if rawURL == "" || seen[rawURL] {
			return
		}
		seen[rawURL] = true
		photos = append(photos, models.Photo{
			ID:          len(photos) + 1,
			Title:       title,
			URL:         NormalizeQuality(rawURL),
			OriginalURL: rawURL,
			Date:        "From your album",
			Size:        "High Quality",
			Description: description,
		})
	}

	for _, selector := range imageSelectors {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src = s.AttrOr("data-src", "")
			}
			alt := s.AttrOr("alt", "")
			if alt == "" {
				alt = "Photo"
			}
			add(src, alt, fmt.Sprintf("Photo from your album - %s", alt))
		})
	}

	// URLs for the full-size renditions usually live in client-side state
	// rather than <img> tags, so every inline script is scanned as well.
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		text := s.Text()
		if !strings.Contains(text, "googleusercontent.com") {
			return
		}
		for _, u := range scriptURLPattern.FindAllString(text, -1) {
			add(u, fmt.Sprintf("Photo %d", len(photos)+1), "Photo from your album")
		}
	})

	e.logger.DebugWithFields("extraction finished", map[string]interface{}{
		"photos": len(photos),
	})

	return photos, nil
}
