package album

import (
	"context"

	"memorylane/pkg/config"
	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/logger"
	"memorylane/pkg/models"
)

// Fetcher retrieves the raw album page HTML.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Result is the terminal outcome of one scrape request. A failed fetch and
// an empty extraction are both folded into Success=false with a message;
// neither is a fault.
type Result struct {
	Success bool
	Message string
	Photos  []models.Photo
}

// Scraper orchestrates fetching and extracting the album page.
type Scraper struct {
	fetcher   Fetcher
	extractor *Extractor
	albumURL  string
	logger    logger.Logger
}

// New creates a Scraper from the album configuration.
func New(cfg *config.AlbumConfig, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		fetcher:   NewClient(cfg.FetchTimeout, cfg.MaxRedirects, cfg.UserAgent, log),
		extractor: NewExtractor(log),
		albumURL:  cfg.URL,
		logger:    log,
	}
}

// NewWithFetcher creates a Scraper with a custom fetcher. Used by tests.
func NewWithFetcher(fetcher Fetcher, albumURL string, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Scraper{
		fetcher:   fetcher,
		extractor: NewExtractor(log),
		albumURL:  albumURL,
		logger:    log,
	}
}

// AlbumURL returns the configured album page URL.
func (s *Scraper) AlbumURL() string {
	return s.albumURL
}

// Scrape fetches the album page and extracts its photos. The returned error
// is non-nil only for unanticipated faults; fetch failures degrade to a
// Result with Success=false so the caller can render an empty state.
func (s *Scraper) Scrape(ctx context.Context) (*Result, error) {
	s.logger.InfoWithFields("scraping photo album", map[string]interface{}{
		"album_url": s.albumURL,
	})

	html, err := s.fetcher.Fetch(ctx, s.albumURL)
	if err != nil {
		if apperrors.IsBenign(err) {
			s.logger.WithError(err).Warn("album fetch failed, returning empty result")
			return &Result{
				Success: false,
				Message: "Error scraping photo album",
				Photos:  []models.Photo{},
			}, nil
		}
		return nil, err
	}

	photos, err := s.extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	if len(photos) == 0 {
		s.logger.Info("no photos found in album")
		return &Result{
			Success: false,
			Message: "No photos found in album",
			Photos:  []models.Photo{},
		}, nil
	}

	s.logger.InfoWithFields("album scrape succeeded", map[string]interface{}{
		"photos": len(photos),
	})

	return &Result{
		Success: true,
		Photos:  photos,
	}, nil
}
