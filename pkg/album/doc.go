// Package album provides the photo album scraping pipeline.
//
// The pipeline has three stages:
//
//   - Client fetches the public album page over HTTP with a desktop-browser
//     header set. The page serves different markup to obvious bots, so the
//     headers matter. Redirect following is bounded; when it fails, the
//     fetch is retried once without following redirects, because a usable
//     resource URL is sometimes embedded in the raw redirect response.
//   - Extractor parses the returned HTML and collects image URLs from both
//     <img> elements and inline script state, normalizing each to its
//     maximum-quality rendition and deduplicating by the URL as found.
//   - Scraper ties the two together and folds every benign failure into an
//     empty result, so the caller can always render a graceful empty state.
//
// Extraction is a pure function of the HTML input and is unit tested as
// such; fetching is exercised against httptest servers.
package album
