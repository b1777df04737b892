package archive

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"memorylane/pkg/logger"
	"memorylane/pkg/models"
)

// timestampLayouts are the display formats the chat export is known to use.
// Timestamps that match none of them still render fine; they just sort to
// the end and never match a year filter unless a year appears in the text.
var timestampLayouts = []string{
	"Monday, January 2, 2006 at 3:04:05 PM MST",
	"Monday, January 2, 2006 at 3:04:05 PM MST",
	"2006-01-02T15:04:05Z07:00",
	"January 2, 2006",
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Archive is the immutable in-memory chat message list, loaded once at
// startup from the exported JSON file.
type Archive struct {
	messages []models.ChatMessage
	parsed   []time.Time // zero value when the timestamp didn't parse
	years    []string
	logger   logger.Logger
}

// Query filters and pages the archive.
type Query struct {
	Text   string
	Sender string
	Year   string
	Sort   string // "newest" or "oldest"; empty keeps export order
	Limit  int
	Offset int
}

// Page is one slice of query results with the pre-paging total.
type Page struct {
	Messages []models.ChatMessage `json:"messages"`
	Total    int                  `json:"total"`
}

// Stats summarizes the archive for the stats panel.
type Stats struct {
	Total          int            `json:"total"`
	BySender       map[string]int `json:"bySender"`
	ByYear         map[string]int `json:"byYear"`
	FirstTimestamp string         `json:"firstTimestamp"`
	LastTimestamp  string         `json:"lastTimestamp"`
}

// Load reads the exported chat messages from path.
func Load(path string, log logger.Logger) (*Archive, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat archive: %w", err)
	}

	var messages []models.ChatMessage
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse chat archive: %w", err)
	}

	a := NewFromMessages(messages, log)
	log.InfoWithFields("chat archive loaded", map[string]interface{}{
		"path":     path,
		"messages": len(messages),
	})
	return a, nil
}

// NewFromMessages builds an Archive from an in-memory message list.
func NewFromMessages(messages []models.ChatMessage, log logger.Logger) *Archive {
	if log == nil {
		log = logger.GetLogger()
	}

	a := &Archive{
		messages: messages,
		parsed:   make([]time.Time, len(messages)),
		years:    make([]string, len(messages)),
		logger:   log,
	}
	for i, m := range messages {
		a.parsed[i] = parseTimestamp(m.Timestamp)
		a.years[i] = yearOf(m.Timestamp, a.parsed[i])
	}
	return a
}

// Len returns the number of archived messages.
func (a *Archive) Len() int {
	return len(a.messages)
}

// Search returns the messages matching q, in the requested order.
func (a *Archive) Search(q Query) Page {
	type indexed struct {
		msg models.ChatMessage
		at  time.Time
	}

	text := strings.ToLower(q.Text)
	var hits []indexed
	for i, m := range a.messages {
		if text != "" && !strings.Contains(strings.ToLower(m.Text), text) {
			continue
		}
		if q.Sender != "" && !strings.EqualFold(m.Sender, q.Sender) {
			continue
		}
		if q.Year != "" && a.years[i] != q.Year {
			continue
		}
		hits = append(hits, indexed{msg: m, at: a.parsed[i]})
	}

	switch q.Sort {
	case "newest":
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].at.After(hits[j].at) })
	case "oldest":
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].at.Before(hits[j].at) })
	}

	total := len(hits)

	offset := q.Offset
	if offset > total {
		offset = total
	}
	end := total
	if q.Limit > 0 && offset+q.Limit < end {
		end = offset + q.Limit
	}

	page := make([]models.ChatMessage, 0, end-offset)
	for _, h := range hits[offset:end] {
		page = append(page, h.msg)
	}
	return Page{Messages: page, Total: total}
}

// Stats computes archive totals.
func (a *Archive) Stats() Stats {
	s := Stats{
		Total:    len(a.messages),
		BySender: make(map[string]int),
		ByYear:   make(map[string]int),
	}

	var first, last time.Time
	for i, m := range a.messages {
		s.BySender[m.Sender]++
		if y := a.years[i]; y != "" {
			s.ByYear[y]++
		}
		at := a.parsed[i]
		if at.IsZero() {
			continue
		}
		if first.IsZero() || at.Before(first) {
			first = at
			s.FirstTimestamp = m.Timestamp
		}
		if last.IsZero() || at.After(last) {
			last = at
			s.LastTimestamp = m.Timestamp
		}
	}
	return s
}

// Random returns one random message, or false when the archive is empty.
func (a *Archive) Random() (models.ChatMessage, bool) {
	if len(a.messages) == 0 {
		return models.ChatMessage{}, false
	}
	return a.messages[rand.Intn(len(a.messages))], true
}

func parseTimestamp(ts string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, ts); err == nil {
			return t
		}
	}
	return time.Time{}
}

func yearOf(ts string, parsed time.Time) string {
	if !parsed.IsZero() {
		return fmt.Sprintf("%d", parsed.Year())
	}
	return yearPattern.FindString(ts)
}
