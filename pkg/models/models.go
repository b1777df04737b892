package models

import "time"

// Photo is one image discovered in the public album. Photos are built
// transiently per scrape request and never persisted.
type Photo struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	OriginalURL string `json:"originalUrl"`
	Date        string `json:"date"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

// ChatMessage is one archived message from the chat export. The timestamp is
// the export's display string, not a parsed date.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	Timestamp string `json:"timestamp"`
	IsVrunda  bool   `json:"is_vrunda"`
}

// User is the single credential record held by the store.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session identifies a logged-in browser client. The struct is what the
// cookie-backed session store carries between requests.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}
