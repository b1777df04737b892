package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"memorylane/pkg/archive"
	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/models"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type checkAuthResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

type scrapeResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message,omitempty"`
	Photos   []models.Photo `json:"photos"`
	Total    int            `json:"total,omitempty"`
	AlbumURL string         `json:"albumUrl,omitempty"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondJSON(w, http.StatusBadRequest, messageResponse{Message: "Username and password are required"})
		return
	}

	if _, err := s.auth.Login(r.Context(), w, r, req.Username, req.Password); err != nil {
		msg := "Server error"
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			msg = appErr.Message
		}
		s.respondJSON(w, apperrors.HTTPStatus(apperrors.TypeOf(err)), messageResponse{Message: msg})
		return
	}

	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.Logout(w, r)
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, r *http.Request) {
	if sess := s.auth.CheckAuth(r); sess != nil {
		s.respondJSON(w, http.StatusOK, checkAuthResponse{Authenticated: true, Username: sess.Username})
		return
	}
	s.respondJSON(w, http.StatusOK, checkAuthResponse{Authenticated: false})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "You are authenticated and can access analytics."})
}

// handleScrape runs one album scrape. Benign failures (fetch errors, empty
// albums) are reported with 200 and success=false so the client renders an
// empty state; only unanticipated faults become a 500.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	result, err := s.scraper.Scrape(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("album scrape failed unexpectedly")
		s.respondJSON(w, http.StatusInternalServerError, scrapeResponse{
			Success: false,
			Message: "Server error",
			Photos:  []models.Photo{},
		})
		return
	}

	if !result.Success {
		s.respondJSON(w, http.StatusOK, scrapeResponse{
			Success: false,
			Message: result.Message,
			Photos:  []models.Photo{},
		})
		return
	}

	s.respondJSON(w, http.StatusOK, scrapeResponse{
		Success:  true,
		Photos:   result.Photos,
		Total:    len(result.Photos),
		AlbumURL: s.scraper.AlbumURL(),
	})
}

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.respondJSON(w, http.StatusOK, archive.Page{Messages: []models.ChatMessage{}})
		return
	}

	q := archive.Query{
		Text:   r.URL.Query().Get("q"),
		Sender: r.URL.Query().Get("sender"),
		Year:   r.URL.Query().Get("year"),
		Sort:   r.URL.Query().Get("sort"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		q.Offset = offset
	}

	page := s.archive.Search(q)
	if page.Messages == nil {
		page.Messages = []models.ChatMessage{}
	}
	s.respondJSON(w, http.StatusOK, page)
}

func (s *Server) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.respondJSON(w, http.StatusOK, archive.Stats{
			BySender: map[string]int{},
			ByYear:   map[string]int{},
		})
		return
	}
	s.respondJSON(w, http.StatusOK, s.archive.Stats())
}

func (s *Server) handleRandomMessage(w http.ResponseWriter, r *http.Request) {
	if s.archive != nil {
		if msg, ok := s.archive.Random(); ok {
			s.respondJSON(w, http.StatusOK, msg)
			return
		}
	}
	s.respondJSON(w, http.StatusNotFound, messageResponse{Message: "No messages in archive"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
