package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/logger"
	"memorylane/pkg/models"
	"memorylane/pkg/storage"
)

type contextKey string

const (
	sessionName        = "memorylane-session"
	sessionUserIDKey   = "user_id"
	sessionUsernameKey = "username"
	sessionContextKey  = contextKey("session")

	// sessions last 24 hours
	sessionMaxAge = 24 * 60 * 60
)

// DefaultUsername is the single reserved account the bootstrap creates.
const DefaultUsername = "vuvu"

const defaultPassword = "vuvu+nonsense"

// invalidCredentialsMessage is intentionally identical for unknown users and
// wrong passwords, so login responses cannot be used for user enumeration.
const invalidCredentialsMessage = "Invalid credentials"

// Service validates credentials and manages the cookie-correlated session.
// A nil user store puts the service in degraded mode: every login fails
// with a database-unavailable error, everything else keeps working.
type Service struct {
	users   storage.UserStore
	cookies sessions.Store
	logger  logger.Logger
}

// NewService creates an auth service. production controls the Secure cookie
// attribute.
func NewService(users storage.UserStore, sessionSecret string, production bool, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetLogger()
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteLaxMode,
	}

	return &Service{
		users:   users,
		cookies: store,
		logger:  log,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// EnsureDefaultAccount creates the reserved account if it does not exist.
// Safe to call repeatedly and from concurrent startups: the store's
// uniqueness constraint decides the race and the loser is a no-op.
func (s *Service) EnsureDefaultAccount(ctx context.Context) error {
	if s.users == nil {
		s.logger.Warn("no credential store configured, skipping default account bootstrap")
		return nil
	}

	existing, err := s.users.GetByUsername(ctx, DefaultUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := HashPassword(defaultPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.Create(ctx, DefaultUsername, hash); err != nil {
		return err
	}

	s.logger.InfoWithFields("default account created", map[string]interface{}{
		"username": DefaultUsername,
	})
	return nil
}

// Login validates the credentials and, on success, establishes a session
// correlated with a cookie on w.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, r *http.Request, username, password string) (*models.Session, error) {
	if s.users == nil {
		return nil, apperrors.New(apperrors.ErrorTypeDatabase,
			"Credential store is not configured. Set DATABASE_URL to enable login.")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.WithError(err).Error("credential lookup failed")
		return nil, apperrors.New(apperrors.ErrorTypeDatabase, "Credential store is unavailable")
	}
	if user == nil {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidCredentials, invalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.New(apperrors.ErrorTypeInvalidCredentials, invalidCredentialsMessage)
	}

	session, err := s.cookies.Get(r, sessionName)
	if err != nil {
		// a stale or tampered cookie decodes to a fresh session; only a
		// save failure below is fatal
		s.logger.WithError(err).Debug("replacing undecodable session cookie")
	}
	session.Values[sessionUserIDKey] = user.ID
	session.Values[sessionUsernameKey] = user.Username
	if err := session.Save(r, w); err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("login succeeded", map[string]interface{}{
		"username": user.Username,
	})
	return &models.Session{UserID: user.ID, Username: user.Username}, nil
}

// Logout invalidates the session. It always succeeds from the caller's
// perspective; save failures are only logged.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.cookies.Get(r, sessionName)
	session.Values = make(map[interface{}]interface{})
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		s.logger.WithError(err).Warn("failed to clear session cookie")
	}
}

// CheckAuth reads the session attached to r. It has no side effects and
// returns nil when the request carries no valid session.
func (s *Service) CheckAuth(r *http.Request) *models.Session {
	session, err := s.cookies.Get(r, sessionName)
	if err != nil {
		return nil
	}

	userID, ok := session.Values[sessionUserIDKey].(string)
	if !ok {
		return nil
	}
	username, ok := session.Values[sessionUsernameKey].(string)
	if !ok {
		return nil
	}

	return &models.Session{UserID: userID, Username: username}
}

// RequireAuth rejects requests without a valid session with 401.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.CheckAuth(r)
		if sess == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"Unauthorized"}`))
			return
		}
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session RequireAuth attached, or nil.
func SessionFromContext(ctx context.Context) *models.Session {
	sess, ok := ctx.Value(sessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return sess
}
