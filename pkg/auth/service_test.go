package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "memorylane/pkg/errors"
	"memorylane/pkg/logger"
	"memorylane/pkg/storage"
)

func newTestService(t *testing.T) (*Service, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	svc := NewService(store, "test-secret", false, logger.NewTestLogger())
	require.NoError(t, svc.EnsureDefaultAccount(context.Background()))
	return svc, store
}

// login performs a login and returns the recorder holding the session cookie
func login(t *testing.T, svc *Service, username, password string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	_, err := svc.Login(r.Context(), w, r, username, password)
	return w, err
}

// requestWithCookies builds a request carrying the cookies w set
func requestWithCookies(w *httptest.ResponseRecorder, target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestEnsureDefaultAccountIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)

	first, err := store.GetByUsername(context.Background(), DefaultUsername)
	require.NoError(t, err)
	require.NotNil(t, first)

	// a second bootstrap must not touch the record
	require.NoError(t, svc.EnsureDefaultAccount(context.Background()))
	second, err := store.GetByUsername(context.Background(), DefaultUsername)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PasswordHash, second.PasswordHash)
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	sess, err := svc.Login(r.Context(), w, r, DefaultUsername, "vuvu+nonsense")
	require.NoError(t, err)

	assert.Equal(t, DefaultUsername, sess.Username)
	assert.NotEmpty(t, sess.UserID)
	require.NotEmpty(t, w.Result().Cookies(), "login must set a session cookie")
}

func TestLoginFailuresAreGeneric(t *testing.T) {
	svc, _ := newTestService(t)

	_, errUnknown := login(t, svc, "nobody", "whatever")
	_, errWrongPw := login(t, svc, DefaultUsername, "wrong")

	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	assert.Equal(t, apperrors.ErrorTypeInvalidCredentials, apperrors.TypeOf(errUnknown))
	assert.Equal(t, apperrors.ErrorTypeInvalidCredentials, apperrors.TypeOf(errWrongPw))

	// unknown user and wrong password must be indistinguishable
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginDegradedMode(t *testing.T) {
	svc := NewService(nil, "test-secret", false, logger.NewTestLogger())

	// bootstrap is a no-op without a store
	require.NoError(t, svc.EnsureDefaultAccount(context.Background()))

	_, err := login(t, svc, DefaultUsername, "vuvu+nonsense")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeDatabase, apperrors.TypeOf(err))
}

func TestCheckAuthRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	// no cookie, no session
	bare := httptest.NewRequest(http.MethodGet, "/api/check-auth", nil)
	assert.Nil(t, svc.CheckAuth(bare))

	w, err := login(t, svc, DefaultUsername, "vuvu+nonsense")
	require.NoError(t, err)

	sess := svc.CheckAuth(requestWithCookies(w, "/api/check-auth"))
	require.NotNil(t, sess)
	assert.Equal(t, DefaultUsername, sess.Username)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	svc, _ := newTestService(t)

	w, err := login(t, svc, DefaultUsername, "vuvu+nonsense")
	require.NoError(t, err)

	// logout with the session cookie attached
	logoutW := httptest.NewRecorder()
	svc.Logout(logoutW, requestWithCookies(w, "/api/logout"))

	// the response must expire the cookie
	cookies := logoutW.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestLogoutWithoutSessionSucceeds(t *testing.T) {
	svc, _ := newTestService(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	svc.Logout(w, r) // must not panic or error
}

func TestRequireAuth(t *testing.T) {
	svc, _ := newTestService(t)

	var captured string
	protected := svc.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess := SessionFromContext(r.Context()); sess != nil {
			captured = sess.Username
		}
		w.WriteHeader(http.StatusOK)
	}))

	// unauthenticated request is rejected
	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, w.Body.String())

	// authenticated request passes and the session reaches the handler
	loginW, err := login(t, svc, DefaultUsername, "vuvu+nonsense")
	require.NoError(t, err)

	w = httptest.NewRecorder()
	protected.ServeHTTP(w, requestWithCookies(loginW, "/api/analytics"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultUsername, captured)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.NotEmpty(t, hash)
}
