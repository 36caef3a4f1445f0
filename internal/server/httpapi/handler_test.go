package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/admingate/internal/common"
	"github.com/dmitrijs2005/admingate/internal/logging"
	"github.com/dmitrijs2005/admingate/internal/server/auth"
	"github.com/dmitrijs2005/admingate/internal/server/config"
	"github.com/dmitrijs2005/admingate/internal/server/models"
	"github.com/dmitrijs2005/admingate/internal/server/services"
)

// --- helpers ---

type stubUsersRepo struct {
	user *models.User
}

func (s *stubUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	return u, nil
}

func (s *stubUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, common.ErrorNotFound
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "k"
	cfg.HashCost = bcrypt.MinCost // keep tests fast
	return cfg
}

func testUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "u-1",
		Email:        "admin@example.com",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    time.Now(),
	}
}

func newTestServer(t *testing.T, user *models.User) (*HTTPServer, http.Handler) {
	t.Helper()
	cfg := testConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc, err := services.NewLoginService(&stubUsersRepo{user: user}, nil, logger, cfg)
	require.NoError(t, err)
	s := NewHTTPServer(cfg, logger, svc)
	return s, s.Routes()
}

func getPath(h http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:12345"
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.1:12345"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("no cookie %q in response", name)
	return nil
}

// --- tests ---

func TestLoginPage_RendersForm(t *testing.T) {
	_, h := newTestServer(t, nil)

	rr := getPath(h, "/auth/login?from=%2Fdashboard%2Freports%3Fx%3D1")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `name="email"`)
	assert.Contains(t, rr.Body.String(), `name="from" value="/dashboard/reports?x=1"`)
}

func TestLoginSubmit_SuccessSetsCookieAndRedirects(t *testing.T) {
	s, h := newTestServer(t, testUser(t, "correct-horse"))

	rr := postForm(h, "/auth/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"correct-horse"},
		"from":     {"/dashboard/reports?x=1"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard/reports?x=1", rr.Header().Get("Location"))

	cookie := sessionCookieFrom(t, rr, s.cfg.CookieName)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int(s.cfg.SessionLifetime.Seconds()), cookie.MaxAge)

	claims, err := auth.ParseToken(cookie.Value, []byte(s.cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)

	// The fresh cookie immediately satisfies the guard.
	rr2 := getPath(h, "/dashboard", cookie)
	assert.Equal(t, http.StatusOK, rr2.Code)
	assert.Contains(t, rr2.Body.String(), "admin@example.com")
}

func TestLoginSubmit_GhostAndWrongPasswordIndistinguishable(t *testing.T) {
	_, h := newTestServer(t, testUser(t, "correct-horse"))

	wrong := postForm(h, "/auth/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"wrong-password"},
	})
	ghost := postForm(h, "/auth/login", url.Values{
		"email":    {"ghost@example.com"},
		"password": {"wrong-password"},
	})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, wrong.Code, ghost.Code)

	// Same error payload for both: no user enumeration. The form echoes the
	// submitted email back, so compare the rendered error, not whole bodies.
	assert.Contains(t, wrong.Body.String(), "invalid email or password")
	assert.Contains(t, ghost.Body.String(), "invalid email or password")
}

func TestLoginSubmit_InvalidInput(t *testing.T) {
	_, h := newTestServer(t, nil)

	rr := postForm(h, "/auth/login", url.Values{
		"email":    {"not-an-email"},
		"password": {"password1"},
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid email address")
}

func TestLoginSubmit_OpenRedirectNeutralized(t *testing.T) {
	_, h := newTestServer(t, testUser(t, "correct-horse"))

	rr := postForm(h, "/auth/login", url.Values{
		"email":    {"admin@example.com"},
		"password": {"correct-horse"},
		"from":     {"https://evil.example.com/phish"},
	})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/dashboard", rr.Header().Get("Location"))
}

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	s, h := newTestServer(t, nil)

	rr := postForm(h, "/auth/logout", url.Values{})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, s.cfg.LoginPath, rr.Header().Get("Location"))

	cookie := sessionCookieFrom(t, rr, s.cfg.CookieName)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
	assert.False(t, cookie.Expires.After(time.Unix(1, 0)))
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t, nil)

	rr := getPath(h, "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}
