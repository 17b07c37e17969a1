package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/qa-board/internal/utils"
)

const testSecret = "middleware-test-secret"

func authRequest(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("/secure", JWTAuth(testSecret))
	g.GET("/whoami", func(c echo.Context) error {
		uid, ok := CallerID(c)
		require.True(t, ok)
		return c.JSON(http.StatusOK, echo.Map{
			"user_id":  uid,
			"username": c.Get("username"),
		})
	})
	return e
}

func doWhoami(e *echo.Echo, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure/whoami", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth_ValidToken(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken(testSecret, 7, "dana", 5)
	require.NoError(t, err)

	rec := doWhoami(authRequest(t), "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"username":"dana"}`, rec.Body.String())
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	rec := doWhoami(authRequest(t), "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
}

func TestJWTAuth_RejectsGarbageAndWrongScheme(t *testing.T) {
	t.Parallel()

	e := authRequest(t)
	for _, authz := range []string{
		"Bearer not-a-token",
		"Basic dXNlcjpwYXNz",
		"bearer lowercase-scheme",
	} {
		rec := doWhoami(e, authz)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "authz %q", authz)
		assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
	}
}

func TestJWTAuth_ExpiredTokenSameBody(t *testing.T) {
	t.Parallel()

	claims := jwt.MapClaims{
		"sub":     "dana",
		"user_id": 7,
		"exp":     time.Now().UTC().Add(-time.Minute).Unix(),
		"iat":     time.Now().UTC().Add(-time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	rec := doWhoami(authRequest(t), "Bearer "+signed)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// Expired and malformed tokens must be indistinguishable to clients.
	assert.JSONEq(t, `{"error":"could not validate credentials"}`, rec.Body.String())
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := utils.NewAccessToken("some-other-secret", 7, "dana", 5)
	require.NoError(t, err)

	rec := doWhoami(authRequest(t), "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCallerID_AbsentWithoutAuth(t *testing.T) {
	t.Parallel()

	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CallerID(c)
	assert.False(t, ok)
}
