package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/YuvisTechPoint/FoundrVerse-sub000/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signSessionToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestParseSessionToken_Valid(t *testing.T) {
	tok := signSessionToken(t, "secret", jwt.MapClaims{"sub": "u1", "email": "buyer@example.com"})

	userID, email, err := ParseSessionToken(tok, "secret")
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
	require.Equal(t, "buyer@example.com", email)
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	tok := signSessionToken(t, "secret-a", jwt.MapClaims{"sub": "u1"})

	_, _, err := ParseSessionToken(tok, "secret-b")
	require.Error(t, err)
}

func TestParseSessionToken_NoIdentity(t *testing.T) {
	tok := signSessionToken(t, "secret", jwt.MapClaims{"foo": "bar"})

	_, _, err := ParseSessionToken(tok, "secret")
	require.Error(t, err)
}

func TestParseSessionToken_Garbage(t *testing.T) {
	_, _, err := ParseSessionToken("not.a.token", "secret")
	require.Error(t, err)
}

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", SessionAuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "email": c.GetString("email")})
	})
	return r
}

func TestSessionAuthMiddleware_ValidToken(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "secret"}}
	r := authTestRouter(cfg)

	tok := signSessionToken(t, "secret", jwt.MapClaims{"sub": "u1", "email": "buyer@example.com"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"user_id":"u1"`)
}

func TestSessionAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "secret"}}
	r := authTestRouter(cfg)

	for _, header := range []string{"", "Bearer ", "Token abc", "Bearer"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestSessionAuthMiddleware_SecretNotConfigured(t *testing.T) {
	r := authTestRouter(&config.Config{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
}
