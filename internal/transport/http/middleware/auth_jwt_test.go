package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventory-api/internal/core/auth"
)

func testEngine(j *auth.JWTer, requireRole string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/secure", AuthJWT(j, requireRole), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString(KeyUserID),
			"role":   c.GetString(KeyRole),
		})
	})
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT_MissingToken(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	w := doGet(testEngine(j, ""), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthJWT_InvalidToken(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	w := doGet(testEngine(j, ""), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthJWT_ExpiredToken(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: -2 * time.Minute}
	tok, err := j.Issue("u1", "a@x.com", "user")
	require.NoError(t, err)

	w := doGet(testEngine(j, ""), tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "token expired")
}

func TestAuthJWT_RoleGate(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	tok, err := j.Issue("u1", "a@x.com", "user")
	require.NoError(t, err)

	w := doGet(testEngine(j, "admin"), tok)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAuthJWT_SetsIdentity(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("s"), Issuer: "t", TTL: time.Hour}
	tok, err := j.Issue("u1", "a@x.com", "manager")
	require.NoError(t, err)

	w := doGet(testEngine(j, ""), tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":"u1"`)
	assert.Contains(t, w.Body.String(), `"role":"manager"`)
}
