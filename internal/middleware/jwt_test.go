package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(m *TokenManager, roles ...string) *gin.Engine {
	r := gin.New()
	guard := m.RequireAuth()
	if len(roles) > 0 {
		guard = m.RequireAuthWithRole(roles...)
	}
	r.POST("/events", guard, func(c *gin.Context) {
		id, _ := CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id, "role": c.GetString(ContextRole)})
	})
	return r
}

func doRequest(r http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.GenerateToken(42, "participant")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "participant", claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken(1, "staff")
	require.NoError(t, err)

	otherKey, err := NewTokenManager("other-secret", time.Hour).GenerateToken(1, "staff")
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": 1, "role": "staff", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":   expiredToken,
		"wrong_key": otherKey,
		"alg_none":  noneToken,
		"no_role":   noRole,
		"garbage":   "not.a.token",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateToken(tok)
			assert.Error(t, err)
		})
	}
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	rec := doRequest(newProtectedRouter(m), "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Missing or invalid Authorization header"}`, rec.Body.String())
}

func TestRequireAuth_InvalidHeaderFormat(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	rec := doRequest(newProtectedRouter(m), "Token abc")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, _ := m.GenerateToken(7, "volunteer")

	rec := doRequest(newProtectedRouter(m), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":7,"role":"volunteer"}`, rec.Body.String())
}

func TestRequireAuthWithRole(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	staffToken, _ := m.GenerateToken(1, "staff")
	volunteerToken, _ := m.GenerateToken(2, "volunteer")
	r := newProtectedRouter(m, "staff")

	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+staffToken).Code)

	rec := doRequest(r, "Bearer "+volunteerToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Insufficient permissions"}`, rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer broken").Code)
}

func TestRequireAuthWithRole_HandlerNotRunOnForbidden(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	token, _ := m.GenerateToken(2, "participant")

	called := false
	r := gin.New()
	r.DELETE("/events/:id", m.RequireAuthWithRole("staff"), func(c *gin.Context) {
		called = true
	})

	req := httptest.NewRequest(http.MethodDelete, "/events/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}
