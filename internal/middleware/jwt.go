package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// Claims is the part of a verified token the handlers care about.
type Claims struct {
	UserID uint
	Role   string
}

// TokenManager signs and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) GenerateToken(userID uint, role string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken checks signature, algorithm and expiry and extracts the claims.
func (m *TokenManager) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token not valid")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	// JSON numbers decode as float64.
	rawID, ok := mc["user_id"].(float64)
	if !ok || rawID <= 0 {
		return nil, fmt.Errorf("invalid user_id claim: %v", mc["user_id"])
	}
	role, ok := mc["role"].(string)
	if !ok || role == "" {
		return nil, fmt.Errorf("invalid role claim: %v", mc["role"])
	}
	return &Claims{UserID: uint(rawID), Role: role}, nil
}

// RequireAuth ensures a valid JWT is present
func (m *TokenManager) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAuthWithRole ensures the JWT is valid and the user has one of roles
func (m *TokenManager) RequireAuthWithRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			return
		}

		role := c.GetString(ContextRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}

// authenticate verifies the bearer token and stores its claims on the
// context. It aborts the request and returns false on failure.
func (m *TokenManager) authenticate(c *gin.Context) bool {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
		return false
	}

	claims, err := m.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		Logger(c).WithError(err).Info("rejected bearer token")
		abort(c, http.StatusUnauthorized, "Invalid or expired token")
		return false
	}

	// Store claims in context for downstream handlers
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	return true
}

// CurrentUserID returns the authenticated user id set by RequireAuth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}
