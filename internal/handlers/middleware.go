package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"submission-service/internal/config"
	"submission-service/internal/models"
	"submission-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

// AuthClaims are the claims read from tokens issued by the auth provider.
type AuthClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

type Middleware struct {
	jwtSecret     []byte
	uploadLimiter *rate.Limiter
}

func NewMiddleware(authCfg config.AuthConfig, uploadCfg config.UploadConfig) *Middleware {
	return &Middleware{
		jwtSecret:     []byte(authCfg.JWTSecret),
		uploadLimiter: rate.NewLimiter(rate.Limit(uploadCfg.RatePerSecond), uploadCfg.RateBurst),
	}
}

// RequestLogger logs one line per request.
func (m *Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP())
	}
}

func (m *Middleware) CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// UploadRateLimit sheds upload requests beyond the configured token bucket.
func (m *Middleware) UploadRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.uploadLimiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.CreateErrorResponse("RATE_LIMITED", "too many uploads, retry shortly"))
			return
		}
		c.Next()
	}
}

// RequireRole accepts bearer tokens whose role is one of roles. Without a
// configured secret every request passes.
func (m *Middleware) RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.jwtSecret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse("MISSING_TOKEN", "authorization header required"))
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.verifyToken(tokenString)
		if err != nil {
			slog.Warn("token validation failed", "path", c.FullPath(), "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, utils.CreateErrorResponse("INVALID_TOKEN", "token validation failed"))
			return
		}
		if !slices.Contains(roles, claims.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, utils.CreateErrorResponse("FORBIDDEN", "insufficient role"))
			return
		}

		c.Set("user_email", claims.Email)
		c.Set("user_role", claims.Role)
		c.Next()
	}
}

func (m *Middleware) verifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&AuthClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.jwtSecret, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
