package middleware

import (
	"net/http"
	"strings"

	"github.com/clinicore/clinic-api/internal/domain"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Authenticate validates the Bearer token and stores the caller's claims in
// the request context.
func Authenticate(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or malformed authorization header"})
			return
		}

		claims, err := jwtManager.ValidateAccessToken(strings.TrimPrefix(header, prefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireCatalogAccess gates doctor and room mutations to roles that may
// manage the catalog.
func RequireCatalogAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(claimsKey)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		claims, ok := v.(*domain.Claims)
		if !ok || !claims.Role.CanManageCatalog() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
