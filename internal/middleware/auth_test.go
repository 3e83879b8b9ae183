package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clinicore/clinic-api/internal/config"
	"github.com/clinicore/clinic-api/internal/domain"
	"github.com/clinicore/clinic-api/pkg/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-key-that-is-long-enough",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "clinic-api-test",
	})
}

func newProtectedRouter(jwtManager *auth.JWTManager, adminOnly bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	group := r.Group("")
	group.Use(Authenticate(jwtManager))
	if adminOnly {
		group.Use(RequireCatalogAccess())
	}
	group.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func tokenFor(t *testing.T, jwtManager *auth.JWTManager, role domain.Role) string {
	t.Helper()
	pair, err := jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  "a@clinic.example",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return pair.AccessToken
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r := newProtectedRouter(newTestJWTManager(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateGarbageToken(t *testing.T) {
	r := newProtectedRouter(newTestJWTManager(), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := newProtectedRouter(jwtManager, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtManager, domain.RoleReceptionist))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestCatalogAccessByRole(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := newProtectedRouter(jwtManager, true)

	tests := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleAdmin, http.StatusOK},
		{domain.RoleReceptionist, http.StatusForbidden},
		{domain.RoleDoctor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, jwtManager, tt.role))
			r.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}
