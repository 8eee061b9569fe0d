package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digisign/portal-backend/pkg/security"
)

func newMiddlewareRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		if id := IdentityFrom(c); id != nil {
			c.String(http.StatusOK, id.UserID.String())
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return r
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(new(MockRepository), false)
	userID := uuid.New()
	token, err := security.NewTokenIssuer("test-secret", time.Hour).Issue(userID.String(), "a@example.com", "A")
	require.NoError(t, err)

	tests := []struct {
		name     string
		mw       gin.HandlerFunc
		header   string
		wantCode int
		wantBody string
	}{
		{"required without header", RequireAuth(svc), "", http.StatusUnauthorized, ""},
		{"required with token", RequireAuth(svc), "Bearer " + token, http.StatusOK, userID.String()},
		{"required with bad token", RequireAuth(svc), "Bearer junk", http.StatusUnauthorized, ""},
		{"optional without header", OptionalAuth(svc), "", http.StatusOK, "anonymous"},
		{"optional with token", OptionalAuth(svc), "Bearer " + token, http.StatusOK, userID.String()},
		{"optional with bad token", OptionalAuth(svc), "Bearer junk", http.StatusUnauthorized, ""},
		{"optional with wrong scheme", OptionalAuth(svc), "Basic abc", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newMiddlewareRouter(tt.mw).ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
