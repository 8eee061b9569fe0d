package auth

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"digisign/portal-backend/internal/common"
)

const identityKey = "identity"

// Authenticator resolves bearer tokens.
type Authenticator interface {
	Authenticate(token string) (*Identity, error)
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := fromHeader(a, c.GetHeader("Authorization"))
		if err == nil && identity == nil {
			err = common.ErrNotAuthenticated
		}
		if err != nil {
			common.AbortWithError(c, err)
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid.
func OptionalAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := fromHeader(a, c.GetHeader("Authorization"))
		if err != nil {
			common.AbortWithError(c, err)
			return
		}
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the caller attached by the middleware, or nil.
func IdentityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*Identity)
	return identity
}

func fromHeader(a Authenticator, header string) (*Identity, error) {
	if header == "" {
		return nil, nil
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", common.ErrNotAuthenticated)
	}
	return a.Authenticate(strings.TrimSpace(token))
}
