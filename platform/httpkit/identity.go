// Package httpkit provides HTTP identity helpers.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity exposes the authenticated caller's identity.
type Identity interface {
	UserID() uuid.UUID
	Roles() []string
}

type ginIdentity struct {
	userID uuid.UUID
	roles  []string
}

func (g ginIdentity) UserID() uuid.UUID { return g.userID }
func (g ginIdentity) Roles() []string   { return g.roles }

// GetIdentity extracts the authenticated identity from the gin context.
// Returns nil if the request is not authenticated.
func GetIdentity(c *gin.Context) Identity {
	rawUserID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return nil
	}

	userID, ok := rawUserID.(uuid.UUID)
	if !ok {
		return nil
	}

	roles := make([]string, 0)
	if rawRoles, ok := c.Get(ContextRolesKey); ok {
		if list, ok := rawRoles.([]string); ok {
			roles = list
		}
	}

	return ginIdentity{userID: userID, roles: roles}
}

// MustGetIdentity extracts the identity or aborts with 401.
// Returns nil after aborting, so callers should return immediately on nil.
func MustGetIdentity(c *gin.Context) Identity {
	identity := GetIdentity(c)
	if identity == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return nil
	}
	return identity
}
