package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"repairorder/internal/auth"
	"repairorder/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	currentUserContextKey = "current-user"
	storeCallTimeout      = 5 * time.Second
)

// RequestUser is the authenticated caller attached to the gin context.
type RequestUser struct {
	ID       uint
	Username string
	Role     string
}

// IsAdmin reports whether the caller holds the admin role.
func (u *RequestUser) IsAdmin() bool {
	return u != nil && u.identity().IsAdmin()
}

func (u *RequestUser) identity() auth.Identity {
	return auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}

// AuthMiddleware verifies the bearer token. A missing token is 401; a token
// that fails verification is 403.
func (h *HTTPHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWith(c, http.StatusUnauthorized, APIError{Message: msgTokenRequired})
			return
		}

		claims, status, err := h.authManager.Verify(tokenString)
		if status != auth.TokenValid {
			logrus.WithError(err).WithField("status", status.String()).Warn("rejected bearer token")
			abortWith(c, http.StatusForbidden, APIError{
				Message: msgTokenInvalid,
				Error:   "token " + status.String(),
			})
			return
		}

		identity := claims.Identity()
		c.Set(currentUserContextKey, &RequestUser{
			ID:       identity.ID,
			Username: identity.Username,
			Role:     identity.Role,
		})
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func (h *HTTPHandler) RequireRole(roles ...string) gin.HandlerFunc {
	allowed := append([]string(nil), roles...)
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWith(c, http.StatusUnauthorized, APIError{Message: msgNotAuthenticated})
			return
		}
		for _, role := range allowed {
			if user.Role == role {
				c.Next()
				return
			}
		}
		abortWith(c, http.StatusForbidden, APIError{
			Message:      msgRoleForbidden,
			RequiredRole: allowed,
			UserRole:     user.Role,
		})
	}
}

// RequirePermission checks the caller's role row for p. Admin always passes.
func (h *HTTPHandler) RequirePermission(p auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortWith(c, http.StatusUnauthorized, APIError{Message: msgNotAuthenticated})
			return
		}
		if user.IsAdmin() {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), storeCallTimeout)
		defer cancel()

		perms, err := h.authService.Permissions(ctx, user.Role)
		if err != nil {
			if service.IsKind(err, service.KindPermission) {
				abortWith(c, http.StatusForbidden, APIError{Message: msgRoleNotFound, UserRole: user.Role})
				return
			}
			h.writeServiceError(c, err)
			c.Abort()
			return
		}
		if !perms.Has(p) {
			abortWith(c, http.StatusForbidden, APIError{
				Message:  "You don't have permission to " + string(p),
				UserRole: user.Role,
			})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the caller set by AuthMiddleware, or nil.
func CurrentUser(c *gin.Context) *RequestUser {
	value, exists := c.Get(currentUserContextKey)
	if !exists {
		return nil
	}
	user, ok := value.(*RequestUser)
	if !ok {
		return nil
	}
	return user
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
