package middleware

import (
	"net/http"
	"strings"

	"taskmanager/model"
	"taskmanager/response"
	"taskmanager/services"

	"github.com/gin-gonic/gin"
)

const userKey = "user"

// AccessTokenMiddleware guards every resource route. It answers 401 for a
// missing or malformed Authorization header, 403 for a token that fails
// verification and 404 when the token's user no longer exists. On success
// the resolved user is stored in the context for CurrentUser.
func AccessTokenMiddleware(deps *services.Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "Authorization header is missing", nil)
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || scheme != "Bearer" || token == "" {
			response.Abort(c, http.StatusUnauthorized, "Invalid authorization format", map[string]any{
				"message": "Expected: Bearer <token>",
			})
			return
		}

		userID, err := deps.Tokens.Verify(token)
		if err != nil {
			response.Error(c, deps.Log, err)
			return
		}

		user, err := lookupUser(c, deps, userID)
		if err != nil {
			response.Error(c, deps.Log, err)
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

func lookupUser(c *gin.Context, deps *services.Deps, userID string) (*model.User, error) {
	ctx, cancel := deps.Context(c.Request.Context())
	defer cancel()
	return deps.Users.GetByID(ctx, userID)
}

// CurrentUser returns the user attached by AccessTokenMiddleware.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok && user != nil
}

// RequireUser is CurrentUser for handlers: it writes the 401 envelope itself
// when no user is attached.
func RequireUser(c *gin.Context) (*model.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		response.Fail(c, http.StatusUnauthorized, "Unauthorized", map[string]any{
			"message": "Please login again",
		})
	}
	return user, ok
}
