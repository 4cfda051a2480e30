package sec

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/groovix/groovix/internal/storage"
	"github.com/groovix/groovix/internal/storage/db"
)

type identityKey struct{}

// RequireSession returns echo middleware that gates protected routes. It
// extracts the session cookie, verifies the token, loads the referenced user,
// and injects it into the request context. Any failure short-circuits with a
// 401 JSON body; the downstream handler never runs. Missing users map to 401
// as well: a valid token for a deleted account proves nothing.
func RequireSession(secret []byte, users storage.Users) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := ReadSession(c.Request())
			if !ok {
				return unauthenticated(c)
			}
			userID, err := VerifySession(token, secret)
			if err != nil {
				return unauthenticated(c)
			}
			user, err := users.GetUser(c.Request().Context(), userID)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				return unauthenticated(c)
			case err != nil:
				// a store outage is the server's problem; telling the client
				// it is unauthenticated would prompt a pointless re-login
				return c.JSON(http.StatusInternalServerError,
					map[string]string{"message": "internal server error"})
			}
			ctx := SetAuthenticatedUser(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthenticated"})
}

// GetAuthenticatedUser returns the user record for the authenticated user.
// Returns a zero-value User if the context has no authenticated user (should
// only happen if the middleware is misconfigured).
func GetAuthenticatedUser(ctx context.Context) db.User {
	if user, ok := ctx.Value(identityKey{}).(db.User); ok {
		return user
	}
	return db.User{}
}

// SetAuthenticatedUser sets the user record for an authenticated user.
// [RequireSession] injects this automatically; this function is exported as a
// convenience for testing.
func SetAuthenticatedUser(ctx context.Context, user db.User) context.Context {
	return context.WithValue(ctx, identityKey{}, user)
}
