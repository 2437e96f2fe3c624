package middleware

import (
	"net/http"
	"strings"

	"campus-merch-store/internal/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware resolves the bearer token into an actor and puts it on the
// request context. Requests without a valid token stop with 401.
func AuthMiddleware(parser *auth.TokenParser, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}

			actor, err := parser.Parse(token)
			if err != nil {
				log.Debug("rejected bearer token", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(auth.WithActor(req.Context(), actor)))
			c.Set("user_id", actor.ID)
			return next(c)
		}
	}
}
