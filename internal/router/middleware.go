package router

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"clubhub/internal/auth"
	"clubhub/internal/handler"
	"clubhub/internal/model"
	"clubhub/internal/repository"
)

// accountGate runs after JWT validation: it resolves the token subject's
// current account state, rejects subjects that no longer exist (401) and
// blocked accounts (403, a distinct reply the dashboard branches on), and
// attaches the account for downstream handlers and the role gate.
func accountGate(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			account, err := users.FindByID(c.Request().Context(), claims.UserID)
			if err != nil {
				if err == gorm.ErrRecordNotFound {
					return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
			}
			if account.IsBlocked {
				return echo.NewHTTPError(http.StatusForbidden, "Your account is blocked. Contact admin.")
			}

			c.Set(handler.AccountKey, account)
			return next(c)
		}
	}
}

// adminGate allows only admin accounts through. It composes after
// accountGate and never runs standalone.
func adminGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := handler.CurrentUser(c)
			if account == nil || account.Role != model.RoleAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "Admin access required")
			}
			return next(c)
		}
	}
}
