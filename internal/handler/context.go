package handler

import (
	"github.com/labstack/echo/v4"

	"clubhub/internal/errors"
	"clubhub/internal/model"
)

// AccountKey is the echo context key under which the auth gate stores the
// resolved account.
const AccountKey = "account"

// CurrentUser returns the account attached by the auth gate, or nil on
// routes outside it.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(AccountKey).(*model.User)
	return u
}

// toHTTPError converts a domain error into the `{message}` error reply.
func toHTTPError(err error) *echo.HTTPError {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.Message)
}
