package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"clubhub/internal/auth"
	"clubhub/internal/config"
	"clubhub/internal/handler"
	"clubhub/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	users repository.UserRepository,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	paymentHandler *handler.PaymentHandler,
	expenseHandler *handler.ExpenseHandler,
	reportHandler *handler.ReportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Locally stored uploads are served statically; the paths double as the
	// proof/avatar references persisted on records.
	if cfg.UploadBackend == "local" {
		e.Static(cfg.UploadBaseURL, cfg.UploadDir)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/request-email-code", authHandler.RequestEmailCode)
	api.POST("/auth/verify-email-code", authHandler.VerifyEmailCode)

	// Authenticated routes: JWT first, then the account gate (existence and
	// blocked checks). The 401/403 distinction matters to the dashboard.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.JWTSecret),
			NewClaimsFunc: func(c echo.Context) jwt.Claims {
				return new(auth.Claims)
			},
			ErrorHandler: func(c echo.Context, err error) error {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			},
		}),
		accountGate(users),
	)

	secured.GET("/auth/me", authHandler.Me)

	secured.GET("/payments/me", paymentHandler.Mine)
	secured.GET("/payments/me/dues", paymentHandler.MyDues)
	secured.POST("/payments/submit", paymentHandler.Submit)
	secured.GET("/payments/total", paymentHandler.Total)

	secured.GET("/expenses/latest", expenseHandler.Latest)
	secured.GET("/expenses/total", expenseHandler.Total)

	secured.GET("/reports/balance", reportHandler.Balance)

	// Admin routes
	admin := secured.Group("", adminGate())

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PATCH("/users/:id", userHandler.Update)
	admin.PATCH("/users/:id/block", userHandler.Block)
	admin.PATCH("/users/:id/password", userHandler.Password)
	admin.DELETE("/users/:id", userHandler.Delete)

	admin.GET("/payments", paymentHandler.List)
	admin.GET("/payments/user/:id", paymentHandler.ByUser)
	admin.GET("/payments/user/:id/dues", paymentHandler.UserDues)
	admin.GET("/payments/unpaid", paymentHandler.Unpaid)
	admin.PATCH("/payments/:id/mark", paymentHandler.Mark)

	admin.POST("/expenses", expenseHandler.Create)
	admin.PATCH("/expenses/:id", expenseHandler.Update)
	admin.DELETE("/expenses/:id", expenseHandler.Delete)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
