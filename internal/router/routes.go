package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mailista/contact-manager/api/internal/auth"
	"github.com/mailista/contact-manager/api/internal/config"
	"github.com/mailista/contact-manager/api/internal/handler"
	middlewarepkg "github.com/mailista/contact-manager/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Users    *handler.UserAdminHandler
	Contacts *handler.ContactsHandler
	Imports  *handler.ImportHandler
	OptOuts  *handler.OptOutHandler
	Merge    *handler.MergeHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.GET("/contacts", handlers.Contacts.List)
	secured.PUT("/contacts/:id", handlers.Contacts.Update)
	secured.DELETE("/contacts/:id", handlers.Contacts.Delete)
	secured.POST("/contacts/bulk-update", handlers.Contacts.BulkUpdate)
	secured.POST("/contacts/bulk-delete", handlers.Contacts.BulkDelete)
	secured.GET("/contacts/export", handlers.Contacts.Export)
	secured.GET("/contacts/attributes", handlers.Contacts.Attributes)

	secured.POST("/import/preview", handlers.Imports.Preview)
	secured.POST("/import", handlers.Imports.Import, middlewarepkg.ImportRateLimiter(cfg.RateLimitImport))
	secured.POST("/import/records", handlers.Imports.ImportRecords)
	secured.POST("/enrich", handlers.Imports.Enrich)
	secured.POST("/extract", handlers.Imports.Extract)
	secured.POST("/extract/export", handlers.Imports.ExtractExport)

	secured.GET("/optouts", handlers.OptOuts.List)
	secured.POST("/optouts", handlers.OptOuts.Add)
	secured.POST("/optouts/bulk", handlers.OptOuts.BulkAdd)
	secured.DELETE("/optouts/:id", handlers.OptOuts.Remove)
	secured.GET("/optouts/export", handlers.OptOuts.Export)

	secured.POST("/merge", handlers.Merge.Merge)

	admin := secured.Group("/admin", middlewarepkg.RequireRole("admin"))
	admin.POST("/users", handlers.Users.Create)
}
