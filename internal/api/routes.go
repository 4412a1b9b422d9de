// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tany002/bhkinterior.com/internal/config"
	"github.com/tany002/bhkinterior.com/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	SessionMgr     SessionManager
	Store          storage.LayoutStore
	Version        string
	WSMaxMessageKB int
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Catalog   CatalogHandler
	Editor    EditorHandler
	Revisions RevisionHandler
	Socket    SocketHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version, deps.SessionMgr),
		Catalog:   NewCatalogHandler(deps.SessionMgr),
		Editor:    NewEditorHandler(deps.SessionMgr),
		Revisions: NewRevisionHandler(deps.Store),
		Socket:    NewWebSocketHandler(deps.SessionMgr, deps.WSMaxMessageKB),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", handlers.Health.HandleHealth)
	apiGroup.GET("/catalog", handlers.Catalog.HandleGetCatalog)

	// Editor session routes
	sessions := apiGroup.Group("/editor/sessions")
	sessions.POST("", handlers.Editor.HandleOpenSession)
	sessions.GET("/:sessionId", handlers.Editor.HandleGetSession)
	sessions.GET("/:sessionId/state/msgpack", handlers.Editor.HandleGetStateMsgpack)
	sessions.POST("/:sessionId/pointer", handlers.Editor.HandlePointer)
	sessions.POST("/:sessionId/click", handlers.Editor.HandleClickCanvas)
	sessions.POST("/:sessionId/items", handlers.Editor.HandleAddItem)
	sessions.DELETE("/:sessionId/items/active", handlers.Editor.HandleDeleteActive)
	sessions.PATCH("/:sessionId/items/active", handlers.Editor.HandleUpdateActive)
	sessions.POST("/:sessionId/items/active/rotate", handlers.Editor.HandleRotateActive)
	sessions.POST("/:sessionId/save", handlers.Editor.HandleSave)
	sessions.POST("/:sessionId/cancel", handlers.Editor.HandleCancel)
	sessions.POST("/:sessionId/keepalive", handlers.Editor.HandleSessionKeepAlive)
	sessions.GET("/:sessionId/geojson", handlers.Editor.HandleGetGeoJSON)
	sessions.GET("/:sessionId/scene", handlers.Editor.HandleGetScene)
	sessions.GET("/:sessionId/ws", handlers.Socket.HandleWebSocket)

	// Saved layout history
	layouts := apiGroup.Group("/layouts")
	layouts.GET("/:layoutId/revisions", handlers.Revisions.HandleListRevisions)
	layouts.GET("/revisions/:revisionId", handlers.Revisions.HandleGetRevision)
}

// SetupMiddleware configures common middleware from the loaded config
func SetupMiddleware(e *echo.Echo, cfg *config.AppConfig) {
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging if disabled in config
			if !cfg.Advanced.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return strings.HasSuffix(path, "/keepalive") ||
				strings.HasSuffix(path, "/pointer") ||
				path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize:         1024 * 4,
		DisablePrintStack: false,
		LogLevel:          0,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: time.Duration(cfg.Advanced.RequestTimeoutSeconds) * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/ws")
		},
		ErrorMessage: "Request timeout",
	}))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasSuffix(c.Request().URL.Path, "/ws")
		},
	}))

	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:  origins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			ExposeHeaders: []string{HeaderRevisionID},
		}))
	}

	if cfg.Security.RequireAuth && cfg.Security.AuthToken != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Skipper: func(c echo.Context) bool {
				return c.Request().URL.Path == "/api/health"
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.Security.AuthToken, nil
			},
		}))
	}
}
