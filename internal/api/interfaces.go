// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/tany002/bhkinterior.com/internal/editor"
	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// CatalogHandler serves the furniture palette
type CatalogHandler interface {
	HandleGetCatalog(c echo.Context) error
}

// EditorHandler handles editor session operations
type EditorHandler interface {
	HandleOpenSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleGetStateMsgpack(c echo.Context) error
	HandlePointer(c echo.Context) error
	HandleClickCanvas(c echo.Context) error
	HandleAddItem(c echo.Context) error
	HandleDeleteActive(c echo.Context) error
	HandleUpdateActive(c echo.Context) error
	HandleRotateActive(c echo.Context) error
	HandleSave(c echo.Context) error
	HandleCancel(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleGetGeoJSON(c echo.Context) error
	HandleGetScene(c echo.Context) error
}

// RevisionHandler handles saved layout history
type RevisionHandler interface {
	HandleListRevisions(c echo.Context) error
	HandleGetRevision(c echo.Context) error
}

// SocketHandler streams pointer gestures over WebSocket
type SocketHandler interface {
	HandleWebSocket(c echo.Context) error
}

// SessionManager defines the interface for session management
// This allows mocking in tests
type SessionManager interface {
	Open(l models.LayoutProposal, roomType string, backgroundImage *string) (*models.SessionInfo, error)
	Get(id string) (*models.SessionInfo, bool)
	Do(id string, fn func(*editor.Editor) error) error
	Apply(id string, fn func(*editor.Editor) error) (models.EditorState, error)
	State(id string) (models.EditorState, error)
	Save(id string) (models.LayoutProposal, *models.LayoutRevision, error)
	Cancel(id string) error
	Touch(id string) bool
	Count() int
	Catalog() *layout.Catalog
}
