// handlers_catalog.go - Furniture palette handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tany002/bhkinterior.com/internal/models"
)

// CatalogHandlerImpl implements the CatalogHandler interface
type CatalogHandlerImpl struct {
	sessionMgr SessionManager
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(sessionMgr SessionManager) CatalogHandler {
	return &CatalogHandlerImpl{sessionMgr: sessionMgr}
}

type catalogResponse struct {
	Templates []models.FurnitureTemplate `json:"templates"`
}

// HandleGetCatalog returns the templates offered for inserts
func (h *CatalogHandlerImpl) HandleGetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, catalogResponse{
		Templates: h.sessionMgr.Catalog().Templates(),
	})
}
