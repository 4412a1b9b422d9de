// handlers_revisions.go - Saved layout history handlers
package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tany002/bhkinterior.com/internal/models"
	"github.com/tany002/bhkinterior.com/internal/storage"
)

const defaultRevisionLimit = 20

// RevisionHandlerImpl implements the RevisionHandler interface
type RevisionHandlerImpl struct {
	store storage.LayoutStore
}

// NewRevisionHandler creates a new revision handler
func NewRevisionHandler(store storage.LayoutStore) RevisionHandler {
	return &RevisionHandlerImpl{store: store}
}

type revisionListResponse struct {
	LayoutID  string                   `json:"layoutId"`
	Revisions []*models.LayoutRevision `json:"revisions"`
}

// HandleListRevisions returns saved revisions of a layout, newest first
func (h *RevisionHandlerImpl) HandleListRevisions(c echo.Context) error {
	layoutID := c.Param("layoutId")
	if layoutID == "" {
		return NewValidationError("layoutId")
	}

	limit := defaultRevisionLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return NewValidationError("limit")
		}
		limit = n
	}

	revs, err := h.store.ListRevisions(layoutID, limit)
	if err != nil {
		return NewInternalError("failed to list revisions", err)
	}
	return c.JSON(http.StatusOK, revisionListResponse{LayoutID: layoutID, Revisions: revs})
}

// HandleGetRevision returns one saved revision
func (h *RevisionHandlerImpl) HandleGetRevision(c echo.Context) error {
	id := c.Param("revisionId")
	if id == "" {
		return NewValidationError("revisionId")
	}

	rev, err := h.store.GetRevision(id)
	if err != nil {
		return fromDomainError(err, id)
	}
	return c.JSON(http.StatusOK, rev)
}
