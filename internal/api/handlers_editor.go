// handlers_editor.go - Editor session operation handlers
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/tany002/bhkinterior.com/internal/editor"
	"github.com/tany002/bhkinterior.com/internal/layout"
	"github.com/tany002/bhkinterior.com/internal/models"
	"github.com/tany002/bhkinterior.com/internal/session"
	"github.com/vmihailenco/msgpack/v5"
)

// HeaderRevisionID carries the id of the revision written by a save
const HeaderRevisionID = "X-Revision-ID"

// EditorHandlerImpl implements the EditorHandler interface
type EditorHandlerImpl struct {
	sessionMgr SessionManager
}

// NewEditorHandler creates a new editor handler instance
func NewEditorHandler(sessionMgr SessionManager) EditorHandler {
	return &EditorHandlerImpl{sessionMgr: sessionMgr}
}

// HandleOpenSession starts an editing session on a proposed layout
func (h *EditorHandlerImpl) HandleOpenSession(c echo.Context) error {
	var req openSessionRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	info, err := h.sessionMgr.Open(*req.Layout, strings.TrimSpace(req.RoomType), req.BackgroundImage)
	if err != nil {
		return fromDomainError(err, "")
	}

	st, err := h.sessionMgr.State(info.ID)
	if err != nil {
		return fromDomainError(err, info.ID)
	}
	return c.JSON(http.StatusCreated, st)
}

// HandleGetSession returns the render state of a session
func (h *EditorHandlerImpl) HandleGetSession(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	st, err := h.sessionMgr.State(id)
	if err != nil {
		return fromDomainError(err, id)
	}
	return c.JSON(http.StatusOK, st)
}

// HandleGetStateMsgpack returns the render state in MessagePack format
func (h *EditorHandlerImpl) HandleGetStateMsgpack(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	st, err := h.sessionMgr.State(id)
	if err != nil {
		return fromDomainError(err, id)
	}

	data, err := msgpack.Marshal(st)
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}
	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandlePointer applies one pointer event
func (h *EditorHandlerImpl) HandlePointer(c echo.Context) error {
	var ev editor.PointerEvent
	if err := c.Bind(&ev); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if ev.Type == "" {
		return NewValidationError("type")
	}

	return h.apply(c, func(ed *editor.Editor) error {
		return ed.HandlePointer(ev)
	})
}

// HandleClickCanvas handles a click on empty canvas
func (h *EditorHandlerImpl) HandleClickCanvas(c echo.Context) error {
	return h.apply(c, func(ed *editor.Editor) error {
		return ed.ClickCanvas()
	})
}

// HandleAddItem inserts a catalog template at the canvas centre
func (h *EditorHandlerImpl) HandleAddItem(c echo.Context) error {
	var req addItemRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	return h.apply(c, func(ed *editor.Editor) error {
		_, err := ed.AddByLabel(strings.TrimSpace(req.Label))
		return err
	})
}

// HandleDeleteActive removes the selected placement
func (h *EditorHandlerImpl) HandleDeleteActive(c echo.Context) error {
	return h.apply(c, func(ed *editor.Editor) error {
		return ed.DeleteActive()
	})
}

// HandleUpdateActive applies inspector edits to the selected placement.
// The edit is all or nothing: one invalid field rejects the request.
func (h *EditorHandlerImpl) HandleUpdateActive(c echo.Context) error {
	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	return h.apply(c, func(ed *editor.Editor) error {
		return ed.UpdateActive(editor.InspectorEdit{
			WidthM:      req.WidthM,
			DepthM:      req.DepthM,
			RotationDeg: req.RotationDeg,
		})
	})
}

// HandleRotateActive turns the selected placement a further 90 degrees
func (h *EditorHandlerImpl) HandleRotateActive(c echo.Context) error {
	return h.apply(c, func(ed *editor.Editor) error {
		return ed.BumpRotation()
	})
}

// HandleSave ends the session, returning the saved layout
func (h *EditorHandlerImpl) HandleSave(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	saved, rev, err := h.sessionMgr.Save(id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, editor.ErrClosed) {
			return fromDomainError(err, id)
		}
		return NewInternalError("layout saved but revision could not be stored", err)
	}

	if rev != nil {
		c.Response().Header().Set(HeaderRevisionID, rev.ID)
	}
	return c.JSON(http.StatusOK, saved)
}

// HandleCancel ends the session, discarding the working copy
func (h *EditorHandlerImpl) HandleCancel(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	if err := h.sessionMgr.Cancel(id); err != nil {
		return fromDomainError(err, id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSessionKeepAlive extends session lifetime for active editing
func (h *EditorHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	if !h.sessionMgr.Touch(id) {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HandleGetGeoJSON exports the working placements as footprint polygons
func (h *EditorHandlerImpl) HandleGetGeoJSON(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	var body []byte
	err = h.sessionMgr.Do(id, func(ed *editor.Editor) error {
		if ed.Closed() {
			return editor.ErrClosed
		}
		fc := layout.ToGeoJSON(ed.Placements(), ed.Canvas().CollisionMargin)
		var encErr error
		body, encErr = fc.MarshalJSON()
		return encErr
	})
	if err != nil {
		return fromDomainError(err, id)
	}
	return c.Blob(http.StatusOK, "application/geo+json", body)
}

// HandleGetScene exports the working placements as 3D blocks
func (h *EditorHandlerImpl) HandleGetScene(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	var scene models.SceneLayout
	err = h.sessionMgr.Do(id, func(ed *editor.Editor) error {
		if ed.Closed() {
			return editor.ErrClosed
		}
		scene = layout.ToScene(ed.Placements(), ed.Canvas())
		return nil
	})
	if err != nil {
		return fromDomainError(err, id)
	}
	return c.JSON(http.StatusOK, scene)
}

// apply runs fn on the session named by the path and responds with the
// resulting state.
func (h *EditorHandlerImpl) apply(c echo.Context, fn func(*editor.Editor) error) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}

	st, err := h.sessionMgr.Apply(id, fn)
	if err != nil {
		return fromDomainError(err, id)
	}
	return c.JSON(http.StatusOK, st)
}

func sessionParam(c echo.Context) (string, error) {
	id := c.Param("sessionId")
	if id == "" {
		return "", NewValidationError("sessionId")
	}
	return id, nil
}

// Request types

type openSessionRequest struct {
	Layout          *models.LayoutProposal `json:"layout"`
	RoomType        string                 `json:"roomType"`
	BackgroundImage *string                `json:"backgroundImage"`
}

func (r *openSessionRequest) validate() error {
	if r.Layout == nil {
		return NewValidationError("layout")
	}
	if strings.TrimSpace(r.RoomType) == "" {
		return NewValidationError("roomType")
	}
	for _, p := range r.Layout.Placements {
		if p.WidthM <= 0 || p.DepthM <= 0 {
			return NewValidationError("layout.placements")
		}
	}
	return nil
}

type addItemRequest struct {
	Label string `json:"label"`
}

func (r *addItemRequest) validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return NewValidationError("label")
	}
	return nil
}

type updateItemRequest struct {
	WidthM      *float64 `json:"widthM"`
	DepthM      *float64 `json:"depthM"`
	RotationDeg *float64 `json:"rotationDeg"`
}

func (r *updateItemRequest) validate() error {
	if r.WidthM == nil && r.DepthM == nil && r.RotationDeg == nil {
		return NewValidationError("widthM, depthM or rotationDeg")
	}
	return nil
}
