package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/tany002/bhkinterior.com/internal/editor"
	"github.com/tany002/bhkinterior.com/internal/session"
)

// WebSocket message types for the gesture stream
const (
	// Client -> Server messages
	MsgTypePointerDown  = "pointer:down"
	MsgTypePointerMove  = "pointer:move"
	MsgTypePointerUp    = "pointer:up"
	MsgTypePointerLeave = "pointer:leave"
	MsgTypeCanvasClick  = "canvas:click"
	MsgTypePing         = "ping"

	// Server -> Client messages
	MsgTypeState = "state"
	MsgTypeError = "error"
	MsgTypePong  = "pong"
)

// WSMessage is the envelope for every frame in both directions
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// PointerPayload carries the position of a pointer:* message
type PointerPayload struct {
	Target editor.PointerTarget `json:"target,omitempty"`
	Index  *int                 `json:"index,omitempty"`
	X      float64              `json:"x"`
	Y      float64              `json:"y"`
}

// WebSocket error response
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var pointerMessageTypes = map[string]editor.PointerEventType{
	MsgTypePointerDown:  editor.EventDown,
	MsgTypePointerMove:  editor.EventMove,
	MsgTypePointerUp:    editor.EventUp,
	MsgTypePointerLeave: editor.EventLeave,
}

// WebSocketHandler streams pointer gestures into one editor session.
// Messages on a connection are applied in arrival order.
type WebSocketHandler struct {
	sessionMgr SessionManager
	upgrader   websocket.Upgrader
	readLimit  int64
}

// NewWebSocketHandler creates a gesture stream handler. maxMessageKB caps
// a single client frame; zero means 64KB.
func NewWebSocketHandler(sessionMgr SessionManager, maxMessageKB int) *WebSocketHandler {
	if maxMessageKB <= 0 {
		maxMessageKB = 64
	}
	return &WebSocketHandler{
		sessionMgr: sessionMgr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		readLimit: int64(maxMessageKB) * 1024,
	}
}

// HandleWebSocket upgrades the connection and runs the gesture loop
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	id, err := sessionParam(c)
	if err != nil {
		return err
	}
	if _, ok := wsh.sessionMgr.Get(id); !ok {
		return NewNotFoundError("session", id)
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(wsh.readLimit)

	fmt.Printf("[WebSocket] Client connected to session %s\n", shortSessionID(id))

	// Initial state so the client can render before its first gesture
	st, err := wsh.sessionMgr.State(id)
	if err != nil {
		wsh.sendDomainError(ws, "", err, id)
		return nil
	}
	wsh.sendMessage(ws, WSMessage{Type: MsgTypeState, Payload: mustJSON(st), Timestamp: time.Now().UnixMilli()})

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		if !wsh.handleMessage(ws, id, msg) {
			break
		}
	}

	fmt.Printf("[WebSocket] Client disconnected from session %s\n", shortSessionID(id))
	return nil
}

// handleMessage applies one client message. It returns false once the
// session is gone and the connection should close.
func (wsh *WebSocketHandler) handleMessage(ws *websocket.Conn, id string, msg WSMessage) bool {
	var op func(*editor.Editor) error

	switch msg.Type {
	case MsgTypePing:
		wsh.sessionMgr.Touch(id)
		wsh.sendMessage(ws, WSMessage{Type: MsgTypePong, ID: msg.ID, Timestamp: time.Now().UnixMilli()})
		return true

	case MsgTypeCanvasClick:
		op = func(ed *editor.Editor) error { return ed.ClickCanvas() }

	case MsgTypePointerDown, MsgTypePointerMove, MsgTypePointerUp, MsgTypePointerLeave:
		var payload PointerPayload
		if len(msg.Payload) > 0 {
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				wsh.sendError(ws, msg.ID, "Invalid pointer payload: "+err.Error(), "INVALID_PAYLOAD")
				return true
			}
		}
		ev := editor.PointerEvent{
			Type:   pointerMessageTypes[msg.Type],
			Target: payload.Target,
			Index:  payload.Index,
			X:      payload.X,
			Y:      payload.Y,
		}
		op = func(ed *editor.Editor) error { return ed.HandlePointer(ev) }

	default:
		wsh.sendError(ws, msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		return true
	}

	// A rejected operation is answered with the error, then the state it
	// left behind.
	st, err := wsh.sessionMgr.Apply(id, op)
	if err != nil {
		wsh.sendDomainError(ws, msg.ID, err, id)
		if errors.Is(err, session.ErrSessionNotFound) {
			return false
		}
	}
	wsh.sendMessage(ws, WSMessage{Type: MsgTypeState, ID: msg.ID, Payload: mustJSON(st), Timestamp: time.Now().UnixMilli()})
	return true
}

func (wsh *WebSocketHandler) sendMessage(ws *websocket.Conn, msg WSMessage) {
	if err := ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] Failed to send message: %v\n", err)
	}
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, replyTo, message, code string) {
	wsh.sendMessage(ws, WSMessage{
		Type:      MsgTypeError,
		ID:        replyTo,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSErrorResponse{
			Type:    MsgTypeError,
			Message: message,
			Code:    code,
		}),
	})
}

func (wsh *WebSocketHandler) sendDomainError(ws *websocket.Conn, replyTo string, err error, id string) {
	apiErr := fromDomainError(err, id)
	msg := apiErr.Message
	if apiErr.Details != "" {
		msg += ": " + apiErr.Details
	}
	wsh.sendError(ws, replyTo, msg, apiErr.Code)
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}

func shortSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
