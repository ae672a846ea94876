package handler

import (
	"context"
	"encoding/json"

	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/logger"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"
	internalWS "bistro-cms-be/internal/websocket"
	"bistro-cms-be/pkg/editor"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// NotificationHandler serves the editor session socket and the activity log.
type NotificationHandler struct {
	notification service.INotificationService
	editor       service.IEditorService
	hub          *internalWS.Hub
	jwtSecret    string
	adminOnly    fiber.Handler
	logger       logger.ILogger
}

func NewNotificationHandler(
	notification service.INotificationService,
	editorService service.IEditorService,
	hub *internalWS.Hub,
	jwtSecret string,
	adminOnly fiber.Handler,
	log logger.ILogger,
) *NotificationHandler {
	return &NotificationHandler{
		notification: notification,
		editor:       editorService,
		hub:          hub,
		jwtSecret:    jwtSecret,
		adminOnly:    adminOnly,
		logger:       log,
	}
}

// ServeWs streams an editor session. Browsers pass the token as ?token=
// since they cannot set headers on the handshake.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	sessionId, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return serverutils.BadRequest("invalid session id")
	}

	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}
	userID, _, err := serverutils.ParseToken(h.jwtSecret, tokenStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"session_id": sessionId.String()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if _, err := h.editor.Get(c.UserContext(), sessionId); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("NotificationHandler", "Editor socket opened", map[string]interface{}{
			"session_id": sessionId.String(),
			"user_id":    userID.String(),
		})
		internalWS.ServeWs(h.hub, conn, sessionId.String(), userID, func(client *internalWS.Client, data []byte) {
			if reply := h.handleFrame(context.Background(), sessionId, data); reply != nil {
				if b, err := json.Marshal(reply); err == nil {
					client.Reply(b)
				}
			}
		})
		h.logger.Info("NotificationHandler", "Editor socket closed", map[string]interface{}{"session_id": sessionId.String()})
	})(c)
}

// handleFrame runs one socket message against the session. Committed changes
// reach every socket through the session listener, so only saves and errors
// get a direct reply.
func (h *NotificationHandler) handleFrame(ctx context.Context, sessionId uuid.UUID, data []byte) *dto.EditorEvent {
	var msg dto.EditorSocketMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return errorEvent("malformed message")
	}

	var err error
	switch msg.Action {
	case "dispatch":
		if msg.Command == nil || msg.Command.Name == "" {
			return errorEvent("command is required")
		}
		_, err = h.editor.Dispatch(ctx, sessionId, *msg.Command)
	case "undo":
		_, err = h.editor.Undo(ctx, sessionId)
	case "redo":
		_, err = h.editor.Redo(ctx, sessionId)
	case "save":
		var res *dto.EditorSessionResponse
		res, err = h.editor.Save(ctx, sessionId)
		if err == nil {
			return &dto.EditorEvent{Type: "saved", Version: res.Snapshot.Version, Snapshot: &res.Snapshot}
		}
	default:
		return errorEvent("unknown action " + msg.Action)
	}

	if err != nil {
		return errorEvent(err.Error())
	}
	return nil
}

func errorEvent(message string) *dto.EditorEvent {
	return &dto.EditorEvent{
		Type:         "error",
		Notification: &editor.Notification{Level: editor.LevelError, Message: message},
	}
}

// ListActivity returns recorded bus events, newest first.
func (h *NotificationHandler) ListActivity(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	res, err := h.notification.ListActivity(c.UserContext(), c.Query("type"), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Success list activity", res))
}

// RegisterRoutes must run before the editor controller so the socket route
// authenticates with its own token check.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/editor/v1/sessions/:id/ws", h.ServeWs)
	router.Get("/activity/v1", h.adminOnly, h.ListActivity)
}
