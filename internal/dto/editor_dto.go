package dto

import (
	"time"

	"bistro-cms-be/pkg/editor"

	"github.com/google/uuid"
)

type OpenEditorSessionRequest struct {
	PostId uuid.UUID `json:"post_id" validate:"required"`
	Locale string    `json:"locale" validate:"required"`
}

type EditorSessionResponse struct {
	SessionId uuid.UUID       `json:"session_id"`
	PostId    uuid.UUID       `json:"post_id"`
	Locale    string          `json:"locale"`
	OpenedAt  time.Time       `json:"opened_at"`
	Snapshot  editor.Snapshot `json:"snapshot"`
}

type UploadImagesResponse struct {
	Inserted int             `json:"inserted"`
	Failed   int             `json:"failed"`
	Snapshot editor.Snapshot `json:"snapshot"`
}

// EditorEvent is what the editor WebSocket topic carries.
type EditorEvent struct {
	Type         string               `json:"type"` // "change" | "notification" | "saved" | "closed" | "error"
	Reason       string               `json:"reason,omitempty"`
	Version      uint64               `json:"version,omitempty"`
	Snapshot     *editor.Snapshot     `json:"snapshot,omitempty"`
	Notification *editor.Notification `json:"notification,omitempty"`
}

// EditorSocketMessage is a frame sent by the browser over the editor socket.
type EditorSocketMessage struct {
	Action  string          `json:"action"` // "dispatch" | "undo" | "redo" | "save"
	Command *editor.Command `json:"command,omitempty"`
}
