package service

import (
	"net/http"

	"bistro-cms-be/internal/pkg/serverutils"
)

var (
	ErrPostNotFound       = serverutils.NewAppError(http.StatusNotFound, "post not found")
	ErrSlugTaken          = serverutils.NewAppError(http.StatusConflict, "slug already in use")
	ErrInvalidDocument    = serverutils.NewAppError(http.StatusBadRequest, "invalid editor document")
	ErrUnsupportedLocale  = serverutils.NewAppError(http.StatusBadRequest, "unsupported locale")
	ErrMenuItemNotFound   = serverutils.NewAppError(http.StatusNotFound, "menu item not found")
	ErrSlideNotFound      = serverutils.NewAppError(http.StatusNotFound, "slide not found")
	ErrReorderMismatch    = serverutils.NewAppError(http.StatusBadRequest, "reorder ids must list every item exactly once")
	ErrSessionNotFound    = serverutils.NewAppError(http.StatusNotFound, "editor session not found")
	ErrInvalidCredentials = serverutils.NewAppError(http.StatusUnauthorized, "invalid email or password")
	ErrEmailTaken         = serverutils.NewAppError(http.StatusConflict, "email already registered")
	ErrFileTooLarge       = serverutils.NewAppError(http.StatusRequestEntityTooLarge, "file too large")
	ErrNotAnImage         = serverutils.NewAppError(http.StatusUnsupportedMediaType, "file is not an image")
	ErrNoFiles            = serverutils.NewAppError(http.StatusBadRequest, "no files uploaded")
)
