package controller

import (
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"
	"bistro-cms-be/pkg/editor"

	"github.com/gofiber/fiber/v2"
)

type IEditorController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Dispatch(ctx *fiber.Ctx) error
	Undo(ctx *fiber.Ctx) error
	Redo(ctx *fiber.Ctx) error
	UploadImages(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type editorController struct {
	editorService service.IEditorService
	auth          fiber.Handler
}

func NewEditorController(editorService service.IEditorService, auth fiber.Handler) IEditorController {
	return &editorController{
		editorService: editorService,
		auth:          auth,
	}
}

func (c *editorController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/editor/v1", c.auth)
	h.Post("sessions", c.Open)
	h.Get("sessions/:id", c.Show)
	h.Post("sessions/:id/commands", c.Dispatch)
	h.Post("sessions/:id/undo", c.Undo)
	h.Post("sessions/:id/redo", c.Redo)
	h.Post("sessions/:id/images", c.UploadImages)
	h.Post("sessions/:id/save", c.Save)
	h.Delete("sessions/:id", c.Close)
}

func (c *editorController) Open(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.OpenEditorSessionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.editorService.Open(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success open editor session", res))
}

func (c *editorController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.editorService.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show editor session", res))
}

func (c *editorController) Dispatch(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var cmd editor.Command
	if err := parseBody(ctx, &cmd); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(cmd); err != nil {
		return err
	}

	res, err := c.editorService.Dispatch(ctx.UserContext(), id, cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success apply command", res))
}

func (c *editorController) Undo(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.editorService.Undo(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success undo", res))
}

func (c *editorController) Redo(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.editorService.Redo(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success redo", res))
}

func (c *editorController) UploadImages(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	files, err := formFiles(ctx, "files")
	if err != nil {
		return err
	}

	res, err := c.editorService.UploadImages(ctx.UserContext(), id, files)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success insert images", res))
}

func (c *editorController) Save(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.editorService.Save(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save document", res))
}

func (c *editorController) Close(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.editorService.Close(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success close editor session", nil))
}
