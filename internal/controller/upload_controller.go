package controller

import (
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUploadController interface {
	RegisterRoutes(r fiber.Router)
	UploadImage(ctx *fiber.Ctx) error
	UploadImages(ctx *fiber.Ctx) error
}

type uploadController struct {
	uploadService service.IUploadService
	auth          fiber.Handler
}

func NewUploadController(uploadService service.IUploadService, auth fiber.Handler) IUploadController {
	return &uploadController{
		uploadService: uploadService,
		auth:          auth,
	}
}

func (c *uploadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/upload/v1", c.auth)
	h.Post("image", c.UploadImage)
	h.Post("images", c.UploadImages)
}

// UploadImage stores the "file" form field.
func (c *uploadController) UploadImage(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return service.ErrNoFiles
	}
	file, err := readUpload(fh)
	if err != nil {
		return err
	}

	res, err := c.uploadService.Upload(ctx.UserContext(), file)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success upload image", res))
}

// UploadImages stores every "files" form field; nothing is stored if any
// file is rejected.
func (c *uploadController) UploadImages(ctx *fiber.Ctx) error {
	files, err := formFiles(ctx, "files")
	if err != nil {
		return err
	}

	res, err := c.uploadService.UploadBatch(ctx.UserContext(), files)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success upload images", res))
}
