package controller

import (
	"io"
	"mime/multipart"

	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/pkg/editor"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func paramID(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, serverutils.BadRequest("invalid " + name)
	}
	return id, nil
}

func parseBody(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		return serverutils.BadRequest("invalid request body")
	}
	return nil
}

func readUpload(fh *multipart.FileHeader) (editor.UploadFile, error) {
	f, err := fh.Open()
	if err != nil {
		return editor.UploadFile{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return editor.UploadFile{}, err
	}
	return editor.UploadFile{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formFiles reads every file sent under field.
func formFiles(ctx *fiber.Ctx, field string) ([]editor.UploadFile, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, serverutils.BadRequest("expected multipart form")
	}
	headers := form.File[field]
	files := make([]editor.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}
