package controller

import (
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/entity"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBlogController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	SaveContent(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Publish(ctx *fiber.Ctx) error
	Unpublish(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	PublicList(ctx *fiber.Ctx) error
	Render(ctx *fiber.Ctx) error
	ExportMarkdown(ctx *fiber.Ctx) error
}

type blogController struct {
	blogService service.IBlogService
	auth        fiber.Handler
}

func NewBlogController(blogService service.IBlogService, auth fiber.Handler) IBlogController {
	return &blogController{
		blogService: blogService,
		auth:        auth,
	}
}

func (c *blogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/blog/v1", c.auth)
	h.Post("posts/preview", c.Preview)
	h.Post("posts", c.Create)
	h.Get("posts", c.List)
	h.Get("posts/:id", c.Show)
	h.Put("posts/:id", c.Update)
	h.Put("posts/:id/content/:locale", c.SaveContent)
	h.Post("posts/:id/publish", c.Publish)
	h.Post("posts/:id/unpublish", c.Unpublish)
	h.Delete("posts/:id", c.Delete)

	p := r.Group("/public/v1")
	p.Get("posts", c.PublicList)
	p.Get("posts/:slug", c.Render)
	p.Get("posts/:slug/markdown", c.ExportMarkdown)
}

func (c *blogController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	var req dto.CreatePostRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.blogService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create post", res))
}

func (c *blogController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdatePostRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.blogService.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update post", res))
}

func (c *blogController) SaveContent(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SaveContentRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	req.Locale = ctx.Params("locale")
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.blogService.SaveContent(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success save content", res))
}

func (c *blogController) Show(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.blogService.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show post", res))
}

func (c *blogController) List(ctx *fiber.Ctx) error {
	var req dto.ListPostsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("invalid query")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.blogService.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list posts", res))
}

func (c *blogController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.blogService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete post", nil))
}

func (c *blogController) Publish(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.blogService.Publish(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success publish post", nil))
}

func (c *blogController) Unpublish(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.blogService.Unpublish(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success unpublish post", nil))
}

func (c *blogController) Preview(ctx *fiber.Ctx) error {
	var req dto.PreviewRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.blogService.Preview(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success preview post", res))
}

// PublicList only ever lists published posts.
func (c *blogController) PublicList(ctx *fiber.Ctx) error {
	var req dto.ListPostsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.BadRequest("invalid query")
	}
	req.Status = string(entity.PostStatusPublished)

	res, err := c.blogService.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list posts", res))
}

func (c *blogController) Render(ctx *fiber.Ctx) error {
	locale := ctx.Query("locale", entity.DefaultLocale)
	res, err := c.blogService.Render(ctx.UserContext(), ctx.Params("slug"), locale)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return ctx.JSON(serverutils.SuccessResponse("Success render post", res))
}

func (c *blogController) ExportMarkdown(ctx *fiber.Ctx) error {
	locale := ctx.Query("locale", entity.DefaultLocale)
	res, err := c.blogService.ExportMarkdown(ctx.UserContext(), ctx.Params("slug"), locale)
	if err != nil {
		return err
	}
	if ctx.Query("format") == "raw" {
		ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
		return ctx.SendString(res.Markdown)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success export post", res))
}
