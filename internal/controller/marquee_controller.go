package controller

import (
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMarqueeController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Reorder(ctx *fiber.Ctx) error
	PublicList(ctx *fiber.Ctx) error
}

type marqueeController struct {
	marqueeService service.IMarqueeService
	auth           fiber.Handler
}

func NewMarqueeController(marqueeService service.IMarqueeService, auth fiber.Handler) IMarqueeController {
	return &marqueeController{
		marqueeService: marqueeService,
		auth:           auth,
	}
}

func (c *marqueeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/marquee/v1", c.auth)
	h.Get("slides", c.List)
	h.Post("slides", c.Create)
	h.Put("slides/reorder", c.Reorder)
	h.Put("slides/:id", c.Update)
	h.Delete("slides/:id", c.Delete)

	r.Get("/public/v1/slides", c.PublicList)
}

func (c *marqueeController) Create(ctx *fiber.Ctx) error {
	var req dto.SlideRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.marqueeService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create slide", res))
}

func (c *marqueeController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SlideRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.marqueeService.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update slide", res))
}

func (c *marqueeController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.marqueeService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete slide", nil))
}

func (c *marqueeController) List(ctx *fiber.Ctx) error {
	res, err := c.marqueeService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list slides", res))
}

func (c *marqueeController) Reorder(ctx *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.marqueeService.Reorder(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reorder slides", nil))
}

func (c *marqueeController) PublicList(ctx *fiber.Ctx) error {
	res, err := c.marqueeService.ListActive(ctx.UserContext(), ctx.Query("locale"))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return ctx.JSON(serverutils.SuccessResponse("Success list slides", res))
}
