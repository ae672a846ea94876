package controller

import (
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMenuController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Reorder(ctx *fiber.Ctx) error
	PublicList(ctx *fiber.Ctx) error
}

type menuController struct {
	menuService service.IMenuService
	auth        fiber.Handler
}

func NewMenuController(menuService service.IMenuService, auth fiber.Handler) IMenuController {
	return &menuController{
		menuService: menuService,
		auth:        auth,
	}
}

func (c *menuController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/menu/v1", c.auth)
	h.Get("items", c.List)
	h.Post("items", c.Create)
	h.Put("items/reorder", c.Reorder)
	h.Put("items/:id", c.Update)
	h.Delete("items/:id", c.Delete)

	r.Get("/public/v1/menu", c.PublicList)
}

func (c *menuController) Create(ctx *fiber.Ctx) error {
	var req dto.MenuItemRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.menuService.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create menu item", res))
}

func (c *menuController) Update(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.MenuItemRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	req.Id = id
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.menuService.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update menu item", res))
}

func (c *menuController) Delete(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.menuService.Delete(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete menu item", nil))
}

func (c *menuController) List(ctx *fiber.Ctx) error {
	res, err := c.menuService.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list menu items", res))
}

func (c *menuController) Reorder(ctx *fiber.Ctx) error {
	var req dto.ReorderRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.menuService.Reorder(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success reorder menu items", nil))
}

func (c *menuController) PublicList(ctx *fiber.Ctx) error {
	res, err := c.menuService.ListActive(ctx.UserContext(), ctx.Query("locale"), ctx.Query("category"))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=60")
	return ctx.JSON(serverutils.SuccessResponse("Success list menu", res))
}
