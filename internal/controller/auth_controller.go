// FILE: internal/controller/auth_controller.go
package controller

import (
	"bistro-cms-be/internal/dto"
	"bistro-cms-be/internal/pkg/serverutils"
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	CreateAdmin(ctx *fiber.Ctx) error
}

type authController struct {
	service   service.IAuthService
	auth      fiber.Handler
	adminOnly fiber.Handler
}

func NewAuthController(service service.IAuthService, auth, adminOnly fiber.Handler) IAuthController {
	return &authController{service: service, auth: auth, adminOnly: adminOnly}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth/v1")
	h.Post("/login", c.Login)
	h.Get("/me", c.auth, c.Me)
	h.Post("/admins", c.adminOnly, c.CreateAdmin)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Login successful", res))
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Me(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

func (c *authController) CreateAdmin(ctx *fiber.Ctx) error {
	var req dto.CreateAdminRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateAdmin(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create admin", res))
}
