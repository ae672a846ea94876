package controller

import (
	"bistro-cms-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISitemapController interface {
	RegisterRoutes(r fiber.Router)
	Sitemap(ctx *fiber.Ctx) error
	Robots(ctx *fiber.Ctx) error
}

type sitemapController struct {
	sitemapService service.ISitemapService
}

func NewSitemapController(sitemapService service.ISitemapService) ISitemapController {
	return &sitemapController{sitemapService: sitemapService}
}

// RegisterRoutes mounts at the site root, outside /api.
func (c *sitemapController) RegisterRoutes(r fiber.Router) {
	r.Get("/sitemap.xml", c.Sitemap)
	r.Get("/robots.txt", c.Robots)
}

func (c *sitemapController) Sitemap(ctx *fiber.Ctx) error {
	body, err := c.sitemapService.Sitemap(ctx.UserContext())
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	ctx.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return ctx.Send(body)
}

func (c *sitemapController) Robots(ctx *fiber.Ctx) error {
	ctx.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return ctx.SendString(c.sitemapService.Robots())
}
