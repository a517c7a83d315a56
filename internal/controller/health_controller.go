package controller

import (
	"ai-docchat/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type HealthController struct{}

func (HealthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{"status": "up"}))
	})
}
