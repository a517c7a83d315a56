package controller

import (
	"io"

	"ai-docchat/internal/dto"
	"ai-docchat/internal/pkg/serverutils"
	"ai-docchat/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Post("/upload", c.Upload)
	r.Post("/ask", c.Ask)
}

// Upload accepts a multipart "file" field. The response is returned unwrapped,
// {message, filename, id, chunks}, which is what the client reads.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return serverutils.BadRequest("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Unable to read uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Unable to read uploaded file", err)
	}

	res, err := c.service.Upload(ctx.UserContext(), fileHeader.Filename, data)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *documentController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Ask(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
