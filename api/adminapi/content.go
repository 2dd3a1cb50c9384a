package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gyaan-apps/portal/api"
	"github.com/gyaan-apps/portal/storage/model"
)

// registerContent wires handlers for the FAQ/About content shown on the
// portal page.
func registerContent(r fiber.Router, content model.ContentStore) {
	g := r.Group("/content")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			current, err := content.Get()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.JSON(current)
		},
	)

	g.Put(
		"/", func(c *fiber.Ctx) error {
			var req model.Content
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(api.ErrorInvalidRequest("invalid body"))
			}
			if err := content.Set(req); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.JSON(req)
		},
	)
}
