package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gyaan-apps/portal/api"
	"github.com/gyaan-apps/portal/storage/model"
)

// registerUsers wires handlers using a UsersStore abstraction.
func registerUsers(r fiber.Router, users model.UsersStore) {
	g := r.Group("/users")

	g.Get(
		"/", func(c *fiber.Ctx) error {
			list, err := users.List()
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.JSON(list)
		},
	)

	type createReq struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	g.Post(
		"/", func(c *fiber.Ctx) error {
			var req createReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(api.ErrorInvalidRequest("invalid body"))
			}
			if req.Username == "" || req.Password == "" || req.Email == "" {
				return c.Status(fiber.StatusBadRequest).JSON(
					api.ErrorInvalidRequest("username, password and email are required"),
				)
			}
			u, err := users.Create(req.Username, req.Password, req.Email)
			if err != nil {
				if _, ok := err.(model.AlreadyExistsError); ok {
					return c.Status(fiber.StatusConflict).JSON(api.ErrorInvalidRequest(err.Error()))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.Status(fiber.StatusCreated).JSON(u)
		},
	)

	type updateReq struct {
		Email    *string     `json:"email"`
		Password *string     `json:"password"`
		Role     *model.Role `json:"role"`
	}
	g.Put(
		"/:username", func(c *fiber.Ctx) error {
			username := c.Params("username")
			var req updateReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(api.ErrorInvalidRequest("invalid body"))
			}
			u, err := users.Update(username, req.Email, req.Password, req.Role)
			if err != nil {
				if _, ok := err.(model.NotFoundError); ok {
					return c.Status(fiber.StatusNotFound).JSON(api.ErrorNotFound("user not found"))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.JSON(u)
		},
	)

	g.Get(
		"/:username", func(c *fiber.Ctx) error {
			username := c.Params("username")
			u, err := users.Get(username)
			if err != nil {
				if _, ok := err.(model.NotFoundError); ok {
					return c.Status(fiber.StatusNotFound).JSON(api.ErrorNotFound("user not found"))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.JSON(u)
		},
	)

	g.Delete(
		"/:username", func(c *fiber.Ctx) error {
			username := c.Params("username")
			if err := users.Delete(username); err != nil {
				if _, ok := err.(model.NotFoundError); ok {
					return c.Status(fiber.StatusNotFound).JSON(api.ErrorNotFound("user not found"))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			return c.SendStatus(fiber.StatusNoContent)
		},
	)
}
