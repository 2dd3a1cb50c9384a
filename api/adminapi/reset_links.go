package adminapi

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/gyaan-apps/portal/api"
	"github.com/gyaan-apps/portal/storage/model"
)

// registerResetLinks wires the handler that mints password reset links for
// existing users. The link carries a single-use token and is handed to the
// user out of band.
func registerResetLinks(r fiber.Router, storages model.Backends, portalURL string) {
	type resetReq struct {
		Username string `json:"username"`
	}
	type resetResp struct {
		Username string `json:"username"`
		Token    string `json:"token"`
		URL      string `json:"url"`
	}
	r.Post(
		"/reset-links", func(c *fiber.Ctx) error {
			var req resetReq
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(api.ErrorInvalidRequest("invalid body"))
			}
			if req.Username == "" {
				return c.Status(fiber.StatusBadRequest).JSON(api.ErrorInvalidRequest("username is required"))
			}
			user, err := storages.Users.GetByUsernameOrEmail(req.Username)
			if err != nil {
				if _, ok := err.(model.NotFoundError); ok {
					return c.Status(fiber.StatusNotFound).JSON(api.ErrorNotFound("user not found"))
				}
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			token, err := storages.ResetTokens.Generate(user.Username)
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(api.ErrorServerError(err.Error()))
			}
			link, _ := url.JoinPath(portalURL, "reset")
			return c.Status(fiber.StatusCreated).JSON(
				resetResp{
					Username: user.Username,
					Token:    token,
					URL:      link + "?token=" + url.QueryEscape(token),
				},
			)
		},
	)
}
