// Package adminapi provides the JSON management API for the portal: user
// administration, FAQ/About content and reset link issuance. All routes
// require HTTP Basic authentication once at least one user exists.
package adminapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gyaan-apps/portal/storage/model"
)

// Register mounts all admin API routes under the provided group. portalURL
// is the externally reachable base URL of the portal, used to build reset
// links.
func Register(r fiber.Router, storages model.Backends, portalURL string) {
	r.Use(authMiddleware(storages.Users))

	registerUsers(r, storages.Users)
	registerContent(r, storages.Content)
	registerResetLinks(r, storages, portalURL)
}
